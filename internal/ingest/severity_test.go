package ingest

import "testing"

func TestSeverityFromClassification(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"Class I", 1},
		{"Class II", 2},
		{"Class III", 3},
		{"class i", 1},
		{"", 2},
		{"Not Yet Classified", 2},
		{"Public Health Alert", 2},
		{"High - Class I", 1},
		{"Class I/II", 2},
	}
	for _, tt := range tests {
		if got := SeverityFromClassification(tt.code); got != tt.want {
			t.Errorf("SeverityFromClassification(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestConsequenceSeverity(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"Increasing the risk of a CRASH.", 1},
		{"increases the risk of fire", 1},
		{"could result in death", 1},
		{"The label may peel off.", 2},
		{"", 2},
	}
	for _, tt := range tests {
		if got := consequenceSeverity(tt.text); got != tt.want {
			t.Errorf("consequenceSeverity(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
