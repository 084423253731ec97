package ingest

import "testing"

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string // "" means nil
	}{
		{"20230615", "2023-06-15"},
		{"15/06/2023", "2023-06-15"},
		{"2023-06-15T00:00:00", "2023-06-15"},
		{"T2023-06-15T00:00:00", "2023-06-15"},
		{"2023-06-15", "2023-06-15"},
		{" 20230615 ", "2023-06-15"},
		{"", ""},
		{"June 15, 2023", ""},
		{"2023/06/15", ""},
		{"20231345", ""},
		{"Tuesday", ""},
		{"2023-6-15", ""},
	}

	for _, tt := range tests {
		got := NormalizeDate(tt.in)
		switch {
		case tt.want == "" && got != nil:
			t.Errorf("NormalizeDate(%q) = %q, want nil", tt.in, *got)
		case tt.want != "" && got == nil:
			t.Errorf("NormalizeDate(%q) = nil, want %q", tt.in, tt.want)
		case tt.want != "" && *got != tt.want:
			t.Errorf("NormalizeDate(%q) = %q, want %q", tt.in, *got, tt.want)
		}
	}
}
