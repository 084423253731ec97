package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveStage(t *testing.T) {
	ObserveStage("normalize", time.Now().Add(-2*time.Second))

	got := testutil.ToFloat64(StageDuration.WithLabelValues("normalize"))
	if got < 2 {
		t.Errorf("stage duration = %v, want >= 2", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	SourceRecords.WithLabelValues("cpsc").Set(42)

	path := filepath.Join(t.TempDir(), "plainrecalls.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `plainrecalls_source_records{source="cpsc"} 42`) {
		t.Errorf("textfile missing source gauge:\n%s", b)
	}
}

func TestWriteTextfile_EmptyPath(t *testing.T) {
	if err := WriteTextfile(""); err != nil {
		t.Errorf("WriteTextfile(\"\") error = %v, want nil", err)
	}
}
