package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveAttempt(t *testing.T) {
	before := testutil.ToFloat64(RepairAttempts.WithLabelValues("split", OutcomeSuccess))
	failBefore := testutil.ToFloat64(RepairAttempts.WithLabelValues("split", OutcomeFailure))

	ObserveAttempt("split", true)
	ObserveAttempt("split", false)
	ObserveAttempt("split", true)

	if got := testutil.ToFloat64(RepairAttempts.WithLabelValues("split", OutcomeSuccess)) - before; got != 2 {
		t.Errorf("Expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(RepairAttempts.WithLabelValues("split", OutcomeFailure)) - failBefore; got != 1 {
		t.Errorf("Expected 1 failure, got %v", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	PagesFetched.Inc()

	path := filepath.Join(t.TempDir(), "aides.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read metrics file: %v", err)
	}
	if !strings.Contains(string(content), "aides_pages_fetched_total") {
		t.Errorf("Expected aides_pages_fetched_total in output, got:\n%s", content)
	}
}

func TestWriteTextfileNoPath(t *testing.T) {
	if err := WriteTextfile(""); err != nil {
		t.Errorf("Expected no error for an empty path, got %v", err)
	}
}

func TestWriteTextfileBadDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "aides.prom")
	if err := WriteTextfile(path); err == nil {
		t.Error("Expected an error for a missing directory")
	}
}
