package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetWeekKey(t *testing.T) {
	testTime := time.Date(2025, 10, 7, 12, 0, 0, 0, time.UTC)

	// 2025-10-07 should be in week 41 of 2025
	if got := getWeekKey(testTime); got != "2025-W41" {
		t.Errorf("Expected week key 2025-W41, got %s", got)
	}
}

func TestRotatingLogger(t *testing.T) {
	tempDir := t.TempDir()

	rl := NewRotatingLogger(tempDir, 1, 1024*1024)
	if err := rl.Open(); err != nil {
		t.Fatalf("Failed to open: %v", err)
	}

	expectedFileName := filepath.Join(tempDir, "aides-"+getWeekKey(time.Now())+".log")
	if _, err := os.Stat(expectedFileName); os.IsNotExist(err) {
		t.Errorf("Expected log file %s was not created", expectedFileName)
	}

	testMessage := "Test log message"
	if _, err := rl.Write([]byte(testMessage)); err != nil {
		t.Fatalf("Failed to write to log: %v", err)
	}

	if err := rl.Close(); err != nil {
		t.Fatalf("Failed to close logger: %v", err)
	}

	content, err := os.ReadFile(expectedFileName)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), testMessage) {
		t.Errorf("Log file does not contain test message: %s", string(content))
	}
}

func TestRotatingLoggerWithSizeLimit(t *testing.T) {
	tempDir := t.TempDir()

	rl := NewRotatingLogger(tempDir, 1, 64)
	if err := rl.Open(); err != nil {
		t.Fatalf("Failed to open: %v", err)
	}
	defer rl.Close()

	line := []byte(strings.Repeat("x", 40) + "\n")
	for i := 0; i < 3; i++ {
		if _, err := rl.Write(line); err != nil {
			t.Fatalf("Write %d failed: %v", i, err)
		}
	}

	week := getWeekKey(time.Now())
	for _, name := range []string{
		"aides-" + week + ".log",
		"aides-" + week + "_01.log",
		"aides-" + week + "_02.log",
	} {
		if _, err := os.Stat(filepath.Join(tempDir, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}
}

func TestCleanupOldLogs(t *testing.T) {
	tempDir := t.TempDir()

	oldFile := filepath.Join(tempDir, "aides-2025-W30.log")
	unrelated := filepath.Join(tempDir, "other.log")
	for _, path := range []string{oldFile, unrelated} {
		if err := os.WriteFile(path, []byte("Old log content"), 0600); err != nil {
			t.Fatalf("Failed to create %s: %v", path, err)
		}
		threeWeeksAgo := time.Now().AddDate(0, 0, -21)
		if err := os.Chtimes(path, threeWeeksAgo, threeWeeksAgo); err != nil {
			t.Fatalf("Failed to set modification time: %v", err)
		}
	}

	rl := NewRotatingLogger(tempDir, 1, 1024*1024)
	if err := rl.Open(); err != nil {
		t.Fatalf("Failed to open: %v", err)
	}
	defer rl.Close()

	if _, err := os.Stat(oldFile); !os.IsNotExist(err) {
		t.Error("Expected old log file to be deleted")
	}
	if _, err := os.Stat(unrelated); err != nil {
		t.Error("Expected files without the aides- prefix to be kept")
	}
}

func TestRotatingLoggerOpenError(t *testing.T) {
	tempDir := t.TempDir()
	blocker := filepath.Join(tempDir, "file")
	if err := os.WriteFile(blocker, nil, 0600); err != nil {
		t.Fatal(err)
	}

	rl := NewRotatingLogger(filepath.Join(blocker, "logs"), 1, 1024)
	if err := rl.Open(); err == nil {
		t.Error("Expected an error when the log directory cannot be created")
	}
}
