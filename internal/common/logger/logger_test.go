package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// TestVerboseModeShowsDebugMessages tests that --verbose shows debug messages
func TestVerboseModeShowsDebugMessages(t *testing.T) {
	buf := new(bytes.Buffer)
	log := New(buf, LevelInfo)

	log.Debug("downloading script to %s", "/tmp/yns_install_foo.sh")
	if strings.Contains(buf.String(), "downloading script") {
		t.Error("Debug message should not appear at Info level")
	}

	log.SetVerbose(true)

	log.Debug("downloading script to %s", "/tmp/yns_install_foo.sh")
	if !strings.Contains(buf.String(), "/tmp/yns_install_foo.sh") {
		t.Error("Debug message should appear when verbose is enabled")
	}
}

// TestQuietModeSuppressesInfoMessages tests that --quiet suppresses info messages
func TestQuietModeSuppressesInfoMessages(t *testing.T) {
	buf := new(bytes.Buffer)
	log := New(buf, LevelInfo)

	log.Info("info message before quiet")
	if !strings.Contains(buf.String(), "info message before quiet") {
		t.Error("Info message should appear at Info level")
	}
	buf.Reset()

	log.SetQuiet(true)

	log.Info("info message after quiet")
	if strings.Contains(buf.String(), "info message after quiet") {
		t.Error("Info message should not appear when quiet is enabled")
	}

	log.Error("error message in quiet mode")
	if !strings.Contains(buf.String(), "error message in quiet mode") {
		t.Error("Error message should appear even in quiet mode")
	}
}

// TestLogLevelHierarchy tests that log levels work correctly
func TestLogLevelHierarchy(t *testing.T) {
	tests := []struct {
		name        string
		level       Level
		expectDebug bool
		expectInfo  bool
		expectWarn  bool
		expectError bool
	}{
		{"Debug level shows all", LevelDebug, true, true, true, true},
		{"Info level hides debug", LevelInfo, false, true, true, true},
		{"Warn level hides debug and info", LevelWarn, false, false, true, true},
		{"Error level shows only errors", LevelError, false, false, false, true},
		{"Quiet level shows nothing", LevelQuiet, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			log := New(buf, tt.level)

			log.Debug("debug")
			log.Info("info")
			log.Warn("warn")
			log.Error("error")

			out := buf.String()

			if tt.expectDebug != strings.Contains(out, "debug") {
				t.Errorf("Debug: expected %v, got %v", tt.expectDebug, strings.Contains(out, "debug"))
			}
			if tt.expectInfo != strings.Contains(out, "info") {
				t.Errorf("Info: expected %v, got %v", tt.expectInfo, strings.Contains(out, "info"))
			}
			if tt.expectWarn != strings.Contains(out, "warn") {
				t.Errorf("Warn: expected %v, got %v", tt.expectWarn, strings.Contains(out, "warn"))
			}
			if tt.expectError != strings.Contains(out, "error") {
				t.Errorf("Error: expected %v, got %v", tt.expectError, strings.Contains(out, "error"))
			}
		})
	}
}

// TestFileLoggingRecordsAllLevels tests that the log file receives debug
// lines even when the terminal level hides them
func TestFileLoggingRecordsAllLevels(t *testing.T) {
	buf := new(bytes.Buffer)
	log := New(buf, LevelError)

	path := filepath.Join(t.TempDir(), "logs", "yns.log")
	if err := log.EnableFileLogging(path); err != nil {
		t.Fatalf("EnableFileLogging() error = %v", err)
	}

	log.Debug("script exited with code %d", 0)
	log.Error("install foo: script failed")
	log.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "DEBUG: script exited with code 0") {
		t.Errorf("log file missing debug line, got:\n%s", content)
	}
	if !strings.Contains(content, "ERROR: install foo: script failed") {
		t.Errorf("log file missing error line, got:\n%s", content)
	}
	if strings.Contains(buf.String(), "script exited") {
		t.Error("debug line should not reach the terminal at Error level")
	}
}

// TestDefaultLogFileUsesXDGStateHome tests the default log location
func TestDefaultLogFileUsesXDGStateHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	path, err := DefaultLogFile()
	if err != nil {
		t.Fatalf("DefaultLogFile() error = %v", err)
	}
	want := filepath.Join(dir, "yns", "logs", "yns.log")
	if path != want {
		t.Errorf("DefaultLogFile() = %s, want %s", path, want)
	}
}

// TestPackageLevelFunctions tests the package-level convenience functions
func TestPackageLevelFunctions(t *testing.T) {
	once = sync.Once{}
	defaultLogger = nil

	buf := new(bytes.Buffer)
	once.Do(func() {
		defaultLogger = New(buf, LevelDebug)
	})

	Debug("debug test")
	Info("info test")
	Warn("warn test")
	Error("error test")

	out := buf.String()
	for _, want := range []string{"debug test", "info test", "warn test", "error test"} {
		if !strings.Contains(out, want) {
			t.Errorf("package-level output missing %q", want)
		}
	}
}
