package script

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.sh")
	if err := os.WriteFile(path, []byte(body), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func newTestRunner() (*ExecRunner, *bytes.Buffer) {
	out := new(bytes.Buffer)
	return &ExecRunner{
		Stdin:  strings.NewReader(""),
		Stdout: out,
		Stderr: out,
		Shell:  DefaultShell,
	}, out
}

func TestExecRunnerOutcomes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts require a unix shell")
	}

	tests := []struct {
		name       string
		body       string
		wantExited bool
		wantCode   int
	}{
		{"exit zero", "#!/bin/sh\necho installing\nexit 0\n", true, 0},
		{"exit nonzero", "#!/bin/sh\nexit 3\n", true, 3},
		{"killed by signal", "#!/bin/sh\nkill -9 $$\n", false, 0},
		{"no interpreter line", "echo plain\nexit 4\n", true, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, _ := newTestRunner()

			outcome, err := runner.Run(context.Background(), writeScript(t, tt.body))
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if outcome.Exited != tt.wantExited {
				t.Fatalf("Exited = %v, want %v (detail %q)", outcome.Exited, tt.wantExited, outcome.Detail)
			}
			if tt.wantExited && outcome.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", outcome.ExitCode, tt.wantCode)
			}
			if !tt.wantExited && outcome.Detail == "" {
				t.Error("abnormal termination should carry a detail")
			}
		})
	}
}

func TestExecRunnerForwardsOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts require a unix shell")
	}

	runner, out := newTestRunner()
	outcome, err := runner.Run(context.Background(), writeScript(t, "#!/bin/sh\necho hello from script\n"))
	if err != nil || !outcome.Success() {
		t.Fatalf("Run() = %+v, %v", outcome, err)
	}
	if !strings.Contains(out.String(), "hello from script") {
		t.Errorf("script output not forwarded, got %q", out.String())
	}
}

func TestExecRunnerMissingFile(t *testing.T) {
	runner, _ := newTestRunner()

	_, err := runner.Run(context.Background(), filepath.Join(t.TempDir(), "missing.sh"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestExecRunnerDeadlineKillsScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts require a unix shell")
	}

	runner, _ := newTestRunner()
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	outcome, err := runner.Run(ctx, writeScript(t, "#!/bin/sh\nexec sleep 10\n"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if outcome.Exited {
		t.Fatalf("script should have been killed, got exit code %d", outcome.ExitCode)
	}
	if !strings.Contains(outcome.Detail, "deadline exceeded") {
		t.Errorf("Detail = %q, want deadline mention", outcome.Detail)
	}
}

func TestMockRunnerRecordsCalls(t *testing.T) {
	mock := NewMockRunner(2)

	outcome, err := mock.Run(context.Background(), "/tmp/yns_install_foo.sh")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if outcome.ExitCode != 2 || !outcome.Exited {
		t.Errorf("outcome = %+v, want exit 2", outcome)
	}
	if len(mock.Calls) != 1 || mock.Calls[0] != "/tmp/yns_install_foo.sh" {
		t.Errorf("Calls = %v", mock.Calls)
	}
}

func TestOutcomeSuccess(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    bool
	}{
		{Outcome{Exited: true, ExitCode: 0}, true},
		{Outcome{Exited: true, ExitCode: 1}, false},
		{Outcome{Detail: "signal: killed"}, false},
	}
	for _, tt := range tests {
		if got := tt.outcome.Success(); got != tt.want {
			t.Errorf("%+v.Success() = %v, want %v", tt.outcome, got, tt.want)
		}
	}
}
