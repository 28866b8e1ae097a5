package script

import "context"

// MockRunner implements Runner for testing.
// RunFunc controls the outcome; Calls records every path that was run.
type MockRunner struct {
	RunFunc func(ctx context.Context, path string) (Outcome, error)
	Calls   []string
}

// NewMockRunner creates a MockRunner that always exits with code
func NewMockRunner(code int) *MockRunner {
	return &MockRunner{
		RunFunc: func(ctx context.Context, path string) (Outcome, error) {
			return Outcome{Exited: true, ExitCode: code}, nil
		},
	}
}

// Run records the call and delegates to RunFunc
func (m *MockRunner) Run(ctx context.Context, path string) (Outcome, error) {
	m.Calls = append(m.Calls, path)
	if m.RunFunc != nil {
		return m.RunFunc(ctx, path)
	}
	return Outcome{Exited: true}, nil
}

// Ensure MockRunner implements Runner interface
var _ Runner = (*MockRunner)(nil)
