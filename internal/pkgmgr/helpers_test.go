package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
)

const testIndexURL = "https://repo.example.org/repo.json"

var errOffline = errors.New("network unreachable")

// fakeFetcher serves fixed bodies per URL and counts requests
type fakeFetcher struct {
	bodies map[string][]byte
	errs   map[string]error
	calls  []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		bodies: make(map[string][]byte),
		errs:   make(map[string]error),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if body, ok := f.bodies[url]; ok {
		return body, nil
	}
	return nil, fmt.Errorf("no such url: %s", url)
}

// serveIndex publishes an index with one entry per name@version pair
func (f *fakeFetcher) serveIndex(pkgs ...string) {
	var b strings.Builder
	b.WriteString(`{"packages":{`)
	for i, p := range pkgs {
		name, version, _ := strings.Cut(p, "@")
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `%q:{"version":%q,"install":"https://s.example.org/%s/install.sh","remove":"https://s.example.org/%s/remove.sh","update":"https://s.example.org/%s/update.sh"}`,
			name, version, name, name, name)
	}
	b.WriteString(`}}`)
	f.bodies[testIndexURL] = []byte(b.String())
	delete(f.errs, testIndexURL)
}

// mockExecutor records Perform calls through testify/mock
type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) Perform(ctx context.Context, scriptURL string, op Operation, name string) error {
	args := m.Called(scriptURL, op, name)
	return args.Error(0)
}

// recordingReporter captures messages and answers confirmations from a queue
type recordingReporter struct {
	answers   []bool
	questions []string
	// onConfirm runs before an answer is given
	onConfirm func()
	progress  []string
	successes []string
	infos     []string
	warnings  []string
	errors    []string
}

func (r *recordingReporter) Progress(message string, percent int) {
	r.progress = append(r.progress, fmt.Sprintf("[%d%%] %s", percent, message))
}

func (r *recordingReporter) Info(format string, args ...interface{}) {
	r.infos = append(r.infos, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Success(format string, args ...interface{}) {
	r.successes = append(r.successes, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Warn(format string, args ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Error(format string, args ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Confirm(ctx context.Context, question string) bool {
	r.questions = append(r.questions, question)
	if r.onConfirm != nil {
		r.onConfirm()
	}
	if len(r.answers) == 0 {
		return false
	}
	answer := r.answers[0]
	r.answers = r.answers[1:]
	return answer
}

// fixture bundles an engine with its fakes
type fixture struct {
	fetcher  *fakeFetcher
	executor *mockExecutor
	reporter *recordingReporter
	ledger   *Ledger
	engine   *Engine
	dir      string
}

func newFixture(t *testing.T, opts ...EngineOption) *fixture {
	t.Helper()
	dir := t.TempDir()

	fx := &fixture{
		fetcher:  newFakeFetcher(),
		executor: &mockExecutor{},
		reporter: &recordingReporter{},
		ledger:   LoadLedger(filepath.Join(dir, "lib", "installed.json")),
		dir:      dir,
	}
	store := NewIndexStore(testIndexURL, fx.fetcher, filepath.Join(dir, "cache", "repo.json"))
	opts = append([]EngineOption{WithReporter(fx.reporter)}, opts...)
	fx.engine = NewEngine(store, fx.ledger, fx.executor, opts...)
	return fx
}

func scriptURL(name string, op Operation) string {
	file := string(op)
	if op == OpUpgrade {
		file = "update"
	}
	return fmt.Sprintf("https://s.example.org/%s/%s.sh", name, file)
}
