package sandbox

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"codeduel/internal/catalog"
	"codeduel/internal/sandbox/engine"
)

type fakeEngine struct {
	res      engine.RunResult
	err      error
	calls    int
	lastSpec engine.Spec
}

func (f *fakeEngine) Run(ctx context.Context, s engine.Spec) (engine.RunResult, error) {
	f.calls++
	f.lastSpec = s
	return f.res, f.err
}

func newTestRunner(t *testing.T, eng engine.Engine) *Runner {
	t.Helper()
	r, err := NewRunner(Config{WorkRoot: t.TempDir()}, eng)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	return r
}

func palindromeCases() []catalog.TestCase {
	return []catalog.TestCase{
		{Args: []any{"radar"}, Expected: true},
		{Args: []any{"hello"}, Expected: false},
	}
}

func TestRunSuccess(t *testing.T) {
	eng := &fakeEngine{res: engine.RunResult{
		ExitCode:   0,
		WallTimeMs: 40,
		Stdout: `{"passed": 1, "total": 2, "test_results": [
			{"test": 1, "status": "PASS", "expected": "True", "got": "True"},
			{"test": 2, "status": "FAIL", "expected": "False", "got": "True"}
		]}`,
	}}
	r := newTestRunner(t, eng)

	res := r.Run(context.Background(), Request{
		Source:       "def is_palindrome(s):\n    return True",
		FunctionName: "is_palindrome",
		TestCases:    palindromeCases(),
	})

	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.PassedTests != 1 || res.TotalTests != 2 {
		t.Fatalf("unexpected counts %d/%d", res.PassedTests, res.TotalTests)
	}
	if len(res.TestResults) != 2 || res.TestResults[1].Status != StatusFail {
		t.Fatalf("unexpected outcomes %+v", res.TestResults)
	}
	if res.ElapsedMs != 40 {
		t.Fatalf("expected elapsed 40ms, got %d", res.ElapsedMs)
	}
}

func TestRunPerTestErrorKeepsSuccess(t *testing.T) {
	eng := &fakeEngine{res: engine.RunResult{
		Stdout: `{"passed": 1, "total": 2, "test_results": [
			{"test": 1, "status": "PASS", "expected": "1", "got": "1"},
			{"test": 2, "status": "ERROR", "error": "ZeroDivisionError", "traceback": "tb"}
		]}`,
	}}
	r := newTestRunner(t, eng)

	res := r.Run(context.Background(), Request{
		Source:       "def f(x):\n    return 1 // x",
		FunctionName: "f",
		TestCases:    palindromeCases(),
	})
	if !res.Success {
		t.Fatalf("per-test ERROR must not clear Success: %q", res.Error)
	}
	if res.TestResults[1].Status != StatusError {
		t.Fatalf("expected ERROR outcome, got %+v", res.TestResults[1])
	}
}

func TestRunGuardRejectionSkipsEngine(t *testing.T) {
	eng := &fakeEngine{}
	r := newTestRunner(t, eng)

	res := r.Run(context.Background(), Request{
		Source:       "import os\n",
		FunctionName: "f",
		TestCases:    palindromeCases(),
	})
	if res.Success {
		t.Fatal("guarded submission must not succeed")
	}
	if res.TotalTests != 2 || res.PassedTests != 0 {
		t.Fatalf("rejection should report 0/%d, got %d/%d", 2, res.PassedTests, res.TotalTests)
	}
	if eng.calls != 0 {
		t.Fatalf("engine must not run for rejected source, ran %d times", eng.calls)
	}
	if !strings.Contains(res.Error, "Forbidden imports") {
		t.Fatalf("unexpected error %q", res.Error)
	}
}

func TestRunTimeout(t *testing.T) {
	eng := &fakeEngine{res: engine.RunResult{TimedOut: true, ExitCode: -1, WallTimeMs: 5100}}
	r := newTestRunner(t, eng)

	res := r.Run(context.Background(), Request{
		Source:       "def f(x):\n    while True:\n        pass",
		FunctionName: "f",
		TestCases:    palindromeCases(),
		TimeLimit:    5 * time.Second,
	})
	if res.Success {
		t.Fatal("timeout must not succeed")
	}
	if !strings.Contains(res.Error, "Execution timeout") || !strings.Contains(res.Error, "5 seconds") {
		t.Fatalf("unexpected timeout message %q", res.Error)
	}
	if res.ElapsedMs != 5000 {
		t.Fatalf("timeout elapsed should equal the configured limit, got %d", res.ElapsedMs)
	}
}

func TestRunUnreadableRecordPreservesDiagnostics(t *testing.T) {
	eng := &fakeEngine{res: engine.RunResult{
		ExitCode: 1,
		Stdout:   "",
		Stderr:   "SyntaxError: invalid syntax",
	}}
	r := newTestRunner(t, eng)

	res := r.Run(context.Background(), Request{
		Source:       "def f(x:\n",
		FunctionName: "f",
		TestCases:    palindromeCases(),
	})
	if res.Success {
		t.Fatal("unreadable record must not succeed")
	}
	if !strings.Contains(res.Error, "Code execution error") ||
		!strings.Contains(res.Error, "SyntaxError") {
		t.Fatalf("diagnostics lost: %q", res.Error)
	}
}

func TestRunLaunchFailure(t *testing.T) {
	eng := &fakeEngine{err: context.DeadlineExceeded}
	r := newTestRunner(t, eng)

	res := r.Run(context.Background(), Request{
		Source:       "def f(x):\n    return x",
		FunctionName: "f",
		TestCases:    palindromeCases(),
	})
	if res.Success {
		t.Fatal("launch failure must not succeed")
	}
	if !strings.Contains(res.Error, "Execution error") {
		t.Fatalf("unexpected error %q", res.Error)
	}
}

func TestRunSpecWiring(t *testing.T) {
	eng := &fakeEngine{res: engine.RunResult{
		Stdout: `{"passed": 0, "total": 0, "test_results": []}`,
	}}
	workRoot := t.TempDir()
	r, err := NewRunner(Config{
		WorkRoot:   workRoot,
		PythonPath: "python3.12",
		WallTime:   3 * time.Second,
		CPUTimeSec: 2,
		MemoryMB:   128,
		OutputMB:   10,
		MaxProcs:   1,
	}, eng)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	r.Run(context.Background(), Request{Source: "x = 1", FunctionName: "f"})

	s := eng.lastSpec
	if s.Cmd[0] != "python3.12" {
		t.Fatalf("python path not honored: %v", s.Cmd)
	}
	if !strings.HasPrefix(s.WorkDir, workRoot) {
		t.Fatalf("work dir %q not under root %q", s.WorkDir, workRoot)
	}
	var hashSeed bool
	for _, kv := range s.Env {
		if kv == "PYTHONHASHSEED=0" {
			hashSeed = true
		}
	}
	if !hashSeed {
		t.Fatal("PYTHONHASHSEED=0 missing from env")
	}
	if s.Limits.CPUTimeSec != 2 || s.Limits.WallTimeMs != 3000 ||
		s.Limits.MemoryMB != 128 || s.Limits.OutputMB != 10 || s.Limits.MaxProcs != 1 {
		t.Fatalf("limits not propagated: %+v", s.Limits)
	}
	if s.RunID == "" {
		t.Fatal("run id must be set")
	}
}

func TestRunWorkDirRemoved(t *testing.T) {
	eng := &fakeEngine{res: engine.RunResult{
		Stdout: `{"passed": 0, "total": 0, "test_results": []}`,
	}}
	r := newTestRunner(t, eng)

	r.Run(context.Background(), Request{Source: "x = 1", FunctionName: "f"})

	if eng.lastSpec.WorkDir == "" {
		t.Fatal("engine never saw a work dir")
	}
	if _, err := os.Stat(eng.lastSpec.WorkDir); err == nil {
		t.Fatal("work dir should be removed after the run")
	}
}
