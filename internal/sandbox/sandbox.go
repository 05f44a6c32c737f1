// Package sandbox evaluates untrusted Python solutions against challenge
// test cases. It guards submissions before execution, generates the test
// harness, runs it behind the engine isolation boundary, and folds the
// harness record into an ExecutionResult.
package sandbox

import (
	"time"

	"codeduel/internal/catalog"
)

// Outcome statuses reported per test case.
const (
	StatusPass  = "PASS"
	StatusFail  = "FAIL"
	StatusError = "ERROR"
)

// TestOutcome is the verdict for one test case. Expected and Got carry the
// harness's stringified values; Error and Traceback are set only for ERROR.
type TestOutcome struct {
	Test      int    `json:"test"`
	Status    string `json:"status"`
	Expected  string `json:"expected,omitempty"`
	Got       string `json:"got,omitempty"`
	Error     string `json:"error,omitempty"`
	Traceback string `json:"traceback,omitempty"`
}

// Request describes one evaluation of player code.
type Request struct {
	Source       string
	FunctionName string
	TestCases    []catalog.TestCase
	TimeLimit    time.Duration // wall clock; zero uses the runner default
}

// ExecutionResult is the outcome of a sandbox run.
//
// Success reports that the harness ran to completion and produced a readable
// record; individual test errors do not clear it. Rejections, timeouts,
// launch failures and unreadable output all leave Success false with Error
// describing the cause and Output preserving raw diagnostics.
type ExecutionResult struct {
	Success     bool          `json:"success"`
	PassedTests int           `json:"passed_tests"`
	TotalTests  int           `json:"total_tests"`
	TestResults []TestOutcome `json:"test_results"`
	Output      string        `json:"output,omitempty"`
	Error       string        `json:"error,omitempty"`
	ElapsedMs   int64         `json:"elapsed_ms"`
}
