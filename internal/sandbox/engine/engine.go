// Package engine launches untrusted processes behind an isolation boundary.
// Every run gets a dedicated work directory and a helper process that applies
// resource ceilings before handing control to the target command.
package engine

import "context"

// Limits are the resource ceilings applied to a sandboxed run.
// Zero values leave the corresponding ceiling unset.
type Limits struct {
	CPUTimeSec int64 `json:"CPUTimeSec"`
	WallTimeMs int64 `json:"WallTimeMs"`
	MemoryMB   int64 `json:"MemoryMB"`
	OutputMB   int64 `json:"OutputMB"`
	MaxProcs   int64 `json:"MaxProcs"`
}

// Spec describes a single sandboxed process run.
type Spec struct {
	RunID      string   `json:"RunID"`
	WorkDir    string   `json:"WorkDir"`
	Cmd        []string `json:"Cmd"`
	Env        []string `json:"Env"`
	StdoutPath string   `json:"StdoutPath"`
	StderrPath string   `json:"StderrPath"`
	Limits     Limits   `json:"Limits"`
}

// RunResult is the raw outcome of a sandboxed run. TimedOut reports that the
// wall-clock ceiling fired and the process group was killed.
type RunResult struct {
	ExitCode   int
	TimedOut   bool
	WallTimeMs int64
	CPUTimeMs  int64
	Stdout     string
	Stderr     string
}

// Engine executes a Spec inside an isolated child process.
type Engine interface {
	Run(ctx context.Context, s Spec) (RunResult, error)
}
