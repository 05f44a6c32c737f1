package sandbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeduel/internal/sandbox/engine"
	"codeduel/pkg/utils/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPythonPath   = "python3"
	defaultPoolSize     = 4
	defaultMaxSourceLen = 50000
	defaultWallTime     = 5 * time.Second
	defaultCPUTimeSec   = 2
	defaultMemoryMB     = 128
	defaultOutputMB     = 10
	defaultMaxProcs     = 1

	sandboxPathEnv = "PATH=/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin"
)

// Config controls the sandbox runner.
type Config struct {
	PythonPath   string
	WorkRoot     string // parent for per-run work dirs; empty uses the OS temp dir
	PoolSize     int    // max concurrent runs
	MaxSourceLen int
	WallTime     time.Duration
	CPUTimeSec   int64
	MemoryMB     int64
	OutputMB     int64
	MaxProcs     int64
}

func (c *Config) applyDefaults() {
	if c.PythonPath == "" {
		c.PythonPath = defaultPythonPath
	}
	if c.WorkRoot == "" {
		c.WorkRoot = os.TempDir()
	}
	if c.PoolSize <= 0 {
		c.PoolSize = defaultPoolSize
	}
	if c.MaxSourceLen <= 0 {
		c.MaxSourceLen = defaultMaxSourceLen
	}
	if c.WallTime <= 0 {
		c.WallTime = defaultWallTime
	}
	if c.CPUTimeSec <= 0 {
		c.CPUTimeSec = defaultCPUTimeSec
	}
	if c.MemoryMB <= 0 {
		c.MemoryMB = defaultMemoryMB
	}
	if c.OutputMB <= 0 {
		c.OutputMB = defaultOutputMB
	}
	if c.MaxProcs <= 0 {
		c.MaxProcs = defaultMaxProcs
	}
}

// Runner evaluates submissions. Safe for concurrent use; the slot limiter
// bounds how many evaluations execute at once.
type Runner struct {
	cfg   Config
	eng   engine.Engine
	slots *slotLimiter
}

// NewRunner creates a Runner over the given engine.
func NewRunner(cfg Config, eng engine.Engine) (*Runner, error) {
	if eng == nil {
		return nil, fmt.Errorf("engine is required")
	}
	cfg.applyDefaults()
	return &Runner{
		cfg:   cfg,
		eng:   eng,
		slots: newSlotLimiter(cfg.PoolSize),
	}, nil
}

// Run evaluates one submission. Every failure mode is encoded in the
// returned ExecutionResult rather than an error: callers always get the
// full verdict shape.
func (r *Runner) Run(ctx context.Context, req Request) ExecutionResult {
	total := len(req.TestCases)
	source := NormalizeSource(req.Source)

	if err := CheckSource(source, r.cfg.MaxSourceLen); err != nil {
		logger.Info(ctx, "submission rejected by guard",
			zap.String("function", req.FunctionName),
			zap.String("reason", err.Error()),
		)
		return ExecutionResult{Success: false, TotalTests: total, Error: err.Error()}
	}

	wall := req.TimeLimit
	if wall <= 0 {
		wall = r.cfg.WallTime
	}

	if err := r.slots.acquire(ctx); err != nil {
		return ExecutionResult{Success: false, TotalTests: total,
			Error: fmt.Sprintf("Execution error: %v", err)}
	}
	defer r.slots.release()

	harness, err := buildHarness(source, req.FunctionName, req.TestCases)
	if err != nil {
		return ExecutionResult{Success: false, TotalTests: total,
			Error: fmt.Sprintf("Execution error: %v", err)}
	}

	workDir, err := os.MkdirTemp(r.cfg.WorkRoot, "duel-")
	if err != nil {
		return ExecutionResult{Success: false, TotalTests: total,
			Error: fmt.Sprintf("Execution error: %v", err)}
	}
	defer os.RemoveAll(workDir)

	scriptPath := filepath.Join(workDir, "harness.py")
	if err := os.WriteFile(scriptPath, []byte(harness), 0o644); err != nil {
		return ExecutionResult{Success: false, TotalTests: total,
			Error: fmt.Sprintf("Execution error: %v", err)}
	}

	runID := uuid.NewString()
	spec := engine.Spec{
		RunID:      runID,
		WorkDir:    workDir,
		Cmd:        []string{r.cfg.PythonPath, scriptPath},
		Env:        []string{sandboxPathEnv, "PYTHONHASHSEED=0"},
		StdoutPath: filepath.Join(workDir, "stdout"),
		StderrPath: filepath.Join(workDir, "stderr"),
		Limits: engine.Limits{
			CPUTimeSec: r.cfg.CPUTimeSec,
			WallTimeMs: wall.Milliseconds(),
			MemoryMB:   r.cfg.MemoryMB,
			OutputMB:   r.cfg.OutputMB,
			MaxProcs:   r.cfg.MaxProcs,
		},
	}

	runRes, err := r.eng.Run(ctx, spec)
	if err != nil {
		logger.Error(ctx, "sandbox launch failed",
			zap.String("run_id", runID), zap.Error(err))
		return ExecutionResult{Success: false, TotalTests: total,
			Error: fmt.Sprintf("Execution error: %v", err)}
	}

	if runRes.TimedOut {
		logger.Warn(ctx, "sandbox run timed out",
			zap.String("run_id", runID),
			zap.Int64("wall_ms", wall.Milliseconds()),
		)
		return ExecutionResult{
			Success:    false,
			TotalTests: total,
			Error: fmt.Sprintf("Execution timeout: Code took longer than %d seconds",
				int(wall.Seconds())),
			ElapsedMs: wall.Milliseconds(),
		}
	}

	stdout := strings.TrimSpace(runRes.Stdout)
	stderr := strings.TrimSpace(runRes.Stderr)

	rec, perr := parseHarnessRecord(stdout)
	if perr != nil {
		diag := stderr
		if diag == "" {
			diag = "No JSON output. stdout: " + stdout
		}
		logger.Warn(ctx, "unreadable harness record",
			zap.String("run_id", runID),
			zap.Int("exit_code", runRes.ExitCode),
			zap.String("stderr", stderr),
		)
		return ExecutionResult{
			Success:    false,
			TotalTests: total,
			Output:     stdout,
			Error:      "Code execution error: " + diag,
			ElapsedMs:  runRes.WallTimeMs,
		}
	}

	result := ExecutionResult{
		Success:     true,
		PassedTests: rec.Passed,
		TotalTests:  rec.Total,
		TestResults: rec.TestResults,
		Output:      stdout,
		Error:       stderr,
		ElapsedMs:   runRes.WallTimeMs,
	}
	if result.TestResults == nil {
		result.TestResults = []TestOutcome{}
	}
	return result
}
