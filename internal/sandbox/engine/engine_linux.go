//go:build linux

package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"codeduel/pkg/utils/logger"

	"go.uber.org/zap"
)

const (
	defaultStdoutStderrMaxBytes int64 = 64 * 1024
	defaultHelperPath                 = "sandbox-init"
)

type linuxEngine struct {
	cfg Config
}

// NewEngine creates a Linux sandbox engine.
func NewEngine(cfg Config) (Engine, error) {
	if cfg.StdoutStderrMaxBytes <= 0 {
		cfg.StdoutStderrMaxBytes = defaultStdoutStderrMaxBytes
	}
	if cfg.HelperPath == "" {
		cfg.HelperPath = defaultHelperPath
	}
	if cfg.EnableSeccomp && cfg.SeccompProfile == "" {
		return nil, fmt.Errorf("seccomp enabled without a profile path")
	}
	return &linuxEngine{cfg: cfg}, nil
}

func (e *linuxEngine) Run(ctx context.Context, s Spec) (RunResult, error) {
	if err := validateSpec(s); err != nil {
		return RunResult{}, err
	}

	initReq := initRequest{
		Spec:           s,
		EnableSeccomp:  e.cfg.EnableSeccomp,
		SeccompProfile: e.cfg.SeccompProfile,
	}

	stdinPipe, err := jsonToPipe(initReq)
	if err != nil {
		return RunResult{}, fmt.Errorf("encode init request: %w", err)
	}
	defer stdinPipe.Close()

	cmd := exec.CommandContext(ctx, e.cfg.HelperPath)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGKILL,
	}
	cmd.Stdin = stdinPipe

	// Pre-exec helper diagnostics arrive on this pipe; after the helper
	// redirects fd 2 the target writes to StderrPath instead.
	var helperStderr bytes.Buffer
	cmd.Stderr = &helperStderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return RunResult{}, fmt.Errorf("start helper: %w", err)
	}

	var timedOut atomic.Bool
	killCtx, cancelKill := context.WithCancel(ctx)
	defer cancelKill()

	done := make(chan struct{})
	go func() {
		wallLimit := durationFromMs(s.Limits.WallTimeMs)
		var wallTimer <-chan time.Time
		if wallLimit > 0 {
			wallTimer = time.After(wallLimit)
		}
		select {
		case <-killCtx.Done():
			killProcessGroup(cmd.Process.Pid)
		case <-wallTimer:
			timedOut.Store(true)
			killProcessGroup(cmd.Process.Pid)
		case <-done:
		}
	}()

	waitErr := cmd.Wait()
	close(done)

	runResult := RunResult{
		ExitCode:   exitCodeFromErr(waitErr, cmd.ProcessState),
		TimedOut:   timedOut.Load(),
		WallTimeMs: time.Since(start).Milliseconds(),
		CPUTimeMs:  cpuTimeMs(cmd.ProcessState),
		Stdout:     readLimitedFile(s.StdoutPath, e.cfg.StdoutStderrMaxBytes),
		Stderr:     readLimitedFile(s.StderrPath, e.cfg.StdoutStderrMaxBytes),
	}

	if runResult.TimedOut && runResult.ExitCode == 0 {
		runResult.ExitCode = -1
	}
	if waitErr != nil && errors.Is(waitErr, context.DeadlineExceeded) {
		runResult.ExitCode = -1
	}

	if helperStderr.Len() > 0 {
		logger.Warn(ctx, "sandbox helper stderr",
			zap.String("run_id", s.RunID),
			zap.String("stderr", helperStderr.String()),
		)
		if runResult.Stderr == "" {
			runResult.Stderr = strings.TrimSpace(helperStderr.String())
		}
	}

	return runResult, nil
}

func validateSpec(s Spec) error {
	if s.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if s.WorkDir == "" {
		return fmt.Errorf("work dir is required")
	}
	if len(s.Cmd) == 0 {
		return fmt.Errorf("command is required")
	}
	return nil
}

func exitCodeFromErr(err error, state *os.ProcessState) int {
	if state != nil {
		return state.ExitCode()
	}
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func killProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

func jsonToPipe(req initRequest) (io.ReadCloser, error) {
	reader, writer := io.Pipe()
	go func() {
		enc := json.NewEncoder(writer)
		err := enc.Encode(req)
		_ = writer.CloseWithError(err)
	}()
	return reader, nil
}

func durationFromMs(ms int64) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

func cpuTimeMs(state *os.ProcessState) int64 {
	if state == nil {
		return 0
	}
	usage, ok := state.SysUsage().(*syscall.Rusage)
	if !ok {
		return 0
	}
	utime := time.Duration(usage.Utime.Sec)*time.Second + time.Duration(usage.Utime.Usec)*time.Microsecond
	stime := time.Duration(usage.Stime.Sec)*time.Second + time.Duration(usage.Stime.Usec)*time.Microsecond
	return (utime + stime).Milliseconds()
}

func readLimitedFile(path string, maxBytes int64) string {
	if path == "" || maxBytes <= 0 {
		return ""
	}
	file, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer file.Close()
	limited := io.LimitReader(file, maxBytes)
	data, err := io.ReadAll(limited)
	if err != nil {
		return ""
	}
	return string(data)
}
