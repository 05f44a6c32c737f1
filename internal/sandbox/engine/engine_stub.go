//go:build !linux

package engine

import (
	"context"
	"fmt"
)

type stubEngine struct{}

func NewEngine(cfg Config) (Engine, error) {
	return &stubEngine{}, nil
}

func (s *stubEngine) Run(ctx context.Context, spec Spec) (RunResult, error) {
	return RunResult{}, fmt.Errorf("sandbox engine is only supported on linux")
}
