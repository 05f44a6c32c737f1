package main

import (
	"fmt"
	"os"
	"time"

	"codeduel/internal/sandbox"
	"codeduel/internal/sandbox/engine"
	"codeduel/internal/server"
	"codeduel/internal/transport/ws"
	"codeduel/pkg/utils/logger"

	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPAddr        = "0.0.0.0:8080"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxHeaderBytes  = 1 << 20
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	ServiceName    string        `yaml:"serviceName"`
	Version        string        `yaml:"version"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
	IdleTimeout    time.Duration `yaml:"idleTimeout"`
	MaxHeaderBytes int           `yaml:"maxHeaderBytes"`
}

// WSConfig holds websocket gateway settings.
type WSConfig struct {
	SendBuffer      int           `yaml:"sendBuffer"`
	MaxMessageBytes int64         `yaml:"maxMessageBytes"`
	AllowedOrigins  []string      `yaml:"allowedOrigins"`
	WriteWait       time.Duration `yaml:"writeWait"`
	PongWait        time.Duration `yaml:"pongWait"`
	PingPeriod      time.Duration `yaml:"pingPeriod"`
}

// SandboxConfig holds code execution settings.
type SandboxConfig struct {
	PythonPath           string        `yaml:"pythonPath"`
	WorkRoot             string        `yaml:"workRoot"`
	PoolSize             int           `yaml:"poolSize"`
	MaxSourceLen         int           `yaml:"maxSourceLen"`
	WallTime             time.Duration `yaml:"wallTime"`
	CPUTimeSec           int64         `yaml:"cpuTimeSec"`
	MemoryMB             int64         `yaml:"memoryMB"`
	OutputMB             int64         `yaml:"outputMB"`
	MaxProcs             int64         `yaml:"maxProcs"`
	HelperPath           string        `yaml:"helperPath"`
	SeccompProfile       string        `yaml:"seccompProfile"`
	EnableSeccomp        bool          `yaml:"enableSeccomp"`
	StdoutStderrMaxBytes int64         `yaml:"stdoutStderrMaxBytes"`
}

func (s SandboxConfig) toRunnerConfig() sandbox.Config {
	return sandbox.Config{
		PythonPath:   s.PythonPath,
		WorkRoot:     s.WorkRoot,
		PoolSize:     s.PoolSize,
		MaxSourceLen: s.MaxSourceLen,
		WallTime:     s.WallTime,
		CPUTimeSec:   s.CPUTimeSec,
		MemoryMB:     s.MemoryMB,
		OutputMB:     s.OutputMB,
		MaxProcs:     s.MaxProcs,
	}
}

func (s SandboxConfig) toEngineConfig() engine.Config {
	return engine.Config{
		HelperPath:           s.HelperPath,
		SeccompProfile:       s.SeccompProfile,
		EnableSeccomp:        s.EnableSeccomp,
		StdoutStderrMaxBytes: s.StdoutStderrMaxBytes,
	}
}

// AppConfig holds the duel-server configuration.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Logger  logger.Config `yaml:"logger"`
	WS      WSConfig      `yaml:"ws"`
	Sandbox SandboxConfig `yaml:"sandbox"`
}

func (c *AppConfig) toWSConfig() ws.Config {
	return ws.Config{
		SendBuffer:      c.WS.SendBuffer,
		MaxMessageBytes: c.WS.MaxMessageBytes,
		AllowedOrigins:  c.WS.AllowedOrigins,
		WriteWait:       c.WS.WriteWait,
		PongWait:        c.WS.PongWait,
		PingPeriod:      c.WS.PingPeriod,
	}
}

func (c *AppConfig) toServerConfig() server.Config {
	// One origin list governs both surfaces: websocket upgrades and the
	// HTTP read API.
	return server.Config{
		ServiceName:    c.Server.ServiceName,
		Version:        c.Server.Version,
		AllowedOrigins: c.WS.AllowedOrigins,
	}
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file failed: %w", err)
	}
	return nil
}

func loadAppConfig(path string) (*AppConfig, error) {
	var cfg AppConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultHTTPAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = defaultMaxHeaderBytes
	}

	if cfg.WS.PongWait > 0 && cfg.WS.PingPeriod >= cfg.WS.PongWait {
		return nil, fmt.Errorf("ws.pingPeriod must be shorter than ws.pongWait")
	}
	if cfg.Sandbox.EnableSeccomp && cfg.Sandbox.SeccompProfile == "" {
		return nil, fmt.Errorf("sandbox.seccompProfile is required when seccomp is enabled")
	}

	return &cfg, nil
}
