package engine

// Config controls sandbox engine behavior.
type Config struct {
	HelperPath           string // sandbox-init binary, resolved via PATH when relative
	SeccompProfile       string // optional allowlist profile consumed by the helper
	EnableSeccomp        bool
	StdoutStderrMaxBytes int64
}
