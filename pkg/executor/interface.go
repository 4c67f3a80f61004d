package executor

import "context"

// Executor defines the interface for executing external commands
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error)
	// ExecuteCapture returns stdout and stderr separately. Some tools
	// (ffmpeg loudnorm among them) report their results on stderr while
	// exiting zero, so the combined-error form of Execute loses them.
	ExecuteCapture(ctx context.Context, name string, args ...string) (string, string, error)
	// Available reports whether the named binary can be found on PATH.
	Available(name string) bool
}
