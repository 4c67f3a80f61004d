package media

import (
	"github.com/nguyentantai21042004/smartcut/internal/logger"
	"github.com/nguyentantai21042004/smartcut/pkg/executor"
)

const defaultMaxConcurrent = 2

type implProcessor struct {
	executor      executor.Executor
	logger        logger.Logger
	maxConcurrent int
}

// New creates a new Processor backed by the ffmpeg and ffprobe
// binaries on PATH. maxConcurrent bounds how many segment cuts
// ExportCut runs in parallel.
func New(exec executor.Executor, log logger.Logger, maxConcurrent int) Processor {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &implProcessor{
		executor:      exec,
		logger:        log,
		maxConcurrent: maxConcurrent,
	}
}
