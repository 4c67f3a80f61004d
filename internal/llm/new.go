package llm

import (
	"context"

	"github.com/nguyentantai21042004/smartcut/internal/logger"
)

type implAnalyst struct {
	apiKeys    []string
	currentKey int
	model      string
	logger     logger.Logger

	// generate is the model call; swapped out in tests.
	generate func(ctx context.Context, prompt string, temperature float32) (string, error)
}

// New creates an Analyst that rotates through the supplied Gemini API
// keys when one runs into its quota.
func New(apiKeys []string, model string, log logger.Logger) Analyst {
	a := &implAnalyst{
		apiKeys: apiKeys,
		model:   model,
		logger:  log,
	}
	a.generate = a.callGemini
	return a
}
