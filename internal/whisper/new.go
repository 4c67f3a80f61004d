package whisper

import (
	"net/http"
	"strings"
	"time"

	"github.com/nguyentantai21042004/smartcut/internal/logger"
)

type implTranscriber struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  logger.Logger
	delay   func(attempt int) time.Duration
}

// New creates a Transcriber backed by the hosted Whisper API. baseURL
// is the API root ("https://api.openai.com/v1"); the generous client
// timeout leaves room for uploading long recordings.
func New(apiKey, model, baseURL string, log logger.Logger) Transcriber {
	return &implTranscriber{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Minute},
		logger:  log,
		delay:   retryDelay,
	}
}

func retryDelay(attempt int) time.Duration {
	return time.Duration(1<<(attempt+1)) * time.Second
}
