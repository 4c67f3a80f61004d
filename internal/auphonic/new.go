package auphonic

import (
	"net/http"
	"strings"
	"time"

	"github.com/nguyentantai21042004/smartcut/internal/logger"
)

type implEnhancer struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  logger.Logger

	pollInterval time.Duration
	maxPolls     int
}

// New creates an Enhancer against the Auphonic API. baseURL is the
// service root ("https://auphonic.com"); productions are polled every
// 5 seconds for up to 10 minutes.
func New(apiKey, baseURL string, log logger.Logger) Enhancer {
	return &implEnhancer{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		client:       &http.Client{Timeout: 5 * time.Minute},
		logger:       log,
		pollInterval: 5 * time.Second,
		maxPolls:     120,
	}
}
