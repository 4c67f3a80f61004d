package pipeline

import (
	"sync"

	"github.com/nguyentantai21042004/smartcut/internal/auphonic"
	"github.com/nguyentantai21042004/smartcut/internal/capability"
	"github.com/nguyentantai21042004/smartcut/internal/config"
	"github.com/nguyentantai21042004/smartcut/internal/draft"
	"github.com/nguyentantai21042004/smartcut/internal/history"
	"github.com/nguyentantai21042004/smartcut/internal/llm"
	"github.com/nguyentantai21042004/smartcut/internal/logger"
	"github.com/nguyentantai21042004/smartcut/internal/media"
	"github.com/nguyentantai21042004/smartcut/internal/whisper"
)

// Deps bundles the collaborators a Pipeline drives.
type Deps struct {
	Media       media.Processor
	Transcriber whisper.Transcriber
	Analyst     llm.Analyst
	Enhancer    auphonic.Enhancer
	Drafts      draft.Store
	History     history.Store
	Logger      logger.Logger
}

type implPipeline struct {
	cfg         *config.Config
	gate        capability.Target
	media       media.Processor
	transcriber whisper.Transcriber
	analyst     llm.Analyst
	enhancer    auphonic.Enhancer
	drafts      draft.Store
	history     history.Store
	logger      logger.Logger

	// mu serializes mutating operations. The stdio transport already
	// delivers one request at a time; the lock keeps that invariant if
	// a transport ever stops doing so.
	mu sync.Mutex
}

// New creates a new Pipeline instance. The gate is fixed at startup and
// never re-read from the environment.
func New(cfg *config.Config, gate capability.Target, deps Deps) Pipeline {
	return &implPipeline{
		cfg:         cfg,
		gate:        gate,
		media:       deps.Media,
		transcriber: deps.Transcriber,
		analyst:     deps.Analyst,
		enhancer:    deps.Enhancer,
		drafts:      deps.Drafts,
		history:     deps.History,
		logger:      deps.Logger,
	}
}
