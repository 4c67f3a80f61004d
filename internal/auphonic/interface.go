package auphonic

import "context"

// Production status codes as reported by the API.
const (
	StatusIncomplete = 0
	StatusQueued     = 1
	StatusInProgress = 2
	StatusDone       = 3
	StatusError      = 4
)

var statusNames = map[int]string{
	StatusIncomplete: "incomplete",
	StatusQueued:     "queued",
	StatusInProgress: "in_progress",
	StatusDone:       "done",
	StatusError:      "error",
}

// Status is one production's processing state.
type Status struct {
	Code         int
	StatusString string
	ErrorMessage string
}

// Done reports whether processing finished successfully.
func (s Status) Done() bool { return s.Code == StatusDone }

// Failed reports whether processing ended in an error.
func (s Status) Failed() bool { return s.Code == StatusError }

// Pending reports whether the production is still moving through the
// queue.
func (s Status) Pending() bool {
	return s.Code == StatusIncomplete || s.Code == StatusQueued || s.Code == StatusInProgress
}

func (s Status) String() string {
	if s.StatusString != "" {
		return s.StatusString
	}
	if name, ok := statusNames[s.Code]; ok {
		return name
	}
	return "unknown"
}

// Enhancer runs audio through the Auphonic loudness/cleanup service:
// upload and start a production, wait for it, download the result.
type Enhancer interface {
	CreateProduction(ctx context.Context, audioPath, title, presetUUID string) (string, error)
	GetStatus(ctx context.Context, productionUUID string) (Status, error)
	PollUntilDone(ctx context.Context, productionUUID string) (Status, error)
	DownloadResult(ctx context.Context, productionUUID, outputPath string) error
	Enhance(ctx context.Context, audioPath, outputPath, presetUUID string) error
}
