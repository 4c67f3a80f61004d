package whisper

import (
	"context"

	"github.com/nguyentantai21042004/smartcut/internal/transcript"
)

// Transcriber turns an audio file into a transcript with word-level
// timestamps. language is a hint ("ru", "en"); empty means auto-detect.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (*transcript.Transcript, error)
}
