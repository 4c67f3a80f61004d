package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
	"github.com/nguyentantai21042004/smartcut/internal/transcript"
)

const (
	maxFileSizeMB    = 25
	maxFileSizeBytes = maxFileSizeMB << 20
	maxRetries       = 3
)

// Transcribe uploads the audio file and parses the verbose response
// into a transcript. Files over the API's 25MB limit are rejected
// before upload; retrying cannot help, the audio has to be split or
// the video shortened.
func (t *implTranscriber) Transcribe(ctx context.Context, audioPath, language string) (*transcript.Transcript, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("stat audio file: %w", err)
	}
	if info.Size() > maxFileSizeBytes {
		return nil, errdefs.Format("audio file is too large (%.1fMB, limit %dMB), split it or use a shorter video",
			float64(info.Size())/1024/1024, maxFileSizeMB)
	}

	return t.transcribeWithRetry(ctx, audioPath, language)
}

func (t *implTranscriber) transcribeWithRetry(ctx context.Context, audioPath, language string) (*transcript.Transcript, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		tr, err := t.transcribeOnce(ctx, audioPath, language)
		if err == nil {
			return tr, nil
		}
		lastErr = err
		t.logger.Warn(ctx, "Transcription attempt %d failed: %v", attempt+1, err)

		if attempt < maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(t.delay(attempt)):
			}
		}
	}
	return nil, fmt.Errorf("whisper API error after %d attempts: %w", maxRetries, lastErr)
}

func (t *implTranscriber) transcribeOnce(ctx context.Context, audioPath, language string) (*transcript.Transcript, error) {
	audio, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer audio.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("build form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}

	fields := map[string]string{
		"model":           t.model,
		"response_format": "verbose_json",
	}
	if language != "" {
		fields["language"] = language
	}
	for k, v := range fields {
		if err := form.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write form field %s: %w", k, err)
		}
	}
	for _, g := range []string{"word", "segment"} {
		if err := form.WriteField("timestamp_granularities[]", g); err != nil {
			return nil, fmt.Errorf("write form field timestamp_granularities: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call whisper API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("whisper API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode whisper response: %w", err)
	}
	return parsed.toTranscript(), nil
}

type apiWord struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type apiSegment struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

type apiResponse struct {
	Language string       `json:"language"`
	Duration float64      `json:"duration"`
	Text     string       `json:"text"`
	Segments []apiSegment `json:"segments"`
	Words    []apiWord    `json:"words"`
}

// toTranscript regroups the response's flat word list under the segment
// whose time range holds each word's start, renumbers segments from 0,
// and trims whitespace the API pads around tokens.
func (r *apiResponse) toTranscript() *transcript.Transcript {
	segments := make([]transcript.Segment, 0, len(r.Segments))
	for i, seg := range r.Segments {
		var words []transcript.Word
		for _, w := range r.Words {
			if w.Start >= seg.Start && w.Start < seg.End {
				words = append(words, transcript.Word{
					Word:  strings.TrimSpace(w.Word),
					Start: w.Start,
					End:   w.End,
				})
			}
		}
		segments = append(segments, transcript.Segment{
			ID:    i,
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
			Words: words,
		})
	}

	language := r.Language
	if language == "" {
		language = "unknown"
	}
	var duration float64
	if len(segments) > 0 {
		duration = segments[len(segments)-1].End
	}

	return &transcript.Transcript{
		Language: language,
		Duration: duration,
		Segments: segments,
	}
}
