package whisper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/smartcut/internal/errdefs"
	"github.com/nguyentantai21042004/smartcut/internal/logger"
)

const verboseResponse = `{
  "language": "russian",
  "duration": 11.0,
  "text": "hello there general",
  "segments": [
    {"id": 4, "start": 0.0, "end": 5.0, "text": " hello there "},
    {"id": 7, "start": 5.0, "end": 9.5, "text": " general "}
  ],
  "words": [
    {"word": " hello ", "start": 0.5, "end": 1.0},
    {"word": "there", "start": 1.5, "end": 2.0},
    {"word": "general", "start": 5.0, "end": 5.8}
  ]
}`

func writeTestAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(path, []byte("RIFF fake wav data"), 0o644); err != nil {
		t.Fatalf("write test audio: %v", err)
	}
	return path
}

func newTestTranscriber(url string) *implTranscriber {
	tr := New("test-key", "whisper-1", url, logger.New("error")).(*implTranscriber)
	tr.delay = func(int) time.Duration { return 0 }
	return tr
}

func TestTranscribe(t *testing.T) {
	var gotLanguage []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("path = %q, want /audio/transcriptions", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q, want bearer test key", auth)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("parse multipart form: %v", err)
		}
		if got := r.FormValue("model"); got != "whisper-1" {
			t.Errorf("model = %q, want whisper-1", got)
		}
		if got := r.FormValue("response_format"); got != "verbose_json" {
			t.Errorf("response_format = %q, want verbose_json", got)
		}
		grans := r.MultipartForm.Value["timestamp_granularities[]"]
		if len(grans) != 2 || grans[0] != "word" || grans[1] != "segment" {
			t.Errorf("timestamp_granularities = %v, want [word segment]", grans)
		}
		gotLanguage = r.MultipartForm.Value["language"]
		if _, header, err := r.FormFile("file"); err != nil {
			t.Errorf("form file: %v", err)
		} else if header.Filename != "audio.wav" {
			t.Errorf("file name = %q, want audio.wav", header.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(verboseResponse))
	}))
	defer srv.Close()

	tr := newTestTranscriber(srv.URL)
	got, err := tr.Transcribe(context.Background(), writeTestAudio(t), "ru")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	if len(gotLanguage) != 1 || gotLanguage[0] != "ru" {
		t.Errorf("language field = %v, want [ru]", gotLanguage)
	}
	if got.Language != "russian" {
		t.Errorf("Language = %q, want russian", got.Language)
	}
	// Duration comes from the last segment, not the response header.
	if got.Duration != 9.5 {
		t.Errorf("Duration = %v, want 9.5", got.Duration)
	}
	if len(got.Segments) != 2 {
		t.Fatalf("len(Segments) = %d, want 2", len(got.Segments))
	}
	if got.Segments[0].ID != 0 || got.Segments[1].ID != 1 {
		t.Errorf("segment ids = %d, %d, want renumbered 0, 1", got.Segments[0].ID, got.Segments[1].ID)
	}
	if got.Segments[0].Text != "hello there" || got.Segments[1].Text != "general" {
		t.Errorf("segment texts = %q, %q, want trimmed", got.Segments[0].Text, got.Segments[1].Text)
	}
	if len(got.Segments[0].Words) != 2 {
		t.Fatalf("segment 0 words = %+v, want 2", got.Segments[0].Words)
	}
	if got.Segments[0].Words[0].Word != "hello" {
		t.Errorf("word = %q, want trimmed %q", got.Segments[0].Words[0].Word, "hello")
	}
	// A word starting exactly on the boundary belongs to the next segment.
	if len(got.Segments[1].Words) != 1 || got.Segments[1].Words[0].Word != "general" {
		t.Errorf("segment 1 words = %+v, want [general]", got.Segments[1].Words)
	}
}

func TestTranscribeOmitsEmptyLanguage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("parse multipart form: %v", err)
		}
		if vals := r.MultipartForm.Value["language"]; len(vals) != 0 {
			t.Errorf("language field = %v, want omitted", vals)
		}
		w.Write([]byte(verboseResponse))
	}))
	defer srv.Close()

	if _, err := newTestTranscriber(srv.URL).Transcribe(context.Background(), writeTestAudio(t), ""); err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
}

func TestTranscribeRetriesOnFailure(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			http.Error(w, `{"error": "overloaded"}`, http.StatusInternalServerError)
			return
		}
		w.Write([]byte(verboseResponse))
	}))
	defer srv.Close()

	got, err := newTestTranscriber(srv.URL).Transcribe(context.Background(), writeTestAudio(t), "")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if len(got.Segments) != 2 {
		t.Errorf("len(Segments) = %d, want 2", len(got.Segments))
	}
}

func TestTranscribeGivesUpAfterMaxRetries(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestTranscriber(srv.URL).Transcribe(context.Background(), writeTestAudio(t), "")
	if err == nil {
		t.Fatal("Transcribe() error = nil, want failure after retries")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("error = %v, want it to mention the attempt count", err)
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	_, err := newTestTranscriber("http://127.0.0.1:0").Transcribe(context.Background(), "/nonexistent/audio.wav", "")
	if err == nil {
		t.Fatal("Transcribe() error = nil, want stat failure")
	}
}

func TestTranscribeRejectsOversizeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create test audio: %v", err)
	}
	// A sparse file is enough: only the stat size matters.
	if err := f.Truncate(maxFileSizeBytes + 1); err != nil {
		t.Fatalf("grow test audio: %v", err)
	}
	f.Close()

	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err = newTestTranscriber(srv.URL).Transcribe(context.Background(), path, "")
	if !errdefs.IsFormat(err) {
		t.Fatalf("Transcribe() error = %v, want a format error", err)
	}
	if !strings.Contains(err.Error(), "too large") {
		t.Errorf("error = %v, want it to name the size problem", err)
	}
	if called {
		t.Error("oversize file was still uploaded")
	}
}

func TestTranscribeEmptySegments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"language": "", "duration": 0, "text": "", "segments": [], "words": []}`))
	}))
	defer srv.Close()

	got, err := newTestTranscriber(srv.URL).Transcribe(context.Background(), writeTestAudio(t), "")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if len(got.Segments) != 0 || got.Duration != 0 {
		t.Errorf("transcript = %+v, want empty", got)
	}
	if got.Language != "unknown" {
		t.Errorf("Language = %q, want unknown fallback", got.Language)
	}
}

func TestRetryDelay(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 2 * time.Second},
		{1, 4 * time.Second},
		{2, 8 * time.Second},
	}
	for _, tt := range tests {
		if got := retryDelay(tt.attempt); got != tt.want {
			t.Errorf("retryDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}
