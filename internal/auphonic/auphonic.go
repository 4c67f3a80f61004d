package auphonic

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
)

// DefaultTitle names productions created without an explicit title.
const DefaultTitle = "SmartCut Enhancement"

type productionData struct {
	UUID         string `json:"uuid"`
	Status       int    `json:"status"`
	StatusString string `json:"status_string"`
	ErrorMessage string `json:"error_message"`
	OutputFiles  []struct {
		DownloadURL string `json:"download_url"`
	} `json:"output_files"`
}

type apiResponse struct {
	StatusCode   int            `json:"status_code"`
	ErrorMessage string         `json:"error_message"`
	Data         productionData `json:"data"`
}

// CreateProduction uploads the audio file and starts processing,
// returning the production UUID. An empty presetUUID runs Auphonic's
// defaults; an empty title falls back to DefaultTitle.
func (e *implEnhancer) CreateProduction(ctx context.Context, audioPath, title, presetUUID string) (string, error) {
	if title == "" {
		title = DefaultTitle
	}

	audio, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer audio.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("input_file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("build form file: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("read audio file: %w", err)
	}
	if err := form.WriteField("title", title); err != nil {
		return "", fmt.Errorf("write form field title: %w", err)
	}
	if err := form.WriteField("action", "start"); err != nil {
		return "", fmt.Errorf("write form field action: %w", err)
	}
	if presetUUID != "" {
		if err := form.WriteField("preset", presetUUID); err != nil {
			return "", fmt.Errorf("write form field preset: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/simple/productions.json", &body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", form.FormDataContentType())

	var parsed apiResponse
	if err := e.do(req, &parsed); err != nil {
		return "", err
	}
	if parsed.StatusCode != http.StatusOK {
		msg := parsed.ErrorMessage
		if msg == "" {
			msg = "unknown error"
		}
		return "", fmt.Errorf("auphonic API error: %s", msg)
	}
	return parsed.Data.UUID, nil
}

// GetStatus fetches one production's current state.
func (e *implEnhancer) GetStatus(ctx context.Context, productionUUID string) (Status, error) {
	parsed, err := e.fetchProduction(ctx, productionUUID)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Code:         parsed.Data.Status,
		StatusString: parsed.Data.StatusString,
		ErrorMessage: parsed.Data.ErrorMessage,
	}, nil
}

// PollUntilDone waits for the production to finish, checking on the
// poll interval. A production that reports an error fails immediately;
// one that never settles fails after the maximum number of polls.
func (e *implEnhancer) PollUntilDone(ctx context.Context, productionUUID string) (Status, error) {
	for attempt := 0; attempt < e.maxPolls; attempt++ {
		status, err := e.GetStatus(ctx, productionUUID)
		if err != nil {
			return Status{}, err
		}
		if status.Done() {
			return status, nil
		}
		if status.Failed() {
			return status, fmt.Errorf("auphonic production failed: %s", status.ErrorMessage)
		}
		e.logger.Debug(ctx, "Production %s still %s (%d/%d)", productionUUID, status, attempt+1, e.maxPolls)

		select {
		case <-ctx.Done():
			return Status{}, ctx.Err()
		case <-time.After(e.pollInterval):
		}
	}
	return Status{}, fmt.Errorf("auphonic production timed out after %s", time.Duration(e.maxPolls)*e.pollInterval)
}

// DownloadResult writes the production's first output file to
// outputPath.
func (e *implEnhancer) DownloadResult(ctx context.Context, productionUUID, outputPath string) error {
	parsed, err := e.fetchProduction(ctx, productionUUID)
	if err != nil {
		return err
	}
	if len(parsed.Data.OutputFiles) == 0 {
		return fmt.Errorf("no output files available")
	}
	downloadURL := parsed.Data.OutputFiles[0].DownloadURL
	if downloadURL == "" {
		return fmt.Errorf("no download URL available")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("download result: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}

// Enhance runs the full workflow: upload, wait, download.
func (e *implEnhancer) Enhance(ctx context.Context, audioPath, outputPath, presetUUID string) error {
	uuid, err := e.CreateProduction(ctx, audioPath, "", presetUUID)
	if err != nil {
		return err
	}
	e.logger.Info(ctx, "Auphonic production started: %s", uuid)

	if _, err := e.PollUntilDone(ctx, uuid); err != nil {
		return err
	}
	if err := e.DownloadResult(ctx, uuid, outputPath); err != nil {
		return err
	}
	e.logger.Info(ctx, "Enhanced audio downloaded: %s", outputPath)
	return nil
}

func (e *implEnhancer) fetchProduction(ctx context.Context, productionUUID string) (*apiResponse, error) {
	url := fmt.Sprintf("%s/api/production/%s.json", e.baseURL, productionUUID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	var parsed apiResponse
	if err := e.do(req, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (e *implEnhancer) do(req *http.Request, out *apiResponse) error {
	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("call auphonic API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("auphonic API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode auphonic response: %w", err)
	}
	return nil
}
