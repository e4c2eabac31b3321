package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// ConfigError means the backend cannot be called at all: address,
// credential, or model id is missing from configuration. Checked
// before any network traffic.
type ConfigError struct {
	Missing string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("transcription backend not configured: %s missing", e.Missing)
}

// WhisperClient calls an OpenAI-compatible /v1/audio/transcriptions
// endpoint. Implements Provider.
type WhisperClient struct {
	url    string
	apiKey string
	model  string
	client *http.Client
}

// NewWhisperClient creates a Whisper HTTP client. The timeout is
// deliberately generous; transcription calls run far longer than
// ordinary fetches.
func NewWhisperClient(url, apiKey, model string, timeout time.Duration) *WhisperClient {
	return &WhisperClient{
		url:    url,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

type whisperResponse struct {
	Text string `json:"text"`
}

// Transcribe sends the audio as multipart/form-data and returns the
// cleaned transcript. Fails fast with *ConfigError if the backend
// address, credential, or model id is unset.
func (wc *WhisperClient) Transcribe(ctx context.Context, audio []byte, format string) (string, error) {
	switch {
	case wc.url == "":
		return "", &ConfigError{Missing: "backend URL"}
	case wc.apiKey == "":
		return "", &ConfigError{Missing: "API key"}
	case wc.model == "":
		return "", &ConfigError{Missing: "model id"}
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", "audio."+format)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("write audio data: %w", err)
	}
	w.WriteField("model", wc.model)
	w.WriteField("response_format", "json")
	w.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wc.url, &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+wc.apiKey)

	resp, err := wc.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result whisperResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	return CleanTranscript(result.Text), nil
}
