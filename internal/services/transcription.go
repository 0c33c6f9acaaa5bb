// Transcription proxy client
//
// The proxy downloads the recording, runs speech-to-text and returns the
// transcript. Files must stay under 25MB in one of the supported formats;
// [ValidateAudioFile] mirrors those limits client-side so a bad recording
// never leaves the machine.

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const defaultTranscriptionURL = "http://localhost:8080"

// TranscriptionService implements [Transcriber] against the speech-to-text proxy.
type TranscriptionService struct {
	baseURL    string
	httpClient *http.Client
}

// NewTranscriptionService creates a client for the transcription proxy.
func NewTranscriptionService(baseURL string, client *http.Client) *TranscriptionService {
	if baseURL == "" {
		baseURL = defaultTranscriptionURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &TranscriptionService{baseURL: baseURL, httpClient: client}
}

// TranscribeURL asks the proxy to fetch and transcribe the recording at
// audioURL. Calls GET /transcribe?url= on the proxy.
func (s *TranscriptionService) TranscribeURL(ctx context.Context, audioURL string) (string, error) {
	endpoint := fmt.Sprintf("%s/transcribe?url=%s", s.baseURL, url.QueryEscape(audioURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", decodeProxyError(resp, "transcription")
	}

	var result struct {
		Transcription string `json:"transcription"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode transcription response: %w", err)
	}

	return result.Transcription, nil
}
