package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/yapjournal/yap/internal/models"
	"github.com/yapjournal/yap/internal/shared"
	"golang.org/x/oauth2"
)

// Transcriber converts a stored recording into text.
type Transcriber interface {
	// TranscribeURL transcribes the audio file reachable at url.
	TranscribeURL(ctx context.Context, url string) (string, error)
}

// Enricher derives the analysis fields from a transcript. The three
// generations are independent calls against the prompt proxy.
type Enricher interface {
	// Analyze returns title, summary and key insights for the transcript,
	// with the transcript itself echoed into the result.
	Analyze(ctx context.Context, transcript string) (models.EntryAnalysis, error)
}

// maxAudioBytes is the transcription service's upload ceiling (25MB).
const maxAudioBytes = 25 * 1024 * 1024

// allowedAudioExtensions lists the formats the transcription service accepts.
var allowedAudioExtensions = map[string]bool{
	".m4a": true, ".mp3": true, ".webm": true, ".mp4": true,
	".mpga": true, ".wav": true, ".mpeg": true,
}

// ValidateAudioFile checks a local recording against the transcription
// service's constraints before any network work happens.
func ValidateAudioFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRecordingUnreadable, err)
	}

	if info.Size() >= maxAudioBytes {
		return fmt.Errorf("%w: %s is %d bytes", shared.ErrFileTooLarge, path, info.Size())
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !allowedAudioExtensions[ext] {
		return fmt.Errorf("%w: %q", shared.ErrUnsupportedAudio, ext)
	}

	return nil
}

// newBearerClient returns an [http.Client] attaching a static bearer token
// to every request, or [http.DefaultClient] when no token is configured.
func newBearerClient(apiKey string) *http.Client {
	if apiKey == "" {
		return http.DefaultClient
	}
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey})
	return oauth2.NewClient(context.Background(), source)
}

// decodeProxyError pulls the FastAPI-style {"detail": msg} body from a
// failed proxy response.
func decodeProxyError(resp *http.Response, service string) error {
	var errResp struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
		return fmt.Errorf("%w: %s error (status %d): %s", shared.ErrAPIRequest, service, resp.StatusCode, errResp.Detail)
	}
	return fmt.Errorf("%w: %s error: status %d", shared.ErrAPIRequest, service, resp.StatusCode)
}
