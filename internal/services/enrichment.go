// Enrichment proxy client
//
// The proxy wraps a hosted language model behind three prompt endpoints.
// Title, summary and key insights are independent generations over the same
// transcript; no call depends on another's output.

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/yapjournal/yap/internal/models"
	"golang.org/x/time/rate"
)

const defaultEnrichmentURL = "http://localhost:8081"

// EnrichmentService implements [Enricher] against the prompt proxy. The
// limiter spaces out the fan-out so a burst of captures cannot hammer the
// hosted model.
type EnrichmentService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewEnrichmentService creates a client for the prompt proxy. A non-empty
// apiKey is attached to every request as a bearer token.
func NewEnrichmentService(baseURL, apiKey string) *EnrichmentService {
	if baseURL == "" {
		baseURL = defaultEnrichmentURL
	}
	return &EnrichmentService{
		baseURL:    baseURL,
		httpClient: newBearerClient(apiKey),
		limiter:    rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
}

// GenerateTitle derives a short title from the transcript.
func (s *EnrichmentService) GenerateTitle(ctx context.Context, transcript string) (string, error) {
	return s.generate(ctx, "/generate_title", "title", transcript)
}

// GenerateSummary derives a summary from the transcript.
func (s *EnrichmentService) GenerateSummary(ctx context.Context, transcript string) (string, error) {
	return s.generate(ctx, "/generate_summary", "summary", transcript)
}

// GenerateKeyPoints derives bullet-point key insights from the transcript.
func (s *EnrichmentService) GenerateKeyPoints(ctx context.Context, transcript string) (string, error) {
	return s.generate(ctx, "/generate_key_points", "key_points", transcript)
}

// Analyze performs the three generations and merges the results, echoing
// the transcript into the analysis so one update call populates the entry.
// Fail-fast: the first failing generation aborts the whole analysis.
func (s *EnrichmentService) Analyze(ctx context.Context, transcript string) (models.EntryAnalysis, error) {
	analysis := models.EntryAnalysis{Transcription: transcript}

	title, err := s.GenerateTitle(ctx, transcript)
	if err != nil {
		return models.EntryAnalysis{}, err
	}
	analysis.Title = title

	summary, err := s.GenerateSummary(ctx, transcript)
	if err != nil {
		return models.EntryAnalysis{}, err
	}
	analysis.Summary = summary

	insights, err := s.GenerateKeyPoints(ctx, transcript)
	if err != nil {
		return models.EntryAnalysis{}, err
	}
	analysis.KeyInsights = insights

	return analysis, nil
}

// generate posts the transcript to one prompt endpoint and extracts the
// named field from the response.
func (s *EnrichmentService) generate(ctx context.Context, endpoint, field, transcript string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("enrichment rate limit wait: %w", err)
	}

	payload, err := json.Marshal(map[string]string{"transcription": transcript})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("enrichment request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", decodeProxyError(resp, "enrichment")
	}

	var result map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode enrichment response: %w", err)
	}

	text, ok := result[field]
	if !ok {
		return "", fmt.Errorf("enrichment response missing %q field", field)
	}

	return text, nil
}
