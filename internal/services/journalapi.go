// Typed client for the journal entry API
//
// Used by the CLI, the TUI and the capture pipeline. The client keeps its
// session cookie across calls so every request is scoped to the same user,
// exactly as a browser would be.

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"

	"github.com/yapjournal/yap/internal/models"
	"github.com/yapjournal/yap/internal/shared"
)

const defaultJournalURL = "http://localhost:8000"

// JournalAPIClient talks to the entry API over HTTP.
type JournalAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewJournalAPIClient creates a client for the entry API. When client is nil
// a cookie-jar-backed client is used so the session handle persists.
func NewJournalAPIClient(baseURL string, client *http.Client) *JournalAPIClient {
	if baseURL == "" {
		baseURL = defaultJournalURL
	}
	if client == nil {
		jar, _ := cookiejar.New(nil)
		client = &http.Client{Jar: jar}
	}
	return &JournalAPIClient{baseURL: baseURL, httpClient: client}
}

// Health hits the root endpoint and returns its message.
func (c *JournalAPIClient) Health(ctx context.Context) (string, error) {
	var result struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/", nil, &result); err != nil {
		return "", err
	}
	return result.Message, nil
}

// CreateEntry persists a partial entry for the session user.
func (c *JournalAPIClient) CreateEntry(ctx context.Context, draft models.EntryDraft) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	if err := c.doJSON(ctx, http.MethodPost, "/api/journal_entries/", draft, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListEntries returns every entry of the session user.
func (c *JournalAPIClient) ListEntries(ctx context.Context) ([]models.JournalEntry, error) {
	var entries []models.JournalEntry
	if err := c.doJSON(ctx, http.MethodGet, "/api/journal_entries/", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Entry fetches a single entry by id.
func (c *JournalAPIClient) Entry(ctx context.Context, entryID int64) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	path := fmt.Sprintf("/api/journal_entries/%d/", entryID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateAnalysis posts the four enrichment fields to an entry.
func (c *JournalAPIClient) UpdateAnalysis(ctx context.Context, entryID int64, analysis models.EntryAnalysis) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	path := fmt.Sprintf("/api/journal_entries/%d/", entryID)
	if err := c.doJSON(ctx, http.MethodPost, path, analysis, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteResult is the delete endpoint's response body.
type DeleteResult struct {
	Message      string              `json:"message"`
	DeletedEntry models.JournalEntry `json:"deleted_entry"`
}

// DeleteEntry removes an entry and returns the confirmation with the final
// snapshot.
func (c *JournalAPIClient) DeleteEntry(ctx context.Context, entryID int64) (*DeleteResult, error) {
	var result DeleteResult
	path := fmt.Sprintf("/api/journal_entries/%d/", entryID)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// EntriesByDate returns the session user's entries for one YYYY-MM-DD day.
func (c *JournalAPIClient) EntriesByDate(ctx context.Context, date string) ([]models.JournalEntry, error) {
	var entries []models.JournalEntry
	path := "/api/journal_entries/date/?date=" + date
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// RawResponse carries an unparsed API response for the debugging commands.
type RawResponse struct {
	StatusCode int
	Body       []byte
	JSONData   any
	IsJSON     bool
}

// Raw performs an arbitrary request against the API and returns the raw
// body, attempting a JSON parse for pretty-printing.
func (c *JournalAPIClient) Raw(ctx context.Context, method, path string, body []byte) (*RawResponse, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	raw := &RawResponse{StatusCode: resp.StatusCode, Body: data}
	var parsed any
	if err := json.Unmarshal(data, &parsed); err == nil {
		raw.IsJSON = true
		raw.JSONData = parsed
	}

	return raw, nil
}

// doJSON performs a request with an optional JSON body and decodes the
// response, translating {"error": msg} bodies into errors.
func (c *JournalAPIClient) doJSON(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
