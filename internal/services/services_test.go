package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yapjournal/yap/internal/models"
	"github.com/yapjournal/yap/internal/shared"
	tu "github.com/yapjournal/yap/internal/testing"
)

func writeTempAudio(t *testing.T, name string, size int64) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := f.Truncate(size); err != nil {
		t.Fatalf("failed to size temp file: %v", err)
	}

	return path
}

func TestValidateAudioFile(t *testing.T) {
	t.Run("accepts supported format under the limit", func(t *testing.T) {
		path := writeTempAudio(t, "morning.m4a", 1024)

		if err := ValidateAudioFile(path); err != nil {
			t.Errorf("expected valid file, got %v", err)
		}
	})

	t.Run("rejects missing file", func(t *testing.T) {
		err := ValidateAudioFile(filepath.Join(t.TempDir(), "nope.mp3"))
		if !errors.Is(err, shared.ErrRecordingUnreadable) {
			t.Errorf("expected ErrRecordingUnreadable, got %v", err)
		}
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		path := writeTempAudio(t, "long.wav", maxAudioBytes)

		err := ValidateAudioFile(path)
		if !errors.Is(err, shared.ErrFileTooLarge) {
			t.Errorf("expected ErrFileTooLarge, got %v", err)
		}
	})

	t.Run("rejects unsupported extension", func(t *testing.T) {
		path := writeTempAudio(t, "notes.txt", 16)

		err := ValidateAudioFile(path)
		if !errors.Is(err, shared.ErrUnsupportedAudio) {
			t.Errorf("expected ErrUnsupportedAudio, got %v", err)
		}
	})

	t.Run("extension check is case insensitive", func(t *testing.T) {
		path := writeTempAudio(t, "loud.MP3", 16)

		if err := ValidateAudioFile(path); err != nil {
			t.Errorf("expected valid file, got %v", err)
		}
	})
}

func TestTranscriptionService(t *testing.T) {
	t.Run("returns transcript on success", func(t *testing.T) {
		var gotURL string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/transcribe" {
				t.Errorf("expected /transcribe, got %s", r.URL.Path)
			}
			gotURL = r.URL.Query().Get("url")
			json.NewEncoder(w).Encode(map[string]string{"transcription": "today went well"})
		}))
		defer server.Close()

		svc := NewTranscriptionService(server.URL, nil)
		text, err := svc.TranscribeURL(context.Background(), "https://bucket/recordings/a b.m4a")
		if err != nil {
			t.Fatalf("TranscribeURL failed: %v", err)
		}
		if text != "today went well" {
			t.Errorf("expected transcript, got %q", text)
		}
		if gotURL != "https://bucket/recordings/a b.m4a" {
			t.Errorf("url not passed through: %q", gotURL)
		}
	})

	t.Run("surfaces proxy error detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"detail": "File too large"})
		}))
		defer server.Close()

		svc := NewTranscriptionService(server.URL, nil)
		_, err := svc.TranscribeURL(context.Background(), "https://bucket/x.mp3")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), "File too large") {
			t.Errorf("expected proxy detail in error, got %v", err)
		}
	})

	t.Run("defaults base url when empty", func(t *testing.T) {
		svc := NewTranscriptionService("", nil)
		if svc.baseURL != defaultTranscriptionURL {
			t.Errorf("expected default base url, got %q", svc.baseURL)
		}
	})
}

func newEnrichmentServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()

	var calls []string
	fields := map[string]string{
		"/generate_title":      "title",
		"/generate_summary":    "summary",
		"/generate_key_points": "key_points",
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		field, ok := fields[r.URL.Path]
		if !ok {
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if body["transcription"] == "" {
			t.Error("expected transcription in request body")
		}

		calls = append(calls, r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{field: "generated " + field})
	}))

	return server, &calls
}

func TestEnrichmentService(t *testing.T) {
	t.Run("analyze merges the three generations", func(t *testing.T) {
		server, calls := newEnrichmentServer(t)
		defer server.Close()

		svc := NewEnrichmentService(server.URL, "")
		analysis, err := svc.Analyze(context.Background(), "long day at the lake")
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}

		if analysis.Title != "generated title" {
			t.Errorf("unexpected title %q", analysis.Title)
		}
		if analysis.Summary != "generated summary" {
			t.Errorf("unexpected summary %q", analysis.Summary)
		}
		if analysis.KeyInsights != "generated key_points" {
			t.Errorf("unexpected key insights %q", analysis.KeyInsights)
		}
		if analysis.Transcription != "long day at the lake" {
			t.Errorf("transcript not echoed: %q", analysis.Transcription)
		}
		if len(*calls) != 3 {
			t.Errorf("expected 3 generations, got %d", len(*calls))
		}
	})

	t.Run("analyze aborts on first failure", func(t *testing.T) {
		var hits int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]string{"detail": "model unavailable"})
		}))
		defer server.Close()

		svc := NewEnrichmentService(server.URL, "")
		_, err := svc.Analyze(context.Background(), "anything")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if hits != 1 {
			t.Errorf("expected fail-fast after 1 call, got %d", hits)
		}
	})

	t.Run("sends bearer token when configured", func(t *testing.T) {
		var auth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(map[string]string{"title": "t"})
		}))
		defer server.Close()

		svc := NewEnrichmentService(server.URL, "sk-test-key")
		if _, err := svc.GenerateTitle(context.Background(), "hello"); err != nil {
			t.Fatalf("GenerateTitle failed: %v", err)
		}
		if auth != "Bearer sk-test-key" {
			t.Errorf("expected bearer header, got %q", auth)
		}
	})

	t.Run("errors when response lacks the field", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"wrong": "field"})
		}))
		defer server.Close()

		svc := NewEnrichmentService(server.URL, "")
		_, err := svc.GenerateSummary(context.Background(), "hello")
		if err == nil || !strings.Contains(err.Error(), `missing "summary"`) {
			t.Errorf("expected missing field error, got %v", err)
		}
	})

	t.Run("respects cancelled context at the limiter", func(t *testing.T) {
		svc := NewEnrichmentService("http://localhost:1", "")
		// Drain the initial token so the next call has to wait.
		svc.limiter.Allow()

		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		defer cancel()

		_, err := svc.GenerateTitle(ctx, "hello")
		if err == nil {
			t.Error("expected error from cancelled context")
		}
	})
}

func newJournalServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "yap_session", Value: "abc", Path: "/"})
		json.NewEncoder(w).Encode(map[string]string{"message": "Journal API active"})
	})
	mux.HandleFunc("POST /api/journal_entries/{$}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.JournalEntry{EntryID: 1, UserID: 1, Title: "Day One"})
	})
	mux.HandleFunc("GET /api/journal_entries/{$}", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("yap_session"); err != nil || c.Value != "abc" {
			t.Error("expected session cookie carried across calls")
		}
		json.NewEncoder(w).Encode([]models.JournalEntry{{EntryID: 1}, {EntryID: 2}})
	})
	mux.HandleFunc("GET /api/journal_entries/date/{$}", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("date") != "2024-03-14" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid date format, should be YYYY-MM-DD"})
			return
		}
		json.NewEncoder(w).Encode([]models.JournalEntry{{EntryID: 3}})
	})
	mux.HandleFunc("GET /api/journal_entries/{entry_id}/{$}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("entry_id") != "7" {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Entry not found"})
			return
		}
		json.NewEncoder(w).Encode(models.JournalEntry{EntryID: 7, Title: "Lake Day"})
	})
	mux.HandleFunc("POST /api/journal_entries/{entry_id}/{$}", func(w http.ResponseWriter, r *http.Request) {
		var analysis models.EntryAnalysis
		json.NewDecoder(r.Body).Decode(&analysis)
		json.NewEncoder(w).Encode(models.JournalEntry{EntryID: 7, Title: analysis.Title})
	})
	mux.HandleFunc("DELETE /api/journal_entries/{entry_id}/{$}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"message":       "Entry 7 successfully deleted",
			"deleted_entry": models.JournalEntry{EntryID: 7},
		})
	})

	return httptest.NewServer(mux)
}

func TestJournalAPIClient(t *testing.T) {
	server := newJournalServer(t)
	defer server.Close()

	client := NewJournalAPIClient(server.URL, nil)
	ctx := context.Background()

	t.Run("health returns the root message", func(t *testing.T) {
		msg, err := client.Health(ctx)
		if err != nil {
			t.Fatalf("Health failed: %v", err)
		}
		if msg != "Journal API active" {
			t.Errorf("unexpected message %q", msg)
		}
	})

	t.Run("create entry decodes the created entry", func(t *testing.T) {
		entry, err := client.CreateEntry(ctx, models.EntryDraft{Title: "Day One"})
		if err != nil {
			t.Fatalf("CreateEntry failed: %v", err)
		}
		if entry.EntryID != 1 || entry.Title != "Day One" {
			t.Errorf("unexpected entry %+v", entry)
		}
	})

	t.Run("list carries the session cookie", func(t *testing.T) {
		entries, err := client.ListEntries(ctx)
		if err != nil {
			t.Fatalf("ListEntries failed: %v", err)
		}
		if len(entries) != 2 {
			t.Errorf("expected 2 entries, got %d", len(entries))
		}
	})

	t.Run("get entry by id", func(t *testing.T) {
		entry, err := client.Entry(ctx, 7)
		if err != nil {
			t.Fatalf("Entry failed: %v", err)
		}
		if entry.Title != "Lake Day" {
			t.Errorf("unexpected entry %+v", entry)
		}
	})

	t.Run("missing entry surfaces the api error", func(t *testing.T) {
		_, err := client.Entry(ctx, 99)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), "Entry not found") {
			t.Errorf("expected server message in error, got %v", err)
		}
	})

	t.Run("update analysis round-trips the fields", func(t *testing.T) {
		entry, err := client.UpdateAnalysis(ctx, 7, models.EntryAnalysis{Title: "Revised"})
		if err != nil {
			t.Fatalf("UpdateAnalysis failed: %v", err)
		}
		if entry.Title != "Revised" {
			t.Errorf("unexpected title %q", entry.Title)
		}
	})

	t.Run("delete returns message and snapshot", func(t *testing.T) {
		result, err := client.DeleteEntry(ctx, 7)
		if err != nil {
			t.Fatalf("DeleteEntry failed: %v", err)
		}
		if result.Message != "Entry 7 successfully deleted" {
			t.Errorf("unexpected message %q", result.Message)
		}
		if result.DeletedEntry.EntryID != 7 {
			t.Errorf("unexpected snapshot %+v", result.DeletedEntry)
		}
	})

	t.Run("entries by date", func(t *testing.T) {
		entries, err := client.EntriesByDate(ctx, "2024-03-14")
		if err != nil {
			t.Fatalf("EntriesByDate failed: %v", err)
		}
		if len(entries) != 1 || entries[0].EntryID != 3 {
			t.Errorf("unexpected entries %+v", entries)
		}
	})

	t.Run("raw request parses json bodies", func(t *testing.T) {
		raw, err := client.Raw(ctx, http.MethodGet, "/api/journal_entries/7/", nil)
		if err != nil {
			t.Fatalf("Raw failed: %v", err)
		}
		if raw.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", raw.StatusCode)
		}
		if !raw.IsJSON {
			t.Error("expected JSON response to be parsed")
		}
	})
}

func TestJournalAPIClientTransportFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("surfaces transport errors", func(t *testing.T) {
		httpClient := &http.Client{
			Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused")),
		}
		client := NewJournalAPIClient("http://journal.test", httpClient)

		if _, err := client.ListEntries(ctx); err == nil {
			t.Error("expected an error when the transport fails")
		} else if !strings.Contains(err.Error(), "request failed") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("surfaces body read failures", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}}
		httpClient := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}
		client := NewJournalAPIClient("http://journal.test", httpClient)

		if _, err := client.Raw(ctx, http.MethodGet, "/", nil); err == nil {
			t.Error("expected an error when the body cannot be read")
		} else if !strings.Contains(err.Error(), "failed to read response") {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestTranscriptionServiceTransportFailure(t *testing.T) {
	httpClient := &http.Client{
		Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused")),
	}
	svc := NewTranscriptionService("http://transcribe.test", httpClient)

	if _, err := svc.TranscribeURL(context.Background(), "http://localhost:9000/journal/recordings/a.m4a"); err == nil {
		t.Error("expected an error when the proxy is unreachable")
	}
}
