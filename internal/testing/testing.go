// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yapjournal/yap/internal/models"
)

// MockTranscriber is a test double for [services.Transcriber]. Records the
// URLs it was asked to transcribe.
type MockTranscriber struct {
	Transcript string
	Err        error
	Calls      []string
}

func (m *MockTranscriber) TranscribeURL(ctx context.Context, url string) (string, error) {
	m.Calls = append(m.Calls, url)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Transcript, nil
}

// MockEnricher is a test double for [services.Enricher].
type MockEnricher struct {
	Analysis models.EntryAnalysis
	Err      error
	Calls    []string
}

func (m *MockEnricher) Analyze(ctx context.Context, transcript string) (models.EntryAnalysis, error) {
	m.Calls = append(m.Calls, transcript)
	if m.Err != nil {
		return models.EntryAnalysis{}, m.Err
	}
	analysis := m.Analysis
	if analysis.Transcription == "" {
		analysis.Transcription = transcript
	}
	return analysis, nil
}

// MockEntryWriter is a test double for the pipeline's entry API dependency.
type MockEntryWriter struct {
	NextID     int64
	CreateErr  error
	UpdateErr  error
	Created    []models.EntryDraft
	Updated    map[int64]models.EntryAnalysis
	LastUpdate *models.JournalEntry
}

func (m *MockEntryWriter) CreateEntry(ctx context.Context, draft models.EntryDraft) (*models.JournalEntry, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.Created = append(m.Created, draft)
	m.NextID++
	entry := draft.Materialize(1, time.Now().UTC())
	entry.EntryID = m.NextID
	return &entry, nil
}

func (m *MockEntryWriter) UpdateAnalysis(ctx context.Context, entryID int64, analysis models.EntryAnalysis) (*models.JournalEntry, error) {
	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	if m.Updated == nil {
		m.Updated = make(map[int64]models.EntryAnalysis)
	}
	m.Updated[entryID] = analysis
	entry := &models.JournalEntry{
		EntryID:       entryID,
		UserID:        1,
		Title:         analysis.Title,
		Transcription: analysis.Transcription,
		Summary:       analysis.Summary,
		KeyInsights:   analysis.KeyInsights,
	}
	m.LastUpdate = entry
	return entry, nil
}

// MockUploader is a test double for the pipeline's blob store dependency.
type MockUploader struct {
	Err   error
	Calls []string
}

func (m *MockUploader) Upload(ctx context.Context, path string) (string, string, error) {
	m.Calls = append(m.Calls, path)
	if m.Err != nil {
		return "", "", m.Err
	}
	key := "recordings/test-object" + strings.ToLower(filepath.Ext(path))
	return key, "http://localhost:9000/journal/" + key, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
