package models

import (
	"fmt"
	"time"
)

// FieldUnset is the placeholder stored for entry fields that have not been
// supplied at creation or populated by a later analysis update. It is part of
// the wire format: clients receive the literal string rather than null.
const FieldUnset = "N/A"

// User owns zero or more journal entries. A single default user is created
// lazily on first start; the schema supports more but the application never
// registers or deletes them.
type User struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// JournalEntry ties a recording to its transcription and the text derived
// from it. Field order matches the serialization contract.
type JournalEntry struct {
	EntryID         int64     `json:"entry_id"`
	UserID          int64     `json:"user_id"`
	Title           string    `json:"title"`
	DatetimeCreated time.Time `json:"datetime_created"`
	RecordingURL    string    `json:"recording_url"`
	Transcription   string    `json:"transcription"`
	Summary         string    `json:"summary"`
	KeyInsights     string    `json:"key_insights"`
}

// Validate checks the invariants every persisted entry must satisfy.
func (e *JournalEntry) Validate() error {
	if e.UserID <= 0 {
		return fmt.Errorf("entry must reference an owning user")
	}
	if e.DatetimeCreated.IsZero() {
		return fmt.Errorf("entry must have a creation timestamp")
	}
	return nil
}

// EntryDraft is the partial payload accepted at entry creation. Empty fields
// resolve to [FieldUnset]; a nil DatetimeCreated resolves to the current time.
type EntryDraft struct {
	Title           string     `json:"title,omitempty"`
	Summary         string     `json:"summary,omitempty"`
	Transcription   string     `json:"transcription,omitempty"`
	KeyInsights     string     `json:"key_insights,omitempty"`
	RecordingURL    string     `json:"recording_url,omitempty"`
	DatetimeCreated *time.Time `json:"datetime_created,omitempty"`
}

// Materialize produces a [JournalEntry] owned by userID with sentinel
// defaults applied to every omitted field. now supplies the creation
// timestamp when the draft carries none.
func (d EntryDraft) Materialize(userID int64, now time.Time) JournalEntry {
	entry := JournalEntry{
		UserID:          userID,
		Title:           orUnset(d.Title),
		Summary:         orUnset(d.Summary),
		Transcription:   orUnset(d.Transcription),
		KeyInsights:     orUnset(d.KeyInsights),
		RecordingURL:    orUnset(d.RecordingURL),
		DatetimeCreated: now.UTC(),
	}
	if d.DatetimeCreated != nil && !d.DatetimeCreated.IsZero() {
		entry.DatetimeCreated = d.DatetimeCreated.UTC()
	}
	return entry
}

func orUnset(s string) string {
	if s == "" {
		return FieldUnset
	}
	return s
}

// EntryAnalysis carries the four fields produced by enrichment. Unlike
// [EntryDraft], all four are required together: the analysis update
// overwrites unconditionally and never merges.
type EntryAnalysis struct {
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	Transcription string `json:"transcription"`
	KeyInsights   string `json:"key_insights"`
}
