package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yapjournal/yap/internal/models"
	"github.com/yapjournal/yap/internal/repositories"
	"github.com/yapjournal/yap/internal/shared"
)

const analysisFieldsMessage = "Invalid request body features; Must contain title, summary, transcription, key_insights"

// EntryHandler exposes the journal entry store over HTTP. Every route runs
// behind the session middleware, so a [SessionContext] is always present.
type EntryHandler struct {
	entries *repositories.EntryRepository
	logger  *log.Logger
}

// NewEntryHandler creates an [EntryHandler] backed by the given repository.
func NewEntryHandler(entries *repositories.EntryRepository, logger *log.Logger) *EntryHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &EntryHandler{entries: entries, logger: logger}
}

// Routes implements [Handler].
//
// The literal "date" segment takes precedence over the {entry_id} wildcard
// under ServeMux pattern rules, so the by-date query never shadows lookups.
func (h *EntryHandler) Routes() []Route {
	return []Route{
		{Pattern: "GET /{$}", Handler: h.Root},
		{Pattern: "POST /api/journal_entries/{$}", Handler: h.CreateEntry},
		{Pattern: "GET /api/journal_entries/{$}", Handler: h.ListEntries},
		{Pattern: "GET /api/journal_entries/date/{$}", Handler: h.EntriesByDate},
		{Pattern: "GET /api/journal_entries/{entry_id}/{$}", Handler: h.GetEntry},
		{Pattern: "POST /api/journal_entries/{entry_id}/{$}", Handler: h.UpdateAnalysis},
		{Pattern: "DELETE /api/journal_entries/{entry_id}/{$}", Handler: h.DeleteEntry},
	}
}

// checkOwner returns [shared.ErrForbidden] when the entry belongs to a user
// other than the session user.
func checkOwner(sess SessionContext, entry *models.JournalEntry) error {
	if entry.UserID != sess.UserID {
		return fmt.Errorf("%w: entry %d belongs to user %d", shared.ErrForbidden, entry.EntryID, entry.UserID)
	}
	return nil
}

// Root reports liveness.
func (h *EntryHandler) Root(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"message": "Journal API active"})
}

// CreateEntry accepts a partial entry payload and persists it for the
// session user. The canonical payload is flat: string values for any of
// title, summary, transcription, key_insights, recording_url, plus an
// optional RFC3339 datetime_created. Non-string values (the legacy nested
// client shape) are not unwrapped; their fields fall back to the sentinel.
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		fail(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	draft, err := decodeDraft(body)
	if err != nil {
		fail(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := h.entries.Create(sess.UserID, draft)
	if err != nil {
		h.logger.Error("entry insert failed", "user_id", sess.UserID, "error", err)
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond(w, http.StatusCreated, entry)
}

// ListEntries returns every entry owned by the session user.
func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())

	entries, err := h.entries.ListByUser(sess.UserID)
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond(w, http.StatusOK, entries)
}

// GetEntry returns a single entry owned by the session user.
func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())

	entryID, ok := h.entryID(w, r)
	if !ok {
		return
	}

	entry, err := h.entries.Get(entryID)
	if errors.Is(err, shared.ErrEntryNotFound) {
		fail(w, http.StatusNotFound, "Entry not found")
		return
	}
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := checkOwner(sess, entry); err != nil {
		h.logger.Warn("entry access denied", "user_id", sess.UserID, "error", err)
		fail(w, http.StatusForbidden, "Unauthorized to view this entry")
		return
	}

	respond(w, http.StatusOK, entry)
}

// UpdateAnalysis overwrites the four enrichment fields of an entry. All four
// must be present in the body; ownership is enforced the same way delete
// enforces it.
func (h *EntryHandler) UpdateAnalysis(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())

	entryID, ok := h.entryID(w, r)
	if !ok {
		return
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		fail(w, http.StatusBadRequest, analysisFieldsMessage)
		return
	}

	var analysis models.EntryAnalysis
	for key, dest := range map[string]*string{
		"title":         &analysis.Title,
		"summary":       &analysis.Summary,
		"transcription": &analysis.Transcription,
		"key_insights":  &analysis.KeyInsights,
	} {
		raw, present := body[key]
		if !present || json.Unmarshal(raw, dest) != nil {
			fail(w, http.StatusBadRequest, analysisFieldsMessage)
			return
		}
	}

	existing, err := h.entries.Get(entryID)
	if errors.Is(err, shared.ErrEntryNotFound) {
		fail(w, http.StatusNotFound, "Entry not found")
		return
	}
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := checkOwner(sess, existing); err != nil {
		h.logger.Warn("entry update denied", "user_id", sess.UserID, "error", err)
		fail(w, http.StatusForbidden, "Unauthorized to update this entry")
		return
	}

	entry, err := h.entries.UpdateAnalysis(entryID, analysis)
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond(w, http.StatusOK, entry)
}

// DeleteEntry removes an entry owned by the session user and returns its
// final snapshot with a confirmation message.
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())

	entryID, ok := h.entryID(w, r)
	if !ok {
		return
	}

	existing, err := h.entries.Get(entryID)
	if errors.Is(err, shared.ErrEntryNotFound) {
		fail(w, http.StatusNotFound, "Entry not found")
		return
	}
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := checkOwner(sess, existing); err != nil {
		h.logger.Warn("entry delete denied", "user_id", sess.UserID, "error", err)
		fail(w, http.StatusForbidden, "Unauthorized to delete this entry")
		return
	}

	deleted, err := h.entries.Delete(entryID)
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"message":       fmt.Sprintf("Entry %d successfully deleted", entryID),
		"deleted_entry": deleted,
	})
}

// EntriesByDate returns the session user's entries created on a given UTC
// day. The date query parameter is required, in YYYY-MM-DD form.
func (h *EntryHandler) EntriesByDate(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFromContext(r.Context())

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		fail(w, http.StatusBadRequest, shared.ErrMissingDate.Error())
		return
	}

	day, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
	if err != nil {
		fail(w, http.StatusBadRequest, shared.ErrInvalidDate.Error())
		return
	}

	entries, err := h.entries.ListByUserOnDate(sess.UserID, day)
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond(w, http.StatusOK, entries)
}

// entryID parses the {entry_id} path segment. A non-numeric id behaves like
// a route that does not exist.
func (h *EntryHandler) entryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("entry_id"), 10, 64)
	if err != nil {
		fail(w, http.StatusNotFound, "Entry not found")
		return 0, false
	}
	return id, true
}

// decodeDraft builds an [models.EntryDraft] from a flat JSON object. Keys
// holding non-string values are treated as absent so the repository applies
// sentinel defaults.
func decodeDraft(body []byte) (models.EntryDraft, error) {
	var raw map[string]json.RawMessage
	if len(body) > 0 {
		if err := json.Unmarshal(body, &raw); err != nil {
			return models.EntryDraft{}, fmt.Errorf("request body must be a JSON object")
		}
	}

	stringField := func(key string) string {
		var s string
		if msg, ok := raw[key]; ok {
			json.Unmarshal(msg, &s)
		}
		return s
	}

	draft := models.EntryDraft{
		Title:         stringField("title"),
		Summary:       stringField("summary"),
		Transcription: stringField("transcription"),
		KeyInsights:   stringField("key_insights"),
		RecordingURL:  stringField("recording_url"),
	}

	if msg, ok := raw["datetime_created"]; ok {
		var ts time.Time
		if err := json.Unmarshal(msg, &ts); err != nil {
			return models.EntryDraft{}, fmt.Errorf("datetime_created must be an ISO-8601 timestamp")
		}
		draft.DatetimeCreated = &ts
	}

	return draft, nil
}
