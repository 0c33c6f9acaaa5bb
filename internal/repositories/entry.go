package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yapjournal/yap/internal/models"
	"github.com/yapjournal/yap/internal/shared"
)

const entryColumns = "entry_id, user_id, title, datetime_created, recording_url, transcription, summary, key_insights"

// EntryRepository persists [models.JournalEntry] rows.
type EntryRepository struct {
	db *sql.DB
}

// NewEntryRepository creates an [EntryRepository] with the given database connection.
func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Create materializes the draft for userID and inserts it. The owning user
// must exist: a missing owner fails with [shared.ErrUserNotFound] rather than
// inserting an orphan or creating a placeholder.
func (r *EntryRepository) Create(userID int64, draft models.EntryDraft) (*models.JournalEntry, error) {
	var exists bool
	if err := r.db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", userID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check entry owner: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: cannot create entry for user %d", shared.ErrUserNotFound, userID)
	}

	entry := draft.Materialize(userID, time.Now())
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	result, err := r.db.Exec(`
		INSERT INTO journal_entries (user_id, datetime_created, title, summary, transcription, key_insights, recording_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.UserID, entry.DatetimeCreated, entry.Title, entry.Summary, entry.Transcription, entry.KeyInsights, entry.RecordingURL)
	if err != nil {
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}

	entryID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read assigned entry id: %w", err)
	}

	entry.EntryID = entryID
	return &entry, nil
}

// Get retrieves an entry by id, returning [shared.ErrEntryNotFound] when
// absent. Absence is an expected outcome callers check with errors.Is.
func (r *EntryRepository) Get(entryID int64) (*models.JournalEntry, error) {
	row := r.db.QueryRow("SELECT "+entryColumns+" FROM journal_entries WHERE entry_id = ?", entryID)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", shared.ErrEntryNotFound, entryID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query entry: %w", err)
	}

	return entry, nil
}

// ListByUser returns every entry owned by userID, oldest first.
func (r *EntryRepository) ListByUser(userID int64) ([]models.JournalEntry, error) {
	rows, err := r.db.Query("SELECT "+entryColumns+" FROM journal_entries WHERE user_id = ? ORDER BY entry_id ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// ListByUserOnDate returns the entries of userID created within the UTC day
// [day 00:00:00, day 23:59:59], both bounds inclusive.
func (r *EntryRepository) ListByUserOnDate(userID int64, day time.Time) ([]models.JournalEntry, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.UTC)

	rows, err := r.db.Query(`
		SELECT `+entryColumns+` FROM journal_entries
		WHERE user_id = ? AND datetime_created >= ? AND datetime_created <= ?
		ORDER BY datetime_created ASC
	`, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries by date: %w", err)
	}
	defer rows.Close()

	return collectEntries(rows)
}

// UpdateAnalysis overwrites the four enrichment fields unconditionally. All
// four travel together: there is no partial analysis update. Fails with
// [shared.ErrEntryNotFound] when the entry does not exist.
func (r *EntryRepository) UpdateAnalysis(entryID int64, analysis models.EntryAnalysis) (*models.JournalEntry, error) {
	result, err := r.db.Exec(`
		UPDATE journal_entries
		SET title = ?, summary = ?, transcription = ?, key_insights = ?
		WHERE entry_id = ?
	`, analysis.Title, analysis.Summary, analysis.Transcription, analysis.KeyInsights, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: %d", shared.ErrEntryNotFound, entryID)
	}

	return r.Get(entryID)
}

// Delete physically removes an entry and returns its final snapshot. The
// AUTOINCREMENT primary key guarantees the freed id is never reassigned.
func (r *EntryRepository) Delete(entryID int64) (*models.JournalEntry, error) {
	entry, err := r.Get(entryID)
	if err != nil {
		return nil, err
	}

	if _, err := r.db.Exec("DELETE FROM journal_entries WHERE entry_id = ?", entryID); err != nil {
		return nil, fmt.Errorf("failed to delete entry: %w", err)
	}

	return entry, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	err := row.Scan(
		&entry.EntryID,
		&entry.UserID,
		&entry.Title,
		&entry.DatetimeCreated,
		&entry.RecordingURL,
		&entry.Transcription,
		&entry.Summary,
		&entry.KeyInsights,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func collectEntries(rows *sql.Rows) ([]models.JournalEntry, error) {
	entries := []models.JournalEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}
