package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"
	"github.com/yapjournal/yap/internal/models"
	"github.com/yapjournal/yap/internal/shared"
)

// EntriesList prints the session user's entries, optionally for one day.
func (r *Runner) EntriesList(ctx context.Context, cmd *cli.Command) error {
	date := cmd.String("date")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	var entries []models.JournalEntry
	var err error
	if date != "" {
		r.logger.Info("fetching entries", "date", date)
		entries, err = r.journal.EntriesByDate(ctx, date)
	} else {
		r.logger.Info("fetching all entries")
		entries, err = r.journal.ListEntries(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch entries: %w", err)
	}

	if useJSON {
		return r.writeJSON(entries, pretty)
	}

	if len(entries) == 0 {
		r.writePlain("No entries yet. Record one with 'yap capture <file>'.\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Journal Entries (%d)", len(entries)))
	for _, entry := range entries {
		title := entry.Title
		if title == models.FieldUnset {
			title = "(untitled)"
		}
		r.writePlain("%4d  %s  %s\n", entry.EntryID, entry.DatetimeCreated.Format("2006-01-02 15:04"), title)
	}

	return nil
}

// EntriesShow prints one entry in full.
func (r *Runner) EntriesShow(ctx context.Context, cmd *cli.Command) error {
	entryID, err := entryIDArg(cmd)
	if err != nil {
		return err
	}

	entry, err := r.journal.Entry(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to fetch entry: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(entry, true)
	}

	r.writePlainHeader(fmt.Sprintf("Entry %d: %s", entry.EntryID, entry.Title))
	r.writePlain("Created: %s\n", entry.DatetimeCreated.Format("Mon, Jan 2 2006 15:04"))
	r.writePlain("Recording: %s\n", entry.RecordingURL)
	r.writePlainln("Summary:")
	r.writePlain("%s\n", entry.Summary)
	r.writePlainln("Key Insights:")
	r.writePlain("%s\n", entry.KeyInsights)
	r.writePlainln("Transcription:")
	r.writePlain("%s\n", entry.Transcription)

	return nil
}

// EntriesNew creates a text-only entry without a recording.
func (r *Runner) EntriesNew(ctx context.Context, cmd *cli.Command) error {
	draft := models.EntryDraft{
		Title:         cmd.String("title"),
		Summary:       cmd.String("summary"),
		Transcription: cmd.String("transcription"),
	}

	entry, err := r.journal.CreateEntry(ctx, draft)
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}

	r.writePlain("Created entry %d\n", entry.EntryID)
	return nil
}

// EntriesEnrich re-runs transcription and enrichment for an existing entry.
func (r *Runner) EntriesEnrich(ctx context.Context, cmd *cli.Command) error {
	entryID, err := entryIDArg(cmd)
	if err != nil {
		return err
	}

	if r.transcriber == nil || r.enricher == nil {
		return fmt.Errorf("%w: transcription and enrichment services must be configured", shared.ErrMissingConfig)
	}

	entry, err := r.journal.Entry(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to fetch entry: %w", err)
	}

	r.logger.Info("re-enriching entry", "entry_id", entryID, "recording", entry.RecordingURL)

	updated, err := r.engine.Enrich(ctx, nil, entry)
	if err != nil {
		return fmt.Errorf("enrichment failed: %w", err)
	}

	r.writePlain("Entry %d enriched: %s\n", updated.EntryID, updated.Title)
	return nil
}

// EntriesDelete removes an entry after confirmation.
func (r *Runner) EntriesDelete(ctx context.Context, cmd *cli.Command) error {
	entryID, err := entryIDArg(cmd)
	if err != nil {
		return err
	}

	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: pass --yes to confirm deleting entry %d", shared.ErrMissingArgument, entryID)
	}

	result, err := r.journal.DeleteEntry(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	r.writePlain("%s\n", result.Message)
	return nil
}

func entryIDArg(cmd *cli.Command) (int64, error) {
	raw := cmd.StringArg("id")
	if raw == "" {
		return 0, fmt.Errorf("%w: entry id is required", shared.ErrMissingArgument)
	}
	entryID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a valid entry id", shared.ErrInvalidArgument, raw)
	}
	return entryID, nil
}
