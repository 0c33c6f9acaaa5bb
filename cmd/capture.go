package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/urfave/cli/v3"
	"github.com/yapjournal/yap/internal/shared"
	"github.com/yapjournal/yap/internal/tasks"
)

// Capture runs the full voice-note pipeline for one local recording.
func (r *Runner) Capture(ctx context.Context, cmd *cli.Command) error {
	audioPath := cmd.StringArg("file")
	if audioPath == "" {
		return fmt.Errorf("%w: path to an audio file is required", shared.ErrMissingArgument)
	}

	useJSON := cmd.Bool("json")
	quiet := cmd.Bool("quiet")

	if r.transcriber == nil || r.enricher == nil {
		return fmt.Errorf("%w: transcription and enrichment services must be configured", shared.ErrMissingConfig)
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	var wg sync.WaitGroup
	if !quiet {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for update := range progress {
				r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
			}
		}()
	}

	result, err := r.engine.Capture(ctx, progress, audioPath)
	close(progress)
	wg.Wait()

	if err != nil {
		if result != nil && result.Entry != nil {
			r.writePlain("Entry %d was created but the pipeline failed; retry with 'yap entries enrich %d'\n",
				result.Entry.EntryID, result.Entry.EntryID)
		}
		return fmt.Errorf("capture failed: %w", err)
	}

	if useJSON {
		return r.writeJSON(result.Entry, true)
	}

	r.writePlainHeader(fmt.Sprintf("Entry %d: %s", result.Entry.EntryID, result.Entry.Title))
	r.writePlain("Recording: %s\n", result.RecordingURL)
	r.writePlainln("Summary:")
	r.writePlain("%s\n", result.Entry.Summary)
	r.writePlainln("Key Insights:")
	r.writePlain("%s\n", result.Entry.KeyInsights)

	return nil
}
