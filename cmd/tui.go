package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"github.com/yapjournal/yap/internal/shared"
	"github.com/yapjournal/yap/internal/ui"
)

// TUI launches the interactive terminal UI. An optional audio file argument
// runs the capture pipeline first and then drops into the entry browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	audioPath := cmd.StringArg("file")
	if audioPath != "" && (r.transcriber == nil || r.enricher == nil) {
		return fmt.Errorf("%w: transcription and enrichment services must be configured", shared.ErrMissingConfig)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/yap-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.journal, r.engine, audioPath)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
