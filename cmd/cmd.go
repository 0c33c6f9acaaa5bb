// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes the database and config scaffold
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize database and run migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.SetupDatabase,
	}
}

// serveCommand runs the journal entry API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the journal entry API server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// captureCommand runs the full voice-note pipeline for one recording
func captureCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "capture",
		Aliases: []string{"cap"},
		Usage:   "Capture a voice note: upload, transcribe, and enrich",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "file",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the final entry as JSON",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Suppress progress output",
			},
		},
		Action: r.Capture,
	}
}

// entriesCommand handles journal entry operations
func entriesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "entries",
		Aliases: []string{"e"},
		Usage:   "Journal entry operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List your journal entries",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "date",
						Aliases: []string{"d"},
						Usage:   "Only entries for this day (YYYY-MM-DD)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.EntriesList,
			},
			{
				Name:  "show",
				Usage: "Show one entry in full",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.EntriesShow,
			},
			{
				Name:  "new",
				Usage: "Create an entry without a recording",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "Entry title",
					},
					&cli.StringFlag{
						Name:  "summary",
						Usage: "Entry summary",
					},
					&cli.StringFlag{
						Name:  "transcription",
						Usage: "Entry text",
					},
				},
				Action: r.EntriesNew,
			},
			{
				Name:  "enrich",
				Usage: "Re-run transcription and enrichment for an entry",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.EntriesEnrich,
			},
			{
				Name:  "delete",
				Usage: "Delete an entry",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.EntriesDelete,
			},
		},
	}
}

// apiCommand handles direct calls against the entry API
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the journal server",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the journal server, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST to the journal server",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "JSON request body",
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse your journal interactively",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "file",
			},
		},
		Action: r.TUI,
	}
}
