// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing the journal:
//  1. [EntryListView] : Browse journal entries newest-first
//  2. [EntryDetailView] : Read one entry's summary, insights and transcript
//  3. [ConfirmDeleteView] : Confirm entry deletion
//  4. [CaptureView] : Monitor a running capture pipeline
//  5. [ResultView] : Display the captured entry
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the JournalEngine, providing non-blocking status reporting during captures.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, d, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
