package ui

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yapjournal/yap/internal/models"
	"github.com/yapjournal/yap/internal/services"
	"github.com/yapjournal/yap/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	EntryListView ViewState = iota
	EntryDetailView
	ConfirmDeleteView
	CaptureView
	ResultView
)

// EntryBrowser is the slice of the journal API the TUI reads and mutates.
type EntryBrowser interface {
	ListEntries(ctx context.Context) ([]models.JournalEntry, error)
	DeleteEntry(ctx context.Context, entryID int64) (*services.DeleteResult, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	client       EntryBrowser
	engine       *tasks.JournalEngine
	audioPath    string
	width        int
	height       int
	entryList    list.Model
	entries      []models.JournalEntry
	selected     *models.JournalEntry
	progressChan chan tasks.ProgressUpdate
	captureDone  chan captureCompleteMsg
	progress     tasks.ProgressUpdate
	captured     *tasks.CaptureResult
	err          error
	help         help.Model
	keys         keyMap
}

type entriesFetchedMsg struct {
	entries []models.JournalEntry
	err     error
}

type entryDeletedMsg struct {
	entryID int64
	err     error
}

type progressUpdateMsg tasks.ProgressUpdate

type captureCompleteMsg struct {
	result *tasks.CaptureResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies. When
// audioPath is non-empty the model starts in the capture view and runs the
// pipeline before showing the entry list.
func NewModel(ctx context.Context, client EntryBrowser, engine *tasks.JournalEngine, audioPath string) *Model {
	view := EntryListView
	if audioPath != "" {
		view = CaptureView
	}
	return &Model{
		ctx:       ctx,
		view:      view,
		client:    client,
		engine:    engine,
		audioPath: audioPath,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init starts the capture pipeline when an audio path was given, otherwise
// fetches the entry list.
func (m *Model) Init() tea.Cmd {
	if m.view == CaptureView {
		return m.startCapture()
	}
	return m.fetchEntries()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.entryList.Width() == 0 {
			m.entryList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case EntryListView:
			return m.handleEntryListKeys(msg)
		case EntryDetailView:
			return m.handleDetailKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmDeleteKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case entriesFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.entries = msg.entries
		items := make([]list.Item, len(msg.entries))
		for i, entry := range msg.entries {
			items[i] = entryItem{entry: entry}
		}
		m.entryList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.entryList.Title = "Journal Entries"
		m.entryList.SetSize(m.width-4, m.height-8)
		m.view = EntryListView
		return m, nil

	case entryDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = EntryListView
			return m, nil
		}
		m.selected = nil
		return m, m.fetchEntries()

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case captureCompleteMsg:
		m.captured = msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView && m.view != EntryListView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case EntryListView:
		return m.renderEntryList()
	case EntryDetailView:
		return m.renderDetail()
	case ConfirmDeleteView:
		return m.renderConfirmDelete()
	case CaptureView:
		return m.renderCapture()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleEntryListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		return m, m.fetchEntries()
	case "enter":
		if selected := m.entryList.SelectedItem(); selected != nil {
			if item, ok := selected.(entryItem); ok {
				entry := item.entry
				m.selected = &entry
				m.view = EntryDetailView
			}
		}
		return m, nil
	case "d":
		if selected := m.entryList.SelectedItem(); selected != nil {
			if item, ok := selected.(entryItem); ok {
				entry := item.entry
				m.selected = &entry
				m.view = ConfirmDeleteView
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.entryList, cmd = m.entryList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = EntryListView
		return m, nil
	case "d":
		m.view = ConfirmDeleteView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = EntryListView
		return m, nil
	case "y":
		return m, m.deleteSelected()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		m.err = nil
		return m, m.fetchEntries()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == EntryListView {
		m.entryList, cmd = m.entryList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchEntries() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.client.ListEntries(m.ctx)
		// the API lists oldest-first; the browser shows the latest on top
		slices.Reverse(entries)
		return entriesFetchedMsg{entries: entries, err: err}
	}
}

func (m *Model) deleteSelected() tea.Cmd {
	entryID := m.selected.EntryID
	return func() tea.Msg {
		_, err := m.client.DeleteEntry(m.ctx, entryID)
		return entryDeletedMsg{entryID: entryID, err: err}
	}
}

func (m *Model) startCapture() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progress := m.progressChan

	done := make(chan captureCompleteMsg, 1)
	go func() {
		result, err := m.engine.Capture(m.ctx, progress, m.audioPath)
		done <- captureCompleteMsg{result: result, err: err}
		close(progress)
	}()
	m.captureDone = done

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return nil
		}
		update, ok := <-m.progressChan
		if !ok {
			return <-m.captureDone
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderEntryList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.delete, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	body := m.entryList.View()
	if m.err != nil {
		body = fmt.Sprintf("%s\n%s", styles.warn.Render(fmt.Sprintf("Last action failed: %v", m.err)), body)
	}
	return fmt.Sprintf("%s\n\n%s", body, helpView)
}

func (m *Model) renderDetail() string {
	entry := m.selected
	title := styles.title.Render(entryItem{entry: *entry}.Title())

	body := fmt.Sprintf(
		"Created: %s\nRecording: %s\n\n%s\n%s\n\n%s\n%s\n\n%s\n%s",
		entry.DatetimeCreated.Format("Mon, Jan 2 2006 15:04"),
		entry.RecordingURL,
		styles.ok.Render("Summary"),
		entry.Summary,
		styles.ok.Render("Key Insights"),
		entry.KeyInsights,
		styles.ok.Render("Transcription"),
		entry.Transcription,
	)

	helpKeys := []key.Binding{m.keys.back, m.keys.delete, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, body, helpView)
}

func (m *Model) renderConfirmDelete() string {
	title := styles.title.Render(fmt.Sprintf("Delete entry %d?", m.selected.EntryID))
	info := fmt.Sprintf("\n%s\nThis cannot be undone.\n", entryItem{entry: *m.selected}.Title())

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderCapture() string {
	title := styles.title.Render("Capturing Voice Note")

	var phase string
	switch m.progress.Phase {
	case tasks.ValidateAudio:
		phase = "Checking the recording..."
	case tasks.UploadRecording:
		phase = "Uploading to blob storage..."
	case tasks.CreateEntry:
		phase = "Creating journal entry..."
	case tasks.Transcribe:
		phase = "Transcribing..."
	case tasks.Enrich:
		phase = "Generating title, summary and insights..."
	case tasks.SaveAnalysis:
		phase = "Saving analysis..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n[%d/%d] %s\n%s", title, m.progress.Step, m.progress.Total, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Capture failed: %v\n\nPress enter for your entries, q to quit", m.err))
	}

	if m.captured == nil || m.captured.Entry == nil {
		return styles.err.Render("No result available\n\nPress enter for your entries, q to quit")
	}

	title := styles.ok.Render("✓ Entry Captured!")
	entry := m.captured.Entry
	info := fmt.Sprintf(
		"\nEntry %d: %s\nRecording: %s\n\n%s",
		entry.EntryID,
		entry.Title,
		m.captured.RecordingURL,
		snippet(entry.Summary, 200),
	)

	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
