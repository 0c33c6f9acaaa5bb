package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/yapjournal/yap/internal/models"
)

var _ list.Item = entryItem{}

// entryItem wraps [models.JournalEntry] to implement [list.Item].
type entryItem struct {
	entry models.JournalEntry
}

func (i entryItem) FilterValue() string { return i.entry.Title }

func (i entryItem) Title() string {
	if i.entry.Title == models.FieldUnset {
		return fmt.Sprintf("Entry %d (untitled)", i.entry.EntryID)
	}
	return i.entry.Title
}

func (i entryItem) Description() string {
	desc := i.entry.DatetimeCreated.Format("Mon, Jan 2 2006 15:04")
	if i.entry.Summary != models.FieldUnset {
		desc = fmt.Sprintf("%s • %s", desc, snippet(i.entry.Summary, 60))
	}
	return desc
}

// snippet truncates s to at most n runes with an ellipsis.
func snippet(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
