package ui

import (
	"context"
	"errors"
	"testing"

	"github.com/yapjournal/yap/internal/models"
	"github.com/yapjournal/yap/internal/services"
)

type fakeBrowser struct {
	entries []models.JournalEntry
	err     error
}

func (f *fakeBrowser) ListEntries(ctx context.Context) ([]models.JournalEntry, error) {
	return f.entries, f.err
}

func (f *fakeBrowser) DeleteEntry(ctx context.Context, entryID int64) (*services.DeleteResult, error) {
	return &services.DeleteResult{}, f.err
}

func TestFetchEntries(t *testing.T) {
	t.Run("lists the latest entry first", func(t *testing.T) {
		browser := &fakeBrowser{entries: []models.JournalEntry{
			{EntryID: 1, Title: "first"},
			{EntryID: 2, Title: "second"},
			{EntryID: 3, Title: "third"},
		}}
		m := NewModel(context.Background(), browser, nil, "")

		msg, ok := m.fetchEntries()().(entriesFetchedMsg)
		if !ok {
			t.Fatalf("expected entriesFetchedMsg, got %T", msg)
		}
		if msg.err != nil {
			t.Fatalf("fetch failed: %v", msg.err)
		}

		got := make([]int64, len(msg.entries))
		for i, entry := range msg.entries {
			got[i] = entry.EntryID
		}
		want := []int64{3, 2, 1}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected order %v, got %v", want, got)
			}
		}
	})

	t.Run("carries the client error", func(t *testing.T) {
		browser := &fakeBrowser{err: errors.New("api down")}
		m := NewModel(context.Background(), browser, nil, "")

		msg := m.fetchEntries()().(entriesFetchedMsg)
		if msg.err == nil {
			t.Error("expected the fetch error to surface")
		}
	})
}
