package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/yapjournal/yap/internal/models"
	"github.com/yapjournal/yap/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func mustCreateUser(t *testing.T, db *sql.DB) *models.User {
	t.Helper()
	user, err := NewUserRepository(db).Create()
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestUserRepository(t *testing.T) {
	t.Run("Create Assigns ID And Timestamp", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := mustCreateUser(t, db)

		if user.ID <= 0 {
			t.Errorf("expected positive user id, got %d", user.ID)
		}
		if user.CreatedAt.IsZero() {
			t.Error("expected created_at to be set")
		}
	})

	t.Run("Get Missing User", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewUserRepository(db).Get(42)
		if !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("GetOrCreateDefault Is Idempotent", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)

		first, err := repo.GetOrCreateDefault()
		if err != nil {
			t.Fatalf("first bootstrap failed: %v", err)
		}
		second, err := repo.GetOrCreateDefault()
		if err != nil {
			t.Fatalf("second bootstrap failed: %v", err)
		}

		if first.ID != second.ID {
			t.Errorf("expected the same default user, got %d and %d", first.ID, second.ID)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
			t.Fatalf("failed to count users: %v", err)
		}
		if count != 1 {
			t.Errorf("expected one user row, got %d", count)
		}
	})
}

func TestEntryRepositoryCreate(t *testing.T) {
	t.Run("Omitted Fields Default To Sentinel", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := mustCreateUser(t, db)
		repo := NewEntryRepository(db)

		created, err := repo.Create(user.ID, models.EntryDraft{Title: "Day One"})
		if err != nil {
			t.Fatalf("failed to create entry: %v", err)
		}

		got, err := repo.Get(created.EntryID)
		if err != nil {
			t.Fatalf("failed to get entry: %v", err)
		}

		if got.Title != "Day One" {
			t.Errorf("expected supplied title to persist, got %q", got.Title)
		}
		for name, field := range map[string]string{
			"summary":       got.Summary,
			"transcription": got.Transcription,
			"key_insights":  got.KeyInsights,
			"recording_url": got.RecordingURL,
		} {
			if field != models.FieldUnset {
				t.Errorf("expected %s to default to %q, got %q", name, models.FieldUnset, field)
			}
		}
		if got.DatetimeCreated.IsZero() {
			t.Error("expected datetime_created to default to now")
		}
	})

	t.Run("Missing Owner Fails", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewEntryRepository(db).Create(999, models.EntryDraft{})
		if !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("IDs Are Never Reused", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := mustCreateUser(t, db)
		repo := NewEntryRepository(db)

		first, err := repo.Create(user.ID, models.EntryDraft{})
		if err != nil {
			t.Fatalf("failed to create first entry: %v", err)
		}
		if _, err := repo.Delete(first.EntryID); err != nil {
			t.Fatalf("failed to delete first entry: %v", err)
		}

		second, err := repo.Create(user.ID, models.EntryDraft{})
		if err != nil {
			t.Fatalf("failed to create second entry: %v", err)
		}

		if second.EntryID == first.EntryID {
			t.Errorf("entry id %d was reused after delete", first.EntryID)
		}
		if second.EntryID < first.EntryID {
			t.Errorf("expected ids to move forward, got %d after %d", second.EntryID, first.EntryID)
		}
	})
}

func TestEntryRepositoryTenantIsolation(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	userA := mustCreateUser(t, db)
	userB := mustCreateUser(t, db)
	repo := NewEntryRepository(db)

	if _, err := repo.Create(userA.ID, models.EntryDraft{Title: "A's entry"}); err != nil {
		t.Fatalf("failed to create entry for A: %v", err)
	}
	if _, err := repo.Create(userB.ID, models.EntryDraft{Title: "B's entry"}); err != nil {
		t.Fatalf("failed to create entry for B: %v", err)
	}

	entries, err := repo.ListByUser(userA.ID)
	if err != nil {
		t.Fatalf("failed to list entries: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry for A, got %d", len(entries))
	}
	if entries[0].UserID != userA.ID {
		t.Errorf("listing for A returned entry owned by %d", entries[0].UserID)
	}
}

func TestEntryRepositoryDateWindow(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := mustCreateUser(t, db)
	repo := NewEntryRepository(db)

	at := func(ts time.Time) *time.Time { return &ts }
	day := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

	inside := []models.EntryDraft{
		{Title: "midnight", DatetimeCreated: at(time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC))},
		{Title: "noon", DatetimeCreated: at(time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC))},
		{Title: "last second", DatetimeCreated: at(time.Date(2024, 3, 14, 23, 59, 59, 0, time.UTC))},
	}
	outside := []models.EntryDraft{
		{Title: "day before", DatetimeCreated: at(time.Date(2024, 3, 13, 23, 59, 59, 0, time.UTC))},
		{Title: "next midnight", DatetimeCreated: at(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))},
	}

	for _, draft := range append(inside, outside...) {
		if _, err := repo.Create(user.ID, draft); err != nil {
			t.Fatalf("failed to create entry %q: %v", draft.Title, err)
		}
	}

	entries, err := repo.ListByUserOnDate(user.ID, day)
	if err != nil {
		t.Fatalf("failed to query by date: %v", err)
	}

	if len(entries) != len(inside) {
		t.Fatalf("expected %d entries in window, got %d", len(inside), len(entries))
	}
	for i, want := range []string{"midnight", "noon", "last second"} {
		if entries[i].Title != want {
			t.Errorf("expected entry %d to be %q, got %q", i, want, entries[i].Title)
		}
	}
}

func TestEntryRepositoryUpdateAnalysis(t *testing.T) {
	t.Run("Overwrites All Four Fields", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := mustCreateUser(t, db)
		repo := NewEntryRepository(db)

		created, err := repo.Create(user.ID, models.EntryDraft{RecordingURL: "s3://bucket/a.m4a"})
		if err != nil {
			t.Fatalf("failed to create entry: %v", err)
		}

		updated, err := repo.UpdateAnalysis(created.EntryID, models.EntryAnalysis{
			Title:         "03-14-2024 \"Pi Day\"",
			Summary:       "You spent the day baking.",
			Transcription: "today I baked a pie",
			KeyInsights:   "- proud of the result",
		})
		if err != nil {
			t.Fatalf("failed to update analysis: %v", err)
		}

		if updated.Title != "03-14-2024 \"Pi Day\"" || updated.Summary == models.FieldUnset {
			t.Errorf("analysis fields not overwritten: %+v", updated)
		}
		if updated.RecordingURL != "s3://bucket/a.m4a" {
			t.Errorf("recording_url should be untouched, got %q", updated.RecordingURL)
		}
	})

	t.Run("Missing Entry Mutates Nothing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := mustCreateUser(t, db)
		repo := NewEntryRepository(db)

		created, err := repo.Create(user.ID, models.EntryDraft{Title: "untouched"})
		if err != nil {
			t.Fatalf("failed to create entry: %v", err)
		}

		_, err = repo.UpdateAnalysis(created.EntryID+100, models.EntryAnalysis{Title: "x"})
		if !errors.Is(err, shared.ErrEntryNotFound) {
			t.Errorf("expected ErrEntryNotFound, got %v", err)
		}

		got, err := repo.Get(created.EntryID)
		if err != nil {
			t.Fatalf("failed to re-read entry: %v", err)
		}
		if got.Title != "untouched" {
			t.Errorf("existing entry was mutated: %q", got.Title)
		}
	})
}

func TestEntryRepositoryDelete(t *testing.T) {
	t.Run("Returns Snapshot And Removes Row", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := mustCreateUser(t, db)
		repo := NewEntryRepository(db)

		created, err := repo.Create(user.ID, models.EntryDraft{Title: "to delete"})
		if err != nil {
			t.Fatalf("failed to create entry: %v", err)
		}

		snapshot, err := repo.Delete(created.EntryID)
		if err != nil {
			t.Fatalf("failed to delete entry: %v", err)
		}
		if snapshot.Title != "to delete" {
			t.Errorf("expected snapshot of deleted entry, got %+v", snapshot)
		}

		_, err = repo.Get(created.EntryID)
		if !errors.Is(err, shared.ErrEntryNotFound) {
			t.Errorf("expected ErrEntryNotFound after delete, got %v", err)
		}
	})

	t.Run("Missing Entry", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		_, err := NewEntryRepository(db).Delete(12345)
		if !errors.Is(err, shared.ErrEntryNotFound) {
			t.Errorf("expected ErrEntryNotFound, got %v", err)
		}
	})
}
