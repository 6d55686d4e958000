package activity

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates a temporary SQLite database with the activity_log table
// applied. The database file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "activity-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schemaSQL := `
		CREATE TABLE activity_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			message TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'info',
			timestamp TEXT NOT NULL
		);
	`
	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("creating schema: %v", err)
	}

	return db
}

func TestRepository_AppendAndList(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	messages := []string{"first", "second", "third"}
	for _, msg := range messages {
		if err := repo.Append(ctx, msg, TypeInfo); err != nil {
			t.Fatalf("Append(%q) error = %v", msg, err)
		}
	}

	entries, err := repo.List(ctx, DefaultLimit)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("List() length = %d, want 3", len(entries))
	}
	if entries[0].Message != "third" {
		t.Errorf("newest first: entries[0] = %q", entries[0].Message)
	}
	if entries[2].Message != "first" {
		t.Errorf("oldest last: entries[2] = %q", entries[2].Message)
	}
	if entries[0].Timestamp.IsZero() {
		t.Error("timestamps should be set")
	}
}

func TestRepository_ListLimit(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := repo.Append(ctx, "entry", TypeInfo); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	entries, err := repo.List(ctx, 4)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 4 {
		t.Errorf("List(4) length = %d, want 4", len(entries))
	}

	// Zero falls back to the default limit.
	entries, err = repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 10 {
		t.Errorf("List(0) length = %d, want 10", len(entries))
	}
}

func TestRepository_ListClampsToMax(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	for i := 0; i < MaxLimit+10; i++ {
		if err := repo.Append(ctx, "entry", TypeInfo); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	entries, err := repo.List(ctx, MaxLimit*2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != MaxLimit {
		t.Errorf("List() length = %d, want %d", len(entries), MaxLimit)
	}
}

func TestRepository_InvalidTypeCoercedToInfo(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	if err := repo.Append(ctx, "odd entry", EntryType("catastrophe")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	entries, err := repo.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if entries[0].Type != TypeInfo {
		t.Errorf("Type = %q, want info", entries[0].Type)
	}
}

func TestRepository_Clear(t *testing.T) {
	repo := NewSQLiteRepository(testDB(t))
	ctx := context.Background()

	if err := repo.Append(ctx, "entry", TypeWarning); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	entries, err := repo.List(ctx, DefaultLimit)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List() after Clear length = %d, want 0", len(entries))
	}
}
