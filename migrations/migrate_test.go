package migrations_test

import (
	"context"
	"path/filepath"
	"testing"

	"event-checkin/migrations"
	"event-checkin/pkg/database"
)

func TestApplySQLite_RecordsMigrations(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	if err := migrations.ApplySQLite(ctx, db.DB()); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	var count int
	if err := db.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count < 2 {
		t.Fatalf("expected at least 2 migrations, got %d", count)
	}

	if err := migrations.ApplySQLite(ctx, db.DB()); err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}

	var count2 int
	if err := db.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&count2); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count2 != count {
		t.Fatalf("expected migration count unchanged, got %d vs %d", count2, count)
	}

	for _, table := range []string{"events", "registrations", "otps", "admins", "sessions"} {
		var name string
		err := db.DB().QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %s: %v", table, err)
		}
	}

	var index string
	err = db.DB().QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'index' AND name = 'otps_code_idx'`,
	).Scan(&index)
	if err != nil {
		t.Fatalf("expected otps_code_idx: %v", err)
	}
}
