package shared

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&count)
	if err != nil {
		t.Fatalf("failed to check table %s: %v", name, err)
	}
	return count > 0
}

func TestRunMigrations(t *testing.T) {
	t.Run("creates all tables", func(t *testing.T) {
		db := openTestDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		for _, table := range []string{"schema_migrations", "tokens", "runs"} {
			if !tableExists(t, db, table) {
				t.Errorf("expected table %s to exist", table)
			}
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		db := openTestDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("first run: %v", err)
		}
		if err := RunMigrations(db); err != nil {
			t.Fatalf("second run: %v", err)
		}

		var applied int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied); err != nil {
			t.Fatalf("failed to count migrations: %v", err)
		}
		if applied == 0 {
			t.Error("expected applied migrations to be recorded")
		}
	})
}

func TestRollbackMigration(t *testing.T) {
	t.Run("rolls back the newest migration", func(t *testing.T) {
		db := openTestDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to migrate: %v", err)
		}

		var before int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&before); err != nil {
			t.Fatalf("failed to count migrations: %v", err)
		}

		if err := RollbackMigration(db); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var after int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&after); err != nil {
			t.Fatalf("failed to count migrations: %v", err)
		}
		if after != before-1 {
			t.Errorf("expected %d applied migrations after rollback, got %d", before-1, after)
		}
	})

	t.Run("nothing to roll back", func(t *testing.T) {
		db := openTestDB(t)
		if err := createMigrationsTable(db); err != nil {
			t.Fatalf("failed to create migrations table: %v", err)
		}

		if err := RollbackMigration(db); err == nil {
			t.Error("expected error with no applied migrations")
		}
	})
}

func TestLoadMigrations(t *testing.T) {
	migrations, err := loadMigrations()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(migrations) == 0 {
		t.Fatal("expected embedded migrations")
	}

	for i, m := range migrations {
		if m.Up == "" || m.Down == "" {
			t.Errorf("migration %d missing up or down SQL", m.Version)
		}
		if i > 0 && migrations[i-1].Version >= m.Version {
			t.Error("expected migrations sorted by ascending version")
		}
	}
}

func TestNewDatabase(t *testing.T) {
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer db.Close()

	ConfigureDatabase(db, 2, 1)

	if err := db.Ping(); err != nil {
		t.Errorf("expected database to be reachable: %v", err)
	}
}
