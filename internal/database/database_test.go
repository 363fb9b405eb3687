package database

import (
	"path/filepath"
	"testing"

	"github.com/heleneolivares/portfolio-evolution/internal/logger"
)

func init() {
	logger.Init("test")
}

func TestNewConfig(t *testing.T) {
	t.Run("defaults_to_postgres", func(t *testing.T) {
		t.Setenv("DB_DRIVER", DriverPostgres)
		t.Setenv("DB_HOST", "db")
		t.Setenv("DB_PORT", "5433")
		t.Setenv("DB_USER", "u")
		t.Setenv("DB_PASSWORD", "p")
		t.Setenv("DB_NAME", "n")
		t.Setenv("DB_SSLMODE", "disable")

		cfg, err := NewConfig()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got, want := cfg.DSN(), "host=db port=5433 user=u password=p dbname=n sslmode=disable"; got != want {
			t.Errorf("DSN() = %q, want %q", got, want)
		}
		if got, want := cfg.MigrateURL(), "postgres://u:p@db:5433/n?sslmode=disable"; got != want {
			t.Errorf("MigrateURL() = %q, want %q", got, want)
		}
	})

	t.Run("sqlite_dsn", func(t *testing.T) {
		t.Setenv("DB_DRIVER", DriverSQLite)
		t.Setenv("SQLITE_PATH", "/tmp/p.db")

		cfg, err := NewConfig()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got, want := cfg.DSN(), "file:/tmp/p.db?_foreign_keys=on"; got != want {
			t.Errorf("DSN() = %q, want %q", got, want)
		}
	})

	t.Run("rejects_unknown_driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		if _, err := NewConfig(); err == nil {
			t.Error("expected an error for an unsupported driver")
		}
	})
}

func TestManagerSQLite(t *testing.T) {
	cfg := &Config{Driver: DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "portfolio.db")}

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer m.Close()

	if err := m.RunMigrations(); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}
	// Running twice is a no-op.
	if err := m.RunMigrations(); err != nil {
		t.Fatalf("second RunMigrations: %v", err)
	}

	for _, table := range []string{"asset", "asset_price", "portfolio", "portfolio_position", "audit_log"} {
		if !m.DB().Migrator().HasTable(table) {
			t.Errorf("expected table %s to exist", table)
		}
	}
}
