package config_test

import (
	"strings"
	"testing"

	"github.com/example/antcal/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults when the environment is empty", func(t *testing.T) {
		for _, key := range []string{
			"ANTCAL_HTTP_PORT", "ANTCAL_STORE_DRIVER", "ANTCAL_STORE_PATH",
			"ANTCAL_SQLITE_DSN", "ANTCAL_BACKUP_CRON", "ANTCAL_BACKUP_DIR",
		} {
			t.Setenv(key, "")
		}

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.HTTPPort != 5000 {
			t.Fatalf("expected default port 5000, got %d", cfg.HTTPPort)
		}
		if cfg.StoreDriver != config.StoreDriverFile {
			t.Fatalf("expected file driver, got %q", cfg.StoreDriver)
		}
		if cfg.StorePath != "db.json" {
			t.Fatalf("expected default store path, got %q", cfg.StorePath)
		}
		if cfg.BackupCron != "" {
			t.Fatalf("expected snapshots disabled by default, got %q", cfg.BackupCron)
		}
	})

	t.Run("reads overrides from the environment", func(t *testing.T) {
		t.Setenv("ANTCAL_HTTP_PORT", "8081")
		t.Setenv("ANTCAL_STORE_DRIVER", "sqlite")
		t.Setenv("ANTCAL_SQLITE_DSN", "file:custom.db")
		t.Setenv("ANTCAL_BACKUP_CRON", "0 3 * * *")
		t.Setenv("ANTCAL_BACKUP_DIR", "/var/backups/antcal")

		cfg, err := config.Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.HTTPPort != 8081 || cfg.StoreDriver != config.StoreDriverSQLite {
			t.Fatalf("unexpected config: %#v", cfg)
		}
		if cfg.SQLiteDSN != "file:custom.db" || cfg.BackupCron != "0 3 * * *" || cfg.BackupDir != "/var/backups/antcal" {
			t.Fatalf("unexpected config: %#v", cfg)
		}
	})

	t.Run("rejects invalid values and names the variables", func(t *testing.T) {
		t.Setenv("ANTCAL_HTTP_PORT", "zero")
		t.Setenv("ANTCAL_STORE_DRIVER", "postgres")

		_, err := config.Load()
		if err == nil {
			t.Fatal("expected error for invalid environment values")
		}
		if !strings.Contains(err.Error(), "ANTCAL_HTTP_PORT") || !strings.Contains(err.Error(), "ANTCAL_STORE_DRIVER") {
			t.Fatalf("expected offending variables in error, got: %v", err)
		}
	})
}
