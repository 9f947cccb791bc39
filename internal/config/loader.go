package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// StoreDriver selects the persistence backend.
type StoreDriver string

const (
	// StoreDriverFile keeps the whole document in one JSON file.
	StoreDriverFile StoreDriver = "file"
	// StoreDriverSQLite keeps the document in SQLite tables.
	StoreDriverSQLite StoreDriver = "sqlite"
)

// Config captures environment driven configuration values for the calendar service.
type Config struct {
	HTTPPort    int
	StoreDriver StoreDriver
	StorePath   string
	SQLiteDSN   string
	BackupCron  string
	BackupDir   string
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to defaults matching the original deployment
// (port 5000, db.json next to the binary). Invalid values are accumulated and
// reported together with a localized error message.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:    5000,
		StoreDriver: StoreDriverFile,
		StorePath:   "db.json",
		SQLiteDSN:   "file:antcal.db",
		BackupDir:   "backups",
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("ANTCAL_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "ANTCAL_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if driver := strings.TrimSpace(os.Getenv("ANTCAL_STORE_DRIVER")); driver != "" {
		switch StoreDriver(driver) {
		case StoreDriverFile, StoreDriverSQLite:
			cfg.StoreDriver = StoreDriver(driver)
		default:
			invalid = append(invalid, "ANTCAL_STORE_DRIVER")
		}
	}

	if path := strings.TrimSpace(os.Getenv("ANTCAL_STORE_PATH")); path != "" {
		cfg.StorePath = path
	}

	if dsn := strings.TrimSpace(os.Getenv("ANTCAL_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	// Empty means snapshots are disabled; the expression is validated by the
	// cron scheduler at wiring time.
	cfg.BackupCron = strings.TrimSpace(os.Getenv("ANTCAL_BACKUP_CRON"))

	if dir := strings.TrimSpace(os.Getenv("ANTCAL_BACKUP_DIR")); dir != "" {
		cfg.BackupDir = dir
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("환경 변수 값이 올바르지 않습니다: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
