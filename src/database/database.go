package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/cifra/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

// InitDB opens the SQLite file and ensures the key-value table every domain
// store persists through. All durable state lives in kv_store as JSON blobs;
// there is no relational schema beyond it.
func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err = DB.Exec(createTableStatement); err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create kv_store table", "error", err)
		}
		stdlog.Fatalf("failed to create kv_store table: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database ready.", "path", databasePath)
	}
}
