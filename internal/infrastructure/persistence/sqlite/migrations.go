package sqlite

import "database/sql"

func RunMigrations(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS deliveries (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			invoice_id TEXT NOT NULL,
			customer_email TEXT NOT NULL,
			amount_paid INTEGER NOT NULL,
			trigger_path TEXT NOT NULL,
			status TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			attempted_at INTEGER NOT NULL
		);`,

		`CREATE INDEX IF NOT EXISTS idx_deliveries_session
			ON deliveries (session_id, status);`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
