package postgres

import "context"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		uid TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_lower ON accounts (lower(email))`,
	`CREATE TABLE IF NOT EXISTS users (
		uid TEXT PRIMARY KEY REFERENCES accounts(uid),
		full_name TEXT NOT NULL,
		email TEXT NOT NULL,
		department TEXT NOT NULL,
		role TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		created_by TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS users_department ON users (department)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		uid TEXT NOT NULL,
		day TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PRESENT',
		check_in TIMESTAMPTZ NOT NULL,
		check_out TIMESTAMPTZ,
		PRIMARY KEY (uid, day)
	)`,
	`CREATE TABLE IF NOT EXISTS leaves (
		leave_id TEXT PRIMARY KEY,
		uid TEXT NOT NULL,
		from_date TEXT NOT NULL,
		to_date TEXT NOT NULL,
		reason TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS insights (
		insight_id TEXT PRIMARY KEY,
		prompt TEXT NOT NULL,
		intent TEXT NOT NULL,
		reply TEXT NOT NULL,
		metrics JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS performance_reviews (
		review_id TEXT PRIMARY KEY,
		uid TEXT NOT NULL,
		period TEXT NOT NULL,
		score INT NOT NULL DEFAULT 0,
		summary TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		sale_id TEXT PRIMARY KEY,
		department TEXT NOT NULL DEFAULT '',
		amount NUMERIC,
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		project_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		department TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'ACTIVE'
	)`,
	`CREATE TABLE IF NOT EXISTS ai_config (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}

// EnsureSchema creates any missing tables. Statements are idempotent so the
// service can run them unconditionally at startup.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
