package repository

import (
	"strconv"
	"strings"
)

// dialect captures the few statements that differ between SQL engines.
type dialect struct {
	name       string
	driverName string
	schema     []string
	bind       func(n int) string
}

var sqliteDialect = dialect{
	name:       "sqlite",
	driverName: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT,
			time_s REAL NOT NULL,
			outcome TEXT NOT NULL,
			"timestamp" TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_time_s ON scores (time_s, id)`,
	},
	bind: func(int) string { return "?" },
}

var postgresDialect = dialect{
	name:       "postgres",
	driverName: "postgres",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS scores (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT,
			time_s DOUBLE PRECISION NOT NULL,
			outcome TEXT NOT NULL,
			"timestamp" TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scores_time_s ON scores (time_s, id)`,
	},
	bind: func(n int) string { return "$" + strconv.Itoa(n) },
}

func (d dialect) insertSQL() string {
	binds := make([]string, 5)
	for i := range binds {
		binds[i] = d.bind(i + 1)
	}
	return `INSERT INTO scores (name, email, time_s, outcome, "timestamp") VALUES (` +
		strings.Join(binds, ", ") + `) RETURNING id`
}

const (
	listByTimeSQL = `SELECT id, name, COALESCE(email, ''), time_s, outcome, "timestamp" FROM scores ORDER BY time_s ASC, id ASC`
	countSQL      = `SELECT COUNT(*) FROM scores`
)
