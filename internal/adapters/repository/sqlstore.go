package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/okian/wask/internal/domain/model"
)

// SQLStore keeps scores in a single SQL table. It serves both the SQLite
// file store and Postgres.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	insert  string
	opts    options
}

// OpenSQLite opens (or creates) the SQLite database file at path.
// Writes go through one connection, matching SQLite's single-writer model.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: sqlite path is empty", ErrUnavailable)
	}
	dsn := path + sqlitePragmas(path)
	db, err := sql.Open(sqliteDialect.driverName, dsn)
	if err != nil {
		return nil, unavailable("open sqlite", err)
	}
	db.SetMaxOpenConns(1)
	return newSQLStore(ctx, db, sqliteDialect, applyOptions(opts))
}

func sqlitePragmas(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return sep + "_pragma=busy_timeout(5000)"
}

// OpenPostgres connects to Postgres using dsn.
func OpenPostgres(ctx context.Context, dsn string, opts ...Option) (*SQLStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%w: postgres dsn is empty", ErrUnavailable)
	}
	db, err := sql.Open(postgresDialect.driverName, dsn)
	if err != nil {
		return nil, unavailable("open postgres", err)
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	return newSQLStore(ctx, db, postgresDialect, applyOptions(opts))
}

func newSQLStore(ctx context.Context, db *sql.DB, d dialect, o options) (*SQLStore, error) {
	s := &SQLStore{db: db, dialect: d, insert: d.insertSQL(), opts: o}
	if err := s.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the scores table and its index if absent.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return unavailable("ensure schema", err)
		}
	}
	return nil
}

// Append inserts one score and returns it with its assigned id.
func (s *SQLStore) Append(ctx context.Context, sub model.Submission) (model.Score, error) {
	score := model.NewScore(0, sub, s.opts.now())
	row := s.db.QueryRowContext(ctx, s.insert, score.Name, score.Email, score.TimeS, score.Outcome, score.Timestamp)
	if err := row.Scan(&score.ID); err != nil {
		return model.Score{}, unavailable("append", err)
	}
	return score, nil
}

// ListByTime reads the whole table ordered by ascending time.
func (s *SQLStore) ListByTime(ctx context.Context) ([]model.Score, error) {
	rows, err := s.db.QueryContext(ctx, listByTimeSQL)
	if err != nil {
		return nil, unavailable("list", err)
	}
	defer rows.Close()

	scores := []model.Score{}
	for rows.Next() {
		var sc model.Score
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.Email, &sc.TimeS, &sc.Outcome, &sc.Timestamp); err != nil {
			return nil, unavailable("list scan", err)
		}
		scores = append(scores, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list", err)
	}
	return scores, nil
}

// Count returns the number of rows.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, countSQL).Scan(&n); err != nil {
		return 0, unavailable("count", err)
	}
	return n, nil
}

// Ping verifies the connection within the configured timeout.
func (s *SQLStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.pingTimeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		return unavailable("ping "+s.dialect.name, err)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
