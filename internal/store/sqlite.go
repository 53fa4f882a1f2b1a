package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stellarlinkco/openeval/internal/runner"
)

const defaultListLimit = 50

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	insertStmt       *sql.Stmt
	getStmt          *sql.Stmt
	latestByNameStmt *sql.Stmt
	listStmt         *sql.Stmt
}

// NewSQLiteStore opens or creates a SQLite store at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store: empty sqlite path")
	}
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create sqlite dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping sqlite: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	st := &SQLiteStore{db: db}
	if err := st.prepareStatements(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS experiments (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			cases INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			total_tokens INTEGER NOT NULL,
			total_cost_usd REAL NOT NULL,
			summary_json TEXT NOT NULL,
			results_json BLOB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_experiments_name ON experiments(name, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_experiments_created_at ON experiments(created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.insertStmt, err = s.db.Prepare(`INSERT INTO experiments
		(id, name, created_at, cases, duration_ms, total_tokens, total_cost_usd, summary_json, results_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare insert: %w", err)
	}

	s.getStmt, err = s.db.Prepare(`SELECT id, name, created_at, duration_ms, total_tokens, total_cost_usd, summary_json, results_json
		FROM experiments WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("store: prepare get: %w", err)
	}

	s.latestByNameStmt, err = s.db.Prepare(`SELECT id, name, created_at, duration_ms, total_tokens, total_cost_usd, summary_json, results_json
		FROM experiments WHERE name = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	if err != nil {
		return fmt.Errorf("store: prepare latest by name: %w", err)
	}

	s.listStmt, err = s.db.Prepare(`SELECT id, name, created_at, cases, duration_ms, total_cost_usd, summary_json
		FROM experiments ORDER BY created_at DESC, rowid DESC LIMIT ?`)
	if err != nil {
		return fmt.Errorf("store: prepare list: %w", err)
	}
	return nil
}

// SaveExperiment persists a finished experiment.
func (s *SQLiteStore) SaveExperiment(ctx context.Context, exp *runner.ExperimentResult) error {
	if exp == nil {
		return errors.New("store: nil experiment")
	}
	if exp.ID == "" {
		return errors.New("store: experiment missing id")
	}

	summaryJSON, err := json.Marshal(exp.Summary)
	if err != nil {
		return fmt.Errorf("store: marshal summary: %w", err)
	}
	resultsJSON, err := json.Marshal(exp)
	if err != nil {
		return fmt.Errorf("store: marshal experiment: %w", err)
	}

	_, err = s.insertStmt.ExecContext(ctx,
		exp.ID,
		exp.Name,
		exp.CreatedAt.UnixMilli(),
		len(exp.Results),
		exp.DurationMs,
		exp.TotalTokens,
		exp.TotalCostUSD,
		string(summaryJSON),
		resultsJSON,
	)
	if err != nil {
		return fmt.Errorf("store: insert experiment: %w", err)
	}
	return nil
}

// GetExperiment loads one experiment by id.
func (s *SQLiteStore) GetExperiment(ctx context.Context, id string) (*runner.ExperimentResult, error) {
	return s.scanExperiment(s.getStmt.QueryRowContext(ctx, id))
}

// GetLatestByName loads the most recent experiment with the given name.
func (s *SQLiteStore) GetLatestByName(ctx context.Context, name string) (*runner.ExperimentResult, error) {
	return s.scanExperiment(s.latestByNameStmt.QueryRowContext(ctx, name))
}

func (s *SQLiteStore) scanExperiment(row *sql.Row) (*runner.ExperimentResult, error) {
	var (
		id, name    string
		createdAt   int64
		durationMs  int64
		totalTokens int
		totalCost   float64
		summaryJSON string
		resultsJSON []byte
	)
	err := row.Scan(&id, &name, &createdAt, &durationMs, &totalTokens, &totalCost, &summaryJSON, &resultsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: scan experiment: %w", err)
	}

	var exp runner.ExperimentResult
	if err := json.Unmarshal(resultsJSON, &exp); err != nil {
		return nil, fmt.Errorf("store: unmarshal experiment %s: %w", id, err)
	}
	return &exp, nil
}

// ListExperiments returns summaries of the most recent experiments.
func (s *SQLiteStore) ListExperiments(ctx context.Context, limit int) ([]*ExperimentSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.listStmt.QueryContext(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list experiments: %w", err)
	}
	defer rows.Close()

	var out []*ExperimentSummary
	for rows.Next() {
		var (
			sum         ExperimentSummary
			createdAt   int64
			summaryJSON string
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &createdAt, &sum.Cases, &sum.DurationMs, &sum.TotalCostUSD, &summaryJSON); err != nil {
			return nil, fmt.Errorf("store: scan listing: %w", err)
		}
		sum.CreatedAt = time.UnixMilli(createdAt).UTC()
		if err := json.Unmarshal([]byte(summaryJSON), &sum.Summary); err != nil {
			return nil, fmt.Errorf("store: unmarshal summary for %s: %w", sum.ID, err)
		}
		out = append(out, &sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate listing: %w", err)
	}
	return out, nil
}

// Close releases the prepared statements and the database handle.
func (s *SQLiteStore) Close() error {
	for _, stmt := range []*sql.Stmt{s.insertStmt, s.getStmt, s.latestByNameStmt, s.listStmt} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
