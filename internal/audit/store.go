// Package audit persists a provenance trail of anonymization runs.
//
// Each engine invocation can be recorded as a Run: when it happened, which
// direction (anonymize/deanonymize), the SHA-256 of the input text, and
// the applied-change items. The raw input text is never stored; the hash
// is enough to tie a run to a document without retaining the PII the run
// just removed.
package audit

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.opentelemetry.io/otel/attribute"

	"github.com/veil-io/veil/internal/anonymizer"
	veilotel "github.com/veil-io/veil/internal/otel"
)

var tracer = veilotel.Tracer("github.com/veil-io/veil/internal/audit")

// ErrRunNotFound is returned when a run id does not exist in the store.
var ErrRunNotFound = errors.New("run not found")

// Directions recorded per run.
const (
	DirectionAnonymize   = "anonymize"
	DirectionDeanonymize = "deanonymize"
)

// Store persists anonymization runs in SQLite.
type Store struct {
	db *sql.DB
}

// Run is the audit record of one engine invocation.
type Run struct {
	ID        string                  `json:"id"`
	Timestamp time.Time               `json:"timestamp"`
	Direction string                  `json:"direction"`
	InputHash string                  `json:"input_hash"`
	ItemCount int                     `json:"item_count"`
	Items     []anonymizer.ResultItem `json:"items"`
}

// NewStore opens (or creates) an audit store at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		timestamp TIMESTAMP NOT NULL,
		direction TEXT NOT NULL,
		input_hash TEXT NOT NULL,
		item_count INTEGER NOT NULL,
		items_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	CREATE INDEX IF NOT EXISTS idx_runs_input_hash ON runs(input_hash);
	`

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores one engine invocation and returns the persisted Run.
// inputText is hashed, never stored.
func (s *Store) Record(ctx context.Context, direction, inputText string, items []anonymizer.ResultItem) (*Run, error) {
	ctx, span := tracer.Start(ctx, "audit.record")
	defer span.End()

	sum := sha256.Sum256([]byte(inputText))
	run := &Run{
		ID:        "run_" + uuid.New().String()[:8],
		Timestamp: time.Now().UTC(),
		Direction: direction,
		InputHash: hex.EncodeToString(sum[:]),
		ItemCount: len(items),
		Items:     items,
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshaling items: %w", err)
	}

	query := `INSERT INTO runs (id, timestamp, direction, input_hash, item_count, items_json)
	          VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query,
		run.ID, run.Timestamp, run.Direction, run.InputHash, run.ItemCount, string(itemsJSON)); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("storing run: %w", err)
	}

	span.SetAttributes(
		attribute.String("audit.run_id", run.ID),
		attribute.Int("audit.item_count", run.ItemCount),
	)
	return run, nil
}

// Get returns a single run by id.
func (s *Store) Get(ctx context.Context, runID string) (*Run, error) {
	ctx, span := tracer.Start(ctx, "audit.get")
	defer span.End()

	query := `SELECT id, timestamp, direction, input_hash, item_count, items_json FROM runs WHERE id = ?`
	run, err := scanRun(s.db.QueryRowContext(ctx, query, runID))
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("querying run: %w", err)
	}
	return run, nil
}

// List returns runs in reverse chronological order. Limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	ctx, span := tracer.Start(ctx, "audit.list")
	defer span.End()

	query := `SELECT id, timestamp, direction, input_hash, item_count, items_json
	          FROM runs ORDER BY timestamp DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			continue
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var itemsJSON string
	if err := row.Scan(&run.ID, &run.Timestamp, &run.Direction, &run.InputHash, &run.ItemCount, &itemsJSON); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(itemsJSON), &run.Items); err != nil {
		return nil, fmt.Errorf("unmarshaling items: %w", err)
	}
	return &run, nil
}
