package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"AdverseScreener/internal/domain"
	"AdverseScreener/internal/ports"
)

// SQL dialects, named after their database/sql driver.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

const resultsTable = "screening_results"

// SQLStore keeps one row per result: the index metadata as columns and the full
// result as a JSON payload.
type SQLStore struct {
	db            *sql.DB
	builder       sq.StatementBuilderType
	table         string
	schemaVersion string
	logger        *slog.Logger
	now           func() time.Time
	newID         func() string
}

var _ ports.ResultStore = (*SQLStore)(nil)

// OpenSQL opens a database for dialect and checks the connection.
func OpenSQL(ctx context.Context, dialect, dsn string) (*sql.DB, error) {
	if dialect != DialectPostgres && dialect != DialectSQLite {
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}

	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dialect == DialectSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// NewSQLStore wires a sql.DB. Call Migrate before first use.
func NewSQLStore(db *sql.DB, dialect, schemaVersion string, logger *slog.Logger) *SQLStore {
	var placeholder sq.PlaceholderFormat = sq.Question
	if dialect == DialectPostgres {
		placeholder = sq.Dollar
	}
	if schemaVersion == "" {
		schemaVersion = domain.SchemaVersion
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &SQLStore{
		db:            db,
		builder:       sq.StatementBuilder.PlaceholderFormat(placeholder),
		table:         pq.QuoteIdentifier(resultsTable),
		schemaVersion: schemaVersion,
		logger:        logger,
		now:           time.Now,
		newID:         func() string { return uuid.NewString() },
	}
}

// Migrate creates the results table and its listing index.
func (s *SQLStore) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + s.table + ` (
			id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			person_name TEXT NOT NULL,
			article_url TEXT NOT NULL,
			article_title TEXT NOT NULL,
			created_at TEXT NOT NULL,
			schema_version TEXT NOT NULL,
			payload TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_screening_results_listing
			ON ` + s.table + ` (schema_version, created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate results table: %w", err)
		}
	}
	return nil
}

// Save inserts the result and its metadata in one transaction.
func (s *SQLStore) Save(ctx context.Context, result domain.ScreeningResult) (string, error) {
	if s.db == nil {
		return "", fmt.Errorf("sql store: no database")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}

	id := s.newID()
	meta := metadataFor(id, result, s.now(), s.schemaVersion)

	query, args, err := s.builder.Insert(s.table).
		Columns("id", "display_name", "person_name", "article_url", "article_title", "created_at", "schema_version", "payload").
		Values(meta.ID, meta.DisplayName, meta.PersonName, meta.ArticleURL, meta.ArticleTitle, meta.CreatedAt, meta.SchemaVersion, string(payload)).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build insert: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("insert result: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit result: %w", err)
	}

	s.logger.Info("saved screening result", "id", id)
	return id, nil
}

// Get loads the payload stored under id.
func (s *SQLStore) Get(ctx context.Context, id string) (domain.ScreeningResult, error) {
	query, args, err := s.builder.Select("payload").From(s.table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.ScreeningResult{}, fmt.Errorf("build select: %w", err)
	}

	var payload string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ScreeningResult{}, fmt.Errorf("result %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.ScreeningResult{}, fmt.Errorf("query result %s: %w", id, err)
	}

	var result domain.ScreeningResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return domain.ScreeningResult{}, fmt.Errorf("decode result %s: %w", id, err)
	}
	return result, nil
}

// List returns metadata for the current schema version, newest first.
func (s *SQLStore) List(ctx context.Context) ([]domain.ResultMetadata, error) {
	query, args, err := s.builder.
		Select("id", "display_name", "person_name", "article_url", "article_title", "created_at", "schema_version").
		From(s.table).
		Where(sq.Eq{"schema_version": s.schemaVersion}).
		OrderBy("created_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}

	results := []domain.ResultMetadata{}
	for rows.Next() {
		var m domain.ResultMetadata
		if err := rows.Scan(&m.ID, &m.DisplayName, &m.PersonName, &m.ArticleURL, &m.ArticleTitle, &m.CreatedAt, &m.SchemaVersion); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, m)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return results, nil
}
