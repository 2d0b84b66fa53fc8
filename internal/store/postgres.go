package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// PostgresConfig holds connection settings for the postgres backend.
type PostgresConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PostgresStore keeps all record kinds in a single jsonb-backed table.
// A bigserial seq column gives stable creation order independent of id
// layout.
type PostgresStore struct {
	db *sql.DB
}

const recordsSchema = `
CREATE TABLE IF NOT EXISTS records (
	entity_type text NOT NULL,
	id          text NOT NULL,
	seq         bigserial,
	doc         jsonb NOT NULL,
	PRIMARY KEY (entity_type, id)
);
CREATE INDEX IF NOT EXISTS records_owner_idx ON records (entity_type, (doc->>'employee_id'));
`

// NewPostgresStore opens a connection pool and ensures the records
// table exists.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	if _, err := db.ExecContext(ctx, recordsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure records schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (ps *PostgresStore) Insert(ctx context.Context, kind string, doc interface{}) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	id, err := newID()
	if err != nil {
		return "", fmt.Errorf("failed to assign id: %w", err)
	}

	query := `
		INSERT INTO records (entity_type, id, doc)
		VALUES ($1, $2, $3)
	`
	if _, err := ps.db.ExecContext(ctx, query, kind, id, data); err != nil {
		return "", fmt.Errorf("failed to insert %s record: %w", kind, err)
	}
	return id, nil
}

func (ps *PostgresStore) FindByID(ctx context.Context, kind, id string) (*Record, error) {
	query := `
		SELECT doc
		FROM records
		WHERE entity_type = $1 AND id = $2
	`

	var doc []byte
	err := ps.db.QueryRowContext(ctx, query, kind, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", kind, id, err)
	}
	return &Record{ID: id, Source: doc}, nil
}

func (ps *PostgresStore) FindMany(ctx context.Context, kind string, filter Filter, skip, limit int) ([]Record, int64, error) {
	where, args := filterClause(kind, filter)

	var total int64
	countQuery := "SELECT COUNT(*) FROM records WHERE " + where
	if err := ps.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count %s records: %w", kind, err)
	}

	query := fmt.Sprintf(
		"SELECT id, doc FROM records WHERE %s ORDER BY seq OFFSET $%d",
		where, len(args)+1)
	args = append(args, skip)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, limit)
	}

	rows, err := ps.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query %s records: %w", kind, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var doc []byte
		if err := rows.Scan(&r.ID, &doc); err != nil {
			return nil, 0, fmt.Errorf("failed to scan %s record: %w", kind, err)
		}
		r.Source = doc
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("row iteration error: %w", err)
	}

	if records == nil {
		records = []Record{}
	}
	return records, total, nil
}

func (ps *PostgresStore) UpdateByID(ctx context.Context, kind, id string, fields map[string]interface{}) (*Record, error) {
	patch, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode update: %w", err)
	}

	query := `
		UPDATE records
		SET doc = doc || $3::jsonb
		WHERE entity_type = $1 AND id = $2
		RETURNING doc
	`

	var doc []byte
	err = ps.db.QueryRowContext(ctx, query, kind, id, patch).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update %s %s: %w", kind, id, err)
	}
	return &Record{ID: id, Source: doc}, nil
}

func (ps *PostgresStore) DeleteByID(ctx context.Context, kind, id string) (*Record, error) {
	query := `
		DELETE FROM records
		WHERE entity_type = $1 AND id = $2
		RETURNING doc
	`

	var doc []byte
	err := ps.db.QueryRowContext(ctx, query, kind, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
	}
	return &Record{ID: id, Source: doc}, nil
}

func (ps *PostgresStore) DeleteMany(ctx context.Context, kind string, filter Filter) (int64, error) {
	where, args := filterClause(kind, filter)

	result, err := ps.db.ExecContext(ctx, "DELETE FROM records WHERE "+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s records: %w", kind, err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return count, nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

// filterClause builds the WHERE clause for a kind plus document-field
// equality filter. Field names are passed as parameters, never spliced
// into the SQL.
func filterClause(kind string, filter Filter) (string, []interface{}) {
	parts := []string{"entity_type = $1"}
	args := []interface{}{kind}

	for field, value := range filter {
		parts = append(parts, fmt.Sprintf("doc->>($%d) = $%d", len(args)+1, len(args)+2))
		args = append(args, field, fmt.Sprintf("%v", value))
	}
	return strings.Join(parts, " AND "), args
}
