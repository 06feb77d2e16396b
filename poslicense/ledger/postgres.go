package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultPostgresTable = "pos_license_ledger"

const recordColumns = `id, customer_name, device_hash, license_type, expiry_date,
	issue_date, features, version_limit, token, issued_at`

// PostgresOption configures a PostgresLedger.
type PostgresOption func(*PostgresLedger)

// WithTableName sets the PostgreSQL table name. Default: "pos_license_ledger".
func WithTableName(name string) PostgresOption {
	return func(l *PostgresLedger) {
		l.tableName = name
	}
}

// PostgresLedger implements Ledger using PostgreSQL.
type PostgresLedger struct {
	pool      *pgxpool.Pool
	tableName string
}

// NewPostgresLedger creates a PostgreSQL-backed ledger.
// It auto-creates the table and indexes on initialization.
func NewPostgresLedger(ctx context.Context, pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresLedger, error) {
	l := &PostgresLedger{
		pool:      pool,
		tableName: defaultPostgresTable,
	}
	for _, opt := range opts {
		opt(l)
	}
	if !validIdentifier.MatchString(l.tableName) {
		return nil, fmt.Errorf("invalid table name %q: must match [a-zA-Z_][a-zA-Z0-9_]*", l.tableName)
	}
	if pool == nil {
		return nil, fmt.Errorf("postgres pool is required")
	}
	if err := l.ensureTable(ctx); err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}
	return l, nil
}

func (l *PostgresLedger) ensureTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id            UUID PRIMARY KEY,
			customer_name TEXT NOT NULL,
			device_hash   TEXT NOT NULL DEFAULT '',
			license_type  TEXT NOT NULL,
			expiry_date   TEXT NOT NULL DEFAULT '',
			issue_date    TEXT NOT NULL,
			features      TEXT[] NOT NULL DEFAULT '{}',
			version_limit TEXT NOT NULL DEFAULT '',
			token         TEXT NOT NULL,
			issued_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_%s_customer ON %s (customer_name, issued_at);
		CREATE INDEX IF NOT EXISTS idx_%s_device ON %s (device_hash, issued_at);
	`, l.tableName, l.tableName, l.tableName, l.tableName, l.tableName)
	_, err := l.pool.Exec(ctx, query)
	return err
}

func (l *PostgresLedger) Record(ctx context.Context, rec Record) (*Record, error) {
	query := fmt.Sprintf(`INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`, l.tableName, recordColumns)
	_, err := l.pool.Exec(ctx, query,
		rec.ID, rec.CustomerName, rec.DeviceHash, rec.LicenseType, rec.ExpiryDate,
		rec.IssueDate, rec.Features, rec.VersionLimit, rec.Token, rec.IssuedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("record license: %w", err)
	}
	return &rec, nil
}

func (l *PostgresLedger) Get(ctx context.Context, id string) (*Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, recordColumns, l.tableName)
	rec, err := scanRecord(l.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

func (l *PostgresLedger) ListByCustomer(ctx context.Context, customerName string) ([]Record, error) {
	return l.list(ctx, "WHERE customer_name = $1", customerName)
}

func (l *PostgresLedger) ListByDevice(ctx context.Context, deviceHash string) ([]Record, error) {
	return l.list(ctx, "WHERE device_hash = $1", deviceHash)
}

func (l *PostgresLedger) List(ctx context.Context) ([]Record, error) {
	return l.list(ctx, "")
}

func (l *PostgresLedger) list(ctx context.Context, where string, args ...any) ([]Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s %s ORDER BY issued_at`, recordColumns, l.tableName, where)
	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (l *PostgresLedger) Count(ctx context.Context, customerName string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE customer_name = $1`, l.tableName)
	var count int
	if err := l.pool.QueryRow(ctx, query, customerName).Scan(&count); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

func (l *PostgresLedger) Close(_ context.Context) error {
	return nil // user manages the pgxpool.Pool lifecycle
}

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.CustomerName, &rec.DeviceHash, &rec.LicenseType,
		&rec.ExpiryDate, &rec.IssueDate, &rec.Features, &rec.VersionLimit,
		&rec.Token, &rec.IssuedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
