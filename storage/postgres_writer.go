package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"olx-scraper/models"
	"olx-scraper/utils"
)

// MissingTableError signals that the destination table does not exist.
// Schema provisioning is outside this system, so a missing table is a
// configuration error, not a load failure.
type MissingTableError struct {
	Table string
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("postgres: table %q does not exist in the database", e.Table)
}

// PostgresWriter persists cleaned listings into a pre-existing table.
type PostgresWriter struct {
	db     *sql.DB
	logger *utils.Logger
}

var _ RowStore = (*PostgresWriter)(nil)

// Connect opens a PostgreSQL connection and waits for it to become
// reachable before handing it over.
func Connect(dsn string, logger *utils.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: 10, BaseDelay: 2 * time.Second, Logger: logger}
	if err := retry.Do("postgres-ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return db, nil
}

// NewPostgresWriter wraps an open connection.
func NewPostgresWriter(db *sql.DB, logger *utils.Logger) *PostgresWriter {
	return &PostgresWriter{db: db, logger: logger}
}

// TableExists reports whether the named table is present in the live schema.
func (pw *PostgresWriter) TableExists(table string) (bool, error) {
	var exists bool
	err := pw.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)
	`, table).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("postgres: check table %q: %w", table, err)
	}
	return exists, nil
}

// Insert writes all listings into table inside a single transaction. Any
// failure rolls the whole batch back; there is no partial insert.
func (pw *PostgresWriter) Insert(table string, listings []*models.CleanedListing) error {
	exists, err := pw.TableExists(table)
	if err != nil {
		return err
	}
	if !exists {
		return &MissingTableError{Table: table}
	}

	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin transaction: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (title, price, listing_url, location, installment, posted_time, year, lower_km, upper_km)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, pq.QuoteIdentifier(table))

	for i, l := range listings {
		_, err := tx.Exec(query,
			l.Title, l.Price, l.ListingURL, l.Location, l.Installment,
			l.PostedTime, l.Year, l.LowerKM, l.UpperKM,
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("postgres: insert row %d into %s: %w", i+1, table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}

	pw.logger.Info("[postgres] Inserted %d records into %s", len(listings), table)
	return nil
}

// FetchAll retrieves every stored listing — used by the insight service.
func (pw *PostgresWriter) FetchAll(table string) ([]*models.CleanedListing, error) {
	query := fmt.Sprintf(`
		SELECT title, price, listing_url, location, installment, posted_time, year, lower_km, upper_km
		FROM %s
	`, pq.QuoteIdentifier(table))

	rows, err := pw.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch from %s: %w", table, err)
	}
	defer rows.Close()

	var listings []*models.CleanedListing
	for rows.Next() {
		var (
			l           models.CleanedListing
			price       sql.NullFloat64
			installment sql.NullFloat64
			postedTime  sql.NullString
			year        sql.NullInt64
			lowerKM     sql.NullInt64
			upperKM     sql.NullInt64
		)
		if err := rows.Scan(
			&l.Title, &price, &l.ListingURL, &l.Location, &installment,
			&postedTime, &year, &lowerKM, &upperKM,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		l.Price = nullFloat(price)
		l.Installment = nullFloat(installment)
		l.PostedTime = nullString(postedTime)
		l.Year = nullInt(year)
		l.LowerKM = nullInt(lowerKM)
		l.UpperKM = nullInt(upperKM)
		listings = append(listings, &l)
	}
	return listings, rows.Err()
}

// Close releases the underlying connection.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}
