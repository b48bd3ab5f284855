// Package journal keeps a durable audit trail of every executed order in
// sqlite. The flat-file instrument state only records the latest flag value;
// the journal answers "what did the bot actually do, and when".
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	instrument TEXT NOT NULL,
	side TEXT NOT NULL,
	size TEXT NOT NULL,
	order_id TEXT NOT NULL,
	label TEXT NOT NULL,
	executed_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_executed_at ON orders(executed_at);
`

// OrderRecord is one executed buy or sell. Size is the submitted order size:
// USDT notional for buys, base quantity for sells.
type OrderRecord struct {
	ID         string
	Instrument string
	Side       string
	Size       decimal.Decimal
	OrderID    string
	Label      string
	ExecutedAt time.Time
}

type Journal struct {
	db *sql.DB
}

func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// RecordOrder appends an executed order. The caller may leave ID empty, in
// which case a fresh ULID is assigned.
func (j *Journal) RecordOrder(rec OrderRecord) error {
	if rec.ID == "" {
		rec.ID = ulid.Make().String()
	}
	_, err := j.db.Exec(`
		INSERT INTO orders
		(id, instrument, side, size, order_id, label, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Instrument, rec.Side, rec.Size.String(),
		rec.OrderID, rec.Label, rec.ExecutedAt,
	)
	return err
}

// OrdersSince returns executed orders at or after t, oldest first.
func (j *Journal) OrdersSince(t time.Time) ([]OrderRecord, error) {
	rows, err := j.db.Query(`
		SELECT id, instrument, side, size, order_id, label, executed_at
		FROM orders
		WHERE executed_at >= ?
		ORDER BY executed_at ASC`, t)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []OrderRecord
	for rows.Next() {
		var rec OrderRecord
		var size string
		if err := rows.Scan(&rec.ID, &rec.Instrument, &rec.Side, &size,
			&rec.OrderID, &rec.Label, &rec.ExecutedAt); err != nil {
			return nil, err
		}
		rec.Size, err = decimal.NewFromString(size)
		if err != nil {
			return nil, fmt.Errorf("malformed size in journal row %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (j *Journal) Close() error {
	return j.db.Close()
}
