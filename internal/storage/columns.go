package storage

import (
	"context"
	"fmt"
	"time"
)

// ColumnInfo is one row of information_schema.columns.
type ColumnInfo struct {
	Table    string
	Name     string
	DataType string // e.g. "text", "timestamp with time zone", "ARRAY"
	UDTName  string // e.g. "uuid", "jsonb", "_text"
	Nullable bool
}

// Columns returns the columns of the named tables in schema, ordered by table
// and ordinal position. Tables that do not exist contribute no rows.
func (db *DB) Columns(ctx context.Context, schema string, tables []string) ([]ColumnInfo, error) {
	var out []ColumnInfo
	err := WithRetry(ctx, 3, 100*time.Millisecond, func() error {
		var err error
		out, err = db.columns(ctx, schema, tables)
		return err
	})
	return out, err
}

func (db *DB) columns(ctx context.Context, schema string, tables []string) ([]ColumnInfo, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT table_name, column_name, data_type, udt_name, is_nullable = 'YES'
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = ANY($2)
		ORDER BY table_name, ordinal_position`,
		schema, tables,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: query columns: %w", err)
	}
	defer rows.Close()

	var out []ColumnInfo
	for rows.Next() {
		var c ColumnInfo
		if err := rows.Scan(&c.Table, &c.Name, &c.DataType, &c.UDTName, &c.Nullable); err != nil {
			return nil, fmt.Errorf("storage: scan column: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate columns: %w", err)
	}
	return out, nil
}
