package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
)

// ConfigSQLite stores configuration values in the device_config table.
type ConfigSQLite struct {
	db *sql.DB
}

func NewConfigSQLite(db *sql.DB) *ConfigSQLite {
	return &ConfigSQLite{db: db}
}

var _ ConfigRepo = (*ConfigSQLite)(nil)

const (
	selectConfigSQL = `SELECT key, value FROM device_config`

	upsertConfigSQL = `
		INSERT INTO device_config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value
	`
)

// Load returns every stored key. An empty table yields an empty map.
func (r *ConfigSQLite) Load(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, selectConfigSQL)
	if err != nil {
		return nil, fmt.Errorf("select config: %w", err)
	}
	defer rows.Close()

	kv := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan config row: %w", err)
		}
		kv[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate config rows: %w", err)
	}
	return kv, nil
}

// Save upserts all keys in one transaction, in key order.
func (r *ConfigSQLite) Save(ctx context.Context, kv map[string]string) error {
	if len(kv) == 0 {
		return nil
	}
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin config transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, upsertConfigSQL, k, kv[k]); err != nil {
			return fmt.Errorf("upsert config %q: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit config transaction: %w", err)
	}
	return nil
}
