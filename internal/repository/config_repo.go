package repository

import (
	"beachvolley/internal/db"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type ConfigRepository struct {
	DB *sql.DB
}

func NewConfigRepository(conn *sql.DB) *ConfigRepository {
	return &ConfigRepository{DB: conn}
}

func (r *ConfigRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.DB.QueryRowContext(ctx, `SELECT valore FROM configurazioni WHERE chiave = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("error reading config %s: %w", key, err)
	}
	return value, nil
}

func (r *ConfigRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO configurazioni (chiave, valore) VALUES ($1, $2)
		ON CONFLICT (chiave) DO UPDATE SET valore = EXCLUDED.valore`, key, value)
	if err != nil {
		return fmt.Errorf("error writing config %s: %w", key, err)
	}
	return nil
}

func (r *ConfigRepository) SeedDefaults(ctx context.Context, entries []db.ConfigEntry) error {
	for _, e := range entries {
		_, err := r.DB.ExecContext(ctx, `
			INSERT INTO configurazioni (chiave, valore, descrizione) VALUES ($1, $2, $3)
			ON CONFLICT (chiave) DO NOTHING`, e.Key, e.Value, e.Description)
		if err != nil {
			return fmt.Errorf("error seeding config %s: %w", e.Key, err)
		}
	}
	return nil
}
