package repository

import (
	"beachvolley/internal/db"
	"context"
	"database/sql"
	"fmt"
)

type BlockedSlotRepository struct {
	DB *sql.DB
}

func NewBlockedSlotRepository(conn *sql.DB) *BlockedSlotRepository {
	return &BlockedSlotRepository{DB: conn}
}

func (r *BlockedSlotRepository) ListBlockedSlots(ctx context.Context, date string) ([]db.BlockedSlot, error) {
	query := `SELECT data, orario, tipo, motivo, created_at, updated_at FROM orari_bloccati`
	args := []interface{}{}
	if date != "" {
		query += ` WHERE data = $1`
		args = append(args, date)
	}
	query += ` ORDER BY data, orario`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying blocked slots: %w", err)
	}
	defer rows.Close()

	slots := []db.BlockedSlot{}
	for rows.Next() {
		var bs db.BlockedSlot
		if err := rows.Scan(&bs.Date, &bs.Time, &bs.Kind, &bs.Reason, &bs.CreatedAt, &bs.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning blocked slot: %w", err)
		}
		slots = append(slots, bs)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating blocked slots: %w", err)
	}
	return slots, nil
}

func (r *BlockedSlotRepository) CountBlocked(ctx context.Context, date, slot string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orari_bloccati WHERE data = $1 AND orario = $2`, date, slot,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting blocked slots: %w", err)
	}
	return count, nil
}

func (r *BlockedSlotRepository) UpsertBlockedSlot(ctx context.Context, slot *db.BlockedSlot) error {
	query := `
		INSERT INTO orari_bloccati (data, orario, tipo, motivo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (data, orario) DO UPDATE
		SET tipo = EXCLUDED.tipo, motivo = EXCLUDED.motivo, updated_at = EXCLUDED.updated_at
		RETURNING created_at`
	err := r.DB.QueryRowContext(ctx, query, slot.Date, slot.Time, slot.Kind, slot.Reason, slot.UpdatedAt).
		Scan(&slot.CreatedAt)
	if err != nil {
		return fmt.Errorf("error upserting blocked slot %s %s: %w", slot.Date, slot.Time, err)
	}
	return nil
}

func (r *BlockedSlotRepository) DeleteBlockedSlot(ctx context.Context, date, slot string) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM orari_bloccati WHERE data = $1 AND orario = $2`, date, slot)
	if err != nil {
		return false, fmt.Errorf("error deleting blocked slot %s %s: %w", date, slot, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading affected rows: %w", err)
	}
	return affected > 0, nil
}
