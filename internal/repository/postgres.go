package repository

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS prenotazioni (
		id TEXT PRIMARY KEY,
		nome TEXT NOT NULL,
		telefono TEXT NOT NULL,
		data TEXT NOT NULL,
		orario TEXT NOT NULL,
		numero_giocatori INTEGER NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		stato TEXT NOT NULL DEFAULT 'confirmed',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		google_event_id TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS prenotazioni_data_orario_idx ON prenotazioni (data, orario)`,
	`CREATE TABLE IF NOT EXISTS configurazioni (
		chiave TEXT PRIMARY KEY,
		valore TEXT NOT NULL,
		descrizione TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS orari_bloccati (
		data TEXT NOT NULL,
		orario TEXT NOT NULL,
		tipo TEXT NOT NULL DEFAULT 'blocked',
		motivo TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (data, orario)
	)`,
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, conn *sql.DB) error {
	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error applying schema: %w", err)
		}
	}
	return nil
}

// NewPostgresStore wires the relational repositories around an open handle.
// Closing the store closes the handle.
func NewPostgresStore(conn *sql.DB) *Store {
	return &Store{
		Reservations: NewReservationRepository(conn),
		BlockedSlots: NewBlockedSlotRepository(conn),
		Config:       NewConfigRepository(conn),
		close: func(context.Context) error {
			return conn.Close()
		},
	}
}
