package repository

import (
	"beachvolley/internal/db"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const reservationColumns = `id, nome, telefono, data, orario, numero_giocatori, note, stato, created_at, google_event_id`

type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(conn *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: conn}
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, res *db.Reservation) error {
	if res.ID == "" {
		res.ID = uuid.New().String()
	}
	query := `
		INSERT INTO prenotazioni (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.ExecContext(ctx, query,
		res.ID,
		res.Name,
		res.Phone,
		res.Date,
		res.Time,
		res.Players,
		res.Note,
		res.Status,
		res.CreatedAt,
		res.ExternalEventID,
	)
	if err != nil {
		return fmt.Errorf("error inserting reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) ListReservations(ctx context.Context, date string) ([]db.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM prenotazioni ORDER BY data, orario`
	args := []interface{}{}
	if date != "" {
		query = `SELECT ` + reservationColumns + ` FROM prenotazioni WHERE data = $1 ORDER BY orario`
		args = append(args, date)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying reservations: %w", err)
	}
	defer rows.Close()

	reservations := []db.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating reservations: %w", err)
	}
	return reservations, nil
}

func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (*db.Reservation, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM prenotazioni WHERE id = $1`, id)
	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

func (r *ReservationRepository) DeleteReservation(ctx context.Context, id string) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM prenotazioni WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("error deleting reservation %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading affected rows: %w", err)
	}
	return affected > 0, nil
}

func (r *ReservationRepository) SetExternalEventID(ctx context.Context, id, eventID string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE prenotazioni SET google_event_id = $2 WHERE id = $1`, id, eventID)
	if err != nil {
		return fmt.Errorf("error updating event reference of reservation %s: %w", id, err)
	}
	return nil
}

func (r *ReservationRepository) CountConfirmed(ctx context.Context, date, slot string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM prenotazioni WHERE data = $1 AND orario = $2 AND stato = $3`,
		date, slot, db.StatusConfirmed,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting reservations: %w", err)
	}
	return count, nil
}

func (r *ReservationRepository) CountByDates(ctx context.Context, dates []string) (int, error) {
	if len(dates) == 0 {
		return 0, nil
	}
	var count int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM prenotazioni WHERE data = ANY($1)`, pq.Array(dates)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting reservations by date: %w", err)
	}
	return count, nil
}

// UpcomingDates lists the distinct dates holding reservations on or after from.
func (r *ReservationRepository) UpcomingDates(ctx context.Context, from string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT DISTINCT data FROM prenotazioni WHERE data >= $1 ORDER BY data`, from)
	if err != nil {
		return nil, fmt.Errorf("error querying upcoming reservation dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("error scanning reservation date: %w", err)
		}
		dates = append(dates, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating dates: %w", err)
	}
	return dates, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*db.Reservation, error) {
	var res db.Reservation
	err := row.Scan(
		&res.ID, &res.Name, &res.Phone, &res.Date, &res.Time, &res.Players,
		&res.Note, &res.Status, &res.CreatedAt, &res.ExternalEventID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning reservation: %w", err)
	}
	return &res, nil
}
