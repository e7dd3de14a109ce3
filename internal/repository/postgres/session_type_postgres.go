package postgres

import (
	"context"
	"database/sql"

	"bookingapi/internal/model"
	"bookingapi/internal/repository"
)

// SessionTypePostgres is a PostgreSQL implementation of repository.SessionTypeRepository.
type SessionTypePostgres struct {
	db *sql.DB
}

// NewSessionTypePostgres creates a new SessionTypePostgres repository.
func NewSessionTypePostgres(db *sql.DB) *SessionTypePostgres {
	return &SessionTypePostgres{db: db}
}

var _ repository.SessionTypeRepository = (*SessionTypePostgres)(nil)

const sessionTypeColumns = `id, user_id, schedule_id, name, description, duration_minutes, price_cents, currency, active, created_at, updated_at`

func scanSessionType(s rowScanner) (*model.SessionType, error) {
	var (
		out        model.SessionType
		scheduleID sql.NullString
	)
	if err := s.Scan(
		&out.ID,
		&out.UserID,
		&scheduleID,
		&out.Name,
		&out.Description,
		&out.DurationMinutes,
		&out.PriceCents,
		&out.Currency,
		&out.Active,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if scheduleID.Valid {
		out.ScheduleID = &scheduleID.String
	}
	return &out, nil
}

func (r *SessionTypePostgres) Create(ctx context.Context, s *model.SessionType) (*model.SessionType, error) {
	const q = `
		INSERT INTO session_types (id, user_id, schedule_id, name, description, duration_minutes, price_cents, currency, active)
		VALUES (COALESCE(NULLIF($1, '')::uuid, uuid_generate_v4()), $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + sessionTypeColumns
	row := r.db.QueryRowContext(ctx, q,
		s.ID,
		s.UserID,
		s.ScheduleID,
		s.Name,
		s.Description,
		s.DurationMinutes,
		s.PriceCents,
		s.Currency,
		s.Active,
	)
	return scanSessionType(row)
}

func (r *SessionTypePostgres) FindByID(ctx context.Context, id string) (*model.SessionType, error) {
	const q = `SELECT ` + sessionTypeColumns + ` FROM session_types WHERE id = $1`
	return scanSessionType(r.db.QueryRowContext(ctx, q, id))
}

// ListByUser returns every session type of the user, shortest first.
func (r *SessionTypePostgres) ListByUser(ctx context.Context, userID string) ([]model.SessionType, error) {
	const q = `
		SELECT ` + sessionTypeColumns + `
		FROM session_types
		WHERE user_id = $1
		ORDER BY duration_minutes, name, id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.SessionType, 0)
	for rows.Next() {
		s, err := scanSessionType(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	return items, rows.Err()
}

func (r *SessionTypePostgres) Update(ctx context.Context, s *model.SessionType) (*model.SessionType, error) {
	const q = `
		UPDATE session_types
		SET schedule_id = $2, name = $3, description = $4, duration_minutes = $5,
		    price_cents = $6, currency = $7, active = $8, updated_at = now()
		WHERE id = $1
		RETURNING ` + sessionTypeColumns
	row := r.db.QueryRowContext(ctx, q,
		s.ID,
		s.ScheduleID,
		s.Name,
		s.Description,
		s.DurationMinutes,
		s.PriceCents,
		s.Currency,
		s.Active,
	)
	return scanSessionType(row)
}

func (r *SessionTypePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM session_types WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
