package postgres

import (
	"context"
	"database/sql"

	"bookingapi/internal/model"
	"bookingapi/internal/repository"
)

// SchedulePostgres is a PostgreSQL implementation of repository.ScheduleRepository.
type SchedulePostgres struct {
	db *sql.DB
}

// NewSchedulePostgres creates a new SchedulePostgres repository.
func NewSchedulePostgres(db *sql.DB) *SchedulePostgres {
	return &SchedulePostgres{db: db}
}

var _ repository.ScheduleRepository = (*SchedulePostgres)(nil)

const scheduleColumns = `id, user_id, name, ical, timezone, created_at, updated_at`

func scanSchedule(s rowScanner) (*model.UserSchedule, error) {
	var out model.UserSchedule
	if err := s.Scan(
		&out.ID,
		&out.UserID,
		&out.Name,
		&out.ICal,
		&out.Timezone,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *SchedulePostgres) Create(ctx context.Context, s *model.UserSchedule) (*model.UserSchedule, error) {
	const q = `
		INSERT INTO user_schedules (id, user_id, name, ical, timezone)
		VALUES (COALESCE(NULLIF($1, '')::uuid, uuid_generate_v4()), $2, $3, $4, $5)
		RETURNING ` + scheduleColumns
	return scanSchedule(r.db.QueryRowContext(ctx, q, s.ID, s.UserID, s.Name, s.ICal, s.Timezone))
}

func (r *SchedulePostgres) FindByID(ctx context.Context, id string) (*model.UserSchedule, error) {
	const q = `SELECT ` + scheduleColumns + ` FROM user_schedules WHERE id = $1`
	return scanSchedule(r.db.QueryRowContext(ctx, q, id))
}

// ListByUser returns every schedule of the user ordered by name.
func (r *SchedulePostgres) ListByUser(ctx context.Context, userID string) ([]model.UserSchedule, error) {
	const q = `SELECT ` + scheduleColumns + ` FROM user_schedules WHERE user_id = $1 ORDER BY name, id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.UserSchedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	return items, rows.Err()
}

func (r *SchedulePostgres) Update(ctx context.Context, s *model.UserSchedule) (*model.UserSchedule, error) {
	const q = `
		UPDATE user_schedules
		SET name = $2, ical = $3, timezone = $4, updated_at = now()
		WHERE id = $1
		RETURNING ` + scheduleColumns
	return scanSchedule(r.db.QueryRowContext(ctx, q, s.ID, s.Name, s.ICal, s.Timezone))
}

func (r *SchedulePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM user_schedules WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
