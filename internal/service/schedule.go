package service

import (
	"context"
	"path"
	"strings"
	"time"

	"bookingapi/internal/cache"
	"bookingapi/internal/model"
	"bookingapi/internal/repository"
	"bookingapi/internal/storage"
)

const (
	icalPrefix      = "BEGIN:VCALENDAR"
	icalContentType = "text/calendar; charset=utf-8"
	exportRoot      = "schedules"
)

// ErrExportDisabled is returned by Export when no object store is configured.
var ErrExportDisabled = invalidf("schedule export is not configured")

// ScheduleService defines availability schedule use cases.
type ScheduleService interface {
	Create(ctx context.Context, s *model.UserSchedule) (*model.UserSchedule, error)
	Get(ctx context.Context, id string) (*model.UserSchedule, error)
	ListByUser(ctx context.Context, userID string) ([]model.UserSchedule, error)
	Update(ctx context.Context, s *model.UserSchedule) (*model.UserSchedule, error)
	// Delete removes the schedule and its exported calendar, if any.
	Delete(ctx context.Context, id string) error
	// Export uploads the schedule as an .ics object and returns a time-limited download URL.
	Export(ctx context.Context, id string) (string, error)
}

type scheduleService struct {
	base
	repo       repository.ScheduleRepository
	store      storage.Storage
	presignTTL time.Duration
}

// NewScheduleService constructs a new ScheduleService. store may be nil, which disables Export.
func NewScheduleService(repo repository.ScheduleRepository, store storage.Storage, presignTTL time.Duration, d Deps) ScheduleService {
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &scheduleService{
		base:       newBase(d, "schedule"),
		repo:       repo,
		store:      store,
		presignTTL: presignTTL,
	}
}

func (s *scheduleService) itemKey(id string) string { return s.keys.Key(id) }

func (s *scheduleService) listKey(userID string) string { return s.keys.Key("user", userID) }

// ExportKey is the object key of a schedule's exported calendar.
func ExportKey(userID, scheduleID string) string {
	return path.Join(exportRoot, userID, scheduleID+".ics")
}

func (s *scheduleService) Create(ctx context.Context, sch *model.UserSchedule) (*model.UserSchedule, error) {
	if err := validateSchedule(sch); err != nil {
		return nil, err
	}
	if sch.UserID == "" {
		return nil, invalidf("user id is required")
	}
	created, err := s.repo.Create(ctx, sch)
	if err != nil {
		return nil, s.fail(ctx, "create", err)
	}
	s.invalidate(ctx, s.listKey(created.UserID))
	return created, nil
}

func (s *scheduleService) Get(ctx context.Context, id string) (*model.UserSchedule, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	sch, err := cache.Run(ctx, s.runner, s.itemKey(id), func(ctx context.Context) (*model.UserSchedule, error) {
		return s.repo.FindByID(ctx, id)
	})
	return result(ctx, s.base, "get", sch, err)
}

func (s *scheduleService) ListByUser(ctx context.Context, userID string) ([]model.UserSchedule, error) {
	if userID == "" {
		return nil, ErrIDRequired
	}
	items, err := cache.Run(ctx, s.runner, s.listKey(userID), func(ctx context.Context) ([]model.UserSchedule, error) {
		return s.repo.ListByUser(ctx, userID)
	})
	if err != nil {
		return nil, s.fail(ctx, "list_by_user", err)
	}
	return items, nil
}

func (s *scheduleService) Update(ctx context.Context, sch *model.UserSchedule) (*model.UserSchedule, error) {
	if sch == nil || sch.ID == "" {
		return nil, ErrIDRequired
	}
	if err := validateSchedule(sch); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, sch)
	if err != nil {
		return result[*model.UserSchedule](ctx, s.base, "update", nil, err)
	}
	s.invalidate(ctx, s.itemKey(updated.ID), s.listKey(updated.UserID))
	return updated, nil
}

func (s *scheduleService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	sch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		_, err = result[*model.UserSchedule](ctx, s.base, "delete", nil, err)
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(ctx, "delete", err)
	}
	s.invalidate(ctx, s.itemKey(id), s.listKey(sch.UserID))

	if s.store != nil {
		// The row is gone; an orphaned export only costs storage.
		if err := s.store.Delete(ctx, ExportKey(sch.UserID, id)); err != nil {
			_ = s.fail(ctx, "delete_export", err)
		}
	}
	return nil
}

func (s *scheduleService) Export(ctx context.Context, id string) (string, error) {
	if s.store == nil {
		return "", ErrExportDisabled
	}
	sch, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	key := ExportKey(sch.UserID, sch.ID)
	_, err = s.store.Put(ctx, key, strings.NewReader(sch.ICal), storage.PutObjectOptions{
		Size:        int64(len(sch.ICal)),
		ContentType: icalContentType,
		Metadata: map[string]string{
			"schedule-id": sch.ID,
			"timezone":    sch.Timezone,
		},
	})
	if err != nil {
		return "", s.fail(ctx, "export_put", err)
	}

	link, err := s.store.PresignGet(ctx, key, s.presignTTL)
	if err != nil {
		return "", s.fail(ctx, "export_presign", err)
	}
	return link, nil
}

func validateSchedule(sch *model.UserSchedule) error {
	if sch == nil {
		return invalidf("schedule is required")
	}
	sch.Name = strings.TrimSpace(sch.Name)
	if sch.Name == "" {
		return invalidf("name is required")
	}
	if !strings.HasPrefix(strings.TrimSpace(sch.ICal), icalPrefix) {
		return invalidf("ical must start with %s", icalPrefix)
	}
	if sch.Timezone == "" {
		sch.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(sch.Timezone); err != nil {
		return invalidf("unknown timezone %q", sch.Timezone)
	}
	return nil
}
