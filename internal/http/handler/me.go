package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bookingapi/internal/http/middleware"
	"bookingapi/internal/service"
)

type listResponse[T any] struct {
	Items []T `json:"data"`
}

// ListMySchedules returns the caller's schedules through the cached read path.
func ListMySchedules(svc service.ScheduleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := middleware.CurrentUser(c)
		if u == nil {
			return fiber.ErrUnauthorized
		}
		items, err := svc.ListByUser(c.UserContext(), u.ID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newList(items))
	}
}

// ListMySessionTypes returns the caller's session types.
func ListMySessionTypes(svc service.SessionTypeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := middleware.CurrentUser(c)
		if u == nil {
			return fiber.ErrUnauthorized
		}
		items, err := svc.ListByUser(c.UserContext(), u.ID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(newList(items))
	}
}

// ExportMySchedule uploads one of the caller's schedules and returns a download URL.
// Schedules owned by someone else answer 404.
func ExportMySchedule(svc service.ScheduleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := middleware.CurrentUser(c)
		if u == nil {
			return fiber.ErrUnauthorized
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		sch, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		if sch.UserID != u.ID {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
		}
		url, err := svc.Export(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": url})
	}
}

// newList renders a nil slice as [] rather than null.
func newList[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items}
}

// ListMyChats pages through the caller's chats, newest activity first.
func ListMyChats(svc service.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := middleware.CurrentUser(c)
		if u == nil {
			return fiber.ErrUnauthorized
		}
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		res, err := svc.ListChats(c.UserContext(), u.ID, limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetMyUsage returns the days on which the caller was active.
func GetMyUsage(svc service.UsageService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := middleware.CurrentUser(c)
		if u == nil {
			return fiber.ErrUnauthorized
		}
		usage, err := svc.Get(c.UserContext(), u.ID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(usage)
	}
}

// SetMailingList unsubscribes (DELETE) or resubscribes (PUT) the caller from :list.
func SetMailingList(svc service.UserMetaService, subscribe bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := middleware.CurrentUser(c)
		if u == nil {
			return fiber.ErrUnauthorized
		}
		write := svc.Unsubscribe
		if subscribe {
			write = svc.Resubscribe
		}
		if err := write(c.UserContext(), u.ID, c.Params("list")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
