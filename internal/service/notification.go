package service

import (
	"context"
	"errors"
	"fmt"

	"bookingapi/internal/mail"
)

// Mailer is the outbound mail dependency. *mail.Mailer satisfies it.
type Mailer interface {
	Send(ctx context.Context, transport string, msg mail.Message) error
}

// NotificationService sends email to users while honoring their unsubscribe lists.
type NotificationService interface {
	// Send delivers msg through transport. list names the mailing list the message
	// belongs to; "" marks a transactional message, which is never suppressed.
	// An empty msg.To is filled with the user's address.
	Send(ctx context.Context, userID, list, transport string, msg mail.Message) error
}

type notificationService struct {
	base
	users  UserService
	meta   UserMetaService
	mailer Mailer
}

// NewNotificationService constructs a new NotificationService.
func NewNotificationService(users UserService, meta UserMetaService, mailer Mailer, d Deps) NotificationService {
	return &notificationService{base: newBase(d, "notification"), users: users, meta: meta, mailer: mailer}
}

func (s *notificationService) Send(ctx context.Context, userID, list, transport string, msg mail.Message) error {
	if userID == "" {
		return ErrIDRequired
	}
	if list != "" {
		out, err := s.meta.IsUnsubscribed(ctx, userID, list)
		if err != nil {
			return err
		}
		if out {
			s.log.WithField("list", list).Debug("notification_suppressed")
			return ErrUnsubscribed
		}
	}

	if len(msg.To) == 0 {
		u, err := s.users.Get(ctx, userID)
		if err != nil {
			return err
		}
		msg.To = []string{u.Email}
	}

	if err := s.mailer.Send(ctx, transport, msg); err != nil {
		if errors.Is(err, mail.ErrUnknownTransport) || errors.Is(err, mail.ErrNoRecipients) {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return s.fail(ctx, "send", err)
	}
	return nil
}
