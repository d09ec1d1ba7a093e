package notifications

import (
	"context"
	"errors"
	"log/slog"

	"ems/internal/platform/email"
)

var ErrNotFound = errors.New("notification not found")

type Service struct {
	store       StoreAPI
	Mailer      email.Mailer
	DefaultFrom string
}

func New(store StoreAPI, mailer email.Mailer, defaultFrom string) *Service {
	return &Service{store: store, Mailer: mailer, DefaultFrom: defaultFrom}
}

// Create stores the in-app notification and best-effort mirrors it to the
// user's mailbox.
func (s *Service) Create(ctx context.Context, userID, ntype, title, body string) error {
	if userID == "" {
		return nil
	}
	if err := s.store.CreateNotification(ctx, userID, ntype, title, body); err != nil {
		return err
	}

	if s.Mailer == nil {
		return nil
	}
	addr, err := s.store.UserEmail(ctx, userID)
	if err != nil {
		slog.Warn("notification email lookup failed", "err", err)
		return nil
	}
	if addr == "" {
		return nil
	}
	if err := s.Mailer.Send(ctx, s.DefaultFrom, addr, title, body); err != nil {
		slog.Warn("notification email send failed", "err", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListNotifications(ctx, userID, limit, offset)
}

func (s *Service) CountUnread(ctx context.Context, userID string) (int, error) {
	return s.store.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.store.MarkRead(ctx, userID, notificationID)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.store.MarkAllRead(ctx, userID)
}
