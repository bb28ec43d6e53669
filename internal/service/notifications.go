package service

import (
	"context"
	"strings"

	"admin-dashboard/internal/domain"
)

const KeyNotifications = "notifications"

var notificationTypes = []string{domain.NotifyInfo, domain.NotifySuccess, domain.NotifyWarning, domain.NotifyError}

type NotificationInput struct {
	Title   string `json:"title" validate:"required,max=128"`
	Message string `json:"message" validate:"max=1024"`
	Type    string `json:"type"`
	Link    string `json:"link"`
}

type NotificationPatch struct {
	Title   *string `json:"title" validate:"omitempty,max=128"`
	Message *string `json:"message" validate:"omitempty,max=1024"`
	Type    *string `json:"type"`
	Link    *string `json:"link"`
}

type NotificationsService struct {
	base[*domain.Notification]
}

func NewNotificationsService(d Deps) *NotificationsService {
	return &NotificationsService{base: base[*domain.Notification]{
		c: newCollection(d, KeyNotifications, "notification", defaultNotifications),
		fields: func(n *domain.Notification) []string {
			return []string{n.Title, n.Message, n.Type}
		},
	}}
}

func (s *NotificationsService) Create(ctx context.Context, in NotificationInput) (*domain.Notification, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	if in.Type == "" {
		in.Type = domain.NotifyInfo
	}
	if err := oneOf("type", in.Type, notificationTypes); err != nil {
		return nil, err
	}
	n := &domain.Notification{
		Title:   strings.TrimSpace(in.Title),
		Message: in.Message,
		Type:    in.Type,
		Link:    in.Link,
	}
	return s.c.Insert(ctx, n, nil)
}

func (s *NotificationsService) Update(ctx context.Context, id string, p NotificationPatch) (*domain.Notification, error) {
	if err := check(p); err != nil {
		return nil, err
	}
	if err := notBlank("title", p.Title); err != nil {
		return nil, err
	}
	if p.Type != nil {
		if err := oneOf("type", *p.Type, notificationTypes); err != nil {
			return nil, err
		}
	}
	return s.c.Modify(ctx, id, func(_ []*domain.Notification, n *domain.Notification) error {
		set(&n.Title, trimmed(p.Title))
		set(&n.Message, p.Message)
		set(&n.Type, p.Type)
		set(&n.Link, p.Link)
		return nil
	})
}

func (s *NotificationsService) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	return s.c.Modify(ctx, id, func(_ []*domain.Notification, n *domain.Notification) error {
		if !n.Read {
			now := s.c.Now()
			n.Read, n.ReadAt = true, &now
		}
		return nil
	})
}

// MarkAllRead returns how many notifications changed.
func (s *NotificationsService) MarkAllRead(ctx context.Context) (int, error) {
	now := s.c.Now()
	return s.c.ModifyEach(ctx, func(n *domain.Notification) bool {
		if n.Read {
			return false
		}
		n.Read, n.ReadAt = true, &now
		return true
	})
}

func (s *NotificationsService) UnreadCount(ctx context.Context) (int, error) {
	unread, err := s.c.Filter(ctx, func(n *domain.Notification) bool { return !n.Read })
	return len(unread), err
}

func (s *NotificationsService) Stats(ctx context.Context) (domain.NotificationStats, error) {
	st := domain.NotificationStats{ByType: map[string]int{}}
	all, err := s.c.Active(ctx)
	if err != nil {
		return st, err
	}
	for _, n := range all {
		st.Total++
		if !n.Read {
			st.Unread++
		}
		st.ByType[n.Type]++
	}
	return st, nil
}
