package domain

import "time"

const (
	NotifyInfo    = "info"
	NotifySuccess = "success"
	NotifyWarning = "warning"
	NotifyError   = "error"
)

type Notification struct {
	Base
	Title   string     `json:"title"`
	Message string     `json:"message"`
	Type    string     `json:"type"`
	Link    string     `json:"link,omitempty"`
	Read    bool       `json:"read"`
	ReadAt  *time.Time `json:"readAt,omitempty"`
}

type NotificationStats struct {
	Total  int            `json:"total"`
	Unread int            `json:"unread"`
	ByType map[string]int `json:"byType"`
}
