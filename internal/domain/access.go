package domain

import "time"

type Role struct {
	Base
	Name        string   `json:"name"`
	Key         string   `json:"key"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions"`
	UserCount   int      `json:"userCount"` // maintained by callers, not derived
	IsSystem    bool     `json:"isSystem"`
}

type RoleStats struct {
	Total      int `json:"total"`
	System     int `json:"system"`
	Custom     int `json:"custom"`
	TotalUsers int `json:"totalUsers"`
}

type Permission struct {
	Base
	Name        string `json:"name"`
	Key         string `json:"key"` // module.action
	Module      string `json:"module"`
	Description string `json:"description,omitempty"`
}

type PermissionStats struct {
	Total    int            `json:"total"`
	ByModule map[string]int `json:"byModule"`
}

const (
	UserActive    = "active"
	UserSuspended = "suspended"

	RoleAdmin = "admin"
)

type User struct {
	Base
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"passwordHash"`
	RoleKey      string     `json:"roleKey"`
	Status       string     `json:"status"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// Public is the view of a user handed to clients.
type PublicUser struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	RoleKey     string     `json:"roleKey"`
	Status      string     `json:"status"`
	IsDeleted   bool       `json:"isDeleted"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID: u.ID, Name: u.Name, Email: u.Email, Username: u.Username,
		RoleKey: u.RoleKey, Status: u.Status, IsDeleted: u.IsDeleted,
		LastLoginAt: u.LastLoginAt, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

type UserStats struct {
	Total     int            `json:"total"`
	Active    int            `json:"active"`
	Suspended int            `json:"suspended"`
	ByRole    map[string]int `json:"byRole"`
}
