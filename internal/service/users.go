package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"admin-dashboard/internal/domain"
	"admin-dashboard/internal/repo"
	"admin-dashboard/pkg/utils"
)

const KeyUsers = "users"

var userStatuses = []string{domain.UserActive, domain.UserSuspended}

// RoleDirectory is what the users service needs from roles. Role user
// counts are kept by this caller, not derived.
type RoleDirectory interface {
	GetByKey(ctx context.Context, key string) (*domain.Role, error)
	AdjustUserCountByKey(ctx context.Context, key string, delta int) error
}

type UserOptions struct {
	AdminEmail    string
	AdminPassword string
	MinPassword   int
}

type UserInput struct {
	Name     string `json:"name" validate:"required,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum,min=3,max=32"`
	Password string `json:"password" validate:"required,max=72"`
	RoleKey  string `json:"roleKey" validate:"required"`
	Status   string `json:"status"`
}

type UserPatch struct {
	Name     *string `json:"name" validate:"omitempty,max=64"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Username *string `json:"username" validate:"omitempty,alphanum,min=3,max=32"`
	RoleKey  *string `json:"roleKey"`
	Status   *string `json:"status"`
}

type UsersService struct {
	base[*domain.User]
	roles RoleDirectory
	log   *zap.Logger
	opts  UserOptions
}

func NewUsersService(d Deps, roles RoleDirectory, o UserOptions) *UsersService {
	if o.MinPassword <= 0 {
		o.MinPassword = 6
	}
	l := d.Log
	if l == nil {
		l = zap.NewNop()
	}
	s := &UsersService{roles: roles, log: l, opts: o}
	s.base = base[*domain.User]{
		c: newCollection(d, KeyUsers, "user", s.defaultUsers),
		fields: func(u *domain.User) []string {
			return []string{u.Name, u.Email, u.Username, u.RoleKey}
		},
	}
	return s
}

func userEmail(u *domain.User) string    { return u.Email }
func userUsername(u *domain.User) string { return u.Username }

func (s *UsersService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok, err := s.c.Find(ctx, func(u *domain.User) bool { return strings.EqualFold(u.Email, strings.TrimSpace(email)) })
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.c.NotFound(email)
	}
	return u, nil
}

func (s *UsersService) checkPassword(pw string) error {
	if len(pw) < s.opts.MinPassword {
		return invalid("password must be at least %d characters", s.opts.MinPassword)
	}
	return nil
}

func (s *UsersService) Create(ctx context.Context, in UserInput) (*domain.User, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	if err := s.checkPassword(in.Password); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = domain.UserActive
	}
	if err := oneOf("status", in.Status, userStatuses); err != nil {
		return nil, err
	}
	if _, err := s.roles.GetByKey(ctx, in.RoleKey); err != nil {
		return nil, invalid("unknown role %q", in.RoleKey)
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, invalid("password: %v", err)
	}
	u := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.TrimSpace(in.Email),
		Username:     strings.ToLower(in.Username),
		PasswordHash: hash,
		RoleKey:      in.RoleKey,
		Status:       in.Status,
	}
	u, err = s.c.Insert(ctx, u, func(all []*domain.User) error {
		if repo.Taken(all, u.ID, u.Email, userEmail) {
			return conflict("user with email %q already exists", u.Email)
		}
		if repo.Taken(all, u.ID, u.Username, userUsername) {
			return conflict("username %q already exists", u.Username)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.countRole(ctx, u.RoleKey, 1)
	return u, nil
}

// countRole keeps role user counts in step; a failure there does not undo
// the user change.
func (s *UsersService) countRole(ctx context.Context, key string, delta int) {
	if err := s.roles.AdjustUserCountByKey(ctx, key, delta); err != nil {
		s.log.Warn("adjust role user count", zap.String("role", key), zap.Int("delta", delta), zap.Error(err))
	}
}

func (s *UsersService) Update(ctx context.Context, id string, p UserPatch) (*domain.User, error) {
	if err := check(p); err != nil {
		return nil, err
	}
	if err := errors.Join(notBlank("name", p.Name), notBlank("email", p.Email), notBlank("username", p.Username)); err != nil {
		return nil, err
	}
	if p.Status != nil {
		if err := oneOf("status", *p.Status, userStatuses); err != nil {
			return nil, err
		}
	}
	if p.RoleKey != nil {
		if _, err := s.roles.GetByKey(ctx, *p.RoleKey); err != nil {
			return nil, invalid("unknown role %q", *p.RoleKey)
		}
	}
	var oldRole string
	u, err := s.c.Modify(ctx, id, func(all []*domain.User, u *domain.User) error {
		if p.Email != nil {
			e := strings.TrimSpace(*p.Email)
			if repo.Taken(all, u.ID, e, userEmail) {
				return conflict("user with email %q already exists", e)
			}
			u.Email = e
		}
		if p.Username != nil {
			n := strings.ToLower(*p.Username)
			if repo.Taken(all, u.ID, n, userUsername) {
				return conflict("username %q already exists", n)
			}
			u.Username = n
		}
		oldRole = u.RoleKey
		set(&u.Name, trimmed(p.Name))
		set(&u.RoleKey, p.RoleKey)
		set(&u.Status, p.Status)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !u.IsDeleted && oldRole != u.RoleKey {
		s.countRole(ctx, oldRole, -1)
		s.countRole(ctx, u.RoleKey, 1)
	}
	return u, nil
}

func (s *UsersService) UpdateStatus(ctx context.Context, id, status string) (*domain.User, error) {
	return s.Update(ctx, id, UserPatch{Status: &status})
}

// Delete and Restore adjust the role count only when the flag actually
// flips, decided on the stored record inside the update.
func (s *UsersService) Delete(ctx context.Context, id string) (*domain.User, error) {
	var flipped bool
	u, err := s.c.Modify(ctx, id, func(_ []*domain.User, u *domain.User) error {
		flipped = !u.IsDeleted
		if flipped {
			now := s.c.Now()
			u.IsDeleted, u.DeletedAt = true, &now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if flipped {
		s.countRole(ctx, u.RoleKey, -1)
	}
	return u, nil
}

func (s *UsersService) Restore(ctx context.Context, id string) (*domain.User, error) {
	var flipped bool
	u, err := s.c.Modify(ctx, id, func(_ []*domain.User, u *domain.User) error {
		flipped = u.IsDeleted
		u.IsDeleted, u.DeletedAt = false, nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	if flipped {
		s.countRole(ctx, u.RoleKey, 1)
	}
	return u, nil
}

func (s *UsersService) PermanentDelete(ctx context.Context, id string) error {
	u, err := s.c.Purge(ctx, id)
	if err != nil {
		return err
	}
	if !u.IsDeleted {
		s.countRole(ctx, u.RoleKey, -1)
	}
	return nil
}

// Authenticate accepts an email or username and stamps lastLoginAt.
func (s *UsersService) Authenticate(ctx context.Context, login, password string) (*domain.User, error) {
	login = strings.TrimSpace(login)
	u, ok, err := s.c.Find(ctx, func(u *domain.User) bool {
		return !u.IsDeleted && (strings.EqualFold(u.Email, login) || strings.EqualFold(u.Username, login))
	})
	if err != nil {
		return nil, err
	}
	if !ok || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, unauthorized("invalid credentials")
	}
	if u.Status != domain.UserActive {
		return nil, forbidden("account is %s", u.Status)
	}
	return s.c.Modify(ctx, u.ID, func(_ []*domain.User, u *domain.User) error {
		now := s.c.Now()
		u.LastLoginAt = &now
		return nil
	})
}

func (s *UsersService) ChangePassword(ctx context.Context, id, current, next string) error {
	if err := s.checkPassword(next); err != nil {
		return err
	}
	hash, err := utils.HashPassword(next)
	if err != nil {
		return invalid("password: %v", err)
	}
	_, err = s.c.Modify(ctx, id, func(_ []*domain.User, u *domain.User) error {
		if !utils.CheckPassword(current, u.PasswordHash) {
			return invalid("current password is incorrect")
		}
		u.PasswordHash = hash
		return nil
	})
	return err
}

// SetPassword replaces the password without knowing the old one (admin reset).
func (s *UsersService) SetPassword(ctx context.Context, id, next string) error {
	if err := s.checkPassword(next); err != nil {
		return err
	}
	hash, err := utils.HashPassword(next)
	if err != nil {
		return invalid("password: %v", err)
	}
	_, err = s.c.Modify(ctx, id, func(_ []*domain.User, u *domain.User) error {
		u.PasswordHash = hash
		return nil
	})
	return err
}

func (s *UsersService) Stats(ctx context.Context) (domain.UserStats, error) {
	st := domain.UserStats{ByRole: map[string]int{}}
	all, err := s.c.Active(ctx)
	if err != nil {
		return st, err
	}
	for _, u := range all {
		st.Total++
		switch u.Status {
		case domain.UserActive:
			st.Active++
		case domain.UserSuspended:
			st.Suspended++
		}
		st.ByRole[u.RoleKey]++
	}
	return st, nil
}
