package service

import (
	"context"
	"sort"
	"strings"

	"admin-dashboard/internal/domain"
	"admin-dashboard/internal/repo"
)

const (
	KeyRoles       = "roles"
	KeyPermissions = "permissions"
)

type RoleInput struct {
	Name        string   `json:"name" validate:"required,max=64"`
	Key         string   `json:"key" validate:"required,max=32"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

type RolePatch struct {
	Name        *string  `json:"name" validate:"omitempty,max=64"`
	Key         *string  `json:"key" validate:"omitempty,max=32"`
	Description *string  `json:"description"`
	Permissions []string `json:"permissions"`
}

type RolesService struct {
	base[*domain.Role]
}

func NewRolesService(d Deps) *RolesService {
	return &RolesService{base: base[*domain.Role]{
		c: newCollection(d, KeyRoles, "role", defaultRoles),
		fields: func(r *domain.Role) []string {
			return []string{r.Name, r.Key, r.Description}
		},
	}}
}

func roleKey(r *domain.Role) string { return r.Key }

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func (s *RolesService) GetByKey(ctx context.Context, key string) (*domain.Role, error) {
	r, ok, err := s.c.Find(ctx, func(r *domain.Role) bool { return r.Key == key })
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.c.NotFound(key)
	}
	return r, nil
}

func (s *RolesService) Create(ctx context.Context, in RoleInput) (*domain.Role, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	r := &domain.Role{
		Name:        strings.TrimSpace(in.Name),
		Key:         strings.ToLower(strings.TrimSpace(in.Key)),
		Description: in.Description,
		Permissions: dedupe(in.Permissions),
	}
	return s.c.Insert(ctx, r, func(all []*domain.Role) error {
		if repo.Taken(all, r.ID, r.Key, roleKey) {
			return conflict("role key %q already exists", r.Key)
		}
		return nil
	})
}

func (s *RolesService) Update(ctx context.Context, id string, p RolePatch) (*domain.Role, error) {
	if err := check(p); err != nil {
		return nil, err
	}
	if err := notBlank("name", p.Name); err != nil {
		return nil, err
	}
	return s.c.Modify(ctx, id, func(all []*domain.Role, r *domain.Role) error {
		if p.Key != nil {
			k := strings.ToLower(strings.TrimSpace(*p.Key))
			if k != r.Key && r.IsSystem {
				return forbidden("the key of system role %q cannot change", r.Key)
			}
			if k == "" {
				return invalid("key must not be empty")
			}
			if repo.Taken(all, r.ID, k, roleKey) {
				return conflict("role key %q already exists", k)
			}
			r.Key = k
		}
		set(&r.Name, trimmed(p.Name))
		set(&r.Description, p.Description)
		if p.Permissions != nil {
			r.Permissions = dedupe(p.Permissions)
		}
		return nil
	})
}

// Delete refuses system roles.
func (s *RolesService) Delete(ctx context.Context, id string) (*domain.Role, error) {
	return s.c.Modify(ctx, id, func(_ []*domain.Role, r *domain.Role) error {
		if err := guardSystem(r); err != nil {
			return err
		}
		if !r.IsDeleted {
			now := s.c.Now()
			r.IsDeleted, r.DeletedAt = true, &now
		}
		return nil
	})
}

func (s *RolesService) PermanentDelete(ctx context.Context, id string) error {
	_, err := s.c.PurgeIf(ctx, id, guardSystem)
	return err
}

func guardSystem(r *domain.Role) error {
	if r.IsSystem {
		return forbidden("system role %q cannot be deleted", r.Key)
	}
	return nil
}

func (s *RolesService) SetPermissions(ctx context.Context, id string, keys []string) (*domain.Role, error) {
	return s.Update(ctx, id, RolePatch{Permissions: append([]string{}, keys...)})
}

func adjustUserCount(r *domain.Role, delta int) {
	r.UserCount = max(0, r.UserCount+delta)
}

func (s *RolesService) IncrementUserCount(ctx context.Context, id string) (*domain.Role, error) {
	return s.c.Modify(ctx, id, func(_ []*domain.Role, r *domain.Role) error {
		adjustUserCount(r, 1)
		return nil
	})
}

func (s *RolesService) DecrementUserCount(ctx context.Context, id string) (*domain.Role, error) {
	return s.c.Modify(ctx, id, func(_ []*domain.Role, r *domain.Role) error {
		adjustUserCount(r, -1)
		return nil
	})
}

// AdjustUserCountByKey is the by-key variant used by the users service.
func (s *RolesService) AdjustUserCountByKey(ctx context.Context, key string, delta int) error {
	r, err := s.GetByKey(ctx, key)
	if err != nil {
		return err
	}
	_, err = s.c.Modify(ctx, r.ID, func(_ []*domain.Role, r *domain.Role) error {
		adjustUserCount(r, delta)
		return nil
	})
	return err
}

func (s *RolesService) Stats(ctx context.Context) (domain.RoleStats, error) {
	var st domain.RoleStats
	all, err := s.c.Active(ctx)
	if err != nil {
		return st, err
	}
	for _, r := range all {
		st.Total++
		if r.IsSystem {
			st.System++
		} else {
			st.Custom++
		}
		st.TotalUsers += r.UserCount
	}
	return st, nil
}

type PermissionInput struct {
	Name        string `json:"name" validate:"required,max=64"`
	Key         string `json:"key" validate:"required,max=64,contains=."`
	Module      string `json:"module"`
	Description string `json:"description"`
}

type PermissionPatch struct {
	Name        *string `json:"name" validate:"omitempty,max=64"`
	Key         *string `json:"key" validate:"omitempty,max=64,contains=."`
	Module      *string `json:"module"`
	Description *string `json:"description"`
}

type PermissionsService struct {
	base[*domain.Permission]
}

func NewPermissionsService(d Deps) *PermissionsService {
	return &PermissionsService{base: base[*domain.Permission]{
		c: newCollection(d, KeyPermissions, "permission", defaultPermissions),
		fields: func(p *domain.Permission) []string {
			return []string{p.Name, p.Key, p.Module, p.Description}
		},
	}}
}

func permissionKey(p *domain.Permission) string { return p.Key }

func moduleOf(key string) string {
	m, _, _ := strings.Cut(key, ".")
	return m
}

func (s *PermissionsService) GetByKey(ctx context.Context, key string) (*domain.Permission, error) {
	p, ok, err := s.c.Find(ctx, func(p *domain.Permission) bool { return p.Key == key })
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.c.NotFound(key)
	}
	return p, nil
}

// GetByModule groups active permissions by module.
func (s *PermissionsService) GetByModule(ctx context.Context) (map[string][]*domain.Permission, error) {
	all, err := s.c.Active(ctx)
	if err != nil {
		return nil, err
	}
	out := map[string][]*domain.Permission{}
	for _, p := range all {
		out[p.Module] = append(out[p.Module], p)
	}
	for _, ps := range out {
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].Key < ps[j].Key })
	}
	return out, nil
}

func (s *PermissionsService) Create(ctx context.Context, in PermissionInput) (*domain.Permission, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	p := &domain.Permission{
		Name:        strings.TrimSpace(in.Name),
		Key:         strings.ToLower(strings.TrimSpace(in.Key)),
		Module:      strings.TrimSpace(in.Module),
		Description: in.Description,
	}
	if p.Module == "" {
		p.Module = moduleOf(p.Key)
	}
	return s.c.Insert(ctx, p, func(all []*domain.Permission) error {
		if repo.Taken(all, p.ID, p.Key, permissionKey) {
			return conflict("permission key %q already exists", p.Key)
		}
		return nil
	})
}

func (s *PermissionsService) Update(ctx context.Context, id string, in PermissionPatch) (*domain.Permission, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	if err := notBlank("name", in.Name); err != nil {
		return nil, err
	}
	return s.c.Modify(ctx, id, func(all []*domain.Permission, p *domain.Permission) error {
		if in.Key != nil {
			k := strings.ToLower(strings.TrimSpace(*in.Key))
			if repo.Taken(all, p.ID, k, permissionKey) {
				return conflict("permission key %q already exists", k)
			}
			p.Key = k
		}
		set(&p.Name, trimmed(in.Name))
		set(&p.Module, trimmed(in.Module))
		set(&p.Description, in.Description)
		return nil
	})
}

func (s *PermissionsService) Stats(ctx context.Context) (domain.PermissionStats, error) {
	st := domain.PermissionStats{ByModule: map[string]int{}}
	all, err := s.c.Active(ctx)
	if err != nil {
		return st, err
	}
	for _, p := range all {
		st.Total++
		st.ByModule[p.Module]++
	}
	return st, nil
}
