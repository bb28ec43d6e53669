package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-dashboard/internal/domain"
)

func TestNotifications_MarkAllReadCountsOnceWhenRetried(t *testing.T) {
	ctx := context.Background()
	replayed, _, _ := replayDeps(t)
	s := NewNotificationsService(replayed)

	n, err := s.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	unread, err := s.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestInvoices_MarkOverdueCountsOnceWhenRetried(t *testing.T) {
	replayed, _, _ := replayDeps(t)
	s := NewInvoicesService(replayed, InvoiceOptions{})

	n, err := s.MarkOverdue(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInvoices_AutoNumberRecomputedOnRetry(t *testing.T) {
	ctx := context.Background()
	replayed, direct, rs := replayDeps(t)
	s := NewInvoicesService(replayed, InvoiceOptions{})
	other := NewInvoicesService(direct, InvoiceOptions{})

	rs.between = func() {
		inv, err := other.Create(ctx, sampleInvoice())
		require.NoError(t, err)
		require.Equal(t, "INV-0004", inv.Number)
	}
	inv, err := s.Create(ctx, sampleInvoice())
	require.NoError(t, err)
	assert.Equal(t, "INV-0005", inv.Number)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestStaff_AutoEmployeeIDRecomputedOnRetry(t *testing.T) {
	ctx := context.Background()
	replayed, direct, rs := replayDeps(t)
	s := NewStaffService(replayed)
	other := NewStaffService(direct)

	rs.between = func() {
		_, err := other.Create(ctx, StaffInput{FirstName: "Katherine", LastName: "Johnson", Email: "kj@company.example", Position: "Analyst"})
		require.NoError(t, err)
	}
	m, err := s.Create(ctx, StaffInput{FirstName: "Dorothy", LastName: "Vaughan", Email: "dv@company.example", Position: "Lead"})
	require.NoError(t, err)
	assert.Equal(t, "EMP-005", m.EmployeeID)
}

func TestUsers_PermanentDeleteLosingRaceCountsOnce(t *testing.T) {
	ctx := context.Background()
	replayed, direct, rs := replayDeps(t)
	roles := NewRolesService(direct)
	s := NewUsersService(replayed, roles, UserOptions{AdminPassword: "admin123"})
	other := NewUsersService(direct, roles, UserOptions{AdminPassword: "admin123"})

	a, err := other.Create(ctx, UserInput{Name: "Ann", Email: "ann@example.com", Username: "ann", Password: "secret1", RoleKey: "viewer"})
	require.NoError(t, err)
	_, err = other.Create(ctx, UserInput{Name: "Bob", Email: "bob@example.com", Username: "bob", Password: "secret1", RoleKey: "viewer"})
	require.NoError(t, err)
	require.Equal(t, 2, userCount(t, roles, "viewer"))

	rs.between = func() { require.NoError(t, other.PermanentDelete(ctx, a.ID)) }
	err = s.PermanentDelete(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, userCount(t, roles, "viewer"))
}

// markSystem rewrites the stored roles so key becomes a system role.
func markSystem(t *testing.T, d Deps, key string) {
	t.Helper()
	ctx := context.Background()
	all, err := NewRolesService(d).GetAllIncludingDeleted(ctx)
	require.NoError(t, err)
	for _, r := range all {
		if r.Key == key {
			r.IsSystem = true
		}
	}
	b, err := json.Marshal(all)
	require.NoError(t, err)
	require.NoError(t, d.Store.Set(ctx, KeyRoles, b))
}

func TestRoles_SystemGuardReadsStoredRecord(t *testing.T) {
	ctx := context.Background()
	replayed, direct, rs := replayDeps(t)
	s := NewRolesService(replayed)
	_, err := NewRolesService(direct).GetAll(ctx)
	require.NoError(t, err)

	rs.between = func() { markSystem(t, direct, "viewer") }
	_, err = s.Delete(ctx, "role-viewer")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	r, err := s.GetByID(ctx, "role-viewer")
	require.NoError(t, err)
	assert.False(t, r.IsDeleted)
}

func TestRoles_PermanentDeleteGuardReadsStoredRecord(t *testing.T) {
	ctx := context.Background()
	replayed, direct, rs := replayDeps(t)
	s := NewRolesService(replayed)
	_, err := NewRolesService(direct).GetAll(ctx)
	require.NoError(t, err)

	rs.between = func() { markSystem(t, direct, "viewer") }
	assert.ErrorIs(t, s.PermanentDelete(ctx, "role-viewer"), domain.ErrForbidden)

	_, err = s.GetByID(ctx, "role-viewer")
	assert.NoError(t, err)
}

func TestUsers_DeleteRestoreCountFromStoredFlag(t *testing.T) {
	ctx := context.Background()
	replayed, direct, rs := replayDeps(t)
	roles := NewRolesService(direct)
	s := NewUsersService(replayed, roles, UserOptions{AdminPassword: "admin123"})
	other := NewUsersService(direct, roles, UserOptions{AdminPassword: "admin123"})

	u, err := other.Create(ctx, UserInput{Name: "Ann", Email: "ann@example.com", Username: "ann", Password: "secret1", RoleKey: "viewer"})
	require.NoError(t, err)
	require.Equal(t, 1, userCount(t, roles, "viewer"))

	// the competing writer deletes first; ours must not count again
	rs.between = func() {
		_, err := other.Delete(ctx, u.ID)
		require.NoError(t, err)
	}
	got, err := s.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)
	assert.Equal(t, 0, userCount(t, roles, "viewer"))

	rs.between = func() {
		_, err := other.Restore(ctx, u.ID)
		require.NoError(t, err)
	}
	_, err = s.Restore(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, userCount(t, roles, "viewer"))
}
