package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-dashboard/internal/domain"
)

func str(s string) *string { return &s }

func TestUpdates_RejectBlankRequiredFields(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		run  func(d Deps) error
	}{
		{"customer name", func(d Deps) error {
			_, err := NewCustomersService(d).Update(ctx, "cus-1", CustomerPatch{Name: str("")})
			return err
		}},
		{"customer name spaces", func(d Deps) error {
			_, err := NewCustomersService(d).Update(ctx, "cus-1", CustomerPatch{Name: str("   ")})
			return err
		}},
		{"customer email", func(d Deps) error {
			_, err := NewCustomersService(d).Update(ctx, "cus-1", CustomerPatch{Email: str("")})
			return err
		}},
		{"staff first name", func(d Deps) error {
			_, err := NewStaffService(d).Update(ctx, "stf-1", StaffPatch{FirstName: str(" ")})
			return err
		}},
		{"staff position", func(d Deps) error {
			_, err := NewStaffService(d).Update(ctx, "stf-1", StaffPatch{Position: str("")})
			return err
		}},
		{"department code", func(d Deps) error {
			_, err := NewDepartmentsService(d).Update(ctx, "dep-1", DepartmentPatch{Code: str("")})
			return err
		}},
		{"role name", func(d Deps) error {
			_, err := NewRolesService(d).Update(ctx, "role-viewer", RolePatch{Name: str("")})
			return err
		}},
		{"permission name", func(d Deps) error {
			_, err := NewPermissionsService(d).Update(ctx, "perm-invoices.read", PermissionPatch{Name: str("  ")})
			return err
		}},
		{"invoice customer name", func(d Deps) error {
			_, err := NewInvoicesService(d, InvoiceOptions{}).Update(ctx, "inv-1", InvoicePatch{CustomerName: str("")})
			return err
		}},
		{"invoice items", func(d Deps) error {
			_, err := NewInvoicesService(d, InvoiceOptions{}).Update(ctx, "inv-1", InvoicePatch{Items: []LineItemInput{}})
			return err
		}},
		{"product name", func(d Deps) error {
			_, err := NewProductsService(d, 0).Update(ctx, "prd-1", ProductPatch{Name: str("")})
			return err
		}},
		{"category name", func(d Deps) error {
			_, err := NewCategoriesService(d).Update(ctx, "cat-1", CategoryPatch{Name: str("")})
			return err
		}},
		{"notification title", func(d Deps) error {
			_, err := NewNotificationsService(d).Update(ctx, "ntf-1", NotificationPatch{Title: str("")})
			return err
		}},
		{"user username", func(d Deps) error {
			roles := NewRolesService(d)
			_, err := NewUsersService(d, roles, UserOptions{AdminPassword: "admin123"}).Update(ctx, "usr-admin", UserPatch{Username: str("")})
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.run(testDeps(t)), domain.ErrInvalid)
		})
	}
}

func TestCustomers_BlankNameLeavesRecordUnchanged(t *testing.T) {
	ctx := context.Background()
	s := NewCustomersService(testDeps(t))

	_, err := s.Update(ctx, "cus-1", CustomerPatch{Name: str("  ")})
	require.ErrorIs(t, err, domain.ErrInvalid)

	c, err := s.GetByID(ctx, "cus-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corporation", c.Name)

	// other fields still patch alone
	c, err = s.Update(ctx, "cus-1", CustomerPatch{Company: str("")})
	require.NoError(t, err)
	assert.Empty(t, c.Company)
	assert.Equal(t, "Acme Corporation", c.Name)
}
