package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-dashboard/internal/domain"
)

func TestCustomers_EmailIsUnique(t *testing.T) {
	ctx := context.Background()
	s := NewCustomersService(testDeps(t))

	_, err := s.Create(ctx, CustomerInput{Name: "Dup", Email: "BILLING@acme.example"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	c, err := s.Create(ctx, CustomerInput{Name: "Hooli", Email: "ar@hooli.example"})
	require.NoError(t, err)
	assert.Equal(t, domain.CustomerActive, c.Status)
	assert.True(t, c.TotalSpent.IsZero())

	// changing to its own email is not a conflict
	same := "ar@hooli.example"
	_, err = s.Update(ctx, c.ID, CustomerPatch{Email: &same})
	require.NoError(t, err)

	taken := "ap@initech.example"
	_, err = s.Update(ctx, c.ID, CustomerPatch{Email: &taken})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = s.Create(ctx, CustomerInput{Name: "Bad", Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	got, err := s.GetByEmail(ctx, "AR@hooli.example")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
}

func TestCustomers_Stats(t *testing.T) {
	ctx := context.Background()
	s := NewCustomersService(testDeps(t))
	_, err := s.Create(ctx, CustomerInput{Name: "Hooli", Email: "ar@hooli.example"})
	require.NoError(t, err)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 3, st.Active)
	assert.Equal(t, 1, st.Inactive)
	assert.Equal(t, 1, st.NewThisMonth)
	decEq(t, "2989.88", st.TotalSpent)

	_, err = s.UpdateStatus(ctx, "cus-1", "gone")
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestProducts_SKUAndStock(t *testing.T) {
	ctx := context.Background()
	s := NewProductsService(testDeps(t), 10)

	_, err := s.Create(ctx, ProductInput{Name: "Mouse copy", SKU: "el-mouse-01", Price: dec("1")})
	assert.ErrorIs(t, err, domain.ErrConflict)

	p, err := s.Create(ctx, ProductInput{Name: "Stapler", SKU: " of-stap-01 ", Price: dec("7.5"), Stock: 3})
	require.NoError(t, err)
	assert.Equal(t, "OF-STAP-01", p.SKU)
	assert.Equal(t, domain.ProductActive, p.Status)

	_, err = s.Create(ctx, ProductInput{Name: "Neg", SKU: "NEG", Price: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	p, err = s.AdjustStock(ctx, p.ID, -2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.Stock)
	_, err = s.AdjustStock(ctx, p.ID, -2)
	assert.ErrorIs(t, err, domain.ErrInvalid)

	got, err := s.GetBySKU(ctx, "of-stap-01")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestProducts_Stats(t *testing.T) {
	s := NewProductsService(testDeps(t), 10)

	st, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 3, st.Active)
	assert.Equal(t, 1, st.LowStock)
	assert.Equal(t, 1, st.OutOfStock)
	// 120*24.99 + 6*149
	decEq(t, "3892.8", st.InventoryValue)
}

func TestCategories_Slugs(t *testing.T) {
	ctx := context.Background()
	s := NewCategoriesService(testDeps(t))

	c, err := s.Create(ctx, CategoryInput{Name: "Home & Garden"})
	require.NoError(t, err)
	assert.Equal(t, "home-and-garden", c.Slug)

	_, err = s.Create(ctx, CategoryInput{Name: "Electronics 2", Slug: "Electronics"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = s.Create(ctx, CategoryInput{Name: "???"})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	c, err = s.AdjustProductCount(ctx, c.ID, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, c.ProductCount)

	got, err := s.GetBySlug(ctx, "office-supplies")
	require.NoError(t, err)
	assert.Equal(t, "cat-2", got.ID)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 2, st.Empty)
	assert.Equal(t, 3, st.TotalProducts)
}

func TestStaff_EmployeeIDs(t *testing.T) {
	ctx := context.Background()
	s := NewStaffService(testDeps(t))

	m, err := s.Create(ctx, StaffInput{FirstName: "Linus", LastName: "T", Email: "linus@company.example", Position: "Engineer"})
	require.NoError(t, err)
	assert.Equal(t, "EMP-004", m.EmployeeID)
	assert.Equal(t, testNow, m.HireDate)

	_, err = s.Create(ctx, StaffInput{EmployeeID: "emp-001", FirstName: "X", LastName: "Y", Email: "x@company.example", Position: "P"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = s.Create(ctx, StaffInput{FirstName: "X", LastName: "Y", Email: "ADA@company.example", Position: "P"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	eid := "EMP-002"
	_, err = s.Update(ctx, m.ID, StaffPatch{EmployeeID: &eid})
	assert.ErrorIs(t, err, domain.ErrConflict)

	byDept, err := s.GetByDepartment(ctx, "Engineering")
	require.NoError(t, err)
	assert.Len(t, byDept, 1)

	found, err := s.Search(ctx, "ada lovelace")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestStaff_Stats(t *testing.T) {
	s := NewStaffService(testDeps(t))

	st, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 2, st.ByStatus[domain.StaffActive])
	assert.Equal(t, 1, st.ByStatus[domain.StaffOnLeave])
	assert.Equal(t, 0, st.ByStatus[domain.StaffTerminated])
	decEq(t, "246000", st.TotalSalary)
	decEq(t, "82000", st.AverageSalary)
}

func TestDepartments_NameAndCode(t *testing.T) {
	ctx := context.Background()
	s := NewDepartmentsService(testDeps(t))

	d, err := s.Create(ctx, DepartmentInput{Name: "Legal", Code: "leg"})
	require.NoError(t, err)
	assert.Equal(t, "LEG", d.Code)

	_, err = s.Create(ctx, DepartmentInput{Name: "finance", Code: "FIN2"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = s.Create(ctx, DepartmentInput{Name: "Sales", Code: "eng"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := s.GetByCode(ctx, "leg")
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, st.Total)
	assert.Equal(t, 2, st.WithManager)
}

func TestNotifications_ReadState(t *testing.T) {
	ctx := context.Background()
	s := NewNotificationsService(testDeps(t))

	n, err := s.Create(ctx, NotificationInput{Title: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, domain.NotifyInfo, n.Type)

	_, err = s.Create(ctx, NotificationInput{Title: "x", Type: "loud"})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	cnt, err := s.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, cnt)

	n, err = s.MarkRead(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, n.Read)
	require.NotNil(t, n.ReadAt)

	changed, err := s.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	changed, err = s.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, changed)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 0, st.Unread)
	assert.Equal(t, 1, st.ByType[domain.NotifyWarning])
}
