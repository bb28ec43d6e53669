package service

import (
	"time"

	"github.com/shopspring/decimal"

	"admin-dashboard/internal/domain"
	"admin-dashboard/pkg/utils"
)

// Default records written the first time a store's key is read.

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedBase(id string, created time.Time) domain.Base {
	return domain.Base{ID: id, CreatedAt: created, UpdatedAt: created}
}

func defaultInvoices() []*domain.Invoice {
	paidAt := day(2024, time.January, 20)
	invs := []*domain.Invoice{
		{
			Base:   seedBase("inv-1", day(2024, time.January, 5)),
			Number: "INV-0001", CustomerID: "cus-1", CustomerName: "Acme Corporation", CustomerEmail: "billing@acme.example",
			Items:     []domain.LineItem{{Description: "Website redesign", Quantity: 1, UnitPrice: dec("2500")}},
			TaxRate:   dec("10"),
			Status:    domain.InvoicePaid,
			IssueDate: day(2024, time.January, 5), DueDate: day(2024, time.February, 4), PaidAt: &paidAt,
		},
		{
			Base:   seedBase("inv-2", day(2024, time.February, 1)),
			Number: "INV-0002", CustomerID: "cus-2", CustomerName: "Globex Ltd", CustomerEmail: "accounts@globex.example",
			Items: []domain.LineItem{
				{Description: "Support hours", Quantity: 2, UnitPrice: dec("50")},
				{Description: "Domain renewal", Quantity: 1, UnitPrice: dec("75")},
			},
			TaxRate: dec("8.5"), Discount: dec("10"),
			Status:    domain.InvoicePending,
			IssueDate: day(2024, time.February, 1), DueDate: day(2024, time.March, 2),
		},
		{
			Base:   seedBase("inv-3", day(2024, time.March, 10)),
			Number: "INV-0003", CustomerID: "cus-3", CustomerName: "Initech", CustomerEmail: "ap@initech.example",
			Items:     []domain.LineItem{{Description: "Hosting (12 months)", Quantity: 12, UnitPrice: dec("19.99")}},
			TaxRate:   dec("0"),
			Status:    domain.InvoiceOverdue,
			IssueDate: day(2024, time.March, 10), DueDate: day(2024, time.April, 9),
			Notes:     "Second reminder sent",
		},
	}
	for _, inv := range invs {
		inv.Recalculate()
	}
	return invs
}

func defaultCustomers() []*domain.Customer {
	return []*domain.Customer{
		{
			Base: seedBase("cus-1", day(2023, time.November, 2)),
			Name: "Acme Corporation", Email: "billing@acme.example", Phone: "+1 555 0100", Company: "Acme",
			Address: domain.Address{Street: "1 Market St", City: "San Francisco", State: "CA", ZipCode: "94105", Country: "US"},
			Status:  domain.CustomerActive, TotalOrders: 4, TotalSpent: dec("2750"),
		},
		{
			Base: seedBase("cus-2", day(2023, time.December, 14)),
			Name: "Globex Ltd", Email: "accounts@globex.example", Phone: "+44 20 7946 0000", Company: "Globex",
			Address: domain.Address{Street: "10 Fleet St", City: "London", ZipCode: "EC4Y 1AA", Country: "GB"},
			Status:  domain.CustomerActive, TotalOrders: 1, TotalSpent: dec("0"),
		},
		{
			Base: seedBase("cus-3", day(2024, time.January, 22)),
			Name: "Initech", Email: "ap@initech.example", Phone: "+1 555 0199", Company: "Initech",
			Address: domain.Address{Street: "4120 Freidrich Ln", City: "Austin", State: "TX", ZipCode: "78744", Country: "US"},
			Status:  domain.CustomerInactive, TotalOrders: 2, TotalSpent: dec("239.88"),
		},
	}
}

func defaultCategories() []*domain.Category {
	return []*domain.Category{
		{Base: seedBase("cat-1", day(2023, time.October, 1)), Name: "Electronics", Slug: "electronics", ProductCount: 2},
		{Base: seedBase("cat-2", day(2023, time.October, 1)), Name: "Office Supplies", Slug: "office-supplies", ProductCount: 1},
		{Base: seedBase("cat-3", day(2023, time.October, 1)), Name: "Services", Slug: "services"},
	}
}

func defaultProducts() []*domain.Product {
	return []*domain.Product{
		{
			Base: seedBase("prd-1", day(2023, time.October, 3)),
			Name: "Wireless Mouse", SKU: "EL-MOUSE-01", CategoryID: "cat-1",
			Price: dec("24.99"), Stock: 120, Status: domain.ProductActive,
		},
		{
			Base: seedBase("prd-2", day(2023, time.October, 3)),
			Name: "USB-C Dock", SKU: "EL-DOCK-02", CategoryID: "cat-1",
			Price: dec("149.00"), Stock: 6, Status: domain.ProductActive,
		},
		{
			Base: seedBase("prd-3", day(2023, time.October, 5)),
			Name: "A4 Paper (500 sheets)", SKU: "OF-PAPER-01", CategoryID: "cat-2",
			Price: dec("5.49"), Stock: 0, Status: domain.ProductActive,
		},
	}
}

func defaultDepartments() []*domain.Department {
	return []*domain.Department{
		{Base: seedBase("dep-1", day(2023, time.January, 1)), Name: "Engineering", Code: "ENG", ManagerID: "stf-1"},
		{Base: seedBase("dep-2", day(2023, time.January, 1)), Name: "Finance", Code: "FIN", ManagerID: "stf-2"},
		{Base: seedBase("dep-3", day(2023, time.January, 1)), Name: "Support", Code: "SUP"},
	}
}

func defaultStaff() []*domain.Staff {
	return []*domain.Staff{
		{
			Base:       seedBase("stf-1", day(2023, time.February, 1)),
			EmployeeID: "EMP-001", FirstName: "Ada", LastName: "Lovelace", Email: "ada@company.example",
			Position: "Engineering Manager", Department: "Engineering", RoleKey: "manager",
			Salary: dec("98000"), HireDate: day(2021, time.March, 15), Status: domain.StaffActive,
		},
		{
			Base:       seedBase("stf-2", day(2023, time.February, 1)),
			EmployeeID: "EMP-002", FirstName: "Grace", LastName: "Hopper", Email: "grace@company.example",
			Position: "Controller", Department: "Finance", RoleKey: "manager",
			Salary: dec("87000"), HireDate: day(2020, time.June, 1), Status: domain.StaffActive,
		},
		{
			Base:       seedBase("stf-3", day(2023, time.May, 9)),
			EmployeeID: "EMP-003", FirstName: "Alan", LastName: "Turing", Email: "alan@company.example",
			Position: "Support Engineer", Department: "Support", RoleKey: "viewer",
			Salary: dec("61000"), HireDate: day(2023, time.May, 9), Status: domain.StaffOnLeave,
		},
	}
}

func defaultPermissions() []*domain.Permission {
	type p struct{ key, name string }
	list := []p{
		{"invoices.read", "View invoices"}, {"invoices.write", "Manage invoices"},
		{"customers.read", "View customers"}, {"customers.write", "Manage customers"},
		{"products.read", "View products"}, {"products.write", "Manage products"},
		{"staff.read", "View staff"}, {"staff.write", "Manage staff"},
		{"roles.write", "Manage roles and permissions"},
		{"settings.write", "Change settings"},
	}
	out := make([]*domain.Permission, 0, len(list))
	for i, it := range list {
		out = append(out, &domain.Permission{
			Base: seedBase("perm-"+it.key, day(2023, time.January, 1).Add(time.Duration(i)*time.Second)),
			Name: it.name, Key: it.key, Module: moduleOf(it.key),
		})
	}
	return out
}

func defaultRoles() []*domain.Role {
	all := make([]string, 0)
	for _, p := range defaultPermissions() {
		all = append(all, p.Key)
	}
	return []*domain.Role{
		{
			Base: seedBase("role-admin", day(2023, time.January, 1)),
			Name: "Administrator", Key: domain.RoleAdmin, Description: "Full access",
			Permissions: all, UserCount: 1, IsSystem: true,
		},
		{
			Base: seedBase("role-manager", day(2023, time.January, 1)),
			Name: "Manager", Key: "manager", Description: "Manages store data",
			Permissions: []string{"invoices.read", "invoices.write", "customers.read", "customers.write", "products.read", "products.write", "staff.read"},
			IsSystem:    true,
		},
		{
			Base: seedBase("role-viewer", day(2023, time.January, 1)),
			Name: "Viewer", Key: "viewer", Description: "Read only",
			Permissions: []string{"invoices.read", "customers.read", "products.read", "staff.read"},
		},
	}
}

// defaultUsers seeds the administrator account from the configured credentials.
func (s *UsersService) defaultUsers() []*domain.User {
	email := s.opts.AdminEmail
	if email == "" {
		email = "admin@example.com"
	}
	hash, err := utils.HashPassword(s.opts.AdminPassword)
	if err != nil || s.opts.AdminPassword == "" {
		s.log.Warn("admin seed has no usable password; login disabled until it is set")
		hash = ""
	}
	return []*domain.User{{
		Base: seedBase("usr-admin", day(2023, time.January, 1)),
		Name: "Administrator", Email: email, Username: "admin",
		PasswordHash: hash, RoleKey: domain.RoleAdmin, Status: domain.UserActive,
	}}
}

func defaultNotifications() []*domain.Notification {
	return []*domain.Notification{
		{
			Base:  seedBase("ntf-1", day(2024, time.March, 11)),
			Title: "Invoice overdue", Message: "INV-0003 for Initech is past its due date.",
			Type: domain.NotifyWarning, Link: "/main-store/invoices/inv-3",
		},
		{
			Base:  seedBase("ntf-2", day(2024, time.March, 12)),
			Title: "Low stock", Message: "A4 Paper (500 sheets) is out of stock.",
			Type: domain.NotifyError, Link: "/main-store/products/prd-3",
		},
	}
}

func defaultSettings() domain.Settings {
	return domain.Settings{
		General: domain.GeneralSettings{
			SiteName: "Admin Dashboard", Timezone: "UTC", Language: "en", DateFormat: "2006-01-02",
		},
		Invoice: domain.InvoiceSettings{
			NumberPrefix: "INV-", Currency: "USD", DefaultTaxRate: decimal.Zero, DueDays: 30,
		},
		Notifications: domain.NotificationSettings{EmailEnabled: true, NewInvoice: true, PaymentReceived: true, LowStock: true},
		Security:      domain.SecuritySettings{SessionTimeoutMin: 60, PasswordMinLength: 6},
		Appearance:    domain.AppearanceSettings{Theme: "light", PrimaryColor: "#1976d2"},
	}
}
