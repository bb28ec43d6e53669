package handler

import (
	"context"
	"mime"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"admin-dashboard/internal/domain"
	"admin-dashboard/internal/feature/invoicepdf"
	"admin-dashboard/internal/service"
	"admin-dashboard/internal/transport/http/ez"
)

// MainStore serves /main-store/{invoices,customers,products,categories}.
type MainStore struct {
	Invoices   *service.InvoicesService
	Customers  *service.CustomersService
	Products   *service.ProductsService
	Categories *service.CategoriesService
	Settings   *service.SettingsService
	PDF        *invoicepdf.Generator
	OnChange   func(ctx context.Context)
}

type stockIn struct {
	Delta int64 `json:"delta" binding:"required"`
}

type overdueOut struct {
	Updated int `json:"updated"`
}

func (h *MainStore) MountAPI(g *gin.RouterGroup) {
	ez.Crud(ez.CrudConfig[*domain.Invoice, service.InvoiceInput, service.InvoicePatch, domain.InvoiceStats]{
		Group: g, Path: "/main-store/invoices", Store: h.Invoices,
		Create: h.Invoices.Create, Update: h.Invoices.Update, UpdateStatus: h.Invoices.UpdateStatus,
		Stats: h.Invoices.Stats, Reset: h.Invoices.Reset, OnChange: h.OnChange,
	})
	ez.Crud(ez.CrudConfig[*domain.Customer, service.CustomerInput, service.CustomerPatch, domain.CustomerStats]{
		Group: g, Path: "/main-store/customers", Store: h.Customers,
		Create: h.Customers.Create, Update: h.Customers.Update, UpdateStatus: h.Customers.UpdateStatus,
		Stats: h.Customers.Stats, Reset: h.Customers.Reset, OnChange: h.OnChange,
	})
	ez.Crud(ez.CrudConfig[*domain.Product, service.ProductInput, service.ProductPatch, domain.ProductStats]{
		Group: g, Path: "/main-store/products", Store: h.Products,
		Create: h.Products.Create, Update: h.Products.Update, UpdateStatus: h.Products.UpdateStatus,
		Stats: h.Products.Stats, Reset: h.Products.Reset, OnChange: h.OnChange,
	})
	ez.Crud(ez.CrudConfig[*domain.Category, service.CategoryInput, service.CategoryPatch, domain.CategoryStats]{
		Group: g, Path: "/main-store/categories", Store: h.Categories,
		Create: h.Categories.Create, Update: h.Categories.Update,
		Stats: h.Categories.Stats, Reset: h.Categories.Reset, OnChange: h.OnChange,
	})

	h.mountInvoiceActions(g.Group("/main-store/invoices"))

	products := ez.New(g.Group("/main-store/products"))
	ez.RegisterAction(products, ez.Action[stockIn, *domain.Product]{
		Method: http.MethodPost,
		Path:   "/:id/stock",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *stockIn) (*domain.Product, error) {
			p, err := h.Products.AdjustStock(c.Request.Context(), c.Param("id"), in.Delta)
			if err == nil {
				h.changed(c.Request.Context())
			}
			return p, err
		},
	})

	categories := ez.New(g.Group("/main-store/categories"))
	ez.RegisterAction(categories, ez.Action[struct{}, []*domain.Product]{
		Method: http.MethodGet,
		Path:   "/:id/products",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]*domain.Product, error) {
			cat, err := h.Categories.GetByID(c.Request.Context(), c.Param("id"))
			if err != nil {
				return nil, err
			}
			return h.Products.GetByCategory(c.Request.Context(), cat.ID)
		},
	})

	customers := ez.New(g.Group("/main-store/customers"))
	ez.RegisterAction(customers, ez.Action[struct{}, []*domain.Invoice]{
		Method: http.MethodGet,
		Path:   "/:id/invoices",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]*domain.Invoice, error) {
			cust, err := h.Customers.GetByID(c.Request.Context(), c.Param("id"))
			if err != nil {
				return nil, err
			}
			return h.Invoices.GetByCustomer(c.Request.Context(), cust.ID)
		},
	})
}

func (h *MainStore) mountInvoiceActions(g *gin.RouterGroup) {
	e := ez.New(g)
	ez.RegisterAction(e, ez.Action[struct{}, overdueOut]{
		Method: http.MethodPost,
		Path:   "/mark-overdue",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (overdueOut, error) {
			n, err := h.Invoices.MarkOverdue(c.Request.Context(), time.Now())
			if err != nil {
				return overdueOut{}, err
			}
			if n > 0 {
				h.changed(c.Request.Context())
			}
			return overdueOut{Updated: n}, nil
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, *domain.Invoice]{
		Method: http.MethodGet,
		Path:   "/number/:number",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Invoice, error) {
			return h.Invoices.GetByNumber(c.Request.Context(), c.Param("number"))
		},
	})

	// PDF 下载不走 JSON 信封，出错时才返回统一响应
	g.GET("/:id/pdf", func(c *gin.Context) {
		ctx := c.Request.Context()
		inv, err := h.Invoices.GetByID(ctx, c.Param("id"))
		if err != nil {
			ez.Fail(c, err)
			return
		}
		st, err := h.Settings.Get(ctx)
		if err != nil {
			ez.Fail(c, err)
			return
		}
		pdf, err := h.PDF.Render(ctx, inv, invoicepdf.Branding{
			SiteName: st.General.SiteName,
			Currency: st.Invoice.Currency,
			Footer:   st.Invoice.Footer,
		})
		if err != nil {
			ez.Fail(c, err)
			return
		}
		c.Header("Content-Disposition", attachment(inv.Number+".pdf"))
		c.Data(http.StatusOK, "application/pdf", pdf)
	})
}

// attachment quotes name so numbers with quotes or non-ASCII survive.
func attachment(name string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}

func (h *MainStore) changed(ctx context.Context) {
	if h.OnChange != nil {
		h.OnChange(ctx)
	}
}
