package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"admin-dashboard/internal/domain"
	"admin-dashboard/internal/repo"
	"admin-dashboard/pkg/utils"
)

const (
	KeyProducts   = "products"
	KeyCategories = "categories"
)

var productStatuses = []string{domain.ProductActive, domain.ProductDraft, domain.ProductArchived}

type ProductInput struct {
	Name        string          `json:"name" validate:"required,max=128"`
	SKU         string          `json:"sku" validate:"required,max=64"`
	CategoryID  string          `json:"categoryId"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock" validate:"gte=0"`
	Status      string          `json:"status"`
	Description string          `json:"description"`
}

type ProductPatch struct {
	Name        *string          `json:"name" validate:"omitempty,max=128"`
	SKU         *string          `json:"sku" validate:"omitempty,max=64"`
	CategoryID  *string          `json:"categoryId"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int64           `json:"stock" validate:"omitempty,gte=0"`
	Status      *string          `json:"status"`
	Description *string          `json:"description"`
}

type ProductsService struct {
	base[*domain.Product]
	lowStock int64
}

// NewProductsService counts products with stock below lowStock as low stock.
func NewProductsService(d Deps, lowStock int64) *ProductsService {
	if lowStock <= 0 {
		lowStock = 10
	}
	return &ProductsService{
		base: base[*domain.Product]{
			c: newCollection(d, KeyProducts, "product", defaultProducts),
			fields: func(p *domain.Product) []string {
				return []string{p.Name, p.SKU, p.Description}
			},
		},
		lowStock: lowStock,
	}
}

func productSKU(p *domain.Product) string { return p.SKU }

func (s *ProductsService) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	p, ok, err := s.c.Find(ctx, func(r *domain.Product) bool { return strings.EqualFold(r.SKU, strings.TrimSpace(sku)) })
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.c.NotFound(sku)
	}
	return p, nil
}

func (s *ProductsService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	if err := nonNegative("price", in.Price); err != nil {
		return nil, err
	}
	p := &domain.Product{
		Name:        strings.TrimSpace(in.Name),
		SKU:         strings.ToUpper(strings.TrimSpace(in.SKU)),
		CategoryID:  in.CategoryID,
		Price:       in.Price,
		Stock:       in.Stock,
		Status:      in.Status,
		Description: in.Description,
	}
	if p.Status == "" {
		p.Status = domain.ProductActive
	}
	if err := oneOf("status", p.Status, productStatuses); err != nil {
		return nil, err
	}
	return s.c.Insert(ctx, p, func(all []*domain.Product) error {
		if repo.Taken(all, p.ID, p.SKU, productSKU) {
			return conflict("product with sku %q already exists", p.SKU)
		}
		return nil
	})
}

func (s *ProductsService) Update(ctx context.Context, id string, in ProductPatch) (*domain.Product, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	if err := notBlank("name", in.Name); err != nil {
		return nil, err
	}
	if in.Price != nil {
		if err := nonNegative("price", *in.Price); err != nil {
			return nil, err
		}
	}
	if in.Status != nil {
		if err := oneOf("status", *in.Status, productStatuses); err != nil {
			return nil, err
		}
	}
	return s.c.Modify(ctx, id, func(all []*domain.Product, p *domain.Product) error {
		if in.SKU != nil {
			sku := strings.ToUpper(strings.TrimSpace(*in.SKU))
			if sku == "" {
				return invalid("sku must not be empty")
			}
			if repo.Taken(all, p.ID, sku, productSKU) {
				return conflict("product with sku %q already exists", sku)
			}
			p.SKU = sku
		}
		set(&p.Name, trimmed(in.Name))
		set(&p.CategoryID, in.CategoryID)
		set(&p.Price, in.Price)
		set(&p.Stock, in.Stock)
		set(&p.Status, in.Status)
		set(&p.Description, in.Description)
		return nil
	})
}

func (s *ProductsService) UpdateStatus(ctx context.Context, id, status string) (*domain.Product, error) {
	return s.Update(ctx, id, ProductPatch{Status: &status})
}

// AdjustStock adds delta (may be negative) to the stock level.
func (s *ProductsService) AdjustStock(ctx context.Context, id string, delta int64) (*domain.Product, error) {
	return s.c.Modify(ctx, id, func(_ []*domain.Product, p *domain.Product) error {
		if p.Stock+delta < 0 {
			return invalid("insufficient stock: have %d, change %d", p.Stock, delta)
		}
		p.Stock += delta
		return nil
	})
}

func (s *ProductsService) GetByCategory(ctx context.Context, categoryID string) ([]*domain.Product, error) {
	return s.c.Filter(ctx, func(p *domain.Product) bool { return p.CategoryID == categoryID })
}

func (s *ProductsService) Stats(ctx context.Context) (domain.ProductStats, error) {
	var st domain.ProductStats
	all, err := s.c.Active(ctx)
	if err != nil {
		return st, err
	}
	for _, p := range all {
		st.Total++
		if p.Status == domain.ProductActive {
			st.Active++
		}
		switch {
		case p.Stock == 0:
			st.OutOfStock++
		case p.Stock < s.lowStock:
			st.LowStock++
		}
		st.InventoryValue = st.InventoryValue.Add(p.Price.Mul(decimal.NewFromInt(p.Stock)))
	}
	return st, nil
}

type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=64"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

type CategoryPatch struct {
	Name        *string `json:"name" validate:"omitempty,max=64"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
}

type CategoriesService struct {
	base[*domain.Category]
}

func NewCategoriesService(d Deps) *CategoriesService {
	return &CategoriesService{base: base[*domain.Category]{
		c: newCollection(d, KeyCategories, "category", defaultCategories),
		fields: func(c *domain.Category) []string {
			return []string{c.Name, c.Slug, c.Description}
		},
	}}
}

func categorySlug(c *domain.Category) string { return c.Slug }

func (s *CategoriesService) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	c, ok, err := s.c.Find(ctx, func(r *domain.Category) bool { return r.Slug == slug })
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.c.NotFound(slug)
	}
	return c, nil
}

func (s *CategoriesService) Create(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	c := &domain.Category{
		Name:        strings.TrimSpace(in.Name),
		Slug:        utils.Slugify(in.Slug),
		Description: in.Description,
	}
	if c.Slug == "" {
		c.Slug = utils.Slugify(c.Name)
	}
	if c.Slug == "" {
		return nil, invalid("slug must contain letters or digits")
	}
	return s.c.Insert(ctx, c, func(all []*domain.Category) error {
		if repo.Taken(all, c.ID, c.Slug, categorySlug) {
			return conflict("category with slug %q already exists", c.Slug)
		}
		return nil
	})
}

func (s *CategoriesService) Update(ctx context.Context, id string, p CategoryPatch) (*domain.Category, error) {
	if err := check(p); err != nil {
		return nil, err
	}
	if err := notBlank("name", p.Name); err != nil {
		return nil, err
	}
	return s.c.Modify(ctx, id, func(all []*domain.Category, c *domain.Category) error {
		if p.Slug != nil {
			slug := utils.Slugify(*p.Slug)
			if slug == "" {
				return invalid("slug must contain letters or digits")
			}
			if repo.Taken(all, c.ID, slug, categorySlug) {
				return conflict("category with slug %q already exists", slug)
			}
			c.Slug = slug
		}
		set(&c.Name, trimmed(p.Name))
		set(&c.Description, p.Description)
		return nil
	})
}

// AdjustProductCount is called by whoever moves products between
// categories; the count is never derived. It does not drop below zero.
func (s *CategoriesService) AdjustProductCount(ctx context.Context, id string, delta int) (*domain.Category, error) {
	return s.c.Modify(ctx, id, func(_ []*domain.Category, c *domain.Category) error {
		c.ProductCount = max(0, c.ProductCount+delta)
		return nil
	})
}

func (s *CategoriesService) Stats(ctx context.Context) (domain.CategoryStats, error) {
	var st domain.CategoryStats
	all, err := s.c.Active(ctx)
	if err != nil {
		return st, err
	}
	for _, c := range all {
		st.Total++
		if c.ProductCount == 0 {
			st.Empty++
		}
		st.TotalProducts += c.ProductCount
	}
	return st, nil
}
