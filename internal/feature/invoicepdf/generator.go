// Package invoicepdf renders an invoice as an A4 PDF.
package invoicepdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"admin-dashboard/internal/domain"
)

var (
	colorPrimary = &props.Color{Red: 25, Green: 118, Blue: 210}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Branding is the part of the settings printed on every invoice.
type Branding struct {
	SiteName string
	Currency string
	Footer   string
}

type Generator struct{}

func New() *Generator { return &Generator{} }

// Render builds the PDF and returns its bytes.
func (g *Generator) Render(_ context.Context, inv *domain.Invoice, b Branding) ([]byte, error) {
	if inv == nil {
		return nil, fmt.Errorf("%w: nil invoice", domain.ErrInvalid)
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+inv.Number, true).
		WithAuthor(b.SiteName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(inv, b))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(billToRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(itemsHeaderRow())
	m.AddRows(itemRows(inv, b.Currency)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(inv, b.Currency))
	m.AddRows(footerRows(inv, b)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("invoicepdf: generate %s: %w", inv.Number, err)
	}
	return doc.GetBytes(), nil
}

func headerRow(inv *domain.Invoice, b Branding) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(b.SiteName, "Invoice"), props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Status: "+inv.Status, props.Text{Size: 9, Top: 10, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(inv.Number, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6}),
			text.New("Issued: "+inv.IssueDate.Format("2006-01-02"), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
			text.New("Due: "+inv.DueDate.Format("2006-01-02"), props.Text{
				Size: 8, Align: align.Right, Top: 16, Color: colorGray,
			}),
		),
	)
}

func billToRow(inv *domain.Invoice) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(inv.CustomerName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(nonEmpty(inv.CustomerEmail, "-"), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func itemsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Description", 6, align.Left),
		h("Qty", 1, align.Center),
		h("Unit price", 2, align.Right),
		h("Amount", 3, align.Right),
	)
}

func itemRows(inv *domain.Invoice, currency string) []core.Row {
	rows := make([]core.Row, 0, len(inv.Items))
	for _, it := range inv.Items {
		rows = append(rows, row.New(7).Add(
			col.New(6).Add(text.New(it.Description, props.Text{Size: 8, Top: 1})),
			col.New(1).Add(text.New(fmt.Sprint(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(money(currency, it.UnitPrice.StringFixed(2)), props.Text{Size: 8, Align: align.Right, Top: 1})),
			col.New(3).Add(text.New(money(currency, it.Amount.StringFixed(2)), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return rows
}

func totalsRow(inv *domain.Invoice, currency string) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: top, Right: 2})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Top: top})
	}
	return row.New(26).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("Tax ("+inv.TaxRate.String()+"%):", 6),
			label("Discount:", 11),
			text.New("TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 17, Right: 2, Color: colorPrimary,
			}),
		),
		col.New(3).Add(
			value(money(currency, inv.Subtotal.StringFixed(2)), 1),
			value(money(currency, inv.TaxAmount.StringFixed(2)), 6),
			value("-"+money(currency, inv.Discount.StringFixed(2)), 11),
			text.New(money(currency, inv.Total.StringFixed(2)), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 17, Color: colorPrimary,
			}),
		),
	)
}

func footerRows(inv *domain.Invoice, b Branding) []core.Row {
	rows := []core.Row{line.NewRow(4)}
	if inv.Notes != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("Notes: "+inv.Notes, props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	}
	rows = append(rows, row.New(30).Add(
		col.New(3).Add(code.NewQr(inv.Number+" "+inv.Total.StringFixed(2), props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(text.New(nonEmpty(b.Footer, "Thank you for your business."), props.Text{
			Size: 8, Top: 10, Left: 3, Color: colorGray,
		})),
	))
	return rows
}

func money(currency, amount string) string {
	if currency == "" {
		return amount
	}
	return currency + " " + amount
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
