// Package pdf genera el ticket imprimible de una venta.
//
// Layout del ticket (rollo de 80 mm):
//
//	┌──────────────────────────────┐
//	│  NEGOCIO                     │
//	│  TICKET N° / Fecha / Tipo    │
//	│  Cliente o nombre libre      │
//	│  ──────────────────────────  │
//	│  Producto | Kg | Javas | S/  │
//	│  ──────────────────────────  │
//	│  TOTAL / Medio de pago       │
//	│  Cuenta: anterior / nueva    │
//	│  QR con el ID de la venta    │
//	└──────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

var _ ports.TicketGenerator = (*MarotoTicketGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 20, Blue: 20}
)

const (
	ticketWidthMM  = 80
	ticketHeightMM = 297
)

var methodLabels = map[string]string{
	entity.PaymentMethodCash:           "Efectivo",
	entity.PaymentMethodDigitalWalletA: "Billetera digital A",
	entity.PaymentMethodDigitalWalletB: "Billetera digital B",
	entity.PaymentMethodBankTransfer:   "Transferencia",
	entity.PaymentMethodCredit:         "Crédito",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoTicketGenerator implementa ports.TicketGenerator usando Maroto v2.
type MarotoTicketGenerator struct {
	businessName string
	currency     string
	loc          *time.Location
}

// NewMarotoTicketGenerator construye el generador. currency es el símbolo que precede a los montos.
func NewMarotoTicketGenerator(businessName, currency string, loc *time.Location) *MarotoTicketGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &MarotoTicketGenerator{businessName: businessName, currency: currency, loc: loc}
}

// GenerateSaleTicket genera el PDF y devuelve sus bytes.
func (g *MarotoTicketGenerator) GenerateSaleTicket(
	_ context.Context,
	sale *entity.Sale,
	client *entity.Client,
	products map[string]*entity.Product,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(ticketWidthMM, ticketHeightMM).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(4).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 7}).
		WithTitle("Ticket de venta", true).
		WithAuthor(g.businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(sale))
	m.AddRows(customerRow(sale, client))
	if sale.IsCancelled {
		m.AddRows(cancelledRow())
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(itemsHeaderRow())
	for _, r := range g.itemRows(sale.Items, products) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalRows(sale)...)
	if sale.PreviousDebt != nil && sale.NewDebt != nil {
		m.AddRows(g.accountRows(sale)...)
	}

	m.AddRows(line.NewRow(2))
	m.AddRows(row.New(30).Add(
		col.New(3),
		col.New(6).Add(code.NewQr(sale.ID, props.Rect{Percent: 95, Center: true})),
		col.New(3),
	))
	m.AddRows(row.New(5).Add(col.New(12).Add(
		text.New("Gracias por su compra", props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar ticket: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoTicketGenerator) headerRow(sale *entity.Sale) core.Row {
	kind := "CONTADO"
	if sale.Type == entity.SaleTypeOrder {
		kind = "PEDIDO"
	}
	return row.New(20).Add(
		col.New(12).Add(
			text.New(g.businessName, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Center, Color: colorPrimary, Top: 1,
			}),
			text.New("TICKET "+shortID(sale.ID)+"  ·  "+kind, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 8,
			}),
			text.New(sale.Date.In(g.loc).Format("02/01/2006 15:04"), props.Text{
				Size: 7, Align: align.Center, Top: 13, Color: colorGray,
			}),
		),
	)
}

func customerRow(sale *entity.Sale, client *entity.Client) core.Row {
	name := sale.GuestName
	if client != nil {
		name = client.Name
	}
	if name == "" {
		name = "Cliente varios"
	}
	return row.New(7).Add(col.New(12).Add(
		text.New("Cliente: "+name, props.Text{Size: 8, Top: 1}),
	))
}

func cancelledRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("VENTA ANULADA", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorRed, Top: 1,
		}),
	))
}

func itemsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 7, Align: a, Color: colorPrimary, Top: 1,
		}))
	}
	return row.New(5).Add(
		h("Producto", 4, align.Left),
		h("Kg", 2, align.Right),
		h("Javas", 2, align.Right),
		h("P/Kg", 2, align.Right),
		h("Importe", 2, align.Right),
	)
}

func (g *MarotoTicketGenerator) itemRows(items []entity.SaleItem, products map[string]*entity.Product) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := it.ProductID
		if p, ok := products[it.ProductID]; ok {
			name = p.DisplayName()
		}
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 7, Align: a, Top: 1}))
		}
		result = append(result, row.New(6).Add(
			cell(name, 4, align.Left),
			cell(it.QuantityKg.StringFixed(2), 2, align.Right),
			cell(it.QuantityJavas.StringFixed(2), 2, align.Right),
			cell(formatAmount(it.PricePerKg), 2, align.Right),
			cell(formatAmount(it.Subtotal), 2, align.Right),
		))
	}
	return result
}

func (g *MarotoTicketGenerator) totalRows(sale *entity.Sale) []core.Row {
	method := methodLabels[sale.PaymentMethod]
	if method == "" {
		method = sale.PaymentMethod
	}
	return []core.Row{
		labelValueRow("TOTAL", g.money(sale.TotalAmount), true),
		labelValueRow("Medio de pago", method, false),
	}
}

func (g *MarotoTicketGenerator) accountRows(sale *entity.Sale) []core.Row {
	rows := []core.Row{
		row.New(5).Add(col.New(12).Add(text.New("CUENTA DEL CLIENTE", props.Text{
			Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1,
		}))),
		labelValueRow("Deuda anterior", g.money(*sale.PreviousDebt), false),
	}
	if sale.Amortization.IsPositive() {
		rows = append(rows, labelValueRow("Amortización", g.money(sale.Amortization), false))
	}
	return append(rows, labelValueRow("Deuda actual", g.money(*sale.NewDebt), true))
}

func labelValueRow(label, value string, bold bool) core.Row {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	return row.New(5).Add(
		col.New(7).Add(text.New(label+":", props.Text{Style: style, Size: 8, Align: align.Right, Right: 2, Top: 1})),
		col.New(5).Add(text.New(value, props.Text{Style: style, Size: 8, Align: align.Right, Top: 1})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (g *MarotoTicketGenerator) money(d decimal.Decimal) string {
	if g.currency == "" {
		return formatAmount(d)
	}
	return g.currency + " " + formatAmount(d)
}

// formatAmount dos decimales con separador de miles.
// Ej: 25000 → "25,000.00", -1234.5 → "-1,234.50"
func formatAmount(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3+3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "." + frac
	if d.IsNegative() {
		return "-" + out
	}
	return out
}

// shortID primeros 8 caracteres del ID para mostrar en el ticket.
func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}
