package sales

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// State estados de una venta. CANCELLED solo es alcanzable desde COMMITTED.
type State string

const (
	StateDraft     State = "DRAFT"
	StateValidated State = "VALIDATED"
	StateCommitted State = "COMMITTED"
	StateCancelled State = "CANCELLED"
)

// Header datos de cabecera de la venta tal como llegan del cajero.
type Header struct {
	ActorID          string
	Type             string
	ClientID         string
	GuestName        string
	PaymentMethod    string
	Amortization     decimal.Decimal
	ConfirmOverLimit bool
	IdempotencyKey   string
}

// DraftItem línea en borrador: producto, kilos y precio por kilo.
type DraftItem struct {
	ProductID  string
	QuantityKg decimal.Decimal
	PricePerKg decimal.Decimal
}

// Draft venta en estado DRAFT: ya pasó las validaciones que no requieren leer datos.
type Draft struct {
	Header Header
	Items  []DraftItem
}

// Validated venta en estado VALIDATED: factores resueltos, líneas y total calculados.
type Validated struct {
	Header Header
	Items  []entity.SaleItem
	Total  decimal.Decimal
}

// NewDraft valida la forma del pedido: al menos una línea, productos únicos,
// kilos > 0, precio >= 0, tipo y medio de pago conocidos, amortización >= 0,
// y las reglas de cliente (ORDER, CREDIT y amortización exigen cliente).
func NewDraft(actorID string, in dto.CreateSaleRequest) (*Draft, error) {
	h := Header{
		ActorID:          actorID,
		Type:             strings.ToUpper(strings.TrimSpace(in.Type)),
		ClientID:         strings.TrimSpace(in.ClientID),
		GuestName:        strings.TrimSpace(in.GuestName),
		PaymentMethod:    strings.ToUpper(strings.TrimSpace(in.PaymentMethod)),
		Amortization:     in.Amortization,
		ConfirmOverLimit: in.ConfirmOverLimit,
		IdempotencyKey:   strings.TrimSpace(in.IdempotencyKey),
	}
	if h.PaymentMethod == "" {
		h.PaymentMethod = entity.PaymentMethodCash
	}
	if actorID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if h.Type != entity.SaleTypeCash && h.Type != entity.SaleTypeOrder {
		return nil, domain.ErrInvalidInput
	}
	if !entity.IsValidPaymentMethod(h.PaymentMethod) || h.Amortization.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	seen := make(map[string]struct{}, len(in.Items))
	items := make([]DraftItem, 0, len(in.Items))
	for _, it := range in.Items {
		pid := strings.TrimSpace(it.ProductID)
		if pid == "" || !it.QuantityKg.IsPositive() || it.PricePerKg.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		if _, dup := seen[pid]; dup {
			return nil, domain.ErrInvalidInput
		}
		seen[pid] = struct{}{}
		items = append(items, DraftItem{ProductID: pid, QuantityKg: it.QuantityKg, PricePerKg: it.PricePerKg})
	}

	if h.ClientID == "" {
		if h.Type == entity.SaleTypeOrder || h.PaymentMethod == entity.PaymentMethodCredit || h.Amortization.IsPositive() {
			return nil, domain.ErrInvalidState
		}
	}
	return &Draft{Header: h, Items: items}, nil
}

// Validate pasa a VALIDATED: cada producto debe existir y estar activo; el factor de
// conversión se lee ahora (no el que vio la pantalla) y queda fijado en la línea.
func (d *Draft) Validate(ctx context.Context, products repository.ProductRepository) (*Validated, error) {
	v := &Validated{Header: d.Header, Total: decimal.Zero}
	for _, it := range d.Items {
		p, err := products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
		if !p.IsActive {
			return nil, domain.ErrInvalidState
		}
		if !p.ConversionFactor.IsPositive() {
			return nil, domain.ErrInvalidState
		}
		subtotal := it.QuantityKg.Mul(it.PricePerKg)
		v.Items = append(v.Items, entity.SaleItem{
			ProductID:        p.ID,
			QuantityKg:       it.QuantityKg,
			QuantityJavas:    p.KgToJavas(it.QuantityKg),
			ConversionFactor: p.ConversionFactor,
			PricePerKg:       it.PricePerKg,
			Subtotal:         subtotal,
		})
		v.Total = v.Total.Add(subtotal)
	}
	return v, nil
}

// CreditAmount parte del total que se carga a la cuenta del cliente.
func (v *Validated) CreditAmount() decimal.Decimal {
	if v.Header.PaymentMethod == entity.PaymentMethodCredit {
		return v.Total
	}
	return decimal.Zero
}

// TouchesCredit indica si la venta mueve la cuenta corriente.
func (v *Validated) TouchesCredit() bool {
	return v.Header.ClientID != "" && (v.CreditAmount().IsPositive() || v.Header.Amortization.IsPositive())
}

// StateOf estado de una venta persistida.
func StateOf(s *entity.Sale) State {
	if s.IsCancelled {
		return StateCancelled
	}
	return StateCommitted
}
