// Package credit contiene las reglas puras de la cuenta corriente de clientes.
package credit

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// DefaultDebtAlertThreshold umbral de alerta de deuda si la configuración no lo define.
var DefaultDebtAlertThreshold = decimal.NewFromInt(1000)

var two = decimal.NewFromInt(2)

// Semaphore clasifica la deuda: RED desde el umbral, YELLOW desde la mitad, GREEN por debajo.
func Semaphore(debt, threshold decimal.Decimal) entity.DebtSemaphore {
	switch {
	case debt.GreaterThanOrEqual(threshold):
		return entity.DebtRed
	case debt.GreaterThanOrEqual(threshold.Div(two)):
		return entity.DebtYellow
	default:
		return entity.DebtGreen
	}
}

// DaysWithoutPayment días calendario (en loc) entre el último abono y now.
// Devuelve nil si el cliente nunca abonó.
func DaysWithoutPayment(lastPayment *time.Time, now time.Time, loc *time.Location) *int {
	if lastPayment == nil {
		return nil
	}
	from := startOfDay(lastPayment.In(loc))
	to := startOfDay(now.In(loc))
	days := int(math.Round(to.Sub(from).Hours() / 24))
	if days < 0 {
		days = 0
	}
	return &days
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ApplySale aplica una venta a la cuenta: nueva = anterior + monto a crédito - amortización.
// El resultado puede ser negativo (saldo a favor); no se recorta a cero.
func ApplySale(previousDebt, creditAmount, amortization decimal.Decimal) decimal.Decimal {
	return previousDebt.Add(creditAmount).Sub(amortization)
}

// ExceedsLimit indica si la deuda supera el límite. Límite cero = sin límite.
func ExceedsLimit(debt, limit decimal.Decimal) bool {
	if !limit.IsPositive() {
		return false
	}
	return debt.GreaterThan(limit)
}
