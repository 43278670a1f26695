package dto

import "github.com/shopspring/decimal"

// DailyReport cuadre de caja de un día. Methods particiona TotalSales.
type DailyReport struct {
	Date                  string                     `json:"date"`
	TotalSales            decimal.Decimal            `json:"total_sales"`
	TransactionCount      int                        `json:"transaction_count"`
	TotalCredit           decimal.Decimal            `json:"total_credit"`
	Methods               map[string]decimal.Decimal `json:"methods"`
	CashCollected         decimal.Decimal            `json:"cash_collected"`
	AmortizationCollected decimal.Decimal            `json:"amortization_collected"`
	PaymentsReceived      decimal.Decimal            `json:"payments_received"`
}
