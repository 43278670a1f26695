package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

const (
	replenishmentWindowDays = 7
	salesPageSize           = 100
)

// idealStockFactor el stock ideal es el umbral de stock bajo por este factor.
var idealStockFactor = decimal.NewFromFloat(1.5)

// ReplenishmentUseCase genera la lista de reposición para el próximo camión.
// Combina el stock actual con las javas vendidas en la última semana para priorizar.
type ReplenishmentUseCase struct {
	stock    *StockUseCase
	saleRepo repository.SaleRepository
	now      func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(stock *StockUseCase, saleRepo repository.SaleRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{stock: stock, saleRepo: saleRepo, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *ReplenishmentUseCase) WithClock(now func() time.Time) *ReplenishmentUseCase {
	uc.now = now
	return uc
}

// GenerateReplenishmentList devuelve los productos activos en estado LOW o NEGATIVE con
// las javas sugeridas para volver al stock ideal, ordenados por rotación y luego por déficit.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestion, error) {
	positions, err := uc.stock.ListStock(ctx)
	if err != nil {
		return nil, err
	}

	ideal := uc.stock.lowThreshold.Mul(idealStockFactor)
	candidates := make([]dto.StockInfo, 0)
	for _, p := range positions {
		if p.Status != string(entity.StockStatusNormal) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return []dto.ReplenishmentSuggestion{}, nil
	}

	sold, err := uc.cratesSoldSince(ctx, uc.now().AddDate(0, 0, -replenishmentWindowDays))
	if err != nil {
		return nil, err
	}

	suggestions := make([]dto.ReplenishmentSuggestion, 0, len(candidates))
	for _, p := range candidates {
		suggested := ideal.Sub(p.QuantityCrates)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestion{
			ProductID:           p.ProductID,
			ProductName:         p.ProductName,
			Status:              p.Status,
			CurrentCrates:       p.QuantityCrates,
			IdealCrates:         ideal,
			SuggestedCrates:     suggested,
			AverageCostPerCrate: p.AverageCostPerCrate,
			EstimatedCost:       suggested.Mul(p.AverageCostPerCrate),
			CratesSoldLastWeek:  sold[p.ProductID],
		})
	}

	// Primero mayor rotación; a igual rotación, mayor déficit.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.CratesSoldLastWeek.Equal(b.CratesSoldLastWeek) {
			return a.CratesSoldLastWeek.GreaterThan(b.CratesSoldLastWeek)
		}
		return a.SuggestedCrates.GreaterThan(b.SuggestedCrates)
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

// cratesSoldSince suma las javas vendidas por producto en ventas no anuladas desde since.
func (uc *ReplenishmentUseCase) cratesSoldSince(ctx context.Context, since time.Time) (map[string]decimal.Decimal, error) {
	sold := make(map[string]decimal.Decimal)
	for offset := 0; ; offset += salesPageSize {
		page, err := uc.saleRepo.List(ctx, repository.SaleFilter{From: &since, Limit: salesPageSize, Offset: offset})
		if err != nil {
			return nil, err
		}
		for _, s := range page {
			for _, it := range s.Items {
				sold[it.ProductID] = sold[it.ProductID].Add(it.QuantityJavas)
			}
		}
		if len(page) < salesPageSize {
			return sold, nil
		}
	}
}
