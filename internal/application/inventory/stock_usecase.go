package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Ventas-api/internal/domain/inventory"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// StockUseCase consultas de stock (getStockPosition). Solo lectura, sin bloqueos.
type StockUseCase struct {
	productRepo  repository.ProductRepository
	stockRepo    repository.StockRepository
	lowThreshold decimal.Decimal
}

// NewStockUseCase construye el caso de uso. lowThreshold en javas.
func NewStockUseCase(productRepo repository.ProductRepository, stockRepo repository.StockRepository, lowThreshold decimal.Decimal) *StockUseCase {
	return &StockUseCase{productRepo: productRepo, stockRepo: stockRepo, lowThreshold: lowThreshold}
}

// GetStockPosition devuelve la posición de un producto con kg y estado derivados.
// Funciona también para productos archivados (consulta histórica).
func (uc *StockUseCase) GetStockPosition(ctx context.Context, productID string) (*dto.StockInfo, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	pos, err := uc.stockRepo.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	info := uc.toStockInfo(product, pos)
	return &info, nil
}

// ListStock devuelve la posición de todos los productos activos (en cero si nunca tuvieron movimiento).
func (uc *StockUseCase) ListStock(ctx context.Context) ([]dto.StockInfo, error) {
	products, err := uc.productRepo.List(ctx, repository.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	positions, err := uc.stockRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[string]*entity.StockPosition, len(positions))
	for _, p := range positions {
		byProduct[p.ProductID] = p
	}
	out := make([]dto.StockInfo, 0, len(products))
	for _, p := range products {
		pos, ok := byProduct[p.ID]
		if !ok {
			pos = &entity.StockPosition{ProductID: p.ID}
		}
		out = append(out, uc.toStockInfo(p, pos))
	}
	return out, nil
}

func (uc *StockUseCase) toStockInfo(p *entity.Product, pos *entity.StockPosition) dto.StockInfo {
	var updated *time.Time
	if !pos.UpdatedAt.IsZero() {
		t := pos.UpdatedAt
		updated = &t
	}
	return dto.StockInfo{
		ProductID:           p.ID,
		ProductName:         p.DisplayName(),
		IsActive:            p.IsActive,
		ConversionFactor:    p.ConversionFactor,
		QuantityCrates:      pos.QuantityCrates,
		QuantityKg:          p.JavasToKg(pos.QuantityCrates),
		AverageCostPerCrate: pos.AverageCostPerCrate,
		StockValue:          pos.QuantityCrates.Mul(pos.AverageCostPerCrate),
		Status:              string(domaininv.Status(pos.QuantityCrates, uc.lowThreshold)),
		UpdatedAt:           updated,
	}
}
