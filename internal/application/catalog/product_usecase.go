// Package catalog administra productos: alta, factor de conversión, archivo/borrado
// seguro y el árbol de selección familia → tipo → calidad.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ports"
	"github.com/jhoicas/Ventas-api/internal/domain"
	domaincatalog "github.com/jhoicas/Ventas-api/internal/domain/catalog"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo. Stock y costo se manejan en inventory.
type ProductUseCase struct {
	repo                    repository.ProductRepository
	txRunner                ports.TxRunner
	defaultConversionFactor decimal.Decimal
	log                     zerolog.Logger
}

// NewProductUseCase construye el caso de uso. defaultFactor cero usa entity.DefaultConversionFactor.
func NewProductUseCase(repo repository.ProductRepository, txRunner ports.TxRunner, defaultFactor decimal.Decimal, log zerolog.Logger) *ProductUseCase {
	if !defaultFactor.IsPositive() {
		defaultFactor = entity.DefaultConversionFactor
	}
	return &ProductUseCase{repo: repo, txRunner: txRunner, defaultConversionFactor: defaultFactor, log: log}
}

// Create crea un producto activo. La combinación nombre + tipo + calidad es única.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	factor := uc.defaultConversionFactor
	if in.ConversionFactor != nil {
		if !in.ConversionFactor.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		factor = *in.ConversionFactor
	}
	now := time.Now()
	product := &entity.Product{
		ID:               uuid.New().String(),
		Name:             name,
		Type:             strings.TrimSpace(in.Type),
		Quality:          strings.TrimSpace(in.Quality),
		ConversionFactor: factor,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID (activo o archivado).
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List lista productos con filtros.
func (uc *ProductUseCase) List(ctx context.Context, filter repository.ProductFilter) ([]*dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Update cambia el factor de conversión o reactiva/archiva el producto.
// Las ventas ya confirmadas conservan el factor con que se hicieron.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.ConversionFactor != nil {
		if !in.ConversionFactor.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
		product.ConversionFactor = *in.ConversionFactor
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// CheckProductUsage cuenta el historial del producto (líneas de venta, ajustes e ingresos).
func (uc *ProductUseCase) CheckProductUsage(ctx context.Context, id string) (*dto.ProductUsageResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	count, err := uc.repo.CountUsage(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ProductUsageResponse{ProductID: id, HasHistory: count > 0, UsageCount: count}, nil
}

// DeleteProductSafely borra el producto si no tiene historial; si lo tiene, lo archiva.
// La consulta de uso y el borrado/archivo ocurren en la misma transacción.
func (uc *ProductUseCase) DeleteProductSafely(ctx context.Context, actorID, id string) (*dto.DeleteProductResponse, error) {
	var outcome string
	err := uc.txRunner.Run(ctx, func(repos ports.TxRepos) error {
		product, err := repos.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		count, err := repos.Products.CountUsage(ctx, id)
		if err != nil {
			return err
		}
		if count == 0 {
			outcome = entity.DeleteOutcomeDeleted
			return repos.Products.Delete(ctx, id)
		}
		outcome = entity.DeleteOutcomeArchived
		product.IsActive = false
		product.UpdatedAt = time.Now()
		return repos.Products.Update(ctx, product)
	})
	if err != nil {
		return nil, ports.CommitError(err)
	}
	uc.log.Info().Str("product_id", id).Str("outcome", outcome).Str("actor", actorID).Msg("baja de producto")
	return &dto.DeleteProductResponse{ProductID: id, Outcome: outcome}, nil
}

// Tree árbol de selección con los productos activos.
func (uc *ProductUseCase) Tree(ctx context.Context) (domaincatalog.Tree, error) {
	products, err := uc.repo.List(ctx, repository.ProductFilter{ActiveOnly: true})
	if err != nil {
		return domaincatalog.Tree{}, err
	}
	return domaincatalog.Group(products), nil
}

// Navigate aplica una acción del selector y devuelve el nuevo estado con sus opciones.
func (uc *ProductUseCase) Navigate(ctx context.Context, in dto.NavigateCatalogRequest) (*dto.NavigateCatalogResponse, error) {
	tree, err := uc.Tree(ctx)
	if err != nil {
		return nil, err
	}
	state := in.State
	if state.Step == "" {
		state = domaincatalog.Home()
	}
	next := domaincatalog.Navigate(tree, state, in.Action)
	families, types, variants := domaincatalog.Options(tree, next)
	return &dto.NavigateCatalogResponse{State: next, Families: families, Types: types, Variants: variants}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		Type:             p.Type,
		Quality:          p.Quality,
		DisplayName:      p.DisplayName(),
		ConversionFactor: p.ConversionFactor,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
