// Package ports define los puertos que la capa de aplicación necesita de la infraestructura.
package ports

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products    repository.ProductRepository
	Stock       repository.StockRepository
	Clients     repository.ClientRepository
	Sales       repository.SaleRepository
	Adjustments repository.AdjustmentRepository
	Payments    repository.PaymentRepository
	Inbound     repository.InboundRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback de todo; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

// CommitError deja pasar los errores de dominio y convierte cualquier otro
// (fallo de almacenamiento, commit, contexto) en domain.ErrCommitFailed.
func CommitError(err error) error {
	if err == nil || domain.IsBusinessError(err) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrCommitFailed, err)
}
