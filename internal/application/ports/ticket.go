package ports

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// TicketGenerator genera el ticket imprimible (PDF) de una venta.
// client es nil para ventas sin cliente; products indexa los productos de las líneas por ID.
type TicketGenerator interface {
	GenerateSaleTicket(ctx context.Context, sale *entity.Sale, client *entity.Client, products map[string]*entity.Product) ([]byte, error)
}
