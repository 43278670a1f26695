package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
)

// HeaderIdempotencyKey cabecera alternativa al campo idempotency_key del body.
const HeaderIdempotencyKey = "Idempotency-Key"

// SaleHandler registro, consulta, anulación e impresión de ventas.
type SaleHandler struct {
	processor *sales.Processor
	query     *sales.QueryUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(processor *sales.Processor, query *sales.QueryUseCase) *SaleHandler {
	return &SaleHandler{processor: processor, query: query}
}

// Create godoc
// @Summary      Registrar venta
// @Description  CASH o ORDER. Si la deuda resultante supera el límite del cliente responde 409 CREDIT_LIMIT_EXCEEDED; reenviar con confirm_over_limit=true para confirmar.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                 false  "Clave de idempotencia"
// @Param        body             body    dto.CreateSaleRequest  true   "Venta"
// @Success      201  {object}  dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.IdempotencyKey == "" {
		in.IdempotencyKey = strings.TrimSpace(c.Get(HeaderIdempotencyKey))
	}
	out, err := h.processor.CreateSale(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        date               query  string  false  "Día YYYY-MM-DD (prioridad sobre from/to)"
// @Param        from               query  string  false  "Desde YYYY-MM-DD"
// @Param        to                 query  string  false  "Hasta YYYY-MM-DD (inclusive)"
// @Param        client_id          query  string  false  "Cliente"
// @Param        type               query  string  false  "CASH u ORDER"
// @Param        include_cancelled  query  bool    false  "Incluir anuladas"
// @Param        limit              query  int     false  "Límite"  default(100)
// @Param        offset             query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var q dto.ListSalesQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de consulta inválidos"})
	}
	out, err := h.query.ListSales(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.query.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Anular venta
// @Description  Devuelve el stock y revierte el efecto de la venta en la deuda del cliente.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.processor.CancelSale(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Ticket godoc
// @Summary      Ticket PDF de la venta
// @Description  Marca la venta como impresa.
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/ticket [get]
func (h *SaleHandler) Ticket(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.query.Ticket(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="ticket-`+id+`.pdf"`)
	return c.Send(pdf)
}
