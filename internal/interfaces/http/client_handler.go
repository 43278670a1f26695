package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/credit"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// ClientHandler clientes y abonos a su cuenta corriente.
type ClientHandler struct {
	clients  *credit.ClientUseCase
	payments *credit.PaymentUseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(clients *credit.ClientUseCase, payments *credit.PaymentUseCase) *ClientHandler {
	return &ClientHandler{clients: clients, payments: payments}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateClientRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.ClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.clients.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar clientes
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        search     query  string  false  "Nombre (sin tildes ni mayúsculas)"
// @Param        with_debt  query  bool    false  "Solo con deuda"
// @Param        active     query  bool    false  "Solo activos"
// @Param        limit      query  int     false  "Límite"  default(100)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.ClientResponse
// @Router       /api/clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	filter := repository.ClientFilter{
		Search:       c.Query("search"),
		WithDebtOnly: c.QueryBool("with_debt", false),
		ActiveOnly:   c.QueryBool("active", false),
		Limit:        c.QueryInt("limit", 100),
		Offset:       c.QueryInt("offset", 0),
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	out, err := h.clients.List(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cliente
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.ClientResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [get]
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.clients.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del cliente"
// @Param        body  body  dto.UpdateClientRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [put]
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.clients.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RecordPayment godoc
// @Summary      Registrar abono del cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del cliente"
// @Param        body  body  dto.RecordPaymentRequest  true  "Monto y medio de pago"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/clients/{id}/payments [post]
func (h *ClientHandler) RecordPayment(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.payments.RecordPayment(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListPayments godoc
// @Summary      Historial de abonos del cliente
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del cliente"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.PaymentResponse
// @Router       /api/clients/{id}/payments [get]
func (h *ClientHandler) ListPayments(c *fiber.Ctx) error {
	out, err := h.payments.ListPayments(c.UserContext(), c.Params("id"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
