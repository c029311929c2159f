package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/facilgest/estoque-api/internal/application/dto"
	"github.com/facilgest/estoque-api/internal/application/stock"
	"github.com/facilgest/estoque-api/internal/domain"
)

// StockHandler atende as rotas de peças, histórico e movimentos (protegido).
type StockHandler struct {
	ledger *stock.LedgerUseCase
	list   *stock.ListPartsUseCase
}

// NewStockHandler constrói o handler.
func NewStockHandler(ledger *stock.LedgerUseCase, list *stock.ListPartsUseCase) *StockHandler {
	return &StockHandler{ledger: ledger, list: list}
}

// domainError mapeia os erros de domínio para códigos HTTP. A mensagem vai
// intacta para o cliente: a UI externa exibe o texto propagado sem substituí-lo
// por erro genérico.
func domainError(c *fiber.Ctx, err error) error {
	code := "INTERNAL"
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		code, status = "VALIDATION", fiber.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidMagnitude):
		code, status = "INVALID_MAGNITUDE", fiber.StatusBadRequest
	case errors.Is(err, domain.ErrPartNotFound):
		code, status = "PART_NOT_FOUND", fiber.StatusNotFound
	case errors.Is(err, domain.ErrSupplierNotFound):
		code, status = "SUPPLIER_NOT_FOUND", fiber.StatusNotFound
	case errors.Is(err, domain.ErrOrderNotFound):
		code, status = "ORDER_NOT_FOUND", fiber.StatusNotFound
	case errors.Is(err, domain.ErrPartInactive):
		code, status = "PART_INACTIVE", fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInsufficientStock):
		code, status = "INSUFFICIENT_STOCK", fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidTransition):
		code, status = "INVALID_TRANSITION", fiber.StatusConflict
	case errors.Is(err, domain.ErrConflict):
		code, status = "CONFLICT", fiber.StatusConflict
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

// ListParts godoc
// @Summary      Listar peças com disponibilidade
// @Description  Peças do cliente anotadas com reserved/projected e as flags
//               is_low_stock e is_projected_low.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        module  query  string  false  "Filtrar por módulo operacional"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/parts [get]
func (h *StockHandler) ListParts(c *fiber.Ctx) error {
	customerID := GetCustomerID(c)
	if customerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	module := c.Query("module")

	parts, err := h.list.ListParts(c.Context(), customerID, module)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(parts), "parts": parts})
}

// MovementHistory godoc
// @Summary      Histórico de movimentos de uma peça
// @Description  Trilha de auditoria imutável, ordenada por created_at ascendente.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID da peça"
// @Param        limit   query  int     false  "Limite (padrão 50)"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parts/{id}/movements [get]
func (h *StockHandler) MovementHistory(c *fiber.Ctx) error {
	customerID := GetCustomerID(c)
	if customerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginação inválida"})
	}

	movements, err := h.list.MovementHistory(c.Context(), customerID, c.Params("id"), page)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(movements), "movements": movements})
}

// RecordMovement godoc
// @Summary      Registrar movimento de estoque
// @Description  Único caminho de mutação de current_quantity. Para type=ajuste
//               a quantidade é o novo valor absoluto. Em CONFLICT o caller
//               deve reler e repetir a chamada.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "part_id, type (entrada|saida|ajuste), quantity, reason"
// @Success      201  {object}  dto.MovementDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RecordMovement(c *fiber.Ctx) error {
	customerID := GetCustomerID(c)
	actor := GetActorID(c)
	if customerID == "" || actor == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}

	mov, err := h.ledger.RecordMovement(c.Context(), stock.MovementInputDTO{
		CustomerID: customerID,
		PartID:     in.PartID,
		Type:       in.Type,
		Magnitude:  in.Quantity,
		Reason:     in.Reason,
		Actor:      actor,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementDTO{
		ID:               mov.ID,
		PartID:           mov.PartID,
		Type:             mov.Type,
		Quantity:         mov.Quantity,
		PreviousQuantity: mov.PreviousQuantity,
		NewQuantity:      mov.NewQuantity,
		Reason:           mov.Reason,
		CreatedAt:        mov.CreatedAt,
		Actor:            mov.Actor,
	})
}
