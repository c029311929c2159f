package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facilgest/estoque-api/internal/application/dto"
	"github.com/facilgest/estoque-api/internal/application/replenishment"
)

// ReplenishmentHandler atende as rotas de pedidos de reabastecimento
// (protegido).
type ReplenishmentHandler struct {
	planner   *replenishment.PlannerUseCase
	lifecycle *replenishment.LifecycleUseCase
}

// NewReplenishmentHandler constrói o handler.
func NewReplenishmentHandler(planner *replenishment.PlannerUseCase, lifecycle *replenishment.LifecycleUseCase) *ReplenishmentHandler {
	return &ReplenishmentHandler{planner: planner, lifecycle: lifecycle}
}

// Generate godoc
// @Summary      Gerar pedidos de reabastecimento
// @Description  Varre as peças em falta física, agrupa por fornecedor e cria
//               um pedido pendente por fornecedor. Peças sem fornecedor são
//               reportadas em skipped_parts. Não é idempotente: rodar de novo
//               com a falta persistindo cria pedidos duplicados.
// @Tags         replenishment
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.GenerateOrdersSummaryDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/replenishment/generate [post]
func (h *ReplenishmentHandler) Generate(c *fiber.Ctx) error {
	customerID := GetCustomerID(c)
	actor := GetActorID(c)
	if customerID == "" || actor == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	summary, err := h.planner.GenerateReplenishmentOrders(c.Context(), customerID, actor)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(summary)
}

// ListOrders godoc
// @Summary      Listar pedidos de reabastecimento
// @Tags         replenishment
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/replenishment/orders [get]
func (h *ReplenishmentHandler) ListOrders(c *fiber.Ctx) error {
	customerID := GetCustomerID(c)
	if customerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	orders, err := h.lifecycle.ListOrders(c.Context(), customerID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(orders), "orders": orders})
}

// CreateOrder godoc
// @Summary      Criar pedido manual
// @Tags         replenishment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "supplier_id e itens (part_id → quantidade)"
// @Success      201  {object}  dto.ReplenishmentOrderDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/replenishment/orders [post]
func (h *ReplenishmentHandler) CreateOrder(c *fiber.Ctx) error {
	customerID := GetCustomerID(c)
	if customerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	order, err := h.lifecycle.CreateManualOrder(c.Context(), customerID, in.SupplierID, in.Items)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// Confirm godoc
// @Summary      Confirmar pedido (aceite do fornecedor)
// @Tags         replenishment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do pedido"
// @Param        body  body  dto.ConfirmOrderRequest  false  "quantidades confirmadas por peça"
// @Success      200  {object}  dto.ReplenishmentOrderDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/replenishment/orders/{id}/confirm [post]
func (h *ReplenishmentHandler) Confirm(c *fiber.Ctx) error {
	customerID := GetCustomerID(c)
	if customerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ConfirmOrderRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	order, err := h.lifecycle.Confirm(c.Context(), customerID, c.Params("id"), in.ItemQuantities)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(order)
}

// Ship godoc
// @Summary      Registrar despacho do pedido
// @Tags         replenishment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do pedido"
// @Param        body  body  dto.ShipOrderRequest  false  "rastreio e quantidades enviadas"
// @Success      200  {object}  dto.ReplenishmentOrderDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/replenishment/orders/{id}/ship [post]
func (h *ReplenishmentHandler) Ship(c *fiber.Ctx) error {
	customerID := GetCustomerID(c)
	if customerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ShipOrderRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	order, err := h.lifecycle.Ship(c.Context(), customerID, c.Params("id"), in.TrackingCode, in.ItemQuantities)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(order)
}

// Cancel godoc
// @Summary      Cancelar pedido (sem efeito no estoque)
// @Tags         replenishment
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID do pedido"
// @Success      200  {object}  dto.ReplenishmentOrderDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/replenishment/orders/{id}/cancel [post]
func (h *ReplenishmentHandler) Cancel(c *fiber.Ctx) error {
	customerID := GetCustomerID(c)
	if customerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	order, err := h.lifecycle.Cancel(c.Context(), customerID, c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(order)
}

// Receive godoc
// @Summary      Confirmar recebimento do pedido
// @Description  Transição terminal: lança uma entrada por item e fecha o
//               pedido em uma única transação. Segunda chamada recebe 409
//               INVALID_TRANSITION — nunca sucesso silencioso.
// @Tags         replenishment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do pedido"
// @Param        body  body  dto.ReceiveOrderRequest  false  "observações do recebimento"
// @Success      200  {object}  dto.ReplenishmentOrderDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/replenishment/orders/{id}/receive [post]
func (h *ReplenishmentHandler) Receive(c *fiber.Ctx) error {
	customerID := GetCustomerID(c)
	actor := GetActorID(c)
	if customerID == "" || actor == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReceiveOrderRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	order, err := h.lifecycle.ConfirmReceipt(c.Context(), customerID, c.Params("id"), in.Notes, actor)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(order)
}
