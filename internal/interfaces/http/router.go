package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facilgest/estoque-api/internal/application/replenishment"
	"github.com/facilgest/estoque-api/internal/application/stock"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	Ledger    *stock.LedgerUseCase
	ListParts *stock.ListPartsUseCase
	Planner   *replenishment.PlannerUseCase
	Lifecycle *replenishment.LifecycleUseCase
	JWTSecret string
}

// Router registra as rotas da API. Tudo protegido por Bearer Token: o token
// carrega customer_id e o actor opaco de auditoria.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	stockHandler := NewStockHandler(deps.Ledger, deps.ListParts)
	parts := api.Group("/parts")
	parts.Get("/", stockHandler.ListParts)
	parts.Get("/:id/movements", stockHandler.MovementHistory)

	api.Post("/stock/movements", stockHandler.RecordMovement)

	replHandler := NewReplenishmentHandler(deps.Planner, deps.Lifecycle)
	repl := api.Group("/replenishment")
	repl.Post("/generate", replHandler.Generate)
	repl.Get("/orders", replHandler.ListOrders)
	repl.Post("/orders", replHandler.CreateOrder)
	repl.Post("/orders/:id/confirm", replHandler.Confirm)
	repl.Post("/orders/:id/ship", replHandler.Ship)
	repl.Post("/orders/:id/cancel", replHandler.Cancel)
	repl.Post("/orders/:id/receive", replHandler.Receive)
}
