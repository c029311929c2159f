package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/facilgest/estoque-api/internal/domain/entity"
)

// OrderRepository porta de persistência dos pedidos de reabastecimento e seus
// itens.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.ReplenishmentOrder) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	GetByID(ctx context.Context, id string) (*entity.ReplenishmentOrder, error)
	// GetForUpdate bloqueia a fila do pedido para que duas confirmações de
	// recebimento concorrentes não passem ambas na pré-condição.
	GetForUpdate(ctx context.Context, id string) (*entity.ReplenishmentOrder, error)
	ListItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.ReplenishmentOrder, error)
	// UpdateStatus grava a transição simples (confirmado/enviado/cancelado) com
	// seus campos associados. O recebimento usa MarkReceived.
	UpdateStatus(ctx context.Context, order *entity.ReplenishmentOrder) error
	UpdateItemQuantities(ctx context.Context, item *entity.OrderItem) error
	MarkReceived(ctx context.Context, order *entity.ReplenishmentOrder) error
	// PartsOnOpenOrders devolve os IDs de peça com item em pedido não terminal.
	PartsOnOpenOrders(ctx context.Context, customerID string) (map[string]bool, error)
	// IncomingConfirmedByPart agrega, por peça, a quantidade confirmada/enviada
	// ainda não recebida (pedidos confirmado/enviado).
	IncomingConfirmedByPart(ctx context.Context, customerID string) (map[string]decimal.Decimal, error)
}
