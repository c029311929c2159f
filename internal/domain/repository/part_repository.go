package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/facilgest/estoque-api/internal/domain/entity"
)

// PartRepository define a porta de persistência das peças. O cadastro (CRUD)
// pertence ao catálogo externo; aqui só lemos e atualizamos a quantidade via
// ledger.
type PartRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Part, error)
	// GetForUpdate bloqueia a fila da peça (SELECT FOR UPDATE) dentro de uma tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Part, error)
	// UpdateQuantity grava newQty somente se a quantidade corrente ainda for
	// previousQty (compare-and-swap). Retorna domain.ErrConflict se outra
	// escrita chegou antes.
	UpdateQuantity(ctx context.Context, partID string, previousQty, newQty decimal.Decimal) error
	ListByCustomer(ctx context.Context, customerID, module string) ([]*entity.Part, error)
	// ListLowStock devolve peças ativas com quantidade atual abaixo do mínimo.
	ListLowStock(ctx context.Context, customerID string) ([]*entity.Part, error)
}
