package repository

import (
	"context"

	"github.com/facilgest/estoque-api/internal/domain/entity"
)

// SupplierRepository porta de leitura de fornecedores (cadastro externo).
type SupplierRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.Supplier, error)
}
