package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// DemandRepository é o feed de demanda: soma das quantidades comprometidas por
// ordens de serviço abertas e ainda não atendidas. A tabela de reservas é
// mantida pelo componente externo de planejamento; este núcleo só lê.
type DemandRepository interface {
	ReservedQuantityFor(ctx context.Context, partID string) (decimal.Decimal, error)
	ReservedQuantities(ctx context.Context, customerID string) (map[string]decimal.Decimal, error)
}
