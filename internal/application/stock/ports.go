package stock

import (
	"context"

	"github.com/facilgest/estoque-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de BD, passando
// repositórios atados a essa tx. Garante a atomicidade do ledger e do
// recebimento de pedidos (Commit se fn retorna nil, Rollback caso contrário).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		partRepo repository.PartRepository,
		orderRepo repository.OrderRepository,
	) error) error
}
