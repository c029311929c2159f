package memory

import (
	"context"

	"github.com/facilgest/estoque-api/internal/application/stock"
	"github.com/facilgest/estoque-api/internal/domain/repository"
)

var _ stock.TxRunner = (*TxRunner)(nil)

// TxRunner executa callbacks contra o Store com semântica de transação:
// segura o lock durante fn (serializando transações, o equivalente em memória
// do row lock) e restaura o snapshot se fn falhar.
type TxRunner struct {
	store *Store
}

// NewTxRunner constrói o runner sobre o Store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run tira o snapshot, executa fn com repos atados ao Store e desfaz tudo em
// caso de erro.
func (r *TxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	partRepo repository.PartRepository,
	orderRepo repository.OrderRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap := r.store.snapshot()
	err := fn(
		NewMovementRepository(r.store),
		NewPartRepository(r.store),
		NewOrderRepository(r.store),
	)
	if err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}
