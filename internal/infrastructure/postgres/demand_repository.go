package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/facilgest/estoque-api/internal/domain/repository"
)

var _ repository.DemandRepository = (*DemandRepo)(nil)

// DemandRepo feed de demanda: lê a tabela de reservas mantida pelo componente
// externo de planejamento (compromissos de OS abertas). Somente leitura.
type DemandRepo struct {
	q Querier
}

// NewDemandRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewDemandRepository(q Querier) *DemandRepo {
	return &DemandRepo{q: q}
}

// ReservedQuantityFor soma a quantidade reservada de uma peça.
func (r *DemandRepo) ReservedQuantityFor(ctx context.Context, partID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM demand_reservations WHERE part_id = $1 AND fulfilled_at IS NULL`
	var qty decimal.Decimal
	err := r.q.QueryRow(ctx, query, partID).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("reserved quantity: %w", err)
	}
	return qty, nil
}

// ReservedQuantities agrega as reservas abertas por peça para o cliente.
func (r *DemandRepo) ReservedQuantities(ctx context.Context, customerID string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT d.part_id, SUM(d.quantity)
		FROM demand_reservations d
		JOIN parts p ON p.id = d.part_id
		WHERE p.customer_id = $1 AND d.fulfilled_at IS NULL
		GROUP BY d.part_id`
	rows, err := r.q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("reserved quantities: %w", err)
	}
	defer rows.Close()

	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var partID string
		var qty decimal.Decimal
		if err := rows.Scan(&partID, &qty); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out[partID] = qty
	}
	return out, rows.Err()
}
