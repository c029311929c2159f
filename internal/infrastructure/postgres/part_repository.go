package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/facilgest/estoque-api/internal/domain"
	"github.com/facilgest/estoque-api/internal/domain/entity"
	"github.com/facilgest/estoque-api/internal/domain/repository"
)

var _ repository.PartRepository = (*PartRepo)(nil)

const partColumns = `id, customer_id, company_id, module, name, part_number, unit,
	current_quantity, minimum_quantity, maximum_quantity, cost_price, supplier_id,
	is_active, created_at, updated_at`

// PartRepo implementação de PartRepository sobre PostgreSQL (usável com pool
// ou tx).
type PartRepo struct {
	q Querier
}

// NewPartRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

func scanPart(row pgx.Row) (*entity.Part, error) {
	var p entity.Part
	var partNumber *string
	err := row.Scan(
		&p.ID, &p.CustomerID, &p.CompanyID, &p.Module, &p.Name, &partNumber, &p.Unit,
		&p.CurrentQuantity, &p.MinimumQuantity, &p.MaximumQuantity, &p.CostPrice,
		&p.SupplierID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if partNumber != nil {
		p.PartNumber = *partNumber
	}
	return &p, nil
}

// GetByID obtém uma peça por ID. Retorna (nil, nil) se não existir.
func (r *PartRepo) GetByID(ctx context.Context, id string) (*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts WHERE id = $1`
	p, err := scanPart(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part: %w", err)
	}
	return p, nil
}

// GetForUpdate obtém a peça bloqueando a fila (SELECT FOR UPDATE). Serializa
// movimentos concorrentes sobre a mesma peça dentro da tx do caller.
func (r *PartRepo) GetForUpdate(ctx context.Context, id string) (*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts WHERE id = $1 FOR UPDATE`
	p, err := scanPart(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get part for update: %w", err)
	}
	return p, nil
}

// UpdateQuantity grava a nova quantidade com compare-and-swap: só atualiza se
// current_quantity ainda for previousQty. Zero filas afetadas = outra escrita
// chegou antes → domain.ErrConflict (re-tentável pelo caller).
func (r *PartRepo) UpdateQuantity(ctx context.Context, partID string, previousQty, newQty decimal.Decimal) error {
	query := `
		UPDATE parts SET current_quantity = $1, updated_at = now()
		WHERE id = $2 AND current_quantity = $3`
	tag, err := r.q.Exec(ctx, query, newQty, partID, previousQty)
	if err != nil {
		return fmt.Errorf("update part quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// ListByCustomer lista as peças do cliente, com filtro opcional por módulo.
func (r *PartRepo) ListByCustomer(ctx context.Context, customerID, module string) ([]*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts WHERE customer_id = $1`
	args := []any{customerID}
	if module != "" {
		query += ` AND module = $2`
		args = append(args, module)
	}
	query += ` ORDER BY name`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	defer rows.Close()
	return collectParts(rows)
}

// ListLowStock lista as peças ativas com falta física (atual < mínimo).
func (r *PartRepo) ListLowStock(ctx context.Context, customerID string) ([]*entity.Part, error) {
	query := `SELECT ` + partColumns + ` FROM parts
		WHERE customer_id = $1 AND is_active AND current_quantity < minimum_quantity
		ORDER BY name`
	rows, err := r.q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list low stock parts: %w", err)
	}
	defer rows.Close()
	return collectParts(rows)
}

func collectParts(rows pgx.Rows) ([]*entity.Part, error) {
	var list []*entity.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("scan part: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
