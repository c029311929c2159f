package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/facilgest/estoque-api/internal/domain/entity"
	"github.com/facilgest/estoque-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo leitura de fornecedores (cadastro mantido pelo catálogo
// externo; este serviço não escreve na tabela).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// GetByID obtém um fornecedor por ID. Retorna (nil, nil) se não existir.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	query := `
		SELECT id, customer_id, name, contact_name, email, phone, created_at
		FROM suppliers WHERE id = $1`
	var s entity.Supplier
	var contactName, email, phone *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.CustomerID, &s.Name, &contactName, &email, &phone, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	if contactName != nil {
		s.ContactName = *contactName
	}
	if email != nil {
		s.Email = *email
	}
	if phone != nil {
		s.Phone = *phone
	}
	return &s, nil
}

// ListByCustomer lista os fornecedores do cliente.
func (r *SupplierRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.Supplier, error) {
	query := `
		SELECT id, customer_id, name, contact_name, email, phone, created_at
		FROM suppliers WHERE customer_id = $1 ORDER BY name`
	rows, err := r.q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		var contactName, email, phone *string
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.Name, &contactName, &email, &phone, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		if contactName != nil {
			s.ContactName = *contactName
		}
		if email != nil {
			s.Email = *email
		}
		if phone != nil {
			s.Phone = *phone
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
