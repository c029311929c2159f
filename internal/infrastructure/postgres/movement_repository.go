package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/facilgest/estoque-api/internal/domain/entity"
	"github.com/facilgest/estoque-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo persistência da trilha de auditoria (usável com pool ou tx).
// Append-only: a tabela não recebe UPDATE nem DELETE deste adaptador.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create anexa um movimento.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (id, part_id, type, quantity, previous_quantity, new_quantity, reason, created_at, actor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	reason := (*string)(nil)
	if movement.Reason != "" {
		reason = &movement.Reason
	}
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.PartID, movement.Type, movement.Quantity,
		movement.PreviousQuantity, movement.NewQuantity, reason,
		movement.CreatedAt, movement.Actor,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// ListByPart lista o histórico da peça em ordem de criação ascendente
// (a ordem de replay da propriedade de conservação).
func (r *MovementRepo) ListByPart(ctx context.Context, partID string, limit, offset int) ([]*entity.Movement, error) {
	query := `
		SELECT id, part_id, type, quantity, previous_quantity, new_quantity, reason, created_at, actor
		FROM movements WHERE part_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, partID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var reason *string
		if err := rows.Scan(&m.ID, &m.PartID, &m.Type, &m.Quantity,
			&m.PreviousQuantity, &m.NewQuantity, &reason, &m.CreatedAt, &m.Actor); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if reason != nil {
			m.Reason = *reason
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
