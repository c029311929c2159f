package repository

import (
	"context"

	"github.com/facilgest/estoque-api/internal/domain/entity"
)

// MovementRepository define a porta de persistência da trilha de auditoria.
// Append-only: não há Update nem Delete.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// ListByPart devolve o histórico em ordem de criação ascendente.
	ListByPart(ctx context.Context, partID string, limit, offset int) ([]*entity.Movement, error)
}
