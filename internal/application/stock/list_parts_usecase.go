package stock

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/facilgest/estoque-api/internal/application/dto"
	"github.com/facilgest/estoque-api/internal/domain"
	"github.com/facilgest/estoque-api/internal/domain/repository"
	domstock "github.com/facilgest/estoque-api/internal/domain/stock"
)

// ListPartsUseCase leitura das peças anotadas com disponibilidade. Nunca muta
// estado: a calculadora decora o snapshot da peça com os campos derivados.
type ListPartsUseCase struct {
	partRepo   repository.PartRepository
	movRepo    repository.MovementRepository
	orderRepo  repository.OrderRepository
	demandRepo repository.DemandRepository
}

// NewListPartsUseCase constrói o caso de uso de leitura.
func NewListPartsUseCase(
	partRepo repository.PartRepository,
	movRepo repository.MovementRepository,
	orderRepo repository.OrderRepository,
	demandRepo repository.DemandRepository,
) *ListPartsUseCase {
	return &ListPartsUseCase{
		partRepo:   partRepo,
		movRepo:    movRepo,
		orderRepo:  orderRepo,
		demandRepo: demandRepo,
	}
}

// ListParts devolve as peças do cliente (filtro opcional por módulo) com
// reserved/projected e as duas flags de falta.
func (uc *ListPartsUseCase) ListParts(ctx context.Context, customerID, module string) ([]dto.PartWithAvailabilityDTO, error) {
	parts, err := uc.partRepo.ListByCustomer(ctx, customerID, module)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return []dto.PartWithAvailabilityDTO{}, nil
	}

	reserved, err := uc.demandRepo.ReservedQuantities(ctx, customerID)
	if err != nil {
		return nil, err
	}
	incoming, err := uc.orderRepo.IncomingConfirmedByPart(ctx, customerID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PartWithAvailabilityDTO, 0, len(parts))
	for _, p := range parts {
		res, ok := reserved[p.ID]
		if !ok {
			res = decimal.Zero
		}
		inc, ok := incoming[p.ID]
		if !ok {
			inc = decimal.Zero
		}
		av := domstock.Calculate(p, res, inc)
		out = append(out, dto.PartWithAvailabilityDTO{
			ID:                p.ID,
			Module:            p.Module,
			Name:              p.Name,
			PartNumber:        p.PartNumber,
			Unit:              p.Unit,
			CurrentQuantity:   p.CurrentQuantity,
			MinimumQuantity:   p.MinimumQuantity,
			MaximumQuantity:   p.MaximumQuantity,
			CostPrice:         p.CostPrice,
			SupplierID:        p.SupplierID,
			IsActive:          p.IsActive,
			ReservedQuantity:  av.ReservedQuantity,
			IncomingConfirmed: av.IncomingConfirmed,
			ProjectedQuantity: av.ProjectedQuantity,
			IsLowStock:        av.IsLowStock,
			IsProjectedLow:    av.IsProjectedLow,
		})
	}
	return out, nil
}

// MovementHistory devolve a trilha de auditoria da peça em ordem de criação
// ascendente.
func (uc *ListPartsUseCase) MovementHistory(ctx context.Context, customerID, partID string, page dto.PageRequest) ([]dto.MovementDTO, error) {
	part, err := uc.partRepo.GetByID(ctx, partID)
	if err != nil {
		return nil, err
	}
	if part == nil || part.CustomerID != customerID {
		return nil, domain.ErrPartNotFound
	}
	page.DefaultPage()
	movs, err := uc.movRepo.ListByPart(ctx, partID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementDTO, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovementDTO{
			ID:               m.ID,
			PartID:           m.PartID,
			Type:             m.Type,
			Quantity:         m.Quantity,
			PreviousQuantity: m.PreviousQuantity,
			NewQuantity:      m.NewQuantity,
			Reason:           m.Reason,
			CreatedAt:        m.CreatedAt,
			Actor:            m.Actor,
		})
	}
	return out, nil
}
