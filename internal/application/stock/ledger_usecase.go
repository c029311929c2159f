package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/facilgest/estoque-api/internal/domain"
	"github.com/facilgest/estoque-api/internal/domain/entity"
	"github.com/facilgest/estoque-api/internal/domain/repository"
)

// LedgerUseCase é o único caminho pelo qual CurrentQuantity de uma peça muda:
// grava o movimento e atualiza a peça como unidade atômica, com bloqueio de
// fila (SELECT FOR UPDATE) mais compare-and-swap na quantidade.
type LedgerUseCase struct {
	txRunner TxRunner
}

// NewLedgerUseCase constrói o caso de uso.
func NewLedgerUseCase(txRunner TxRunner) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner}
}

// MovementInputDTO entrada para registrar um movimento.
// Magnitude: delta para entrada/saida; novo valor absoluto para ajuste.
type MovementInputDTO struct {
	CustomerID string
	PartID     string
	Type       string
	Magnitude  decimal.Decimal
	Reason     string
	Actor      string
}

// RecordMovement valida a entrada, abre a transação e aplica o movimento.
// Erros: ErrInvalidMagnitude, ErrPartNotFound, ErrPartInactive,
// ErrInsufficientStock, ErrConflict (este último é o único re-tentável:
// o caller refaz a leitura e chama de novo).
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, input MovementInputDTO) (*entity.Movement, error) {
	switch input.Type {
	case entity.MovementTypeEntrada, entity.MovementTypeSaida, entity.MovementTypeAjuste:
	default:
		return nil, domain.ErrInvalidInput
	}
	if input.PartID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.Magnitude.IsNegative() {
		return nil, domain.ErrInvalidMagnitude
	}

	var created *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		partRepo repository.PartRepository,
		_ repository.OrderRepository,
	) error {
		mov, err := applyMovement(ctx, movRepo, partRepo, input, time.Now())
		if err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RecordEntradaInTx lança uma entrada usando os repositórios do caller (mesma
// transação). É o ponto de composição do recebimento de pedidos: cada item
// recebido vira uma entrada dentro da transação do pedido.
func (uc *LedgerUseCase) RecordEntradaInTx(
	ctx context.Context,
	movRepo repository.MovementRepository,
	partRepo repository.PartRepository,
	customerID, partID string,
	quantity decimal.Decimal,
	reason, actor string,
	now time.Time,
) (*entity.Movement, error) {
	if quantity.IsNegative() {
		return nil, domain.ErrInvalidMagnitude
	}
	return applyMovement(ctx, movRepo, partRepo, MovementInputDTO{
		CustomerID: customerID,
		PartID:     partID,
		Type:       entity.MovementTypeEntrada,
		Magnitude:  quantity,
		Reason:     reason,
		Actor:      actor,
	}, now)
}

// applyMovement: bloqueia a fila da peça, calcula previous/new conforme o tipo,
// grava a quantidade com CAS e anexa o movimento. Roda sempre dentro de uma tx.
func applyMovement(
	ctx context.Context,
	movRepo repository.MovementRepository,
	partRepo repository.PartRepository,
	input MovementInputDTO,
	now time.Time,
) (*entity.Movement, error) {
	part, err := partRepo.GetForUpdate(ctx, input.PartID)
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, domain.ErrPartNotFound
	}
	if input.CustomerID != "" && part.CustomerID != input.CustomerID {
		return nil, domain.ErrPartNotFound
	}
	if !part.IsActive {
		return nil, domain.ErrPartInactive
	}

	previous := part.CurrentQuantity
	var newQty decimal.Decimal
	switch input.Type {
	case entity.MovementTypeEntrada:
		newQty = previous.Add(input.Magnitude)
	case entity.MovementTypeSaida:
		if input.Magnitude.GreaterThan(previous) {
			return nil, domain.ErrInsufficientStock
		}
		newQty = previous.Sub(input.Magnitude)
	case entity.MovementTypeAjuste:
		// Ajuste é absoluto: a magnitude é a nova quantidade, em qualquer direção.
		newQty = input.Magnitude
	default:
		return nil, domain.ErrInvalidInput
	}

	// CAS: se a quantidade mudou entre a leitura e o commit, ErrConflict.
	if err := partRepo.UpdateQuantity(ctx, part.ID, previous, newQty); err != nil {
		return nil, err
	}

	mov := &entity.Movement{
		ID:               uuid.New().String(),
		PartID:           part.ID,
		Type:             input.Type,
		Quantity:         input.Magnitude,
		PreviousQuantity: previous,
		NewQuantity:      newQty,
		Reason:           input.Reason,
		CreatedAt:        now,
		Actor:            input.Actor,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}
