package replenishment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/facilgest/estoque-api/internal/application/dto"
	appstock "github.com/facilgest/estoque-api/internal/application/stock"
	"github.com/facilgest/estoque-api/internal/domain"
	"github.com/facilgest/estoque-api/internal/domain/entity"
	"github.com/facilgest/estoque-api/internal/domain/repository"
)

// LifecycleUseCase conduz o ciclo de vida do pedido de reabastecimento:
// pendente → confirmado → enviado → recebido, com cancelamento de qualquer
// estado não terminal. Confirmar/enviar/cancelar são atualizações simples de
// campos validadas pela tabela de transições; o recebimento é a única
// transição com efeito no estoque e roda como transação tudo-ou-nada.
type LifecycleUseCase struct {
	txRunner     appstock.TxRunner
	orderRepo    repository.OrderRepository
	supplierRepo repository.SupplierRepository
	ledger       *appstock.LedgerUseCase
}

// NewLifecycleUseCase constrói o caso de uso.
func NewLifecycleUseCase(
	txRunner appstock.TxRunner,
	orderRepo repository.OrderRepository,
	supplierRepo repository.SupplierRepository,
	ledger *appstock.LedgerUseCase,
) *LifecycleUseCase {
	return &LifecycleUseCase{txRunner: txRunner, orderRepo: orderRepo, supplierRepo: supplierRepo, ledger: ledger}
}

// ListOrders devolve os pedidos do cliente com itens aninhados.
func (uc *LifecycleUseCase) ListOrders(ctx context.Context, customerID string) ([]dto.ReplenishmentOrderDTO, error) {
	orders, err := uc.orderRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReplenishmentOrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderDTO(o))
	}
	return out, nil
}

// CreateManualOrder abre um pedido pendente criado à mão (fora do planejador),
// um item por peça. O fornecedor deve existir no cadastro do cliente; toda
// quantidade deve ser positiva e toda peça deve existir e pertencer ao cliente.
func (uc *LifecycleUseCase) CreateManualOrder(ctx context.Context, customerID, supplierID string, items map[string]decimal.Decimal) (*dto.ReplenishmentOrderDTO, error) {
	if supplierID == "" || len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.CustomerID != customerID {
		return nil, domain.ErrSupplierNotFound
	}
	var result dto.ReplenishmentOrderDTO
	err = uc.txRunner.Run(ctx, func(
		_ repository.MovementRepository,
		partRepo repository.PartRepository,
		orderRepo repository.OrderRepository,
	) error {
		now := time.Now()
		order := &entity.ReplenishmentOrder{
			ID:          uuid.New().String(),
			CustomerID:  customerID,
			SupplierID:  supplierID,
			OrderNumber: newOrderNumber(now),
			Status:      entity.OrderStatusPendente,
			Source:      entity.OrderSourceManual,
			CreatedAt:   now,
		}
		partIDs := make([]string, 0, len(items))
		for partID := range items {
			partIDs = append(partIDs, partID)
		}
		sort.Strings(partIDs)
		for _, partID := range partIDs {
			qty := items[partID]
			if !qty.IsPositive() {
				return domain.ErrInvalidMagnitude
			}
			part, err := partRepo.GetByID(ctx, partID)
			if err != nil {
				return err
			}
			if part == nil || part.CustomerID != customerID {
				return domain.ErrPartNotFound
			}
			order.Items = append(order.Items, entity.OrderItem{
				ID:                uuid.New().String(),
				OrderID:           order.ID,
				PartID:            partID,
				QuantityRequested: qty,
			})
		}
		if err := orderRepo.Create(ctx, order); err != nil {
			return err
		}
		for i := range order.Items {
			if err := orderRepo.CreateItem(ctx, &order.Items[i]); err != nil {
				return err
			}
		}
		result = toOrderDTO(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Confirm registra o aceite do fornecedor. Opcionalmente grava as quantidades
// confirmadas por peça.
func (uc *LifecycleUseCase) Confirm(ctx context.Context, customerID, orderID string, itemQuantities map[string]decimal.Decimal) (*dto.ReplenishmentOrderDTO, error) {
	return uc.transition(ctx, customerID, orderID, entity.OrderStatusConfirmado, func(order *entity.ReplenishmentOrder, now time.Time) error {
		order.ConfirmedAt = &now
		for i := range order.Items {
			if qty, ok := itemQuantities[order.Items[i].PartID]; ok {
				if qty.IsNegative() {
					return domain.ErrInvalidMagnitude
				}
				q := qty
				order.Items[i].QuantityConfirmed = &q
			}
		}
		return nil
	})
}

// Ship registra o despacho, com rastreio e quantidades enviadas opcionais.
func (uc *LifecycleUseCase) Ship(ctx context.Context, customerID, orderID, trackingCode string, itemQuantities map[string]decimal.Decimal) (*dto.ReplenishmentOrderDTO, error) {
	return uc.transition(ctx, customerID, orderID, entity.OrderStatusEnviado, func(order *entity.ReplenishmentOrder, now time.Time) error {
		order.ShippedAt = &now
		order.TrackingCode = trackingCode
		for i := range order.Items {
			if qty, ok := itemQuantities[order.Items[i].PartID]; ok {
				if qty.IsNegative() {
					return domain.ErrInvalidMagnitude
				}
				q := qty
				order.Items[i].QuantityShipped = &q
			}
		}
		return nil
	})
}

// Cancel encerra o pedido sem efeito no estoque.
func (uc *LifecycleUseCase) Cancel(ctx context.Context, customerID, orderID string) (*dto.ReplenishmentOrderDTO, error) {
	return uc.transition(ctx, customerID, orderID, entity.OrderStatusCancelado, func(order *entity.ReplenishmentOrder, now time.Time) error {
		return nil
	})
}

// transition aplica uma transição simples dentro de uma transação, com a fila
// do pedido bloqueada para impedir transições concorrentes.
func (uc *LifecycleUseCase) transition(
	ctx context.Context,
	customerID, orderID, target string,
	mutate func(order *entity.ReplenishmentOrder, now time.Time) error,
) (*dto.ReplenishmentOrderDTO, error) {
	var result dto.ReplenishmentOrderDTO
	err := uc.txRunner.Run(ctx, func(
		_ repository.MovementRepository,
		_ repository.PartRepository,
		orderRepo repository.OrderRepository,
	) error {
		order, err := loadOwnedOrder(ctx, orderRepo, customerID, orderID)
		if err != nil {
			return err
		}
		if !entity.CanTransition(order.Status, target) {
			return domain.ErrInvalidTransition
		}
		now := time.Now()
		order.Status = target
		if err := mutate(order, now); err != nil {
			return err
		}
		if err := orderRepo.UpdateStatus(ctx, order); err != nil {
			return err
		}
		for i := range order.Items {
			if err := orderRepo.UpdateItemQuantities(ctx, &order.Items[i]); err != nil {
				return err
			}
		}
		result = toOrderDTO(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ConfirmReceipt é a transição terminal de recebimento: pré-condição status
// enviado e receivedAt nulo (uma segunda chamada recebe ErrInvalidTransition —
// nunca sucesso silencioso, para não lançar estoque em dobro). Dentro de uma
// única transação lança uma entrada por item (enviada ?? confirmada ??
// solicitada) e fecha o pedido; qualquer item que falhe desfaz tudo e o
// pedido permanece em enviado.
func (uc *LifecycleUseCase) ConfirmReceipt(ctx context.Context, customerID, orderID, notes, actor string) (*dto.ReplenishmentOrderDTO, error) {
	var result dto.ReplenishmentOrderDTO
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		partRepo repository.PartRepository,
		orderRepo repository.OrderRepository,
	) error {
		order, err := loadOwnedOrder(ctx, orderRepo, customerID, orderID)
		if err != nil {
			return err
		}
		if order.Status != entity.OrderStatusEnviado || order.ReceivedAt != nil {
			return domain.ErrInvalidTransition
		}

		now := time.Now()
		reason := fmt.Sprintf("Recebimento do pedido %s", order.OrderNumber)
		for i := range order.Items {
			qty := order.Items[i].ReceiptQuantity()
			if _, err := uc.ledger.RecordEntradaInTx(ctx, movRepo, partRepo,
				customerID, order.Items[i].PartID, qty, reason, actor, now); err != nil {
				return err
			}
			q := qty
			order.Items[i].QuantityReceived = &q
			if err := orderRepo.UpdateItemQuantities(ctx, &order.Items[i]); err != nil {
				return err
			}
		}

		order.Status = entity.OrderStatusRecebido
		order.ReceivedAt = &now
		order.ReceivedBy = actor
		order.ReceivedNotes = notes
		if err := orderRepo.MarkReceived(ctx, order); err != nil {
			return err
		}
		result = toOrderDTO(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// loadOwnedOrder carrega o pedido com lock de fila, valida o dono e anexa os
// itens.
func loadOwnedOrder(ctx context.Context, orderRepo repository.OrderRepository, customerID, orderID string) (*entity.ReplenishmentOrder, error) {
	order, err := orderRepo.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.CustomerID != customerID {
		return nil, domain.ErrOrderNotFound
	}
	items, err := orderRepo.ListItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = make([]entity.OrderItem, 0, len(items))
	for _, it := range items {
		order.Items = append(order.Items, *it)
	}
	return order, nil
}

func toOrderDTO(o *entity.ReplenishmentOrder) dto.ReplenishmentOrderDTO {
	out := dto.ReplenishmentOrderDTO{
		ID:            o.ID,
		SupplierID:    o.SupplierID,
		OrderNumber:   o.OrderNumber,
		Status:        o.Status,
		Source:        o.Source,
		TrackingCode:  o.TrackingCode,
		CreatedAt:     o.CreatedAt,
		ConfirmedAt:   o.ConfirmedAt,
		ShippedAt:     o.ShippedAt,
		ReceivedAt:    o.ReceivedAt,
		ReceivedBy:    o.ReceivedBy,
		ReceivedNotes: o.ReceivedNotes,
		Items:         make([]dto.OrderItemDTO, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, dto.OrderItemDTO{
			ID:                it.ID,
			PartID:            it.PartID,
			QuantityRequested: it.QuantityRequested,
			QuantityConfirmed: it.QuantityConfirmed,
			QuantityShipped:   it.QuantityShipped,
			QuantityReceived:  it.QuantityReceived,
		})
	}
	return out
}
