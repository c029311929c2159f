package replenishment

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/facilgest/estoque-api/internal/application/dto"
	appstock "github.com/facilgest/estoque-api/internal/application/stock"
	"github.com/facilgest/estoque-api/internal/domain"
	"github.com/facilgest/estoque-api/internal/domain/entity"
	"github.com/facilgest/estoque-api/internal/domain/repository"
	domstock "github.com/facilgest/estoque-api/internal/domain/stock"
)

// PlannerUseCase varre as peças em falta física, agrupa por fornecedor padrão
// e cria um pedido de reabastecimento por fornecedor, dimensionado para repor
// até o nível alvo. Peças sem fornecedor são puladas e reportadas, nunca
// descartadas em silêncio.
type PlannerUseCase struct {
	txRunner  appstock.TxRunner
	partRepo  repository.PartRepository
	orderRepo repository.OrderRepository
	log       zerolog.Logger
}

// NewPlannerUseCase constrói o planejador.
func NewPlannerUseCase(
	txRunner appstock.TxRunner,
	partRepo repository.PartRepository,
	orderRepo repository.OrderRepository,
	log zerolog.Logger,
) *PlannerUseCase {
	return &PlannerUseCase{txRunner: txRunner, partRepo: partRepo, orderRepo: orderRepo, log: log}
}

// GenerateReplenishmentOrders cria os pedidos em status pendente, um por
// fornecedor com ao menos uma peça qualificada, cada um em transação própria:
// a falha de um grupo não bloqueia os demais. A operação não é idempotente —
// rodar duas vezes com a falta persistindo cria pedidos duplicados; o resumo
// aponta em AlreadyOnOrder as peças que já tinham pedido aberto.
func (uc *PlannerUseCase) GenerateReplenishmentOrders(ctx context.Context, customerID, actor string) (*dto.GenerateOrdersSummaryDTO, error) {
	parts, err := uc.partRepo.ListLowStock(ctx, customerID)
	if err != nil {
		return nil, err
	}

	summary := &dto.GenerateOrdersSummaryDTO{
		TotalValue:   decimal.Zero,
		SkippedParts: []dto.SkippedPartDTO{},
		Orders:       []dto.ReplenishmentOrderDTO{},
	}
	if len(parts) == 0 {
		return summary, nil
	}

	openParts, err := uc.orderRepo.PartsOnOpenOrders(ctx, customerID)
	if err != nil {
		return nil, err
	}

	// Agrupa por fornecedor; sem fornecedor → skip reportado.
	bySupplier := make(map[string][]*entity.Part)
	for _, p := range parts {
		if p.SupplierID == nil || *p.SupplierID == "" {
			summary.SkippedParts = append(summary.SkippedParts, dto.SkippedPartDTO{
				PartID: p.ID,
				Name:   p.Name,
				Reason: domain.ErrSupplierMissing.Error(),
			})
			continue
		}
		if openParts[p.ID] {
			summary.AlreadyOnOrder = append(summary.AlreadyOnOrder, p.ID)
		}
		bySupplier[*p.SupplierID] = append(bySupplier[*p.SupplierID], p)
	}

	// Ordem estável de fornecedores para numeração e testes determinísticos.
	supplierIDs := make([]string, 0, len(bySupplier))
	for id := range bySupplier {
		supplierIDs = append(supplierIDs, id)
	}
	sort.Strings(supplierIDs)

	now := time.Now()
	for _, supplierID := range supplierIDs {
		group := bySupplier[supplierID]
		order, orderValue, buildErr := uc.buildOrder(customerID, supplierID, group, now)
		if buildErr != nil {
			uc.log.Error().Err(buildErr).Str("supplier_id", supplierID).
				Msg("montagem do pedido de reabastecimento")
			continue
		}

		// Uma transação por grupo de fornecedor.
		err := uc.txRunner.Run(ctx, func(
			_ repository.MovementRepository,
			_ repository.PartRepository,
			orderRepo repository.OrderRepository,
		) error {
			if err := orderRepo.Create(ctx, order); err != nil {
				return err
			}
			for i := range order.Items {
				if err := orderRepo.CreateItem(ctx, &order.Items[i]); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			uc.log.Error().Err(err).Str("supplier_id", supplierID).
				Msg("criação do pedido de reabastecimento")
			continue
		}

		summary.OrdersCreated++
		summary.TotalValue = summary.TotalValue.Add(orderValue)
		summary.Orders = append(summary.Orders, toOrderDTO(order))
	}

	uc.log.Info().
		Str("customer_id", customerID).
		Str("actor", actor).
		Int("orders_created", summary.OrdersCreated).
		Int("skipped", len(summary.SkippedParts)).
		Msg("planejamento de reabastecimento concluído")

	return summary, nil
}

// buildOrder monta o pedido pendente de um fornecedor com um item por peça.
// quantityRequested = alvo de reposição - quantidade atual; sempre > 0 porque
// a peça qualificou como falta física.
func (uc *PlannerUseCase) buildOrder(customerID, supplierID string, group []*entity.Part, now time.Time) (*entity.ReplenishmentOrder, decimal.Decimal, error) {
	order := &entity.ReplenishmentOrder{
		ID:          uuid.New().String(),
		CustomerID:  customerID,
		SupplierID:  supplierID,
		OrderNumber: newOrderNumber(now),
		Status:      entity.OrderStatusPendente,
		Source:      entity.OrderSourceAuto,
		CreatedAt:   now,
	}
	value := decimal.Zero
	for _, p := range group {
		requested := domstock.RefillTarget(p).Sub(p.CurrentQuantity)
		order.Items = append(order.Items, entity.OrderItem{
			ID:                uuid.New().String(),
			OrderID:           order.ID,
			PartID:            p.ID,
			QuantityRequested: requested,
		})
		value = value.Add(requested.Mul(p.CostPrice))
	}
	return order, value, nil
}

// newOrderNumber gera um número legível e único: REP-AAAAMMDD-xxxxxxxx.
func newOrderNumber(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return "REP-" + now.Format("20060102") + "-" + strings.ToUpper(suffix)
}
