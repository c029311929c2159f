package replenishment_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facilgest/estoque-api/internal/application/replenishment"
	"github.com/facilgest/estoque-api/internal/application/stock"
	"github.com/facilgest/estoque-api/internal/domain"
	"github.com/facilgest/estoque-api/internal/domain/entity"
	"github.com/facilgest/estoque-api/internal/infrastructure/memory"
)

func newLifecycle(store *memory.Store) *replenishment.LifecycleUseCase {
	runner := memory.NewTxRunner(store)
	return replenishment.NewLifecycleUseCase(
		runner,
		memory.NewOrderRepository(store),
		memory.NewSupplierRepository(store),
		stock.NewLedgerUseCase(runner),
	)
}

func seedSupplier(store *memory.Store, id string) {
	store.SeedSupplier(&entity.Supplier{
		ID:         id,
		CustomerID: testCustomerID,
		Name:       "Fornecedor " + id,
	})
}

func seedReceivablePart(store *memory.Store, id, current string, active bool) {
	store.SeedPart(&entity.Part{
		ID:              id,
		CustomerID:      testCustomerID,
		Name:            "Peça " + id,
		Unit:            "un",
		CurrentQuantity: dec(current),
		MinimumQuantity: dec("10"),
		IsActive:        active,
	})
}

func seedShippedOrder(store *memory.Store, orderID string, items []entity.OrderItem) {
	now := time.Now()
	confirmed := now.Add(-2 * time.Hour)
	shipped := now.Add(-1 * time.Hour)
	store.SeedOrder(&entity.ReplenishmentOrder{
		ID:          orderID,
		CustomerID:  testCustomerID,
		SupplierID:  "s1",
		OrderNumber: "REP-20260831-TESTE001",
		Status:      entity.OrderStatusEnviado,
		Source:      entity.OrderSourceAuto,
		CreatedAt:   now.Add(-3 * time.Hour),
		ConfirmedAt: &confirmed,
		ShippedAt:   &shipped,
		Items:       items,
	})
}

// Recebimento: uma entrada por item (enviada ?? confirmada ?? solicitada),
// pedido fecha em recebido com receivedBy/At/Notes.
func TestConfirmReceipt_LancaEntradasEFechaPedido(t *testing.T) {
	store := memory.NewStore()
	seedReceivablePart(store, "p1", "5", true)
	seedShippedOrder(store, "o1", []entity.OrderItem{
		{ID: "i1", OrderID: "o1", PartID: "p1", QuantityRequested: dec("95"), QuantityShipped: decPtr("95")},
	})

	uc := newLifecycle(store)
	order, err := uc.ConfirmReceipt(context.Background(), testCustomerID, "o1", "tudo conferido", testActor)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusRecebido, order.Status)
	assert.NotNil(t, order.ReceivedAt)
	assert.Equal(t, testActor, order.ReceivedBy)
	assert.Equal(t, "tudo conferido", order.ReceivedNotes)
	require.NotNil(t, order.Items[0].QuantityReceived)
	assert.True(t, order.Items[0].QuantityReceived.Equal(dec("95")))

	assert.True(t, store.PartQuantity("p1").Equal(dec("100")), "5 + 95 recebidos")

	movs := store.Movements()
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeEntrada, movs[0].Type)
	assert.True(t, movs[0].Quantity.Equal(dec("95")))
	assert.Equal(t, testActor, movs[0].Actor)
	assert.Contains(t, movs[0].Reason, "REP-20260831-TESTE001")
}

// A quantidade da entrada coalesce: sem enviada usa a confirmada; sem ambas, a
// solicitada.
func TestConfirmReceipt_CoalesceDeQuantidades(t *testing.T) {
	store := memory.NewStore()
	seedReceivablePart(store, "p1", "0", true)
	seedReceivablePart(store, "p2", "0", true)
	seedShippedOrder(store, "o1", []entity.OrderItem{
		{ID: "i1", OrderID: "o1", PartID: "p1", QuantityRequested: dec("40"), QuantityConfirmed: decPtr("30")},
		{ID: "i2", OrderID: "o1", PartID: "p2", QuantityRequested: dec("20")},
	})

	_, err := newLifecycle(store).ConfirmReceipt(context.Background(), testCustomerID, "o1", "", testActor)
	require.NoError(t, err)

	assert.True(t, store.PartQuantity("p1").Equal(dec("30")), "usa a confirmada")
	assert.True(t, store.PartQuantity("p2").Equal(dec("20")), "usa a solicitada")
}

// Segunda confirmação do mesmo pedido: InvalidTransition, e só um conjunto de
// entradas lançado.
func TestConfirmReceipt_RejeitaSegundaChamada(t *testing.T) {
	store := memory.NewStore()
	seedReceivablePart(store, "p1", "0", true)
	seedShippedOrder(store, "o1", []entity.OrderItem{
		{ID: "i1", OrderID: "o1", PartID: "p1", QuantityRequested: dec("10")},
	})

	uc := newLifecycle(store)
	_, err := uc.ConfirmReceipt(context.Background(), testCustomerID, "o1", "", testActor)
	require.NoError(t, err)

	_, err = uc.ConfirmReceipt(context.Background(), testCustomerID, "o1", "", testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"retry não pode ter sucesso silencioso: lançaria estoque em dobro")

	assert.Len(t, store.Movements(), 1, "exatamente um conjunto de entradas por pedido")
	assert.True(t, store.PartQuantity("p1").Equal(dec("10")))
}

// Atomicidade: se uma peça foi desativada no meio tempo, nenhuma entrada é
// aplicada e o pedido continua em enviado.
func TestConfirmReceipt_Atomicidade(t *testing.T) {
	store := memory.NewStore()
	seedReceivablePart(store, "p1", "0", true)
	seedReceivablePart(store, "p2", "0", false) // desativada
	seedShippedOrder(store, "o1", []entity.OrderItem{
		{ID: "i1", OrderID: "o1", PartID: "p1", QuantityRequested: dec("10")},
		{ID: "i2", OrderID: "o1", PartID: "p2", QuantityRequested: dec("5")},
	})

	uc := newLifecycle(store)
	_, err := uc.ConfirmReceipt(context.Background(), testCustomerID, "o1", "", testActor)
	assert.ErrorIs(t, err, domain.ErrPartInactive)

	assert.Empty(t, store.Movements(), "nenhuma entrada parcial")
	assert.True(t, store.PartQuantity("p1").IsZero(), "rollback completo")

	orders, err := uc.ListOrders(context.Background(), testCustomerID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, entity.OrderStatusEnviado, orders[0].Status, "pedido permanece em enviado")
	assert.Nil(t, orders[0].ReceivedAt)
}

// Recebimento exige status enviado: de pendente ou confirmado é rejeitado.
func TestConfirmReceipt_ExigeEnviado(t *testing.T) {
	store := memory.NewStore()
	seedReceivablePart(store, "p1", "0", true)
	store.SeedOrder(&entity.ReplenishmentOrder{
		ID:          "o1",
		CustomerID:  testCustomerID,
		SupplierID:  "s1",
		OrderNumber: "REP-20260831-TESTE002",
		Status:      entity.OrderStatusPendente,
		Source:      entity.OrderSourceManual,
		CreatedAt:   time.Now(),
		Items: []entity.OrderItem{
			{ID: "i1", OrderID: "o1", PartID: "p1", QuantityRequested: dec("10")},
		},
	})

	_, err := newLifecycle(store).ConfirmReceipt(context.Background(), testCustomerID, "o1", "", testActor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, store.Movements())
}

// Fluxo completo pendente → confirmado → enviado → recebido, com as
// quantidades do fornecedor gravadas em cada transição.
func TestLifecycle_FluxoCompleto(t *testing.T) {
	store := memory.NewStore()
	seedReceivablePart(store, "p1", "5", true)
	seedSupplier(store, "s1")
	uc := newLifecycle(store)

	order, err := uc.CreateManualOrder(context.Background(), testCustomerID, "s1",
		map[string]decimal.Decimal{"p1": dec("95")})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPendente, order.Status)
	assert.Equal(t, entity.OrderSourceManual, order.Source)

	order, err = uc.Confirm(context.Background(), testCustomerID, order.ID,
		map[string]decimal.Decimal{"p1": dec("90")})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmado, order.Status)
	assert.NotNil(t, order.ConfirmedAt)

	order, err = uc.Ship(context.Background(), testCustomerID, order.ID, "BR1234567890",
		map[string]decimal.Decimal{"p1": dec("88")})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusEnviado, order.Status)
	assert.Equal(t, "BR1234567890", order.TrackingCode)
	assert.NotNil(t, order.ShippedAt)

	order, err = uc.ConfirmReceipt(context.Background(), testCustomerID, order.ID, "", testActor)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusRecebido, order.Status)
	assert.True(t, store.PartQuantity("p1").Equal(dec("93")), "5 + 88 enviados")
}

// Pedido manual exige fornecedor do cadastro do cliente: inexistente ou de
// outro cliente → SupplierNotFound, nada criado.
func TestCreateManualOrder_FornecedorInvalido(t *testing.T) {
	store := memory.NewStore()
	seedReceivablePart(store, "p1", "0", true)
	store.SeedSupplier(&entity.Supplier{ID: "s-alheio", CustomerID: "c-2", Name: "Outro cliente"})
	uc := newLifecycle(store)

	_, err := uc.CreateManualOrder(context.Background(), testCustomerID, "s-fantasma",
		map[string]decimal.Decimal{"p1": dec("10")})
	assert.ErrorIs(t, err, domain.ErrSupplierNotFound)

	_, err = uc.CreateManualOrder(context.Background(), testCustomerID, "s-alheio",
		map[string]decimal.Decimal{"p1": dec("10")})
	assert.ErrorIs(t, err, domain.ErrSupplierNotFound)

	orders, err := uc.ListOrders(context.Background(), testCustomerID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

// Transições fora da tabela são rejeitadas: pular de pendente para enviado,
// confirmar pedido cancelado, cancelar pedido recebido.
func TestLifecycle_TransicoesInvalidas(t *testing.T) {
	store := memory.NewStore()
	seedReceivablePart(store, "p1", "0", true)
	seedSupplier(store, "s1")
	uc := newLifecycle(store)

	order, err := uc.CreateManualOrder(context.Background(), testCustomerID, "s1",
		map[string]decimal.Decimal{"p1": dec("10")})
	require.NoError(t, err)

	_, err = uc.Ship(context.Background(), testCustomerID, order.ID, "", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "pendente não vai direto a enviado")

	_, err = uc.Cancel(context.Background(), testCustomerID, order.ID)
	require.NoError(t, err, "pendente pode cancelar")

	_, err = uc.Confirm(context.Background(), testCustomerID, order.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "cancelado é terminal")
}
