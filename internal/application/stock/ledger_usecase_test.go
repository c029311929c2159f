package stock_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facilgest/estoque-api/internal/application/stock"
	"github.com/facilgest/estoque-api/internal/domain"
	"github.com/facilgest/estoque-api/internal/domain/entity"
	"github.com/facilgest/estoque-api/internal/infrastructure/memory"
)

const (
	testCustomerID = "c-1"
	testActor      = "tecnico-7"
)

func dec(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func newLedger(t *testing.T) (*stock.LedgerUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return stock.NewLedgerUseCase(memory.NewTxRunner(store)), store
}

func seedPart(store *memory.Store, id, current string) *entity.Part {
	p := &entity.Part{
		ID:              id,
		CustomerID:      testCustomerID,
		Name:            "Filtro HVAC " + id,
		Unit:            "un",
		CurrentQuantity: dec(current),
		MinimumQuantity: dec("10"),
		IsActive:        true,
	}
	store.SeedPart(p)
	return p
}

func record(uc *stock.LedgerUseCase, partID, typ, magnitude string) (*entity.Movement, error) {
	return uc.RecordMovement(context.Background(), stock.MovementInputDTO{
		CustomerID: testCustomerID,
		PartID:     partID,
		Type:       typ,
		Magnitude:  dec(magnitude),
		Reason:     "teste",
		Actor:      testActor,
	})
}

// Entrada soma, saída subtrai, e cada movimento registra previous/new exatos.
func TestRecordMovement_EntradaESaida(t *testing.T) {
	uc, store := newLedger(t)
	seedPart(store, "p-1", "30")

	mov, err := record(uc, "p-1", entity.MovementTypeEntrada, "20")
	require.NoError(t, err)
	assert.True(t, mov.PreviousQuantity.Equal(dec("30")))
	assert.True(t, mov.NewQuantity.Equal(dec("50")))
	assert.True(t, store.PartQuantity("p-1").Equal(dec("50")))

	mov, err = record(uc, "p-1", entity.MovementTypeSaida, "15")
	require.NoError(t, err)
	assert.True(t, mov.PreviousQuantity.Equal(dec("50")))
	assert.True(t, mov.NewQuantity.Equal(dec("35")))
	assert.True(t, store.PartQuantity("p-1").Equal(dec("35")))
}

// Ajuste é absoluto: a magnitude vira a nova quantidade, nas duas direções.
func TestRecordMovement_AjusteEhAbsoluto(t *testing.T) {
	uc, store := newLedger(t)
	seedPart(store, "p-1", "30")

	mov, err := record(uc, "p-1", entity.MovementTypeAjuste, "50")
	require.NoError(t, err)
	assert.True(t, mov.PreviousQuantity.Equal(dec("30")))
	assert.True(t, mov.NewQuantity.Equal(dec("50")))
	assert.True(t, store.PartQuantity("p-1").Equal(dec("50")))

	// Ajuste para baixo, inclusive para zero
	mov, err = record(uc, "p-1", entity.MovementTypeAjuste, "0")
	require.NoError(t, err)
	assert.True(t, mov.NewQuantity.Equal(dec("0")))
	assert.True(t, store.PartQuantity("p-1").IsZero())
}

// Saída maior que o estoque falha com InsufficientStock e não muda nada.
func TestRecordMovement_SaidaNuncaNegativa(t *testing.T) {
	uc, store := newLedger(t)
	seedPart(store, "p-1", "10")

	_, err := record(uc, "p-1", entity.MovementTypeSaida, "11")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, store.PartQuantity("p-1").Equal(dec("10")),
		"quantidade não pode mudar em movimento rejeitado")
	assert.Empty(t, store.Movements(), "movimento rejeitado não entra na trilha")

	// Sair exatamente o estoque é permitido (chega a zero, nunca abaixo)
	_, err = record(uc, "p-1", entity.MovementTypeSaida, "10")
	require.NoError(t, err)
	assert.True(t, store.PartQuantity("p-1").IsZero())
}

func TestRecordMovement_Validacao(t *testing.T) {
	uc, store := newLedger(t)
	seedPart(store, "p-1", "10")

	_, err := record(uc, "p-1", entity.MovementTypeEntrada, "-5")
	assert.ErrorIs(t, err, domain.ErrInvalidMagnitude)

	_, err = record(uc, "p-1", "transferencia", "5")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = record(uc, "p-inexistente", entity.MovementTypeEntrada, "5")
	assert.ErrorIs(t, err, domain.ErrPartNotFound)
}

// Peça desativada não recebe movimento algum.
func TestRecordMovement_PecaDesativada(t *testing.T) {
	uc, store := newLedger(t)
	p := seedPart(store, "p-1", "10")
	p.IsActive = false
	store.SeedPart(p)

	_, err := record(uc, "p-1", entity.MovementTypeEntrada, "5")
	assert.ErrorIs(t, err, domain.ErrPartInactive)
}

// Conservação: repetir os movimentos a partir de zero reproduz a quantidade
// corrente.
func TestRecordMovement_Conservacao(t *testing.T) {
	uc, store := newLedger(t)
	seedPart(store, "p-1", "0")

	steps := []struct{ typ, magnitude string }{
		{entity.MovementTypeEntrada, "100"},
		{entity.MovementTypeSaida, "30"},
		{entity.MovementTypeAjuste, "55"},
		{entity.MovementTypeEntrada, "5"},
		{entity.MovementTypeSaida, "60"},
		{entity.MovementTypeEntrada, "12.5"},
	}
	for _, s := range steps {
		_, err := record(uc, "p-1", s.typ, s.magnitude)
		require.NoError(t, err)
	}

	replay := dec("0")
	for _, m := range store.Movements() {
		require.True(t, m.PreviousQuantity.Equal(replay),
			"previous_quantity deve encadear com o movimento anterior")
		switch m.Type {
		case entity.MovementTypeEntrada:
			replay = replay.Add(m.Quantity)
		case entity.MovementTypeSaida:
			replay = replay.Sub(m.Quantity)
		case entity.MovementTypeAjuste:
			replay = m.Quantity
		}
		require.True(t, m.NewQuantity.Equal(replay))
	}
	assert.True(t, replay.Equal(store.PartQuantity("p-1")),
		"replay da trilha deve reproduzir a quantidade corrente")
	assert.True(t, replay.Equal(dec("12.5")))
}

// Escrita com previous desatualizado falha com Conflict (CAS do repositório).
func TestUpdateQuantity_ConflitoComPreviousDesatualizado(t *testing.T) {
	store := memory.NewStore()
	seedPart(store, "p-1", "30")
	repo := memory.NewPartRepository(store)

	err := repo.UpdateQuantity(context.Background(), "p-1", dec("25"), dec("40"))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, store.PartQuantity("p-1").Equal(dec("30")))

	// Com o previous correto a escrita passa (retry do caller após reler)
	err = repo.UpdateQuantity(context.Background(), "p-1", dec("30"), dec("40"))
	require.NoError(t, err)
	assert.True(t, store.PartQuantity("p-1").Equal(dec("40")))
}
