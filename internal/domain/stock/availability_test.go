package stock_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/facilgest/estoque-api/internal/domain/entity"
	"github.com/facilgest/estoque-api/internal/domain/stock"
)

func dec(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func partWith(current, minimum string, maximum *string) *entity.Part {
	p := &entity.Part{
		ID:              "p-1",
		CurrentQuantity: dec(current),
		MinimumQuantity: dec(minimum),
		IsActive:        true,
	}
	if maximum != nil {
		m := dec(*maximum)
		p.MaximumQuantity = &m
	}
	return p
}

// Projetado = atual - reservado + entrante; pode ficar negativo.
func TestCalculate_ProjetadoPodeSerNegativo(t *testing.T) {
	p := partWith("10", "5", nil)
	av := stock.Calculate(p, dec("25"), dec("8"))

	assert.True(t, av.ProjectedQuantity.Equal(dec("-7")),
		"10 - 25 + 8 deve dar -7, veio %s", av.ProjectedQuantity)
	assert.False(t, av.IsLowStock, "10 >= 5 não é falta física")
	assert.True(t, av.IsProjectedLow, "projetado negativo é falta projetada")
}

// As duas flags são independentes: falta física sem falta projetada.
func TestCalculate_FaltaFisicaComProjetadoOk(t *testing.T) {
	p := partWith("3", "10", nil)
	av := stock.Calculate(p, dec("0"), dec("50"))

	assert.True(t, av.IsLowStock)
	assert.False(t, av.IsProjectedLow, "3 + 50 = 53 > 10")
	assert.True(t, av.ProjectedQuantity.Equal(dec("53")))
}

// Projetado exatamente no mínimo conta como falta projetada (<=).
func TestCalculate_ProjetadoIgualMinimoEhBaixo(t *testing.T) {
	p := partWith("10", "10", nil)
	av := stock.Calculate(p, dec("0"), dec("0"))

	assert.False(t, av.IsLowStock, "atual == mínimo não é falta física (<)")
	assert.True(t, av.IsProjectedLow, "projetado == mínimo é falta projetada (<=)")
}

func TestRefillTarget(t *testing.T) {
	max100 := "100"
	max5 := "5"

	t.Run("com máximo definido usa o máximo", func(t *testing.T) {
		p := partWith("5", "10", &max100)
		assert.True(t, stock.RefillTarget(p).Equal(dec("100")))
	})

	t.Run("máximo abaixo do mínimo cai para o mínimo", func(t *testing.T) {
		p := partWith("2", "10", &max5)
		assert.True(t, stock.RefillTarget(p).Equal(dec("10")))
	})

	t.Run("sem máximo o alvo é mínimo x2", func(t *testing.T) {
		p := partWith("2", "10", nil)
		assert.True(t, stock.RefillTarget(p).Equal(dec("20")))
	})
}
