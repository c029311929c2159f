package stock

import (
	"github.com/shopspring/decimal"

	"github.com/facilgest/estoque-api/internal/domain/entity"
)

// Availability é a foto de disponibilidade de uma peça: campos do ledger mais
// os derivados de demanda externa e pedidos em aberto. Decora o snapshot da
// peça sem mutar os campos que o ledger possui.
type Availability struct {
	CurrentQuantity   decimal.Decimal
	ReservedQuantity  decimal.Decimal
	IncomingConfirmed decimal.Decimal
	ProjectedQuantity decimal.Decimal
	IsLowStock        bool
	IsProjectedLow    bool
}

// Calculate deriva a disponibilidade. reserved vem do feed de demanda
// (compromissos de OS abertas); incoming é a soma confirmada/enviada de
// pedidos de reabastecimento ainda não recebidos.
// Projected = Current - Reserved + Incoming e pode ficar negativo: sinaliza
// déficit futuro mesmo com estoque físico ok hoje.
func Calculate(part *entity.Part, reserved, incoming decimal.Decimal) Availability {
	projected := part.CurrentQuantity.Sub(reserved).Add(incoming)
	return Availability{
		CurrentQuantity:   part.CurrentQuantity,
		ReservedQuantity:  reserved,
		IncomingConfirmed: incoming,
		ProjectedQuantity: projected,
		IsLowStock:        IsLowStock(part),
		IsProjectedLow:    projected.LessThanOrEqual(part.MinimumQuantity),
	}
}

// IsLowStock: falta física hoje (quantidade atual abaixo do mínimo).
func IsLowStock(part *entity.Part) bool {
	return part.CurrentQuantity.LessThan(part.MinimumQuantity)
}

// RefillTarget devolve o nível alvo de reposição da peça: o maior entre máximo
// e mínimo quando o máximo está definido; sem máximo, o fallback é mínimo × 2.
func RefillTarget(part *entity.Part) decimal.Decimal {
	if part.MaximumQuantity != nil {
		if part.MaximumQuantity.GreaterThan(part.MinimumQuantity) {
			return *part.MaximumQuantity
		}
		return part.MinimumQuantity
	}
	return part.MinimumQuantity.Mul(decimal.NewFromInt(2))
}
