package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part representa uma peça/insumo de manutenção estocado (pool único de estoque
// por peça e cliente). CurrentQuantity é a soma corrente dos movimentos: só muda
// através do ledger, nunca por atribuição direta.
type Part struct {
	ID              string
	CustomerID      string
	CompanyID       string
	Module          string // domínio operacional (limpeza, manutenção, etc.)
	Name            string
	PartNumber      string // código externo opcional
	Unit            string // unidade de medida
	CurrentQuantity decimal.Decimal
	MinimumQuantity decimal.Decimal
	MaximumQuantity *decimal.Decimal // teto de reposição; nil = sem teto definido
	CostPrice       decimal.Decimal
	SupplierID      *string // fornecedor padrão para reabastecimento
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
