package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/stock/movements.
// Para ajuste, quantity é o novo valor absoluto (pode ser zero).
type RecordMovementRequest struct {
	PartID   string          `json:"part_id"`
	Type     string          `json:"type"` // entrada | saida | ajuste
	Quantity decimal.Decimal `json:"quantity"`
	Reason   string          `json:"reason,omitempty"`
}

// MovementDTO movimento na resposta HTTP.
type MovementDTO struct {
	ID               string          `json:"id"`
	PartID           string          `json:"part_id"`
	Type             string          `json:"type"`
	Quantity         decimal.Decimal `json:"quantity"`
	PreviousQuantity decimal.Decimal `json:"previous_quantity"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	Reason           string          `json:"reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	Actor            string          `json:"actor"`
}

// PartWithAvailabilityDTO peça anotada com os campos derivados de
// disponibilidade (somente leitura; o ledger é dono apenas de current_quantity).
type PartWithAvailabilityDTO struct {
	ID                string           `json:"id"`
	Module            string           `json:"module"`
	Name              string           `json:"name"`
	PartNumber        string           `json:"part_number,omitempty"`
	Unit              string           `json:"unit"`
	CurrentQuantity   decimal.Decimal  `json:"current_quantity"`
	MinimumQuantity   decimal.Decimal  `json:"minimum_quantity"`
	MaximumQuantity   *decimal.Decimal `json:"maximum_quantity,omitempty"`
	CostPrice         decimal.Decimal  `json:"cost_price"`
	SupplierID        *string          `json:"supplier_id,omitempty"`
	IsActive          bool             `json:"is_active"`
	ReservedQuantity  decimal.Decimal  `json:"reserved_quantity"`
	IncomingConfirmed decimal.Decimal  `json:"incoming_confirmed_quantity"`
	ProjectedQuantity decimal.Decimal  `json:"projected_quantity"`
	IsLowStock        bool             `json:"is_low_stock"`
	IsProjectedLow    bool             `json:"is_projected_low"`
}
