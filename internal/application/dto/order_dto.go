package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GenerateOrdersSummaryDTO resultado agregado do planejador.
type GenerateOrdersSummaryDTO struct {
	OrdersCreated  int                    `json:"orders_created"`
	TotalValue     decimal.Decimal        `json:"total_value"`
	SkippedParts   []SkippedPartDTO       `json:"skipped_parts"`
	AlreadyOnOrder []string               `json:"already_on_order,omitempty"` // part IDs com pedido aberto
	Orders         []ReplenishmentOrderDTO `json:"orders"`
}

// SkippedPartDTO peça em falta que o planejador pulou (nunca descartada em
// silêncio).
type SkippedPartDTO struct {
	PartID string `json:"part_id"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// CreateOrderRequest body para POST /orders (pedido manual).
type CreateOrderRequest struct {
	SupplierID string                     `json:"supplier_id"`
	Items      map[string]decimal.Decimal `json:"items"` // partID → quantidade solicitada
}

// ConfirmOrderRequest body para POST /orders/:id/confirm.
type ConfirmOrderRequest struct {
	ItemQuantities map[string]decimal.Decimal `json:"item_quantities,omitempty"` // partID → qty confirmada
}

// ShipOrderRequest body para POST /orders/:id/ship.
type ShipOrderRequest struct {
	TrackingCode   string                     `json:"tracking_code,omitempty"`
	ItemQuantities map[string]decimal.Decimal `json:"item_quantities,omitempty"` // partID → qty enviada
}

// ReceiveOrderRequest body para POST /orders/:id/receive.
type ReceiveOrderRequest struct {
	Notes string `json:"notes,omitempty"`
}

// OrderItemDTO linha do pedido na resposta HTTP.
type OrderItemDTO struct {
	ID                string           `json:"id"`
	PartID            string           `json:"part_id"`
	QuantityRequested decimal.Decimal  `json:"quantity_requested"`
	QuantityConfirmed *decimal.Decimal `json:"quantity_confirmed,omitempty"`
	QuantityShipped   *decimal.Decimal `json:"quantity_shipped,omitempty"`
	QuantityReceived  *decimal.Decimal `json:"quantity_received,omitempty"`
}

// ReplenishmentOrderDTO pedido com itens aninhados.
type ReplenishmentOrderDTO struct {
	ID            string         `json:"id"`
	SupplierID    string         `json:"supplier_id"`
	OrderNumber   string         `json:"order_number"`
	Status        string         `json:"status"`
	Source        string         `json:"source"`
	TrackingCode  string         `json:"tracking_code,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	ConfirmedAt   *time.Time     `json:"confirmed_at,omitempty"`
	ShippedAt     *time.Time     `json:"shipped_at,omitempty"`
	ReceivedAt    *time.Time     `json:"received_at,omitempty"`
	ReceivedBy    string         `json:"received_by,omitempty"`
	ReceivedNotes string         `json:"received_notes,omitempty"`
	Items         []OrderItemDTO `json:"items"`
}
