package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status do pedido de reabastecimento (máquina de estados explícita).
const (
	OrderStatusPendente   = "pendente"   // criado, aguardando confirmação do fornecedor
	OrderStatusConfirmado = "confirmado" // fornecedor aceitou, quantidades podem ser ajustadas
	OrderStatusEnviado    = "enviado"    // despachado, rastreio preenchido
	OrderStatusRecebido   = "recebido"   // terminal: estoque lançado
	OrderStatusCancelado  = "cancelado"  // terminal: sem efeito no estoque
)

// Origem do pedido.
const (
	OrderSourceManual = "manual"
	OrderSourceAuto   = "auto"
)

// orderTransitions é a tabela de transições válidas. O status só avança;
// qualquer estado não terminal pode ir para cancelado.
var orderTransitions = map[string][]string{
	OrderStatusPendente:   {OrderStatusConfirmado, OrderStatusCancelado},
	OrderStatusConfirmado: {OrderStatusEnviado, OrderStatusCancelado},
	OrderStatusEnviado:    {OrderStatusRecebido, OrderStatusCancelado},
}

// CanTransition informa se a transição from→to é permitida pela tabela.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus informa se o status não admite mais transições.
func IsTerminalStatus(status string) bool {
	return len(orderTransitions[status]) == 0
}

// ReplenishmentOrder é um pedido de restoque a um fornecedor. Timestamps de
// transição são gravados exatamente uma vez, na ordem das transições.
type ReplenishmentOrder struct {
	ID            string
	CustomerID    string
	SupplierID    string
	OrderNumber   string
	Status        string
	Source        string // manual | auto
	TrackingCode  string
	CreatedAt     time.Time
	ConfirmedAt   *time.Time
	ShippedAt     *time.Time
	ReceivedAt    *time.Time
	ReceivedBy    string
	ReceivedNotes string
	Items         []OrderItem
}

// OrderItem é uma linha do pedido. QuantityConfirmed/Shipped são preenchidas
// pelo fluxo do fornecedor; QuantityReceived no recebimento.
type OrderItem struct {
	ID                string
	OrderID           string
	PartID            string
	QuantityRequested decimal.Decimal
	QuantityConfirmed *decimal.Decimal
	QuantityShipped   *decimal.Decimal
	QuantityReceived  *decimal.Decimal
}

// ReceiptQuantity devolve a quantidade a lançar como entrada no recebimento:
// enviada ?? confirmada ?? solicitada.
func (it OrderItem) ReceiptQuantity() decimal.Decimal {
	if it.QuantityShipped != nil {
		return *it.QuantityShipped
	}
	if it.QuantityConfirmed != nil {
		return *it.QuantityConfirmed
	}
	return it.QuantityRequested
}
