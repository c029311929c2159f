package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimento de estoque.
const (
	MovementTypeEntrada = "entrada" // soma Quantity ao estoque
	MovementTypeSaida   = "saida"   // subtrai Quantity do estoque
	MovementTypeAjuste  = "ajuste"  // Quantity é o novo valor absoluto
)

// Movement é a trilha de auditoria: uma mudança atômica e irreversível na
// quantidade de uma peça. Imutável depois de criado — nunca é atualizado nem
// apagado. Para todo movimento vale NewQuantity = PreviousQuantity ± Quantity
// (entrada/saida) ou NewQuantity = Quantity (ajuste).
type Movement struct {
	ID               string
	PartID           string
	Type             string
	Quantity         decimal.Decimal // magnitude do delta; valor absoluto no ajuste
	PreviousQuantity decimal.Decimal
	NewQuantity      decimal.Decimal
	Reason           string
	CreatedAt        time.Time
	Actor            string // identidade opaca para auditoria
}
