package entity

import "time"

// Supplier representa a contraparte de reabastecimento. Cadastro gerenciado
// pelo catálogo (externo); aqui é somente leitura.
type Supplier struct {
	ID          string
	CustomerID  string
	Name        string
	ContactName string
	Email       string
	Phone       string
	CreatedAt   time.Time
}
