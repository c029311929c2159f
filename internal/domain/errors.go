package domain

import "errors"

// Erros de domínio (sem dependências externas). Recurso de outro cliente
// responde como não encontrado, nunca como acesso negado.
var (
	ErrPartNotFound      = errors.New("peça não encontrada")
	ErrPartInactive      = errors.New("peça desativada")
	ErrSupplierNotFound  = errors.New("fornecedor não encontrado")
	ErrOrderNotFound     = errors.New("pedido de reabastecimento não encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidMagnitude  = errors.New("quantidade inválida")
	ErrInsufficientStock = errors.New("estoque insuficiente")
	ErrInvalidTransition = errors.New("transição de status inválida")
	ErrConflict          = errors.New("conflito de escrita concorrente")
	ErrSupplierMissing   = errors.New("peça sem fornecedor padrão")
)
