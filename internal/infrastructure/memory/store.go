// Package memory implementa os repositórios em memória, usados nos testes de
// caso de uso e em execuções locais sem PostgreSQL.
package memory

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/facilgest/estoque-api/internal/domain/entity"
)

// Store guarda todo o estado em memória. O TxRunner tira um snapshot antes de
// cada transação e restaura no rollback, espelhando a semântica
// tudo-ou-nada do runner PostgreSQL.
type Store struct {
	mu           sync.Mutex
	parts        map[string]*entity.Part
	suppliers    map[string]*entity.Supplier
	movements    []*entity.Movement
	orders       map[string]*entity.ReplenishmentOrder
	items        map[string]*entity.OrderItem
	reservations map[string]decimal.Decimal // partID → reservado
}

// NewStore cria um estado vazio.
func NewStore() *Store {
	return &Store{
		parts:        make(map[string]*entity.Part),
		suppliers:    make(map[string]*entity.Supplier),
		orders:       make(map[string]*entity.ReplenishmentOrder),
		items:        make(map[string]*entity.OrderItem),
		reservations: make(map[string]decimal.Decimal),
	}
}

// SeedPart insere/substitui uma peça (setup de teste).
func (s *Store) SeedPart(p *entity.Part) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parts[p.ID] = clonePart(p)
}

// SeedSupplier insere um fornecedor no cadastro (setup de teste).
func (s *Store) SeedSupplier(sup *entity.Supplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sup
	s.suppliers[sup.ID] = &cp
}

// SeedReservation define a quantidade reservada de uma peça (setup de teste).
func (s *Store) SeedReservation(partID string, qty decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations[partID] = qty
}

// SeedOrder insere um pedido com seus itens (setup de teste).
func (s *Store) SeedOrder(o *entity.ReplenishmentOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID] = cloneOrder(o)
	for i := range o.Items {
		it := o.Items[i]
		s.items[it.ID] = cloneItem(&it)
	}
}

// PartQuantity devolve a quantidade corrente de uma peça (asserção de teste).
func (s *Store) PartQuantity(partID string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.parts[partID]; ok {
		return p.CurrentQuantity
	}
	return decimal.Zero
}

// Movements devolve uma cópia da trilha completa (asserção de teste).
func (s *Store) Movements() []*entity.Movement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Movement, 0, len(s.movements))
	for _, m := range s.movements {
		cp := *m
		out = append(out, &cp)
	}
	return out
}

// snapshot copia o estado inteiro (dentro de s.mu).
func (s *Store) snapshot() *Store {
	snap := NewStore()
	for id, p := range s.parts {
		snap.parts[id] = clonePart(p)
	}
	for id, sup := range s.suppliers {
		cp := *sup
		snap.suppliers[id] = &cp
	}
	snap.movements = make([]*entity.Movement, len(s.movements))
	for i, m := range s.movements {
		cp := *m
		snap.movements[i] = &cp
	}
	for id, o := range s.orders {
		snap.orders[id] = cloneOrder(o)
	}
	for id, it := range s.items {
		snap.items[id] = cloneItem(it)
	}
	for id, q := range s.reservations {
		snap.reservations[id] = q
	}
	return snap
}

// restore volta ao snapshot (dentro de s.mu).
func (s *Store) restore(snap *Store) {
	s.parts = snap.parts
	s.suppliers = snap.suppliers
	s.movements = snap.movements
	s.orders = snap.orders
	s.items = snap.items
	s.reservations = snap.reservations
}

func clonePart(p *entity.Part) *entity.Part {
	cp := *p
	if p.MaximumQuantity != nil {
		m := *p.MaximumQuantity
		cp.MaximumQuantity = &m
	}
	if p.SupplierID != nil {
		sid := *p.SupplierID
		cp.SupplierID = &sid
	}
	return &cp
}

func cloneOrder(o *entity.ReplenishmentOrder) *entity.ReplenishmentOrder {
	cp := *o
	cp.Items = nil
	if o.ConfirmedAt != nil {
		t := *o.ConfirmedAt
		cp.ConfirmedAt = &t
	}
	if o.ShippedAt != nil {
		t := *o.ShippedAt
		cp.ShippedAt = &t
	}
	if o.ReceivedAt != nil {
		t := *o.ReceivedAt
		cp.ReceivedAt = &t
	}
	return &cp
}

func cloneItem(it *entity.OrderItem) *entity.OrderItem {
	cp := *it
	if it.QuantityConfirmed != nil {
		q := *it.QuantityConfirmed
		cp.QuantityConfirmed = &q
	}
	if it.QuantityShipped != nil {
		q := *it.QuantityShipped
		cp.QuantityShipped = &q
	}
	if it.QuantityReceived != nil {
		q := *it.QuantityReceived
		cp.QuantityReceived = &q
	}
	return &cp
}
