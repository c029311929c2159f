package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/facilgest/estoque-api/internal/domain"
	"github.com/facilgest/estoque-api/internal/domain/entity"
	"github.com/facilgest/estoque-api/internal/domain/repository"
)

// Os repositórios em memória não tomam o mutex do Store: a sincronização fica
// no TxRunner (que segura o lock durante a transação inteira) e nos helpers de
// seed/asserção. Uso fora do TxRunner assume uma goroutine só.

var (
	_ repository.PartRepository     = (*PartRepo)(nil)
	_ repository.MovementRepository = (*MovementRepo)(nil)
	_ repository.OrderRepository    = (*OrderRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
	_ repository.DemandRepository   = (*DemandRepo)(nil)
)

// PartRepo implementação em memória de PartRepository.
type PartRepo struct{ store *Store }

// NewPartRepository constrói o adaptador sobre o Store.
func NewPartRepository(store *Store) *PartRepo { return &PartRepo{store: store} }

func (r *PartRepo) GetByID(_ context.Context, id string) (*entity.Part, error) {
	p, ok := r.store.parts[id]
	if !ok {
		return nil, nil
	}
	return clonePart(p), nil
}

// GetForUpdate em memória é igual ao GetByID: a exclusão vem do lock do
// TxRunner.
func (r *PartRepo) GetForUpdate(ctx context.Context, id string) (*entity.Part, error) {
	return r.GetByID(ctx, id)
}

func (r *PartRepo) UpdateQuantity(_ context.Context, partID string, previousQty, newQty decimal.Decimal) error {
	p, ok := r.store.parts[partID]
	if !ok {
		return domain.ErrPartNotFound
	}
	if !p.CurrentQuantity.Equal(previousQty) {
		return domain.ErrConflict
	}
	p.CurrentQuantity = newQty
	return nil
}

func (r *PartRepo) ListByCustomer(_ context.Context, customerID, module string) ([]*entity.Part, error) {
	var list []*entity.Part
	for _, p := range r.store.parts {
		if p.CustomerID != customerID {
			continue
		}
		if module != "" && p.Module != module {
			continue
		}
		list = append(list, clonePart(p))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *PartRepo) ListLowStock(_ context.Context, customerID string) ([]*entity.Part, error) {
	var list []*entity.Part
	for _, p := range r.store.parts {
		if p.CustomerID != customerID || !p.IsActive {
			continue
		}
		if p.CurrentQuantity.LessThan(p.MinimumQuantity) {
			list = append(list, clonePart(p))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// MovementRepo implementação em memória de MovementRepository (append-only).
type MovementRepo struct{ store *Store }

// NewMovementRepository constrói o adaptador sobre o Store.
func NewMovementRepository(store *Store) *MovementRepo { return &MovementRepo{store: store} }

func (r *MovementRepo) Create(_ context.Context, movement *entity.Movement) error {
	cp := *movement
	r.store.movements = append(r.store.movements, &cp)
	return nil
}

func (r *MovementRepo) ListByPart(_ context.Context, partID string, limit, offset int) ([]*entity.Movement, error) {
	var list []*entity.Movement
	for _, m := range r.store.movements {
		if m.PartID == partID {
			cp := *m
			list = append(list, &cp)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	if offset >= len(list) {
		return nil, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

// OrderRepo implementação em memória de OrderRepository.
type OrderRepo struct{ store *Store }

// NewOrderRepository constrói o adaptador sobre o Store.
func NewOrderRepository(store *Store) *OrderRepo { return &OrderRepo{store: store} }

func (r *OrderRepo) Create(_ context.Context, order *entity.ReplenishmentOrder) error {
	r.store.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *OrderRepo) CreateItem(_ context.Context, item *entity.OrderItem) error {
	r.store.items[item.ID] = cloneItem(item)
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.ReplenishmentOrder, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.ReplenishmentOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) ListItems(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	var list []*entity.OrderItem
	for _, it := range r.store.items {
		if it.OrderID == orderID {
			list = append(list, cloneItem(it))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.ReplenishmentOrder, error) {
	var list []*entity.ReplenishmentOrder
	for _, o := range r.store.orders {
		if o.CustomerID != customerID {
			continue
		}
		cp := cloneOrder(o)
		items, _ := r.ListItems(ctx, o.ID)
		for _, it := range items {
			cp.Items = append(cp.Items, *it)
		}
		list = append(list, cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *OrderRepo) UpdateStatus(_ context.Context, order *entity.ReplenishmentOrder) error {
	cur, ok := r.store.orders[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	cur.Status = order.Status
	if cur.ConfirmedAt == nil {
		cur.ConfirmedAt = order.ConfirmedAt
	}
	if cur.ShippedAt == nil {
		cur.ShippedAt = order.ShippedAt
	}
	if order.TrackingCode != "" {
		cur.TrackingCode = order.TrackingCode
	}
	return nil
}

func (r *OrderRepo) UpdateItemQuantities(_ context.Context, item *entity.OrderItem) error {
	cur, ok := r.store.items[item.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	cur.QuantityConfirmed = item.QuantityConfirmed
	cur.QuantityShipped = item.QuantityShipped
	cur.QuantityReceived = item.QuantityReceived
	return nil
}

func (r *OrderRepo) MarkReceived(_ context.Context, order *entity.ReplenishmentOrder) error {
	cur, ok := r.store.orders[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if cur.Status != entity.OrderStatusEnviado || cur.ReceivedAt != nil {
		return domain.ErrInvalidTransition
	}
	cur.Status = entity.OrderStatusRecebido
	cur.ReceivedAt = order.ReceivedAt
	cur.ReceivedBy = order.ReceivedBy
	cur.ReceivedNotes = order.ReceivedNotes
	return nil
}

func (r *OrderRepo) PartsOnOpenOrders(_ context.Context, customerID string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, it := range r.store.items {
		o, ok := r.store.orders[it.OrderID]
		if !ok || o.CustomerID != customerID || entity.IsTerminalStatus(o.Status) {
			continue
		}
		out[it.PartID] = true
	}
	return out, nil
}

func (r *OrderRepo) IncomingConfirmedByPart(_ context.Context, customerID string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for _, it := range r.store.items {
		o, ok := r.store.orders[it.OrderID]
		if !ok || o.CustomerID != customerID {
			continue
		}
		if o.Status != entity.OrderStatusConfirmado && o.Status != entity.OrderStatusEnviado {
			continue
		}
		cur, ok := out[it.PartID]
		if !ok {
			cur = decimal.Zero
		}
		out[it.PartID] = cur.Add(it.ReceiptQuantity())
	}
	return out, nil
}

// SupplierRepo leitura do cadastro de fornecedores em memória.
type SupplierRepo struct{ store *Store }

// NewSupplierRepository constrói o adaptador sobre o Store.
func NewSupplierRepository(store *Store) *SupplierRepo { return &SupplierRepo{store: store} }

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	sup, ok := r.store.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *sup
	return &cp, nil
}

func (r *SupplierRepo) ListByCustomer(_ context.Context, customerID string) ([]*entity.Supplier, error) {
	var list []*entity.Supplier
	for _, sup := range r.store.suppliers {
		if sup.CustomerID != customerID {
			continue
		}
		cp := *sup
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// DemandRepo feed de demanda em memória.
type DemandRepo struct{ store *Store }

// NewDemandRepository constrói o adaptador sobre o Store.
func NewDemandRepository(store *Store) *DemandRepo { return &DemandRepo{store: store} }

func (r *DemandRepo) ReservedQuantityFor(_ context.Context, partID string) (decimal.Decimal, error) {
	if q, ok := r.store.reservations[partID]; ok {
		return q, nil
	}
	return decimal.Zero, nil
}

func (r *DemandRepo) ReservedQuantities(_ context.Context, customerID string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for partID, q := range r.store.reservations {
		if p, ok := r.store.parts[partID]; ok && p.CustomerID == customerID {
			out[partID] = q
		}
	}
	return out, nil
}
