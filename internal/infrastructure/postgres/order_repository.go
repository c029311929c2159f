package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/facilgest/estoque-api/internal/domain"
	"github.com/facilgest/estoque-api/internal/domain/entity"
	"github.com/facilgest/estoque-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, customer_id, supplier_id, order_number, status, source,
	tracking_code, created_at, confirmed_at, shipped_at, received_at, received_by, received_notes`

// OrderRepo persistência de pedidos de reabastecimento e itens (usável com
// pool ou tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste o cabeçalho do pedido.
func (r *OrderRepo) Create(ctx context.Context, order *entity.ReplenishmentOrder) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	query := `
		INSERT INTO replenishment_orders (id, customer_id, supplier_id, order_number, status, source, tracking_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.CustomerID, order.SupplierID, order.OrderNumber,
		order.Status, order.Source, nullIfEmpty(order.TrackingCode), order.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order number already exists: %w", err)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItem persiste uma linha do pedido.
func (r *OrderRepo) CreateItem(ctx context.Context, item *entity.OrderItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	query := `
		INSERT INTO replenishment_order_items (id, order_id, part_id, quantity_requested, quantity_confirmed, quantity_shipped, quantity_received)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.OrderID, item.PartID, item.QuantityRequested,
		item.QuantityConfirmed, item.QuantityShipped, item.QuantityReceived,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

func scanOrder(row pgx.Row) (*entity.ReplenishmentOrder, error) {
	var o entity.ReplenishmentOrder
	var tracking, receivedBy, receivedNotes *string
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.SupplierID, &o.OrderNumber, &o.Status, &o.Source,
		&tracking, &o.CreatedAt, &o.ConfirmedAt, &o.ShippedAt, &o.ReceivedAt,
		&receivedBy, &receivedNotes,
	)
	if err != nil {
		return nil, err
	}
	if tracking != nil {
		o.TrackingCode = *tracking
	}
	if receivedBy != nil {
		o.ReceivedBy = *receivedBy
	}
	if receivedNotes != nil {
		o.ReceivedNotes = *receivedNotes
	}
	return &o, nil
}

// GetByID obtém o cabeçalho do pedido. Retorna (nil, nil) se não existir.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.ReplenishmentOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM replenishment_orders WHERE id = $1`
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// GetForUpdate obtém o pedido bloqueando a fila (SELECT FOR UPDATE): duas
// confirmações de recebimento concorrentes nunca passam ambas na pré-condição.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.ReplenishmentOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM replenishment_orders WHERE id = $1 FOR UPDATE`
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order for update: %w", err)
	}
	return o, nil
}

// ListItems lista as linhas do pedido.
func (r *OrderRepo) ListItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT id, order_id, part_id, quantity_requested, quantity_confirmed, quantity_shipped, quantity_received
		FROM replenishment_order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var list []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.PartID, &it.QuantityRequested,
			&it.QuantityConfirmed, &it.QuantityShipped, &it.QuantityReceived); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// ListByCustomer lista os pedidos do cliente, mais recentes primeiro, com
// itens aninhados.
func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.ReplenishmentOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM replenishment_orders
		WHERE customer_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.ReplenishmentOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range list {
		items, err := r.ListItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = make([]entity.OrderItem, 0, len(items))
		for _, it := range items {
			o.Items = append(o.Items, *it)
		}
	}
	return list, nil
}

// UpdateStatus grava uma transição simples (confirmado/enviado/cancelado).
// Os timestamps de transição são write-once: COALESCE preserva o valor já
// gravado.
func (r *OrderRepo) UpdateStatus(ctx context.Context, order *entity.ReplenishmentOrder) error {
	query := `
		UPDATE replenishment_orders
		SET status = $1,
		    confirmed_at = COALESCE(confirmed_at, $2),
		    shipped_at = COALESCE(shipped_at, $3),
		    tracking_code = COALESCE($4, tracking_code)
		WHERE id = $5`
	tag, err := r.q.Exec(ctx, query,
		order.Status, order.ConfirmedAt, order.ShippedAt,
		nullIfEmpty(order.TrackingCode), order.ID,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// UpdateItemQuantities grava as quantidades confirmada/enviada/recebida de uma
// linha. quantity_requested é imutável depois da criação.
func (r *OrderRepo) UpdateItemQuantities(ctx context.Context, item *entity.OrderItem) error {
	query := `
		UPDATE replenishment_order_items
		SET quantity_confirmed = $1, quantity_shipped = $2, quantity_received = $3
		WHERE id = $4`
	_, err := r.q.Exec(ctx, query,
		item.QuantityConfirmed, item.QuantityShipped, item.QuantityReceived, item.ID,
	)
	if err != nil {
		return fmt.Errorf("update order item: %w", err)
	}
	return nil
}

// MarkReceived fecha o pedido. O guard de status na cláusula WHERE é a última
// barreira contra duplo recebimento caso o caller não tenha usado o lock.
func (r *OrderRepo) MarkReceived(ctx context.Context, order *entity.ReplenishmentOrder) error {
	query := `
		UPDATE replenishment_orders
		SET status = $1, received_at = $2, received_by = $3, received_notes = $4
		WHERE id = $5 AND status = $6 AND received_at IS NULL`
	tag, err := r.q.Exec(ctx, query,
		entity.OrderStatusRecebido, order.ReceivedAt, order.ReceivedBy,
		nullIfEmpty(order.ReceivedNotes), order.ID, entity.OrderStatusEnviado,
	)
	if err != nil {
		return fmt.Errorf("mark order received: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// PartsOnOpenOrders devolve os IDs de peça presentes em pedidos não terminais.
func (r *OrderRepo) PartsOnOpenOrders(ctx context.Context, customerID string) (map[string]bool, error) {
	query := `
		SELECT DISTINCT i.part_id
		FROM replenishment_order_items i
		JOIN replenishment_orders o ON o.id = i.order_id
		WHERE o.customer_id = $1 AND o.status IN ($2, $3, $4)`
	rows, err := r.q.Query(ctx, query, customerID,
		entity.OrderStatusPendente, entity.OrderStatusConfirmado, entity.OrderStatusEnviado)
	if err != nil {
		return nil, fmt.Errorf("parts on open orders: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var partID string
		if err := rows.Scan(&partID); err != nil {
			return nil, fmt.Errorf("scan part id: %w", err)
		}
		out[partID] = true
	}
	return out, rows.Err()
}

// IncomingConfirmedByPart agrega a quantidade confirmada/enviada ainda não
// recebida, por peça (entrada prevista da calculadora de disponibilidade).
func (r *OrderRepo) IncomingConfirmedByPart(ctx context.Context, customerID string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT i.part_id, SUM(COALESCE(i.quantity_shipped, i.quantity_confirmed, i.quantity_requested))
		FROM replenishment_order_items i
		JOIN replenishment_orders o ON o.id = i.order_id
		WHERE o.customer_id = $1 AND o.status IN ($2, $3)
		GROUP BY i.part_id`
	rows, err := r.q.Query(ctx, query, customerID,
		entity.OrderStatusConfirmado, entity.OrderStatusEnviado)
	if err != nil {
		return nil, fmt.Errorf("incoming by part: %w", err)
	}
	defer rows.Close()

	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var partID string
		var qty decimal.Decimal
		if err := rows.Scan(&partID, &qty); err != nil {
			return nil, fmt.Errorf("scan incoming: %w", err)
		}
		out[partID] = qty
	}
	return out, rows.Err()
}
