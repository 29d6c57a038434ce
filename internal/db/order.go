package db

import (
	"context"

	"github.com/google/uuid"
)

const orderColumns = `id, order_number, buyer_id, seller_id, courier_id, items_subtotal, courier_fee, platform_commission, total_amount, status, payment_method, is_paid, delivery_address, delivery_city, delivery_phone, pickup_photo_url, note, cancelled_by, cancelled_reason, created_at, updated_at`

const createOrder = `
INSERT INTO orders (id, order_number, buyer_id, seller_id, items_subtotal, courier_fee, platform_commission, total_amount, status, payment_method, delivery_address, delivery_city, delivery_phone, note)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING ` + orderColumns

type CreateOrderParams struct {
	ID                 uuid.UUID
	OrderNumber        string
	BuyerID            string
	SellerID           string
	ItemsSubtotal      int64
	CourierFee         int64
	PlatformCommission int64
	TotalAmount        int64
	Status             OrderStatus
	PaymentMethod      PaymentMethod
	DeliveryAddress    string
	DeliveryCity       string
	DeliveryPhone      string
	Note               *string
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.ID,
		arg.OrderNumber,
		arg.BuyerID,
		arg.SellerID,
		arg.ItemsSubtotal,
		arg.CourierFee,
		arg.PlatformCommission,
		arg.TotalAmount,
		arg.Status,
		arg.PaymentMethod,
		arg.DeliveryAddress,
		arg.DeliveryCity,
		arg.DeliveryPhone,
		arg.Note,
	)
	return scanOrder(row)
}

const getOrderByID = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrderByID(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderByID, id))
}

const getOrderForUpdate = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
FOR UPDATE
`

// GetOrderForUpdate locks the order row for the duration of the enclosing
// transaction. Every state-machine transition starts here, which serializes
// all writers of one order.
func (q *Queries) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderForUpdate, id))
}

const getOrderByNumber = `
SELECT ` + orderColumns + `
FROM orders
WHERE order_number = $1
`

func (q *Queries) GetOrderByNumber(ctx context.Context, orderNumber string) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderByNumber, orderNumber))
}

const listOrdersByBuyer = `
SELECT ` + orderColumns + `
FROM orders
WHERE buyer_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListOrdersByBuyer(ctx context.Context, buyerID string) ([]Order, error) {
	return q.listOrders(ctx, listOrdersByBuyer, buyerID)
}

const listOrdersBySeller = `
SELECT ` + orderColumns + `
FROM orders
WHERE seller_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListOrdersBySeller(ctx context.Context, sellerID string) ([]Order, error) {
	return q.listOrders(ctx, listOrdersBySeller, sellerID)
}

const listOrdersByCourier = `
SELECT ` + orderColumns + `
FROM orders
WHERE courier_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListOrdersByCourier(ctx context.Context, courierID string) ([]Order, error) {
	return q.listOrders(ctx, listOrdersByCourier, courierID)
}

const listConfirmedOrdersByCity = `
SELECT ` + orderColumns + `
FROM orders
WHERE status = 'confirmed' AND courier_id IS NULL AND delivery_city = $1
ORDER BY created_at
`

// ListConfirmedOrdersByCity lists orders waiting for a courier pickup in a city.
func (q *Queries) ListConfirmedOrdersByCity(ctx context.Context, deliveryCity string) ([]Order, error) {
	return q.listOrders(ctx, listConfirmedOrdersByCity, deliveryCity)
}

const listAllOrders = `
SELECT ` + orderColumns + `
FROM orders
ORDER BY created_at DESC
`

func (q *Queries) ListAllOrders(ctx context.Context) ([]Order, error) {
	return q.listOrders(ctx, listAllOrders)
}

func (q *Queries) listOrders(ctx context.Context, query string, args ...interface{}) ([]Order, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

const updateOrder = `
UPDATE orders
SET status = COALESCE($2, status),
    courier_id = COALESCE($3, courier_id),
    is_paid = COALESCE($4, is_paid),
    pickup_photo_url = COALESCE($5, pickup_photo_url),
    cancelled_by = COALESCE($6, cancelled_by),
    cancelled_reason = COALESCE($7, cancelled_reason),
    updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns

type UpdateOrderParams struct {
	ID              uuid.UUID
	Status          *OrderStatus
	CourierID       *string
	IsPaid          *bool
	PickupPhotoURL  *string
	CancelledBy     *string
	CancelledReason *string
}

func (q *Queries) UpdateOrder(ctx context.Context, arg UpdateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, updateOrder,
		arg.ID,
		arg.Status,
		arg.CourierID,
		arg.IsPaid,
		arg.PickupPhotoURL,
		arg.CancelledBy,
		arg.CancelledReason,
	)
	return scanOrder(row)
}

const createOrderItem = `
INSERT INTO order_items (order_id, product_id, name, unit_price, quantity)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, order_id, product_id, name, unit_price, quantity
`

type CreateOrderItemParams struct {
	OrderID   uuid.UUID
	ProductID int64
	Name      string
	UnitPrice int64
	Quantity  int64
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID,
		arg.ProductID,
		arg.Name,
		arg.UnitPrice,
		arg.Quantity,
	)
	var item OrderItem
	err := row.Scan(
		&item.ID,
		&item.OrderID,
		&item.ProductID,
		&item.Name,
		&item.UnitPrice,
		&item.Quantity,
	)
	return item, err
}

const listOrderItems = `
SELECT id, order_id, product_id, name, unit_price, quantity
FROM order_items
WHERE order_id = $1
ORDER BY id
`

func (q *Queries) ListOrderItems(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItems, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var item OrderItem
		if err = rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Name,
			&item.UnitPrice,
			&item.Quantity,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanOrder(row rowScanner) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.BuyerID,
		&o.SellerID,
		&o.CourierID,
		&o.ItemsSubtotal,
		&o.CourierFee,
		&o.PlatformCommission,
		&o.TotalAmount,
		&o.Status,
		&o.PaymentMethod,
		&o.IsPaid,
		&o.DeliveryAddress,
		&o.DeliveryCity,
		&o.DeliveryPhone,
		&o.PickupPhotoURL,
		&o.Note,
		&o.CancelledBy,
		&o.CancelledReason,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}
