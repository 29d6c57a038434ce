package db

import (
	"context"

	"github.com/google/uuid"
)

type Querier interface {
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	MarkUserEmailVerified(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error)
	GetProductByID(ctx context.Context, id int64) (Product, error)
	GetProductForUpdate(ctx context.Context, id int64) (Product, error)
	GetProductBySlug(ctx context.Context, slug string) (Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	ListProductsBySeller(ctx context.Context, sellerID string) ([]Product, error)
	AddProductQuantity(ctx context.Context, arg AddProductQuantityParams) (Product, error)

	CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (Order, error)
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (Order, error)
	ListOrdersByBuyer(ctx context.Context, buyerID string) ([]Order, error)
	ListOrdersBySeller(ctx context.Context, sellerID string) ([]Order, error)
	ListOrdersByCourier(ctx context.Context, courierID string) ([]Order, error)
	ListConfirmedOrdersByCity(ctx context.Context, deliveryCity string) ([]Order, error)
	ListAllOrders(ctx context.Context) ([]Order, error)
	UpdateOrder(ctx context.Context, arg UpdateOrderParams) (Order, error)
	CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error)
	ListOrderItems(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error)

	CreateLedgerEntry(ctx context.Context, arg CreateLedgerEntryParams) (LedgerEntry, error)
	GetLedgerEntryByID(ctx context.Context, id int64) (LedgerEntry, error)
	ListLedgerEntriesByOrder(ctx context.Context, orderID uuid.UUID) ([]LedgerEntry, error)
	ListAllLedgerEntries(ctx context.Context) ([]LedgerEntry, error)
	ListPendingPayouts(ctx context.Context) ([]LedgerEntry, error)
	UpdateLedgerEntry(ctx context.Context, arg UpdateLedgerEntryParams) (LedgerEntry, error)

	CreateDispute(ctx context.Context, arg CreateDisputeParams) (Dispute, error)
	GetDisputeByID(ctx context.Context, id uuid.UUID) (Dispute, error)
	GetOpenDisputeByOrder(ctx context.Context, orderID uuid.UUID) (Dispute, error)
	ListDisputes(ctx context.Context) ([]Dispute, error)
	UpdateDispute(ctx context.Context, arg UpdateDisputeParams) (Dispute, error)

	CreateReturn(ctx context.Context, arg CreateReturnParams) (Return, error)
	GetReturnByID(ctx context.Context, id uuid.UUID) (Return, error)
	GetReturnForUpdate(ctx context.Context, id uuid.UUID) (Return, error)
	ListReturnsByOrder(ctx context.Context, orderID uuid.UUID) ([]Return, error)
	ListReturnsByUser(ctx context.Context, userID string) ([]Return, error)
	UpdateReturn(ctx context.Context, arg UpdateReturnParams) (Return, error)

	CreateOrderToken(ctx context.Context, arg CreateOrderTokenParams) (OrderToken, error)
	GetOrderTokenForUpdate(ctx context.Context, arg GetOrderTokenForUpdateParams) (OrderToken, error)
	MarkOrderTokenConsumed(ctx context.Context, id int64) (OrderToken, error)

	CreateNotification(ctx context.Context, arg CreateNotificationParams) (Notification, error)
	ListNotificationsByRecipient(ctx context.Context, recipientID string) ([]Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
}

var _ Querier = (*Queries)(nil)
