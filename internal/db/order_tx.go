package db

import (
	"context"
	"fmt"
	"time"

	"github.com/gogomarket/gogomarket-BE/internal/ordertoken"
	"github.com/gogomarket/gogomarket-BE/internal/util"
	"github.com/google/uuid"
)

type OrderItemSpec struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int64 `json:"quantity" binding:"required,min=1"`
}

type CreateOrderTxParams struct {
	BuyerID         string
	SellerID        string
	PaymentMethod   PaymentMethod
	CourierFee      int64
	DeliveryAddress string
	DeliveryCity    string
	DeliveryPhone   string
	Note            *string
	Items           []OrderItemSpec
}

type CreateOrderTxResult struct {
	Order      Order       `json:"order"`
	OrderItems []OrderItem `json:"order_items"`
}

// CreateOrderTx creates a pending order together with its items, reserving
// product stock. The platform commission is computed from the items subtotal
// once here and never recomputed afterwards.
func (store *SQLStore) CreateOrderTx(ctx context.Context, arg CreateOrderTxParams) (CreateOrderTxResult, error) {
	var result CreateOrderTxResult

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		var itemsSubtotal int64
		products := make([]Product, 0, len(arg.Items))

		// 1. Lock each product row and reserve stock
		for _, item := range arg.Items {
			product, err := qTx.GetProductForUpdate(ctx, item.ProductID)
			if err != nil {
				return fmt.Errorf("failed to get product %d: %w", item.ProductID, err)
			}

			if product.SellerID != arg.SellerID {
				return fmt.Errorf("product %d does not belong to seller %s", product.ID, arg.SellerID)
			}

			if product.Status != ProductStatusActive {
				return fmt.Errorf("product %q is not available", product.Name)
			}

			if product.Quantity < item.Quantity {
				return fmt.Errorf("insufficient stock for %q: available %d, requested %d",
					product.Name, product.Quantity, item.Quantity)
			}

			_, err = qTx.AddProductQuantity(ctx, AddProductQuantityParams{
				ID:     product.ID,
				Amount: -item.Quantity,
			})
			if err != nil {
				return fmt.Errorf("failed to reserve stock: %w", err)
			}

			itemsSubtotal += product.Price * item.Quantity
			products = append(products, product)
		}

		orderID, _ := uuid.NewV7()
		commission := CommissionAmount(itemsSubtotal)

		// 2. Create the order
		order, err := qTx.CreateOrder(ctx, CreateOrderParams{
			ID:                 orderID,
			OrderNumber:        util.GenerateOrderNumber(),
			BuyerID:            arg.BuyerID,
			SellerID:           arg.SellerID,
			ItemsSubtotal:      itemsSubtotal,
			CourierFee:         arg.CourierFee,
			PlatformCommission: commission,
			TotalAmount:        itemsSubtotal + arg.CourierFee,
			Status:             OrderStatusPending,
			PaymentMethod:      arg.PaymentMethod,
			DeliveryAddress:    arg.DeliveryAddress,
			DeliveryCity:       arg.DeliveryCity,
			DeliveryPhone:      arg.DeliveryPhone,
			Note:               arg.Note,
		})
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		result.Order = order

		// 3. Create the order items as a price snapshot
		for i, item := range arg.Items {
			orderItem, err := qTx.CreateOrderItem(ctx, CreateOrderItemParams{
				OrderID:   order.ID,
				ProductID: products[i].ID,
				Name:      products[i].Name,
				UnitPrice: products[i].Price,
				Quantity:  item.Quantity,
			})
			if err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
			result.OrderItems = append(result.OrderItems, orderItem)
		}

		return nil
	})

	return result, err
}

type ConfirmOrderTxParams struct {
	OrderID  uuid.UUID
	SellerID string
}

type ConfirmOrderTxResult struct {
	Order           Order       `json:"order"`
	CommissionEntry LedgerEntry `json:"commission_entry"`
	PickupToken     OrderToken  `json:"pickup_token"`
}

// ConfirmOrderTx moves a pending order to confirmed. It holds the platform
// commission on the ledger and issues the pickup token the seller will show
// to the courier. Card orders must be paid before the seller can confirm.
func (store *SQLStore) ConfirmOrderTx(ctx context.Context, arg ConfirmOrderTxParams) (ConfirmOrderTxResult, error) {
	var result ConfirmOrderTxResult

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		// 1. Lock the order row
		order, err := qTx.GetOrderForUpdate(ctx, arg.OrderID)
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}

		if order.SellerID != arg.SellerID {
			return fmt.Errorf("order %s does not belong to seller %s", order.OrderNumber, arg.SellerID)
		}

		if err = ValidateTransition(order.Status, OrderStatusConfirmed); err != nil {
			return err
		}

		if order.PaymentMethod == PaymentMethodCard && !order.IsPaid {
			return fmt.Errorf("%w: order %s is not paid yet", ErrPaymentFailure, order.OrderNumber)
		}

		// 2. Hold the commission
		result.CommissionEntry, err = qTx.CreateLedgerEntry(ctx, CreateLedgerEntryParams{
			OrderID: order.ID,
			Type:    LedgerEntryTypeCommission,
			Amount:  order.PlatformCommission,
			Status:  LedgerEntryStatusHeld,
		})
		if err != nil {
			return fmt.Errorf("failed to hold commission: %w", err)
		}

		// 3. Issue the pickup token
		result.PickupToken, err = qTx.CreateOrderToken(ctx, CreateOrderTokenParams{
			OrderID: order.ID,
			Kind:    OrderTokenKindPickup,
			Code:    ordertoken.NewPickupToken(),
		})
		if err != nil {
			return fmt.Errorf("failed to create pickup token: %w", err)
		}

		// 4. Advance the order
		result.Order, err = qTx.UpdateOrder(ctx, UpdateOrderParams{
			ID:     order.ID,
			Status: statusPointer(OrderStatusConfirmed),
		})
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		return nil
	})

	return result, err
}

type CancelOrderTxParams struct {
	OrderID     uuid.UUID
	CancelledBy string
	Reason      string
}

type CancelOrderTxResult struct {
	Order       Order        `json:"order"`
	RefundEntry *LedgerEntry `json:"refund_entry,omitempty"`
}

// CancelOrderTx cancels a pending order. A captured payment is refunded in
// full, a held commission is voided, and reserved stock is restored.
func (store *SQLStore) CancelOrderTx(ctx context.Context, arg CancelOrderTxParams) (CancelOrderTxResult, error) {
	var result CancelOrderTxResult

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		// 1. Lock the order row
		order, err := qTx.GetOrderForUpdate(ctx, arg.OrderID)
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}

		if err = ValidateTransition(order.Status, OrderStatusCancelled); err != nil {
			return err
		}

		entries, err := qTx.ListLedgerEntriesByOrder(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("failed to list ledger entries: %w", err)
		}

		// 2. Refund a captured payment in full
		if payment := CapturedPayment(entries); payment != nil {
			refund := payment.Amount - RefundedAmount(entries)
			if refund > 0 {
				if err = ValidateRefund(entries, refund); err != nil {
					return err
				}

				entry, err := qTx.CreateLedgerEntry(ctx, CreateLedgerEntryParams{
					OrderID:     order.ID,
					Type:        LedgerEntryTypeRefund,
					PayeeID:     &order.BuyerID,
					Amount:      refund,
					Status:      LedgerEntryStatusCompleted,
					CompletedAt: util.TimePointer(time.Now()),
				})
				if err != nil {
					return fmt.Errorf("failed to create refund entry: %w", err)
				}
				result.RefundEntry = &entry
			}
		}

		// 3. Void a pending payment so a late gateway callback cannot
		// capture money for the cancelled order
		if pending := PendingPayment(entries); pending != nil {
			_, err = qTx.UpdateLedgerEntry(ctx, UpdateLedgerEntryParams{
				ID:     pending.ID,
				Status: entryStatusPointer(LedgerEntryStatusFailed),
			})
			if err != nil {
				return fmt.Errorf("failed to void pending payment: %w", err)
			}
		}

		// 4. Void a held commission
		if held := HeldCommission(entries); held != nil {
			_, err = qTx.UpdateLedgerEntry(ctx, UpdateLedgerEntryParams{
				ID:     held.ID,
				Status: entryStatusPointer(LedgerEntryStatusFailed),
			})
			if err != nil {
				return fmt.Errorf("failed to void commission: %w", err)
			}
		}

		// 5. Restore reserved stock
		items, err := qTx.ListOrderItems(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("failed to list order items: %w", err)
		}
		for _, item := range items {
			_, err = qTx.AddProductQuantity(ctx, AddProductQuantityParams{
				ID:     item.ProductID,
				Amount: item.Quantity,
			})
			if err != nil {
				return fmt.Errorf("failed to restore stock: %w", err)
			}
		}

		// 6. Advance the order
		result.Order, err = qTx.UpdateOrder(ctx, UpdateOrderParams{
			ID:              order.ID,
			Status:          statusPointer(OrderStatusCancelled),
			CancelledBy:     &arg.CancelledBy,
			CancelledReason: &arg.Reason,
		})
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		return nil
	})

	return result, err
}

type PickupOrderTxParams struct {
	OrderID        uuid.UUID
	CourierID      string
	PickupCode     string
	PickupPhotoURL *string
}

// PickupOrderTx assigns the scanning courier to a confirmed order and moves
// it to picked_up. The pickup token is single-use: a second scan fails with
// ErrTokenAlreadyConsumed even when the code matches.
func (store *SQLStore) PickupOrderTx(ctx context.Context, arg PickupOrderTxParams) (Order, error) {
	var updatedOrder Order

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		// 1. Lock the order row
		order, err := qTx.GetOrderForUpdate(ctx, arg.OrderID)
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}

		if err = ValidateTransition(order.Status, OrderStatusPickedUp); err != nil {
			return err
		}

		// 2. Consume the pickup token
		token, err := qTx.GetOrderTokenForUpdate(ctx, GetOrderTokenForUpdateParams{
			OrderID: order.ID,
			Kind:    OrderTokenKindPickup,
		})
		if err != nil {
			return fmt.Errorf("failed to get pickup token: %w", err)
		}

		if err = token.Consume(arg.PickupCode, time.Now()); err != nil {
			return err
		}

		if _, err = qTx.MarkOrderTokenConsumed(ctx, token.ID); err != nil {
			return fmt.Errorf("failed to consume pickup token: %w", err)
		}

		// 3. Assign the courier and advance the order
		updatedOrder, err = qTx.UpdateOrder(ctx, UpdateOrderParams{
			ID:             order.ID,
			Status:         statusPointer(OrderStatusPickedUp),
			CourierID:      &arg.CourierID,
			PickupPhotoURL: arg.PickupPhotoURL,
		})
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		return nil
	})

	return updatedOrder, err
}

type DepartOrderTxParams struct {
	OrderID   uuid.UUID
	CourierID string
}

type DepartOrderTxResult struct {
	Order Order `json:"order"`
	// DeliveryToken holds the 6-digit code sent to the buyer. It is never
	// exposed to the courier.
	DeliveryToken OrderToken `json:"-"`
}

// DepartOrderTx moves a picked_up order to in_transit and issues the
// delivery code for the buyer.
func (store *SQLStore) DepartOrderTx(ctx context.Context, arg DepartOrderTxParams) (DepartOrderTxResult, error) {
	var result DepartOrderTxResult

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		// 1. Lock the order row
		order, err := qTx.GetOrderForUpdate(ctx, arg.OrderID)
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}

		if order.CourierID == nil || *order.CourierID != arg.CourierID {
			return fmt.Errorf("order %s is not assigned to courier %s", order.OrderNumber, arg.CourierID)
		}

		if err = ValidateTransition(order.Status, OrderStatusInTransit); err != nil {
			return err
		}

		// 2. Issue the delivery code
		code, err := ordertoken.NewDeliveryCode()
		if err != nil {
			return fmt.Errorf("failed to generate delivery code: %w", err)
		}

		result.DeliveryToken, err = qTx.CreateOrderToken(ctx, CreateOrderTokenParams{
			OrderID: order.ID,
			Kind:    OrderTokenKindDelivery,
			Code:    code,
		})
		if err != nil {
			return fmt.Errorf("failed to create delivery token: %w", err)
		}

		// 3. Advance the order
		result.Order, err = qTx.UpdateOrder(ctx, UpdateOrderParams{
			ID:     order.ID,
			Status: statusPointer(OrderStatusInTransit),
		})
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		return nil
	})

	return result, err
}

type DeliverOrderTxParams struct {
	OrderID      uuid.UUID
	CourierID    string
	DeliveryCode string
}

type DeliverOrderTxResult struct {
	Order Order `json:"order"`
	// PaymentEntry is set for cash orders, recorded when cash changes hands.
	PaymentEntry *LedgerEntry  `json:"payment_entry,omitempty"`
	Payouts      []LedgerEntry `json:"payouts"`
}

// DeliverOrderTx completes the happy path: the buyer's delivery code is
// consumed, the order settles, the held commission completes and pending
// payouts are appended for the seller and the courier. For cash orders the
// payment entry is recorded here.
func (store *SQLStore) DeliverOrderTx(ctx context.Context, arg DeliverOrderTxParams) (DeliverOrderTxResult, error) {
	var result DeliverOrderTxResult

	err := store.ExecTx(ctx, func(qTx *Queries) error {
		// 1. Lock the order row
		order, err := qTx.GetOrderForUpdate(ctx, arg.OrderID)
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}

		if order.CourierID == nil || *order.CourierID != arg.CourierID {
			return fmt.Errorf("order %s is not assigned to courier %s", order.OrderNumber, arg.CourierID)
		}

		if err = ValidateTransition(order.Status, OrderStatusDelivered); err != nil {
			return err
		}

		// 2. Consume the delivery code
		token, err := qTx.GetOrderTokenForUpdate(ctx, GetOrderTokenForUpdateParams{
			OrderID: order.ID,
			Kind:    OrderTokenKindDelivery,
		})
		if err != nil {
			return fmt.Errorf("failed to get delivery token: %w", err)
		}

		if err = token.Consume(arg.DeliveryCode, time.Now()); err != nil {
			return err
		}

		if _, err = qTx.MarkOrderTokenConsumed(ctx, token.ID); err != nil {
			return fmt.Errorf("failed to consume delivery token: %w", err)
		}

		// 3. Settle the ledger
		entries, err := qTx.ListLedgerEntriesByOrder(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("failed to list ledger entries: %w", err)
		}

		plan, err := BuildSettlementPlan(order, entries)
		if err != nil {
			return err
		}

		now := time.Now()

		if plan.RecordCashPayment {
			entry, err := qTx.CreateLedgerEntry(ctx, CreateLedgerEntryParams{
				OrderID:     order.ID,
				Type:        LedgerEntryTypePayment,
				PayeeID:     &order.BuyerID,
				Amount:      order.TotalAmount,
				Status:      LedgerEntryStatusCompleted,
				CompletedAt: &now,
			})
			if err != nil {
				return fmt.Errorf("failed to record cash payment: %w", err)
			}
			result.PaymentEntry = &entry
		}

		_, err = qTx.UpdateLedgerEntry(ctx, UpdateLedgerEntryParams{
			ID:          plan.CommissionEntryID,
			Status:      entryStatusPointer(LedgerEntryStatusCompleted),
			CompletedAt: &now,
		})
		if err != nil {
			return fmt.Errorf("failed to release commission: %w", err)
		}

		for _, payout := range plan.Payouts {
			entry, err := qTx.CreateLedgerEntry(ctx, CreateLedgerEntryParams{
				OrderID: order.ID,
				Type:    LedgerEntryTypePayout,
				PayeeID: util.StringPointer(payout.PayeeID),
				Amount:  payout.Amount,
				Status:  LedgerEntryStatusPending,
			})
			if err != nil {
				return fmt.Errorf("failed to create payout entry: %w", err)
			}
			result.Payouts = append(result.Payouts, entry)
		}

		// 4. Advance the order
		result.Order, err = qTx.UpdateOrder(ctx, UpdateOrderParams{
			ID:     order.ID,
			Status: statusPointer(OrderStatusDelivered),
			IsPaid: util.BoolPointer(true),
		})
		if err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		return nil
	})

	return result, err
}

func statusPointer(s OrderStatus) *OrderStatus {
	return &s
}

func entryStatusPointer(s LedgerEntryStatus) *LedgerEntryStatus {
	return &s
}
