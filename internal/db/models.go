package db

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleBuyer   UserRole = "buyer"
	UserRoleSeller  UserRole = "seller"
	UserRoleCourier UserRole = "courier"
	UserRoleAdmin   UserRole = "admin"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPickedUp  OrderStatus = "picked_up"
	OrderStatusInTransit OrderStatus = "in_transit"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusDisputed  OrderStatus = "disputed"
)

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

type LedgerEntryType string

const (
	LedgerEntryTypePayment    LedgerEntryType = "payment"
	LedgerEntryTypeCommission LedgerEntryType = "commission"
	LedgerEntryTypePayout     LedgerEntryType = "payout"
	LedgerEntryTypeRefund     LedgerEntryType = "refund"
)

type LedgerEntryStatus string

const (
	LedgerEntryStatusPending   LedgerEntryStatus = "pending"
	LedgerEntryStatusHeld      LedgerEntryStatus = "held"
	LedgerEntryStatusCompleted LedgerEntryStatus = "completed"
	LedgerEntryStatusFailed    LedgerEntryStatus = "failed"
)

type DisputeStatus string

const (
	DisputeStatusOpen     DisputeStatus = "open"
	DisputeStatusInReview DisputeStatus = "in_review"
	DisputeStatusResolved DisputeStatus = "resolved"
	DisputeStatusClosed   DisputeStatus = "closed"
)

type DisputeOutcome string

const (
	DisputeOutcomeFavorBuyer  DisputeOutcome = "favor_buyer"
	DisputeOutcomeFavorSeller DisputeOutcome = "favor_seller"
	DisputeOutcomePartial     DisputeOutcome = "partial"
)

type DisputeReason string

const (
	DisputeReasonNotDelivered DisputeReason = "not_delivered"
	DisputeReasonDamaged      DisputeReason = "damaged"
	DisputeReasonWrongItem    DisputeReason = "wrong_item"
	DisputeReasonOther        DisputeReason = "other"
)

type ReturnStatus string

const (
	ReturnStatusPending  ReturnStatus = "pending"
	ReturnStatusApproved ReturnStatus = "approved"
	ReturnStatusRejected ReturnStatus = "rejected"
	ReturnStatusShipped  ReturnStatus = "shipped"
	ReturnStatusReceived ReturnStatus = "received"
	ReturnStatusRefunded ReturnStatus = "refunded"
	ReturnStatusClosed   ReturnStatus = "closed"
)

type OrderTokenKind string

const (
	OrderTokenKindPickup   OrderTokenKind = "pickup"
	OrderTokenKindDelivery OrderTokenKind = "delivery"
)

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

type User struct {
	ID              string    `json:"id"`
	GoogleAccountID *string   `json:"google_account_id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	HashedPassword  *string   `json:"-"`
	PhoneNumber     *string   `json:"phone_number"`
	Role            UserRole  `json:"role"`
	EmailVerified   bool      `json:"email_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Product struct {
	ID          int64         `json:"id"`
	SellerID    string        `json:"seller_id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description string        `json:"description"`
	Price       int64         `json:"price"`
	Quantity    int64         `json:"quantity"`
	Status      ProductStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type Order struct {
	ID                 uuid.UUID     `json:"id"`
	OrderNumber        string        `json:"order_number"`
	BuyerID            string        `json:"buyer_id"`
	SellerID           string        `json:"seller_id"`
	CourierID          *string       `json:"courier_id"`
	ItemsSubtotal      int64         `json:"items_subtotal"`
	CourierFee         int64         `json:"courier_fee"`
	PlatformCommission int64         `json:"platform_commission"`
	TotalAmount        int64         `json:"total_amount"`
	Status             OrderStatus   `json:"status"`
	PaymentMethod      PaymentMethod `json:"payment_method"`
	IsPaid             bool          `json:"is_paid"`
	DeliveryAddress    string        `json:"delivery_address"`
	DeliveryCity       string        `json:"delivery_city"`
	DeliveryPhone      string        `json:"delivery_phone"`
	PickupPhotoURL     *string       `json:"pickup_photo_url"`
	Note               *string       `json:"note"`
	CancelledBy        *string       `json:"cancelled_by"`
	CancelledReason    *string       `json:"cancelled_reason"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

type OrderItem struct {
	ID        int64     `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID int64     `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unit_price"`
	Quantity  int64     `json:"quantity"`
}

type LedgerEntry struct {
	ID          int64             `json:"id"`
	OrderID     uuid.UUID         `json:"order_id"`
	Type        LedgerEntryType   `json:"type"`
	PayeeID     *string           `json:"payee_id"`
	Amount      int64             `json:"amount"`
	Status      LedgerEntryStatus `json:"status"`
	Reference   *string           `json:"reference"`
	CreatedAt   time.Time         `json:"created_at"`
	CompletedAt *time.Time        `json:"completed_at"`
}

type Dispute struct {
	ID          uuid.UUID      `json:"id"`
	OrderID     uuid.UUID      `json:"order_id"`
	ReporterID  string         `json:"reporter_id"`
	Reason      DisputeReason  `json:"reason"`
	Description string         `json:"description"`
	Status      DisputeStatus  `json:"status"`
	Outcome     *DisputeOutcome `json:"outcome"`
	Resolution  *string        `json:"resolution"`
	ResolvedBy  *string        `json:"resolved_by"`
	CreatedAt   time.Time      `json:"created_at"`
	ResolvedAt  *time.Time     `json:"resolved_at"`
}

type Return struct {
	ID           uuid.UUID    `json:"id"`
	OrderID      uuid.UUID    `json:"order_id"`
	BuyerID      string       `json:"buyer_id"`
	SellerID     string       `json:"seller_id"`
	Reason       string       `json:"reason"`
	Description  string       `json:"description"`
	Status       ReturnStatus `json:"status"`
	RefundAmount *int64       `json:"refund_amount"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type OrderToken struct {
	ID         int64          `json:"id"`
	OrderID    uuid.UUID      `json:"order_id"`
	Kind       OrderTokenKind `json:"kind"`
	Code       string         `json:"code"`
	IssuedAt   time.Time      `json:"issued_at"`
	ConsumedAt *time.Time     `json:"consumed_at"`
}

type Notification struct {
	ID          int64     `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Type        string    `json:"type"`
	ReferenceID string    `json:"reference_id"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}
