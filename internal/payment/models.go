package payment

import (
	"github.com/google/uuid"
)

type CreatePaymentResponse struct {
	ReturnCode    int    `json:"return_code"`
	ReturnMessage string `json:"return_message"`
	PaymentURL    string `json:"payment_url"`
	QrCode        string `json:"qr_code"`
}

// CallbackData is the raw gateway callback: a JSON payload and its MAC.
type CallbackData struct {
	Data string `json:"data"`
	Mac  string `json:"mac"`
}

type CallbackResult struct {
	ReturnCode    int    `json:"return_code"`
	ReturnMessage string `json:"return_message"`
}

// TransactionData is the decoded callback payload.
type TransactionData struct {
	OrderID   uuid.UUID `json:"order_id"`
	Reference string    `json:"reference"`
	Amount    int64     `json:"amount"`
}
