package payment

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gogomarket/gogomarket-BE/internal/db"
	"github.com/zpmep/hmacutil"
)

// VerifyCallback checks the MAC of a gateway callback before anything in
// the payload is trusted.
func (s *Service) VerifyCallback(callbackData CallbackData) bool {
	mac := hmacutil.HexStringEncode(hmacutil.SHA256, s.config.PaymentGatewayKey, callbackData.Data)
	return callbackData.Mac == mac
}

// ProcessCallback applies a verified callback: the pending payment entry is
// captured and the order marked paid. The gateway retries callbacks until it
// receives return_code 1, so a replay must succeed without double-recording.
func (s *Service) ProcessCallback(ctx context.Context, callbackData CallbackData) (db.Order, *CallbackResult, error) {
	var transData TransactionData
	if err := json.Unmarshal([]byte(callbackData.Data), &transData); err != nil {
		return db.Order{}, &CallbackResult{
			ReturnCode:    -1,
			ReturnMessage: "Invalid transaction data",
		}, err
	}

	result, err := s.dbStore.SettlePaymentTx(ctx, db.SettlePaymentTxParams{
		OrderID:   transData.OrderID,
		Reference: transData.Reference,
		Amount:    transData.Amount,
		Success:   true,
	})
	if err != nil {
		// A callback for a cancelled order is refused for good; retries
		// cannot change that.
		if errors.Is(err, db.ErrInvalidTransition) {
			return db.Order{}, &CallbackResult{
				ReturnCode:    -1,
				ReturnMessage: "Order is closed",
			}, err
		}
		return db.Order{}, &CallbackResult{
			ReturnCode:    -1,
			ReturnMessage: "Internal server error",
		}, err
	}

	return result.Order, &CallbackResult{
		ReturnCode:    1,
		ReturnMessage: "success",
	}, nil
}
