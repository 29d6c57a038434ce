package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gogomarket/gogomarket-BE/internal/db"
	"github.com/gogomarket/gogomarket-BE/internal/util"
	"github.com/zpmep/hmacutil"
)

// CreatePayment records the pending payment entry for a card order and asks
// the gateway for a payment URL to redirect the buyer to. The duplicate guard
// lives in StartCardPaymentTx, so a retried call fails before the gateway is
// ever contacted.
func (s *Service) CreatePayment(ctx context.Context, order db.Order) (string, *CreatePaymentResponse, error) {
	reference := util.GeneratePaymentReference()

	_, err := s.dbStore.StartCardPaymentTx(ctx, db.StartCardPaymentTxParams{
		OrderID:   order.ID,
		BuyerID:   order.BuyerID,
		Reference: reference,
	})
	if err != nil {
		return "", nil, err
	}

	embedData, _ := json.Marshal(map[string]interface{}{
		"order_id": order.ID,
	})

	formData := map[string]string{
		"app_id":       s.config.PaymentGatewayAppID,
		"reference":    reference,
		"app_user":     order.BuyerID,
		"amount":       strconv.FormatInt(order.TotalAmount, 10),
		"app_time":     strconv.FormatInt(time.Now().UnixMilli(), 10),
		"embed_data":   string(embedData),
		"description":  fmt.Sprintf("GoGoMarket - Payment for order %s", order.OrderNumber),
		"callback_url": s.config.PaymentGatewayCallbackURL,
	}

	data := fmt.Sprintf("%v|%v|%v|%v|%v|%v", formData["app_id"], formData["reference"], formData["app_user"],
		formData["amount"], formData["app_time"], formData["embed_data"])
	formData["mac"] = hmacutil.HexStringEncode(hmacutil.SHA256, s.config.PaymentGatewayKey, data)

	var result CreatePaymentResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(formData).
		SetResult(&result).
		Post(s.config.PaymentGatewayURL + "/v2/create")
	if err != nil {
		return "", nil, fmt.Errorf("failed to call payment gateway: %w", err)
	}

	if resp.IsError() {
		return "", nil, fmt.Errorf("payment gateway returned status %s", resp.Status())
	}

	if result.ReturnCode != 1 {
		return "", nil, fmt.Errorf("payment gateway error: %s (code: %d)", result.ReturnMessage, result.ReturnCode)
	}

	return reference, &result, nil
}
