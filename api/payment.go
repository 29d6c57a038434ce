package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gogomarket/gogomarket-BE/internal/event"
	"github.com/gogomarket/gogomarket-BE/internal/notification"
	"github.com/gogomarket/gogomarket-BE/internal/payment"
	"github.com/rs/zerolog/log"
)

type createPaymentResponse struct {
	Reference  string `json:"reference"`
	PaymentURL string `json:"payment_url"`
	QrCode     string `json:"qr_code"`
}

//	@Summary		Start a card payment for an order
//	@Description	Records the pending payment entry and returns the gateway payment URL
//	@Tags			payments
//	@Produce		json
//	@Param			id	path		string	true	"Order ID"
//	@Success		200	{object}	createPaymentResponse
//	@Failure		409	{object}	gin.H	"Payment already recorded"
//	@Security		accessToken
//	@Router			/orders/{id}/payment [post]
func (server *Server) createOrderPayment(ctx *gin.Context) {
	buyerID := getAuthPayload(ctx).Subject

	order, ok := server.getAuthorizedOrder(ctx)
	if !ok {
		return
	}

	if order.BuyerID != buyerID {
		ctx.JSON(http.StatusForbidden, errorResponse(ErrOrderAccessDenied))
		return
	}

	reference, result, err := server.paymentService.CreatePayment(ctx, order)
	if err != nil {
		server.handleDomainError(ctx, order.OrderNumber, err)
		return
	}

	ctx.JSON(http.StatusOK, createPaymentResponse{
		Reference:  reference,
		PaymentURL: result.PaymentURL,
		QrCode:     result.QrCode,
	})
}

// paymentCallback receives the gateway's server-to-server callback. The
// gateway retries until it gets return_code 1, so the response codes follow
// its convention instead of plain HTTP statuses.
func (server *Server) paymentCallback(ctx *gin.Context) {
	var callbackData payment.CallbackData
	if err := ctx.ShouldBindJSON(&callbackData); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	if !server.paymentService.VerifyCallback(callbackData) {
		log.Warn().Msg("payment callback with invalid MAC")
		ctx.JSON(http.StatusOK, payment.CallbackResult{
			ReturnCode:    -1,
			ReturnMessage: "mac not equal",
		})
		return
	}

	order, result, err := server.paymentService.ProcessCallback(ctx, callbackData)
	if err != nil {
		log.Err(err).Msg("failed to process payment callback")
		ctx.JSON(http.StatusOK, result)
		return
	}

	title, message := notification.PaymentCaptured(order)
	server.notifyUser(ctx, order.BuyerID, title, message, notification.TypePayment, order.ID.String())
	server.broadcastOrderEvent(order, event.EventTypePaymentCaptured)

	ctx.JSON(http.StatusOK, result)
}
