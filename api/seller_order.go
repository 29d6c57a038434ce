package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gogomarket/gogomarket-BE/internal/db"
	"github.com/gogomarket/gogomarket-BE/internal/event"
	"github.com/gogomarket/gogomarket-BE/internal/notification"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

//	@Summary	List the authenticated seller's orders
//	@Tags		seller
//	@Produce	json
//	@Success	200	{array}	db.Order
//	@Security	accessToken
//	@Router		/sellers/me/orders [get]
func (server *Server) listSellerOrders(ctx *gin.Context) {
	sellerID := getAuthPayload(ctx).Subject

	orders, err := server.dbStore.ListOrdersBySeller(ctx, sellerID)
	if err != nil {
		log.Err(err).Msg("failed to list seller orders")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

//	@Summary		Confirm a pending order
//	@Description	Holds the platform commission and issues the pickup token for the courier
//	@Tags			seller
//	@Produce		json
//	@Param			id	path		string	true	"Order ID"
//	@Success		200	{object}	db.ConfirmOrderTxResult
//	@Failure		409	{object}	gin.H	"Order is not pending"
//	@Failure		422	{object}	gin.H	"Card order is not paid yet"
//	@Security		accessToken
//	@Router			/sellers/me/orders/{id}/confirm [patch]
func (server *Server) confirmOrder(ctx *gin.Context) {
	sellerID := getAuthPayload(ctx).Subject

	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	result, err := server.dbStore.ConfirmOrderTx(ctx, db.ConfirmOrderTxParams{
		OrderID:  orderID,
		SellerID: sellerID,
	})
	if err != nil {
		server.handleDomainError(ctx, orderID.String(), err)
		return
	}

	title, message := notification.OrderConfirmed(result.Order)
	server.notifyUser(ctx, result.Order.BuyerID, title, message, notification.TypeOrder, result.Order.ID.String())
	server.broadcastOrderEvent(result.Order, event.EventTypeOrderConfirmed)

	ctx.JSON(http.StatusOK, result)
}

type sellerCancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

//	@Summary	Cancel a pending order as the seller
//	@Tags		seller
//	@Accept		json
//	@Produce	json
//	@Param		id							path		string						true	"Order ID"
//	@Param		sellerCancelOrderRequest	body		sellerCancelOrderRequest	true	"Cancellation reason"
//	@Success	200							{object}	db.CancelOrderTxResult
//	@Security	accessToken
//	@Router		/sellers/me/orders/{id}/cancel [patch]
func (server *Server) sellerCancelOrder(ctx *gin.Context) {
	sellerID := getAuthPayload(ctx).Subject

	var req sellerCancelOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	order, err := server.dbStore.GetOrderByID(ctx, orderID)
	if err != nil {
		server.handleDomainError(ctx, "", err)
		return
	}

	if order.SellerID != sellerID {
		ctx.JSON(http.StatusForbidden, errorResponse(ErrOrderAccessDenied))
		return
	}

	result, err := server.dbStore.CancelOrderTx(ctx, db.CancelOrderTxParams{
		OrderID:     order.ID,
		CancelledBy: sellerID,
		Reason:      req.Reason,
	})
	if err != nil {
		server.handleDomainError(ctx, order.OrderNumber, err)
		return
	}

	title, message := notification.OrderCancelled(result.Order, req.Reason)
	server.notifyUser(ctx, order.BuyerID, title, message, notification.TypeOrder, order.ID.String())
	server.broadcastOrderEvent(result.Order, event.EventTypeOrderCancelled)

	ctx.JSON(http.StatusOK, result)
}
