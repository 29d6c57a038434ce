package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogomarket/gogomarket-BE/internal/db"
	"github.com/gogomarket/gogomarket-BE/internal/event"
	"github.com/gogomarket/gogomarket-BE/internal/notification"
	"github.com/gogomarket/gogomarket-BE/internal/worker"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// unpaidOrderTTL is how long a card order may stay unpaid before it is
// cancelled automatically.
const unpaidOrderTTL = 15 * time.Minute

type createOrderRequest struct {
	// ID of the seller all items belong to
	SellerID string `json:"seller_id" binding:"required"`

	// Items to purchase
	Items []db.OrderItemSpec `json:"items" binding:"required,min=1,dive"`

	// Payment method (cash: pay the courier at the door, card: pay upfront via the gateway)
	PaymentMethod string `json:"payment_method" binding:"required,oneof=cash card"`

	// Courier fee (UZS), agreed upfront and never commissioned
	CourierFee int64 `json:"courier_fee" binding:"min=0"`

	DeliveryAddress string `json:"delivery_address" binding:"required"`
	DeliveryCity    string `json:"delivery_city" binding:"required"`
	DeliveryPhone   string `json:"delivery_phone" binding:"required"`

	// Optional note for the order
	Note *string `json:"note" binding:"omitempty,max=255"`
}

//	@Summary		Create a new order
//	@Description	Create a pending order for items of a single seller
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			createOrderRequest	body		createOrderRequest		true	"Order details"
//	@Success		201					{object}	db.CreateOrderTxResult	"Order created successfully"
//	@Failure		400					{object}	gin.H					"Invalid request data"
//	@Failure		401					{object}	gin.H					"Unauthorized"
//	@Failure		422					{object}	gin.H					"Items unavailable or out of stock"
//	@Failure		500					{object}	gin.H					"Internal server error"
//	@Security		accessToken
//	@Router			/orders [post]
func (server *Server) createOrder(ctx *gin.Context) {
	buyerID := getAuthPayload(ctx).Subject

	var req createOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	if req.SellerID == buyerID {
		ctx.JSON(http.StatusUnprocessableEntity, errorResponse(fmt.Errorf("you cannot order from yourself")))
		return
	}

	result, err := server.dbStore.CreateOrderTx(ctx, db.CreateOrderTxParams{
		BuyerID:         buyerID,
		SellerID:        req.SellerID,
		PaymentMethod:   db.PaymentMethod(req.PaymentMethod),
		CourierFee:      req.CourierFee,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryCity:    req.DeliveryCity,
		DeliveryPhone:   req.DeliveryPhone,
		Note:            req.Note,
		Items:           req.Items,
	})
	if err != nil {
		log.Err(err).Msg("failed to create order")
		ctx.JSON(http.StatusUnprocessableEntity, errorResponse(err))
		return
	}

	// Card orders expire when the buyer never completes the payment.
	if result.Order.PaymentMethod == db.PaymentMethodCard {
		err = server.taskDistributor.DistributeTaskCancelUnpaidOrder(ctx, &worker.PayloadCancelUnpaidOrder{
			OrderID: result.Order.ID,
		}, asynq.ProcessIn(unpaidOrderTTL), asynq.Queue(worker.QueueDefault))
		if err != nil {
			log.Err(err).Msg("failed to schedule unpaid order cancellation")
		}
	}

	server.notifyUser(ctx, req.SellerID, "New order",
		fmt.Sprintf("You have received a new order %s.", result.Order.OrderNumber),
		notification.TypeOrder, result.Order.ID.String())

	ctx.JSON(http.StatusCreated, result)
}

//	@Summary	List the authenticated buyer's orders
//	@Tags		orders
//	@Produce	json
//	@Success	200	{array}	db.Order
//	@Security	accessToken
//	@Router		/orders [get]
func (server *Server) listMyOrders(ctx *gin.Context) {
	buyerID := getAuthPayload(ctx).Subject

	orders, err := server.dbStore.ListOrdersByBuyer(ctx, buyerID)
	if err != nil {
		log.Err(err).Msg("failed to list orders")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

type orderDetailsResponse struct {
	Order db.Order       `json:"order"`
	Items []db.OrderItem `json:"items"`
}

//	@Summary	Get one of the authenticated user's orders
//	@Tags		orders
//	@Produce	json
//	@Param		id	path		string	true	"Order ID"
//	@Success	200	{object}	orderDetailsResponse
//	@Failure	403	{object}	gin.H
//	@Failure	404	{object}	gin.H
//	@Security	accessToken
//	@Router		/orders/{id} [get]
func (server *Server) getOrder(ctx *gin.Context) {
	order, ok := server.getAuthorizedOrder(ctx)
	if !ok {
		return
	}

	items, err := server.dbStore.ListOrderItems(ctx, order.ID)
	if err != nil {
		log.Err(err).Msg("failed to list order items")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, orderDetailsResponse{Order: order, Items: items})
}

type cancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

//	@Summary		Cancel a pending order
//	@Description	Only pending orders can be cancelled; a captured payment is refunded in full
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			id					path		string				true	"Order ID"
//	@Param			cancelOrderRequest	body		cancelOrderRequest	true	"Cancellation reason"
//	@Success		200					{object}	db.CancelOrderTxResult
//	@Failure		409					{object}	gin.H	"Order is no longer cancellable"
//	@Security		accessToken
//	@Router			/orders/{id}/cancel [patch]
func (server *Server) cancelOrder(ctx *gin.Context) {
	buyerID := getAuthPayload(ctx).Subject

	var req cancelOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	order, ok := server.getAuthorizedOrder(ctx)
	if !ok {
		return
	}

	if order.BuyerID != buyerID {
		ctx.JSON(http.StatusForbidden, errorResponse(ErrOrderAccessDenied))
		return
	}

	result, err := server.dbStore.CancelOrderTx(ctx, db.CancelOrderTxParams{
		OrderID:     order.ID,
		CancelledBy: buyerID,
		Reason:      req.Reason,
	})
	if err != nil {
		server.handleDomainError(ctx, order.OrderNumber, err)
		return
	}

	title, message := notification.OrderCancelled(result.Order, req.Reason)
	server.notifyUser(ctx, order.SellerID, title, message, notification.TypeOrder, order.ID.String())
	server.broadcastOrderEvent(result.Order, event.EventTypeOrderCancelled)

	ctx.JSON(http.StatusOK, result)
}

// getAuthorizedOrder loads the order from the :id param and checks the
// authenticated user is a party of it. Admins can read every order.
func (server *Server) getAuthorizedOrder(ctx *gin.Context) (db.Order, bool) {
	authPayload := getAuthPayload(ctx)

	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid order ID: %w", err)))
		return db.Order{}, false
	}

	order, err := server.dbStore.GetOrderByID(ctx, orderID)
	if err != nil {
		server.handleDomainError(ctx, "", err)
		return db.Order{}, false
	}

	userID := authPayload.Subject
	isParty := order.BuyerID == userID || order.SellerID == userID ||
		(order.CourierID != nil && *order.CourierID == userID)
	if !isParty && authPayload.Role != string(db.UserRoleAdmin) {
		ctx.JSON(http.StatusForbidden, errorResponse(ErrOrderAccessDenied))
		return db.Order{}, false
	}

	return order, true
}

// notifyUser enqueues a persistent notification for a user.
func (server *Server) notifyUser(ctx *gin.Context, recipientID, title, message, notificationType, referenceID string) {
	err := server.taskDistributor.DistributeTaskSendNotification(ctx, &worker.PayloadSendNotification{
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		Type:        notificationType,
		ReferenceID: referenceID,
	}, asynq.Queue(worker.QueueCritical))
	if err != nil {
		log.Err(err).Str("recipient_id", recipientID).Msg("failed to distribute notification task")
	}
}

// broadcastOrderEvent pushes a live update to clients following the order.
func (server *Server) broadcastOrderEvent(order db.Order, eventType string) {
	server.eventSender.Broadcast(event.Event{
		Topic: fmt.Sprintf("order:%s", order.ID),
		Type:  eventType,
		Data:  order,
	})
}
