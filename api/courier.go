package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gogomarket/gogomarket-BE/internal/db"
	"github.com/gogomarket/gogomarket-BE/internal/event"
	"github.com/gogomarket/gogomarket-BE/internal/notification"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

//	@Summary	List confirmed orders waiting for a courier in a city
//	@Tags		courier
//	@Produce	json
//	@Param		city	query	string	true	"Delivery city"
//	@Success	200		{array}	db.Order
//	@Security	accessToken
//	@Router		/courier/orders/available [get]
func (server *Server) listAvailableOrders(ctx *gin.Context) {
	city := ctx.Query("city")
	if city == "" {
		ctx.JSON(http.StatusBadRequest, errorResponse(fmt.Errorf("city query parameter is required")))
		return
	}

	orders, err := server.dbStore.ListConfirmedOrdersByCity(ctx, city)
	if err != nil {
		log.Err(err).Msg("failed to list available orders")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

//	@Summary	List the authenticated courier's orders
//	@Tags		courier
//	@Produce	json
//	@Success	200	{array}	db.Order
//	@Security	accessToken
//	@Router		/courier/orders [get]
func (server *Server) listCourierOrders(ctx *gin.Context) {
	courierID := getAuthPayload(ctx).Subject

	orders, err := server.dbStore.ListOrdersByCourier(ctx, courierID)
	if err != nil {
		log.Err(err).Msg("failed to list courier orders")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

type pickupOrderRequest struct {
	// PickupCode is the payload of the QR code the seller shows the courier.
	PickupCode string                `form:"pickup_code" binding:"required"`
	Photo      *multipart.FileHeader `form:"photo"`
}

//	@Summary		Pick up a confirmed order
//	@Description	Scanning the seller's pickup QR assigns the courier and moves the order to picked_up
//	@Tags			courier
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id			path		string	true	"Order ID"
//	@Param			pickup_code	formData	string	true	"Pickup token payload"
//	@Param			photo		formData	file	false	"Photo of the parcel"
//	@Success		200			{object}	db.Order
//	@Failure		409			{object}	gin.H	"Token already consumed or order not confirmed"
//	@Failure		422			{object}	gin.H	"Wrong pickup code"
//	@Security		accessToken
//	@Router			/courier/orders/{id}/pickup [patch]
func (server *Server) pickupOrder(ctx *gin.Context) {
	courierID := getAuthPayload(ctx).Subject

	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	var req pickupOrderRequest
	if err = ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	var photoURL *string
	if req.Photo != nil {
		url, err := server.uploadPickupPhoto(req.Photo, orderID)
		if err != nil {
			log.Err(err).Msg("failed to upload pickup photo")
			ctx.JSON(http.StatusInternalServerError, errorResponse(err))
			return
		}
		photoURL = &url
	}

	order, err := server.dbStore.PickupOrderTx(ctx, db.PickupOrderTxParams{
		OrderID:        orderID,
		CourierID:      courierID,
		PickupCode:     req.PickupCode,
		PickupPhotoURL: photoURL,
	})
	if err != nil {
		server.handleDomainError(ctx, orderID.String(), err)
		return
	}

	title, message := notification.OrderPickedUp(order)
	server.notifyUser(ctx, order.BuyerID, title, message, notification.TypeOrder, order.ID.String())
	server.broadcastOrderEvent(order, event.EventTypeOrderPickedUp)

	ctx.JSON(http.StatusOK, order)
}

func (server *Server) uploadPickupPhoto(fileHeader *multipart.FileHeader, orderID uuid.UUID) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open photo: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read photo: %w", err)
	}

	return server.fileStore.UploadFile(content, fmt.Sprintf("pickup_%s", orderID), "pickup_photos")
}

//	@Summary		Depart with a picked up order
//	@Description	Moves the order to in_transit and sends the delivery code to the buyer
//	@Tags			courier
//	@Produce		json
//	@Param			id	path		string	true	"Order ID"
//	@Success		200	{object}	db.Order
//	@Failure		409	{object}	gin.H	"Order is not picked up"
//	@Security		accessToken
//	@Router			/courier/orders/{id}/depart [patch]
func (server *Server) departOrder(ctx *gin.Context) {
	courierID := getAuthPayload(ctx).Subject

	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	result, err := server.dbStore.DepartOrderTx(ctx, db.DepartOrderTxParams{
		OrderID:   orderID,
		CourierID: courierID,
	})
	if err != nil {
		server.handleDomainError(ctx, orderID.String(), err)
		return
	}

	// The delivery code goes to the buyer only.
	title, message := notification.OrderInTransit(result.Order, result.DeliveryToken.Code)
	server.notifyUser(ctx, result.Order.BuyerID, title, message, notification.TypeOrder, result.Order.ID.String())
	server.broadcastOrderEvent(result.Order, event.EventTypeOrderInTransit)

	ctx.JSON(http.StatusOK, result.Order)
}

type deliverOrderRequest struct {
	// DeliveryCode is the 6-digit code the buyer gives the courier.
	DeliveryCode string `json:"delivery_code" binding:"required,len=6"`
}

//	@Summary		Deliver an order
//	@Description	Consumes the buyer's delivery code and settles the order's ledger
//	@Tags			courier
//	@Accept			json
//	@Produce		json
//	@Param			id					path		string				true	"Order ID"
//	@Param			deliverOrderRequest	body		deliverOrderRequest	true	"Delivery code"
//	@Success		200					{object}	db.DeliverOrderTxResult
//	@Failure		409					{object}	gin.H	"Code already used or order not in transit"
//	@Failure		422					{object}	gin.H	"Wrong delivery code"
//	@Security		accessToken
//	@Router			/courier/orders/{id}/deliver [patch]
func (server *Server) deliverOrder(ctx *gin.Context) {
	courierID := getAuthPayload(ctx).Subject

	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	var req deliverOrderRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	result, err := server.dbStore.DeliverOrderTx(ctx, db.DeliverOrderTxParams{
		OrderID:      orderID,
		CourierID:    courierID,
		DeliveryCode: req.DeliveryCode,
	})
	if err != nil {
		server.handleDomainError(ctx, orderID.String(), err)
		return
	}

	title, message := notification.OrderDelivered(result.Order)
	server.notifyUser(ctx, result.Order.BuyerID, title, message, notification.TypeOrder, result.Order.ID.String())
	server.notifyUser(ctx, result.Order.SellerID, title, message, notification.TypeOrder, result.Order.ID.String())
	server.broadcastOrderEvent(result.Order, event.EventTypeOrderDelivered)

	ctx.JSON(http.StatusOK, result)
}
