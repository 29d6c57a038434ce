package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gogomarket/gogomarket-BE/internal/db"
	"github.com/gogomarket/gogomarket-BE/internal/notification"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type createReturnRequest struct {
	Reason      string `json:"reason" binding:"required,max=255"`
	Description string `json:"description" binding:"max=1000"`
}

//	@Summary		Request a return for a delivered order
//	@Tags			returns
//	@Accept			json
//	@Produce		json
//	@Param			id					path		string				true	"Order ID"
//	@Param			createReturnRequest	body		createReturnRequest	true	"Return details"
//	@Success		201					{object}	db.Return
//	@Failure		409					{object}	gin.H	"Order is not delivered or a return is already in flight"
//	@Security		accessToken
//	@Router			/orders/{id}/returns [post]
func (server *Server) createReturn(ctx *gin.Context) {
	buyerID := getAuthPayload(ctx).Subject

	var req createReturnRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	ret, err := server.dbStore.CreateReturnTx(ctx, db.CreateReturnTxParams{
		OrderID:     orderID,
		BuyerID:     buyerID,
		Reason:      req.Reason,
		Description: req.Description,
	})
	if err != nil {
		server.handleDomainError(ctx, orderID.String(), err)
		return
	}

	server.notifyUser(ctx, ret.SellerID, "Return requested",
		"A buyer has requested a return for one of your orders.",
		notification.TypeReturn, ret.ID.String())

	ctx.JSON(http.StatusCreated, ret)
}

//	@Summary	List the authenticated user's returns
//	@Tags		returns
//	@Produce	json
//	@Success	200	{array}	db.Return
//	@Security	accessToken
//	@Router		/returns [get]
func (server *Server) listMyReturns(ctx *gin.Context) {
	userID := getAuthPayload(ctx).Subject

	returns, err := server.dbStore.ListReturnsByUser(ctx, userID)
	if err != nil {
		log.Err(err).Msg("failed to list returns")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, returns)
}

type advanceReturnRequest struct {
	// Status is the next step of the return flow. Refunds go through the
	// refund endpoint instead.
	Status string `json:"status" binding:"required,oneof=approved rejected shipped received closed"`
}

//	@Summary		Advance a return one step
//	@Description	approved/rejected by the seller, shipped by the buyer, received and closed by the seller
//	@Tags			returns
//	@Accept			json
//	@Produce		json
//	@Param			id						path		string					true	"Return ID"
//	@Param			advanceReturnRequest	body		advanceReturnRequest	true	"Next status"
//	@Success		200						{object}	db.Return
//	@Failure		409						{object}	gin.H	"Step does not follow the return flow"
//	@Security		accessToken
//	@Router			/returns/{id}/advance [post]
func (server *Server) advanceReturn(ctx *gin.Context) {
	userID := getAuthPayload(ctx).Subject

	var req advanceReturnRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	returnID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	ret, err := server.dbStore.AdvanceReturnTx(ctx, db.AdvanceReturnTxParams{
		ReturnID:   returnID,
		ActorID:    userID,
		NextStatus: db.ReturnStatus(req.Status),
	})
	if err != nil {
		server.handleDomainError(ctx, returnID.String(), err)
		return
	}

	order, err := server.dbStore.GetOrderByID(ctx, ret.OrderID)
	if err == nil {
		title, message := notification.ReturnUpdated(ret, order.OrderNumber)
		otherParty := ret.SellerID
		if userID == ret.SellerID {
			otherParty = ret.BuyerID
		}
		server.notifyUser(ctx, otherParty, title, message, notification.TypeReturn, ret.ID.String())
	}

	ctx.JSON(http.StatusOK, ret)
}

type refundReturnRequest struct {
	// Amount in UZS, capped at the order's refundable balance.
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

//	@Summary		Refund a received return
//	@Description	Appends the refund to the order's ledger and marks the return refunded
//	@Tags			returns
//	@Accept			json
//	@Produce		json
//	@Param			id					path		string				true	"Return ID"
//	@Param			refundReturnRequest	body		refundReturnRequest	true	"Refund amount"
//	@Success		200					{object}	db.RefundReturnTxResult
//	@Failure		422					{object}	gin.H	"Amount exceeds the refundable balance"
//	@Security		accessToken
//	@Router			/returns/{id}/refund [post]
func (server *Server) refundReturn(ctx *gin.Context) {
	sellerID := getAuthPayload(ctx).Subject

	var req refundReturnRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	returnID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	ret, err := server.dbStore.GetReturnByID(ctx, returnID)
	if err != nil {
		server.handleDomainError(ctx, "", err)
		return
	}

	if ret.SellerID != sellerID {
		ctx.JSON(http.StatusForbidden, errorResponse(ErrOrderAccessDenied))
		return
	}

	result, err := server.dbStore.RefundReturnTx(ctx, db.RefundReturnTxParams{
		ReturnID: ret.ID,
		Amount:   req.Amount,
	})
	if err != nil {
		server.handleDomainError(ctx, ret.OrderID.String(), err)
		return
	}

	order, err := server.dbStore.GetOrderByID(ctx, ret.OrderID)
	if err == nil {
		title, message := notification.RefundIssued(order, req.Amount)
		server.notifyUser(ctx, ret.BuyerID, title, message, notification.TypeReturn, ret.ID.String())
	}

	ctx.JSON(http.StatusOK, result)
}
