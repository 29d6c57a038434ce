package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gogomarket/gogomarket-BE/internal/db"
	"github.com/gogomarket/gogomarket-BE/internal/event"
	"github.com/gogomarket/gogomarket-BE/internal/notification"
	"github.com/google/uuid"
)

type openDisputeRequest struct {
	Reason      string `json:"reason" binding:"required,oneof=not_delivered damaged wrong_item other"`
	Description string `json:"description" binding:"required,max=1000"`
}

//	@Summary		Open a dispute for an active order
//	@Description	Freezes the order in the disputed state until an admin resolves it
//	@Tags			disputes
//	@Accept			json
//	@Produce		json
//	@Param			id					path		string				true	"Order ID"
//	@Param			openDisputeRequest	body		openDisputeRequest	true	"Dispute details"
//	@Success		201					{object}	db.OpenDisputeTxResult
//	@Failure		409					{object}	gin.H	"Order cannot be disputed or already has an open dispute"
//	@Security		accessToken
//	@Router			/orders/{id}/disputes [post]
func (server *Server) openDispute(ctx *gin.Context) {
	reporterID := getAuthPayload(ctx).Subject

	var req openDisputeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	order, ok := server.getAuthorizedOrder(ctx)
	if !ok {
		return
	}

	result, err := server.dbStore.OpenDisputeTx(ctx, db.OpenDisputeTxParams{
		OrderID:     order.ID,
		ReporterID:  reporterID,
		Reason:      db.DisputeReason(req.Reason),
		Description: req.Description,
	})
	if err != nil {
		errCode, constraintName := db.ErrorDescription(err)
		if errCode == db.UniqueViolationCode && constraintName == db.UniqueOpenDisputeConstraint {
			ctx.JSON(http.StatusConflict, errorResponse(err))
			return
		}

		server.handleDomainError(ctx, order.OrderNumber, err)
		return
	}

	// Both parties hear about the freeze; the reporter already knows.
	title, message := notification.DisputeOpened(result.Order)
	otherParty := order.SellerID
	if reporterID == order.SellerID {
		otherParty = order.BuyerID
	}
	server.notifyUser(ctx, otherParty, title, message, notification.TypeDispute, result.Dispute.ID.String())
	server.broadcastOrderEvent(result.Order, event.EventTypeDisputeOpened)

	ctx.JSON(http.StatusCreated, result)
}

//	@Summary	Get a dispute
//	@Tags		disputes
//	@Produce	json
//	@Param		id	path		string	true	"Dispute ID"
//	@Success	200	{object}	db.Dispute
//	@Failure	404	{object}	gin.H
//	@Security	accessToken
//	@Router		/disputes/{id} [get]
func (server *Server) getDispute(ctx *gin.Context) {
	authPayload := getAuthPayload(ctx)

	disputeID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	dispute, err := server.dbStore.GetDisputeByID(ctx, disputeID)
	if err != nil {
		server.handleDomainError(ctx, "", err)
		return
	}

	order, err := server.dbStore.GetOrderByID(ctx, dispute.OrderID)
	if err != nil {
		server.handleDomainError(ctx, "", err)
		return
	}

	userID := authPayload.Subject
	if userID != order.BuyerID && userID != order.SellerID && authPayload.Role != string(db.UserRoleAdmin) {
		ctx.JSON(http.StatusForbidden, errorResponse(ErrOrderAccessDenied))
		return
	}

	ctx.JSON(http.StatusOK, dispute)
}
