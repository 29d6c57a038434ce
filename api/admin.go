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

//	@Summary		Admin dashboard aggregates
//	@Description	Revenue, realized and pending platform profit, pending payouts and order counts
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	db.DashboardStats
//	@Security		accessToken
//	@Router			/admin/dashboard [get]
func (server *Server) getDashboardStats(ctx *gin.Context) {
	stats, err := server.dbStore.GetDashboardStats(ctx)
	if err != nil {
		log.Err(err).Msg("failed to compute dashboard stats")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

//	@Summary	List every order on the platform
//	@Tags		admin
//	@Produce	json
//	@Success	200	{array}	db.Order
//	@Security	accessToken
//	@Router		/admin/orders [get]
func (server *Server) adminListOrders(ctx *gin.Context) {
	orders, err := server.dbStore.ListAllOrders(ctx)
	if err != nil {
		log.Err(err).Msg("failed to list orders")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, orders)
}

//	@Summary	Read an order's ledger
//	@Tags		admin
//	@Produce	json
//	@Param		id	path	string	true	"Order ID"
//	@Success	200	{array}	db.LedgerEntry
//	@Security	accessToken
//	@Router		/admin/orders/{id}/ledger [get]
func (server *Server) adminGetOrderLedger(ctx *gin.Context) {
	orderID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	entries, err := server.dbStore.ListLedgerEntriesByOrder(ctx, orderID)
	if err != nil {
		log.Err(err).Msg("failed to list ledger entries")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, entries)
}

//	@Summary	List disputes
//	@Tags		admin
//	@Produce	json
//	@Success	200	{array}	db.Dispute
//	@Security	accessToken
//	@Router		/admin/disputes [get]
func (server *Server) adminListDisputes(ctx *gin.Context) {
	disputes, err := server.dbStore.ListDisputes(ctx)
	if err != nil {
		log.Err(err).Msg("failed to list disputes")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, disputes)
}

type resolveDisputeRequest struct {
	Outcome    string `json:"outcome" binding:"required,oneof=favor_buyer favor_seller partial"`
	Resolution string `json:"resolution" binding:"required,max=1000"`

	// RefundAmount is required for the partial outcome and ignored otherwise.
	RefundAmount int64 `json:"refund_amount" binding:"min=0"`
}

//	@Summary		Resolve a dispute
//	@Description	favor_buyer cancels and refunds, favor_seller settles as delivered, partial settles with a chosen refund
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			id						path		string					true	"Dispute ID"
//	@Param			resolveDisputeRequest	body		resolveDisputeRequest	true	"Verdict"
//	@Success		200						{object}	db.ResolveDisputeTxResult
//	@Failure		409						{object}	gin.H	"Dispute already resolved"
//	@Failure		422						{object}	gin.H	"Refund exceeds the refundable balance"
//	@Security		accessToken
//	@Router			/admin/disputes/{id}/resolve [post]
func (server *Server) resolveDispute(ctx *gin.Context) {
	adminID := getAuthPayload(ctx).Subject

	var req resolveDisputeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	disputeID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	result, err := server.dbStore.ResolveDisputeTx(ctx, db.ResolveDisputeTxParams{
		DisputeID:     disputeID,
		AdminID:       adminID,
		Outcome:       db.DisputeOutcome(req.Outcome),
		Resolution:    req.Resolution,
		PartialRefund: req.RefundAmount,
	})
	if err != nil {
		server.handleDomainError(ctx, disputeID.String(), err)
		return
	}

	title, message := notification.DisputeResolved(result.Order, db.DisputeOutcome(req.Outcome))
	server.notifyUser(ctx, result.Order.BuyerID, title, message, notification.TypeDispute, result.Dispute.ID.String())
	server.notifyUser(ctx, result.Order.SellerID, title, message, notification.TypeDispute, result.Dispute.ID.String())
	server.broadcastOrderEvent(result.Order, event.EventTypeDisputeResolved)

	ctx.JSON(http.StatusOK, result)
}

//	@Summary	List pending payout entries
//	@Tags		admin
//	@Produce	json
//	@Success	200	{array}	db.LedgerEntry
//	@Security	accessToken
//	@Router		/admin/payouts/pending [get]
func (server *Server) adminListPendingPayouts(ctx *gin.Context) {
	payouts, err := server.dbStore.ListPendingPayouts(ctx)
	if err != nil {
		log.Err(err).Msg("failed to list pending payouts")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, payouts)
}
