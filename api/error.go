package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gogomarket/gogomarket-BE/internal/db"
	"github.com/rs/zerolog/log"
)

var (
	ErrOrderAccessDenied      = errors.New("order does not belong to the authenticated user")
	ErrInsufficientPermission = errors.New("requires a different role for this action")
)

func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error()}
}

// handleDomainError translates the db package's sentinel errors into HTTP
// statuses. Fatal ledger errors additionally page the operators, since they
// mean an order's money trail no longer adds up.
func (server *Server) handleDomainError(ctx *gin.Context, orderNumber string, err error) {
	if db.IsFatalLedgerError(err) {
		log.Error().Err(err).Str("order_number", orderNumber).Msg("fatal ledger error")
		if server.alertNotifier != nil {
			server.alertNotifier.LedgerError(orderNumber, err)
		}
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	switch {
	case errors.Is(err, db.ErrRecordNotFound):
		ctx.JSON(http.StatusNotFound, errorResponse(err))
	case errors.Is(err, db.ErrInvalidTransition):
		ctx.JSON(http.StatusConflict, errorResponse(err))
	case errors.Is(err, db.ErrTokenAlreadyConsumed):
		ctx.JSON(http.StatusConflict, errorResponse(err))
	case errors.Is(err, db.ErrTokenMismatch):
		ctx.JSON(http.StatusUnprocessableEntity, errorResponse(err))
	case errors.Is(err, db.ErrDuplicateLedgerEntry):
		ctx.JSON(http.StatusConflict, errorResponse(err))
	case errors.Is(err, db.ErrRefundExceedsPayment):
		ctx.JSON(http.StatusUnprocessableEntity, errorResponse(err))
	case errors.Is(err, db.ErrPaymentFailure):
		ctx.JSON(http.StatusUnprocessableEntity, errorResponse(err))
	default:
		log.Err(err).Msg("unhandled error")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
	}
}
