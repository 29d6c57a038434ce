package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

//	@Summary	List the authenticated user's notifications
//	@Tags		notifications
//	@Produce	json
//	@Success	200	{array}	db.Notification
//	@Security	accessToken
//	@Router		/users/me/notifications [get]
func (server *Server) listNotifications(ctx *gin.Context) {
	userID := getAuthPayload(ctx).Subject

	notifications, err := server.dbStore.ListNotificationsByRecipient(ctx, userID)
	if err != nil {
		log.Err(err).Msg("failed to list notifications")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.JSON(http.StatusOK, notifications)
}

//	@Summary	Mark a notification as read
//	@Tags		notifications
//	@Produce	json
//	@Param		id	path	int	true	"Notification ID"
//	@Success	204
//	@Security	accessToken
//	@Router		/notifications/{id}/read [patch]
func (server *Server) markNotificationRead(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	if err = server.dbStore.MarkNotificationRead(ctx, id); err != nil {
		log.Err(err).Msg("failed to mark notification read")
		ctx.JSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}
