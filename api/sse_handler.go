package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gogomarket/gogomarket-BE/internal/event"
)

// @Summary		Stream order events via Server-Sent Events
// @Description	Establishes an SSE connection to receive real-time updates about an order
// @Tags			orders
// @Produce		text/event-stream
// @Param			id	path		string	true	"Order ID"
// @Success		200	{string}	string	"Event stream. Data will be sent as SSE events with format: 'event: {eventType}\ndata: {jsonData}'"
// @Failure		400	{object}	object	"Invalid order ID format"
// @Security		accessToken
// @Router			/orders/{id}/stream [get]
func (server *Server) streamOrderEvents(c *gin.Context) {
	order, ok := server.getAuthorizedOrder(c)
	if !ok {
		return
	}

	topic := fmt.Sprintf("order:%s", order.ID)
	server.streamTopic(c, topic)
}

// @Summary		Stream the authenticated user's events via Server-Sent Events
// @Tags			users
// @Produce		text/event-stream
// @Success		200	{string}	string	"Event stream"
// @Security		accessToken
// @Router			/users/me/stream [get]
func (server *Server) streamUserEvents(c *gin.Context) {
	userID := getAuthPayload(c).Subject

	topic := fmt.Sprintf("user:%s", userID)
	server.streamTopic(c, topic)
}

func (server *Server) streamTopic(c *gin.Context, topic string) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Status(http.StatusOK)

	clientChan := make(chan event.Event)
	server.eventSender.Register(topic, clientChan)
	defer server.eventSender.Unregister(topic, clientChan)

	for {
		select {
		case evt := <-clientChan:
			data, _ := json.Marshal(evt.Data)
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", evt.Type, data)
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
