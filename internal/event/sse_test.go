package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSSEServerBroadcast(t *testing.T) {
	sender := NewSSEServer()
	go sender.Run()

	orderClient := make(chan Event, 1)
	otherClient := make(chan Event, 1)
	sender.Register("order:1", orderClient)
	sender.Register("order:2", otherClient)

	sender.Broadcast(Event{
		Topic: "order:1",
		Type:  EventTypeOrderConfirmed,
		Data:  map[string]string{"order_number": "ORD-TEST0001"},
	})

	select {
	case evt := <-orderClient:
		require.Equal(t, EventTypeOrderConfirmed, evt.Type)
		require.Equal(t, "order:1", evt.Topic)
	case <-time.After(time.Second):
		t.Fatal("expected event on order:1 client")
	}

	select {
	case evt := <-otherClient:
		t.Fatalf("unexpected event %s on order:2 client", evt.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSSEServerUnregister(t *testing.T) {
	sender := NewSSEServer()
	go sender.Run()

	client := make(chan Event, 1)
	sender.Register("user:1", client)
	sender.Unregister("user:1", client)

	_, open := <-client
	require.False(t, open)
}
