package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvMessage(t *testing.T, c *Client) *WebSocketMessage {
	t.Helper()
	select {
	case raw := <-c.send:
		var msg WebSocketMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		return &msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func assertNoMessage(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.send:
		t.Fatalf("unexpected message: %s", raw)
	default:
	}
}

func registerClient(t *testing.T, hub *WebSocketHub) *Client {
	t.Helper()
	client := NewClient(hub, nil)
	hub.Register(client)
	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return hub.clients[client]
	}, time.Second, time.Millisecond)
	return client
}

func TestBroadcastReachesEveryClient(t *testing.T) {
	hub := NewWebSocketHub()
	go hub.Run()

	a := registerClient(t, hub)
	b := registerClient(t, hub)

	require.NoError(t, hub.Broadcast("reference_refreshed", map[string]int{"matches": 12}))

	for _, c := range []*Client{a, b} {
		msg := recvMessage(t, c)
		assert.Equal(t, "reference_refreshed", msg.Type)
		assert.Empty(t, msg.Topic)
	}
}

func TestBroadcastToTopicOnlyReachesSubscribers(t *testing.T) {
	hub := NewWebSocketHub()
	go hub.Run()

	subscribed := registerClient(t, hub)
	subscribed.subscribe([]string{"sweep:job-1"})
	other := registerClient(t, hub)

	require.NoError(t, hub.BroadcastToTopic("sweep:job-1", "sweep_progress", map[string]int{"completed": 3}))

	msg := recvMessage(t, subscribed)
	assert.Equal(t, "sweep_progress", msg.Type)
	assert.Equal(t, "sweep:job-1", msg.Topic)

	assertNoMessage(t, other)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewWebSocketHub()
	go hub.Run()

	client := registerClient(t, hub)
	client.subscribe([]string{"sweep:job-2"})
	client.unsubscribe([]string{"sweep:job-2"})

	require.NoError(t, hub.BroadcastToTopic("sweep:job-2", "sweep_progress", nil))
	assertNoMessage(t, client)
}
