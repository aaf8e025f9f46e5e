package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"orderdesk/entity"
	"orderdesk/events"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestOrderHubStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := NewOrderHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(stopped)
	}()

	h.Publish(ctx, events.New(events.OrderDeleted, 1, nil))
	cancel()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
}

func TestOrderHubPublishDropsWhenBacklogFull(t *testing.T) {
	h := NewOrderHub(nil)
	for i := 0; i < cap(h.broadcast)+5; i++ {
		h.Publish(context.Background(), events.New(events.OrderUpdated, uint(i), nil))
	}
	assert.Len(t, h.broadcast, cap(h.broadcast))
}

func TestOrderHubBroadcastsToClients(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewOrderHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	r := gin.New()
	r.GET("/ws/orders", h.HandleWebSocket)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/orders"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return h.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	h.Publish(ctx, events.New(events.OrderCreated, 7, &entity.Order{ID: 7, TableNumber: 15, Status: entity.StatusPending}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev events.OrderEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, events.OrderCreated, ev.Type)
	assert.Equal(t, uint(7), ev.OrderID)
	assert.Equal(t, 15, ev.Order.TableNumber)

	conn.Close()
	require.Eventually(t, func() bool { return h.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}
