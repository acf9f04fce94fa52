package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dogwatch-dev/dogwatch/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedServer(t *testing.T, origins []string) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(origins, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := gin.New()
	r.GET("/ws/dogs", hub.Serve)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/dogs"
}

func readEvent(t *testing.T, conn *websocket.Conn) DogEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var event DogEvent
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

func TestDogFeedBroadcast(t *testing.T) {
	hub, url := newFeedServer(t, nil)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, EventConnected, readEvent(t, conn).Type)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Broadcast(context.Background(), DogEvent{
		Type:   EventDogCreated,
		DogID:  4,
		UserID: 2,
		Dog:    &types.DogResponse{ID: 4, Name: "Rex", UserID: 2},
	})

	event := readEvent(t, conn)
	assert.Equal(t, EventDogCreated, event.Type)
	assert.Equal(t, uint(4), event.DogID)
	require.NotNil(t, event.Dog)
	assert.Equal(t, "Rex", event.Dog.Name)
}

func TestDogFeedRejectsUnknownOrigin(t *testing.T) {
	hub, url := newFeedServer(t, []string{"http://localhost:5173"})

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, hub.ClientCount())

	header = http.Header{"Origin": []string{"http://localhost:5173"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, EventConnected, readEvent(t, conn).Type)
}

func TestBroadcastWithoutClients(t *testing.T) {
	hub := NewHub(nil, nil)
	assert.NotPanics(t, func() {
		hub.Broadcast(context.Background(), DogEvent{Type: EventDogDeleted, DogID: 1})
	})
}

func TestBroadcastDropsClientThatStopsReading(t *testing.T) {
	hub, url := newFeedServer(t, nil)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, EventConnected, readEvent(t, conn).Type)

	// The client never reads again, so its socket and queue fill up.
	dog := &types.DogResponse{ID: 1, Name: strings.Repeat("x", 64*1024)}
	start := time.Now()
	for i := 0; i < 500; i++ {
		hub.Broadcast(context.Background(), DogEvent{Type: EventDogUpdated, DogID: 1, Dog: dog})
	}
	assert.Less(t, time.Since(start), 2*time.Second, "broadcast must not wait on a stalled client")

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 5*time.Second, 10*time.Millisecond)
}
