package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolhub/internal/app/models"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/ws", NewHandler(hub, zerolog.Nop()).HandleConnection)
	srv := httptest.NewServer(router)

	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *gorilla.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *gorilla.Conn) *Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal(data, &event))
	return &event
}

func TestHub_ClassChannelDelivery(t *testing.T) {
	hub, srv := startHub(t)

	classConn := dial(t, srv, "?classId=5")
	schoolConn := dial(t, srv, "")
	require.Eventually(t, func() bool {
		return hub.ClientsCount(5) == 1 && hub.ClientsCount(SchoolChannel) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Publish(5, &models.Announcement{ID: 1, Title: "Lab moved"})
	event := readEvent(t, classConn)
	assert.Equal(t, "announcement.created", event.Type)
	assert.EqualValues(t, 5, event.Channel)
	assert.EqualValues(t, 1, event.Announcement.ID)

	hub.Publish(SchoolChannel, &models.Announcement{ID: 2, Title: "Sports day"})
	assert.EqualValues(t, 2, readEvent(t, classConn).Announcement.ID)
	// the school-only client never saw the class 5 event
	assert.EqualValues(t, 2, readEvent(t, schoolConn).Announcement.ID)
}

func TestHub_OtherClassNotDelivered(t *testing.T) {
	hub, srv := startHub(t)

	conn := dial(t, srv, "?classId=5")
	require.Eventually(t, func() bool { return hub.ClientsCount(5) == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(9, &models.Announcement{ID: 3})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestHandler_RejectsBadClassID(t *testing.T) {
	_, srv := startHub(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?classId=abc"
	_, resp, err := gorilla.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHub_StoppedHubReleasesClients(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	left := make(chan struct{})
	go func() {
		hub.leave(&Client{hub: hub})
		close(left)
	}()
	select {
	case <-left:
	case <-time.After(time.Second):
		t.Fatal("leave blocked on a stopped hub")
	}
	assert.False(t, hub.join(&Client{hub: hub}))

	// A connection accepted after shutdown is closed instead of parked.
	router := gin.New()
	router.GET("/ws", NewHandler(hub, zerolog.Nop()).HandleConnection)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	conn := dial(t, srv, "")
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	var netErr net.Error
	assert.False(t, errors.As(err, &netErr) && netErr.Timeout(), "connection was left open: %v", err)
}
