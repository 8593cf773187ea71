package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu    sync.Mutex
	saved []string
}

func (s *memoryStore) SaveSocketMessage(_ context.Context, roomID, senderID int64, content string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, content)
	return int64(len(s.saved)), nil
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func startServer(t *testing.T, hub *Hub, opts ...ClientOption) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler := NewHandler(hub, nil, zerolog.Nop())
	r := gin.New()
	r.GET("/ws/:user/:room", func(c *gin.Context) {
		userID, _ := strconv.ParseInt(c.Param("user"), 10, 64)
		roomID, _ := strconv.ParseInt(c.Param("room"), 10, 64)
		_ = handler.Serve(c, userID, roomID, opts...)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, path string) *gorillaws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, resp, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *gorillaws.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHub_ChatRoomBroadcastAndPersist(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	store := &memoryStore{}
	NewMessageHandler(store, hub, zerolog.Nop()).Start(ctx)

	srv := startServer(t, hub)
	alice := dial(t, srv, "/ws/1/10")
	bob := dial(t, srv, "/ws/2/10")
	outsider := dial(t, srv, "/ws/3/11")

	require.Eventually(t, func() bool { return hub.GetClientsCount(10) == 2 && hub.GetClientsCount(11) == 1 },
		2*time.Second, 10*time.Millisecond)

	require.NoError(t, alice.WriteJSON(map[string]interface{}{"content": "salam", "senderId": 99, "roomId": 11}))

	got := readMessage(t, bob)
	assert.Equal(t, MessageTypeText, got.Type)
	assert.Equal(t, "salam", got.Content)
	assert.Equal(t, int64(1), got.SenderID)
	assert.Equal(t, int64(10), got.RoomID)

	require.NoError(t, outsider.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	_, _, err := outsider.ReadMessage()
	assert.Error(t, err)

	assert.Eventually(t, func() bool { return store.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	// REST-originated lines are pushed but not stored again
	hub.BroadcastToRoom(&Message{Type: MessageTypeChatMessage, RoomID: 10, Content: "stored", ID: 5})
	got = readMessage(t, bob)
	assert.Equal(t, int64(5), got.ID)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, store.count())
}

func TestHub_BroadcastToAll(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	srv := startServer(t, hub, WithInbound(DiscardInbound))
	u1 := dial(t, srv, "/ws/1/1")
	u2 := dial(t, srv, "/ws/2/2")
	require.Eventually(t, func() bool { return hub.GetClientsCount(1) == 1 && hub.GetClientsCount(2) == 1 },
		2*time.Second, 10*time.Millisecond)

	hub.BroadcastToAll(&Message{Type: MessageTypeNotification, Payload: map[string]string{"title": "hi"}})
	assert.Equal(t, MessageTypeNotification, readMessage(t, u1).Type)
	assert.Equal(t, MessageTypeNotification, readMessage(t, u2).Type)

	hub.BroadcastToRoom(&Message{Type: MessageTypeNotification, RoomID: 2})
	assert.Equal(t, int64(2), readMessage(t, u2).RoomID)
}

func TestHub_InboundHandlerAndClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)

	closed := make(chan struct{})
	echo := func(c *Client, payload []byte) {
		c.SendMessage(&Message{Type: MessageTypeResults, Content: string(payload)})
	}
	srv := startServer(t, hub, WithInbound(echo), WithOnClose(func() { close(closed) }))
	conn := dial(t, srv, "/ws/4/4")

	require.NoError(t, conn.WriteMessage(gorillaws.TextMessage, []byte("  ping\n")))
	got := readMessage(t, conn)
	assert.Equal(t, MessageTypeResults, got.Type)
	assert.Equal(t, "ping", got.Content)

	cancel()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("client was not closed after hub shutdown")
	}
	assert.False(t, hub.BroadcastToRoom(&Message{RoomID: 4}))
}
