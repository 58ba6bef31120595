package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indentdesk/internal/auth"
	"indentdesk/internal/config"
	"indentdesk/internal/shared/testutil"
	"indentdesk/pkg/contracts/events"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub("test", nil, logger)
	hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

func dial(t *testing.T, hub *Hub, username string) *websocket.Conn {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	handler := NewHandler(hub, config.Default().WebSocket, nil, logger)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if username != "" {
			ctx = auth.WithClaims(ctx, &auth.Claims{Username: username})
		}
		handler.ServeHTTP(w, r.WithContext(ctx))
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) events.WebSocketMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg events.WebSocketMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestHub_StartStopIdempotent(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub("test", nil, logger)

	hub.Start()
	hub.Start()
	assert.True(t, hub.Running())

	hub.Stop()
	hub.Stop()
	assert.False(t, hub.Running())
}

func TestHub_GreetsAndBroadcasts(t *testing.T) {
	hub := newTestHub(t)
	conn := dial(t, hub, "asha")

	hello := readMessage(t, conn)
	assert.Equal(t, events.MessageTypeConnect, hello.Type)
	data := hello.Data.(map[string]interface{})
	assert.Equal(t, "asha", data["username"])
	assert.Equal(t, "test", data["version"])
	assert.NotEmpty(t, data["clientId"])

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Broadcast(string(events.MessageTypeSheetUpdated), events.SheetUpdated{
		Sheet:        "INDENT",
		Action:       "update",
		IndentNumber: "SI-0001",
		Rows:         2,
	})

	update := readMessage(t, conn)
	assert.Equal(t, events.MessageTypeSheetUpdated, update.Type)
	assert.NotEmpty(t, update.ID)
	payload := update.Data.(map[string]interface{})
	assert.Equal(t, "SI-0001", payload["indentNumber"])
	assert.Equal(t, float64(2), payload["rows"])

	assert.Equal(t, int64(1), hub.Stats()["total_connections"])
}

func TestHub_ClientDisconnectUnregisters(t *testing.T) {
	hub := newTestHub(t)
	conn := dial(t, hub, "")
	readMessage(t, conn)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastWhenStoppedIsDropped(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub("test", nil, logger)

	assert.NotPanics(t, func() {
		hub.Broadcast("sheet.updated", map[string]string{"sheet": "INDENT"})
	})
	assert.Zero(t, hub.ClientCount())
}

func TestHandler_RejectsWhenHubStopped(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hub := NewHub("test", nil, logger)
	handler := NewHandler(hub, config.Default().WebSocket, nil, logger)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{name: "no origin header", want: true},
		{name: "same host", origin: "http://example.com", want: true},
		{name: "listed origin", allowed: []string{"http://localhost:5173"}, origin: "http://localhost:5173", want: true},
		{name: "wildcard", allowed: []string{"*"}, origin: "http://evil.test", want: true},
		{name: "foreign origin", allowed: []string{"http://localhost:5173"}, origin: "http://evil.test", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "http://example.com/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, checkOrigin(tt.allowed)(r))
		})
	}
}
