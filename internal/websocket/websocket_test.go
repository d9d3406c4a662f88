package websocket

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"counselfinder/internal/config"
	"counselfinder/pkg/contracts/events"
)

type mockConn struct {
	written   chan []byte
	pings     chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
}

func newMockConn() *mockConn {
	return &mockConn{
		written: make(chan []byte, 16),
		pings:   make(chan struct{}, 16),
		closed:  make(chan struct{}),
	}
}

func (m *mockConn) WriteMessage(messageType int, data []byte) error {
	switch messageType {
	case gorilla.TextMessage:
		select {
		case m.written <- data:
		default:
		}
	case gorilla.PingMessage:
		select {
		case m.pings <- struct{}{}:
		default:
		}
	}
	return nil
}

func (m *mockConn) ReadMessage() (int, []byte, error) {
	<-m.closed
	return 0, nil, io.EOF
}

func (m *mockConn) Close() error {
	m.closeOnce.Do(func() { close(m.closed) })
	return nil
}

func (m *mockConn) SetReadDeadline(_ time.Time) error  { return nil }
func (m *mockConn) SetWriteDeadline(_ time.Time) error { return nil }
func (m *mockConn) SetReadLimit(_ int64)               {}
func (m *mockConn) SetPongHandler(_ func(string) error) {}
func (m *mockConn) RemoteAddr() string                 { return "test:0" }

func (m *mockConn) nextMessage(t *testing.T) []byte {
	t.Helper()
	select {
	case data := <-m.written:
		return data
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func wsLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHubWelcomesNewClients(t *testing.T) {
	hub := NewHub(wsLogger())
	hub.Start()
	defer hub.Stop()

	conn := newMockConn()
	ServeWS(hub, conn, config.WebSocketConfig{}, wsLogger())
	defer conn.Close()

	var welcome map[string]interface{}
	require.NoError(t, json.Unmarshal(conn.nextMessage(t), &welcome))
	assert.Equal(t, events.TypeConnection, welcome["type"])
	assert.NotEmpty(t, welcome["client_id"])
	assert.Equal(t, 1, hub.ClientCount())
}

func TestHubBroadcastsProgressEvents(t *testing.T) {
	hub := NewHub(wsLogger())
	hub.Start()
	defer hub.Stop()

	conn := newMockConn()
	ServeWS(hub, conn, config.WebSocketConfig{}, wsLogger())
	defer conn.Close()

	conn.nextMessage(t) // welcome

	hub.BroadcastProgress(events.NewProgress("company", "search", "Processing 12 filings in parallel..."))

	var event events.ProgressEvent
	require.NoError(t, json.Unmarshal(conn.nextMessage(t), &event))
	assert.Equal(t, events.TypeProgress, event.Type)
	assert.Equal(t, "company", event.Mode)
	assert.Equal(t, "Processing 12 filings in parallel...", event.Message)
}

func TestHubUnregistersClosedClients(t *testing.T) {
	hub := NewHub(wsLogger())
	hub.Start()
	defer hub.Stop()

	conn := newMockConn()
	ServeWS(hub, conn, config.WebSocketConfig{}, wsLogger())
	conn.nextMessage(t)

	conn.Close()

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClientUsesConfiguredPingPeriod(t *testing.T) {
	hub := NewHub(wsLogger())
	hub.Start()
	defer hub.Stop()

	conn := newMockConn()
	ServeWS(hub, conn, config.WebSocketConfig{
		PingPeriod: 20 * time.Millisecond,
		PongWait:   100 * time.Millisecond,
	}, wsLogger())
	defer conn.Close()

	// The default ping period is close to a minute; a ping this early
	// only arrives if the configured period took effect
	select {
	case <-conn.pings:
	case <-time.After(2 * time.Second):
		t.Fatal("no ping within the configured period")
	}
}

func TestHandlerUpgradesAndStreams(t *testing.T) {
	hub := NewHub(wsLogger())
	hub.Start()
	defer hub.Stop()

	handler := NewHandler(hub, config.WebSocketConfig{ReadBufferSize: 1024, WriteBufferSize: 1024}, wsLogger())
	server := httptest.NewServer(handler)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	_, welcome, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(welcome), events.TypeConnection)

	require.Eventually(t, func() bool {
		return hub.ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.BroadcastProgress(events.NewProgress("lawyer", "probe", `Testing volume for "Jane Doe"...`))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event events.ProgressEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, "lawyer", event.Mode)
}
