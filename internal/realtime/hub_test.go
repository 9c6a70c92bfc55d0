package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Rrens/careops/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub(8)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		workspaceID, err := uuid.Parse(r.URL.Query().Get("workspace"))
		if err != nil {
			http.Error(w, "bad workspace", http.StatusBadRequest)
			return
		}
		hub.ServeWorkspace(w, r, workspaceID)
	}))

	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, workspaceID uuid.UUID) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?workspace=" + workspaceID.String()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_PublishReachesOnlyWorkspaceRoom(t *testing.T) {
	hub, srv := startHub(t)

	wsA := uuid.New()
	wsB := uuid.New()
	connA := dial(t, srv, wsA)
	connB := dial(t, srv, wsB)

	assert.Eventually(t, func() bool {
		return hub.ClientCount(wsA) == 1 && hub.ClientCount(wsB) == 1
	}, 2*time.Second, 10*time.Millisecond)

	alert := domain.AlertSummary{
		ID:       uuid.New(),
		Type:     "NEW_CONTACT",
		Priority: domain.PriorityMedium,
		Title:    "New contact: Ana",
	}
	require.NoError(t, hub.Publish(context.Background(), wsA, alert))

	connA.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := connA.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Type string              `json:"type"`
		Data domain.AlertSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, EventAlertCreated, event.Type)
	assert.Equal(t, alert.ID, event.Data.ID)
	assert.Equal(t, "New contact: Ana", event.Data.Title)

	connB.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = connB.ReadMessage()
	assert.Error(t, err, "other workspace must not receive the alert")
}

func TestHub_ClientLeavesRoomOnClose(t *testing.T) {
	hub, srv := startHub(t)

	ws := uuid.New()
	conn := dial(t, srv, ws)

	assert.Eventually(t, func() bool { return hub.ClientCount(ws) == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()

	assert.Eventually(t, func() bool { return hub.ClientCount(ws) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_PublishAfterShutdown(t *testing.T) {
	hub := NewHub(1)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	// Fill the buffered queue so the closed hub is the only ready case
	var err error
	for i := 0; i < 100 && err == nil; i++ {
		err = hub.Publish(context.Background(), uuid.New(), domain.AlertSummary{})
	}
	assert.ErrorIs(t, err, ErrHubClosed)
}

type recordingPublisher struct {
	mu    sync.Mutex
	calls []uuid.UUID
	err   error
}

func (p *recordingPublisher) Publish(_ context.Context, workspaceID uuid.UUID, _ domain.AlertSummary) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, workspaceID)
	return p.err
}

func TestFanout_PublishesToAllAndJoinsErrors(t *testing.T) {
	ws := uuid.New()
	ok := &recordingPublisher{}
	failing := &recordingPublisher{err: errors.New("telegram down")}

	err := Fanout{ok, nil, failing}.Publish(context.Background(), ws, domain.AlertSummary{})

	assert.ErrorContains(t, err, "telegram down")
	assert.Equal(t, []uuid.UUID{ws}, ok.calls)
	assert.Equal(t, []uuid.UUID{ws}, failing.calls)
}

func TestRedisBridge_Deliver(t *testing.T) {
	ws := uuid.New()

	t.Run("forwards decoded envelope", func(t *testing.T) {
		local := &recordingPublisher{}
		bridge := NewRedisBridge(nil, "careops:alerts", local)

		payload, err := json.Marshal(bridgeEnvelope{WorkspaceID: ws, Alert: domain.AlertSummary{Title: "x"}})
		require.NoError(t, err)

		bridge.deliver(context.Background(), string(payload))
		assert.Equal(t, []uuid.UUID{ws}, local.calls)
	})

	t.Run("drops malformed payload", func(t *testing.T) {
		local := &recordingPublisher{}
		bridge := NewRedisBridge(nil, "careops:alerts", local)

		bridge.deliver(context.Background(), "{not json")
		bridge.deliver(context.Background(), `{"alert":{"title":"x"}}`)
		assert.Empty(t, local.calls)
	})
}
