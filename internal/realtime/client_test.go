package realtime

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type presenceCall struct {
	restaurantID string
	online       bool
}

type fakePresence struct {
	mu    sync.Mutex
	calls []presenceCall
}

func (f *fakePresence) SetOnlineByID(_ context.Context, restaurantID string, online bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, presenceCall{restaurantID: restaurantID, online: online})
	return nil
}

func (f *fakePresence) snapshot() []presenceCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]presenceCall, len(f.calls))
	copy(out, f.calls)
	return out
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func joinRestaurant(t *testing.T, conn *websocket.Conn, restaurantID string) {
	t.Helper()

	require.NoError(t, conn.WriteJSON(map[string]string{
		"event": EventRestaurantOnline,
		"data":  restaurantID,
	}))
}

func TestServeWSPresence(t *testing.T) {
	hub := newTestHub()
	presence := &fakePresence{}
	srv := httptest.NewServer(ServeWS(hub, presence, zap.NewNop().Sugar()))
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()

	joinRestaurant(t, conn, "R1")

	require.Eventually(t, func() bool {
		return len(presence.snapshot()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []presenceCall{{"R1", true}}, presence.snapshot())
	assert.Equal(t, 1, hub.GroupSize("R1"))

	conn.Close()

	require.Eventually(t, func() bool {
		return len(presence.snapshot()) == 2
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, presenceCall{"R1", false}, presence.snapshot()[1])
	assert.Equal(t, 0, hub.GroupSize("R1"))
}

func TestServeWSRejoinClearsPreviousRestaurant(t *testing.T) {
	hub := newTestHub()
	presence := &fakePresence{}
	srv := httptest.NewServer(ServeWS(hub, presence, zap.NewNop().Sugar()))
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()

	joinRestaurant(t, conn, "R1")
	joinRestaurant(t, conn, "R2")

	// the first restaurant must be flagged offline before the second comes online
	require.Eventually(t, func() bool {
		return len(presence.snapshot()) == 3
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []presenceCall{
		{"R1", true},
		{"R1", false},
		{"R2", true},
	}, presence.snapshot())
	assert.Equal(t, 0, hub.GroupSize("R1"))
	assert.Equal(t, 1, hub.GroupSize("R2"))

	conn.Close()

	require.Eventually(t, func() bool {
		return len(presence.snapshot()) == 4
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, presenceCall{"R2", false}, presence.snapshot()[3])
}

func TestServeWSRejoinSameRestaurant(t *testing.T) {
	hub := newTestHub()
	presence := &fakePresence{}
	srv := httptest.NewServer(ServeWS(hub, presence, zap.NewNop().Sugar()))
	defer srv.Close()

	conn := dialWS(t, srv)
	defer conn.Close()

	joinRestaurant(t, conn, "R1")
	joinRestaurant(t, conn, "R1")

	require.Eventually(t, func() bool {
		return len(presence.snapshot()) == 2
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []presenceCall{
		{"R1", true},
		{"R1", true},
	}, presence.snapshot(), "re-joining the same restaurant must not flip it offline")
	assert.Equal(t, 1, hub.GroupSize("R1"))
}
