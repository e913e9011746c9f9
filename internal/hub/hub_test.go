package hub

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()
	h := New(log.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return h, srv, cancel
}

// connect opens an SSE stream and consumes the greeting
func connect(t *testing.T, srv *httptest.Server) (*http.Response, *bufio.Reader) {
	t.Helper()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, ": connected "), "got %q", line)
	return resp, r
}

// nextData returns the payload of the next data line, skipping comments
func nextData(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if payload, ok := strings.CutPrefix(line, "data: "); ok {
			return strings.TrimSpace(payload)
		}
	}
}

func TestBroadcastReachesClients(t *testing.T) {
	h, srv, _ := startHub(t)
	_, r1 := connect(t, srv)
	_, r2 := connect(t, srv)

	assert.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	h.Broadcast(map[string]any{"type": "device_created", "payload": 1})

	assert.JSONEq(t, `{"type":"device_created","payload":1}`, nextData(t, r1))
	assert.JSONEq(t, `{"type":"device_created","payload":1}`, nextData(t, r2))
}

func TestUnmarshalableEventIsSkipped(t *testing.T) {
	h, srv, _ := startHub(t)
	_, r := connect(t, srv)

	h.Broadcast(func() {})
	h.Broadcast("next")

	assert.Equal(t, `"next"`, nextData(t, r))
}

func TestClientDisconnectUnregisters(t *testing.T) {
	h, srv, _ := startHub(t)
	resp, _ := connect(t, srv)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	resp.Body.Close()

	assert.Eventually(t, func() bool { return h.ClientCount() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestStopClosesStreams(t *testing.T) {
	h, srv, cancel := startHub(t)
	_, r := connect(t, srv)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()

	_, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.Zero(t, h.ClientCount())

	// new clients are turned away once the hub is gone
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestKeepAlive(t *testing.T) {
	h, srv, _ := startHub(t)
	h.SetKeepAlive(10 * time.Millisecond)
	_, r := connect(t, srv)

	line, err := r.ReadString('\n')
	require.NoError(t, err)
	if line == "\n" {
		line, err = r.ReadString('\n')
		require.NoError(t, err)
	}
	assert.Equal(t, ": keepalive\n", line)
}

func TestServeHTTPRequiresFlusher(t *testing.T) {
	h := New(log.New(io.Discard))
	w := &plainWriter{header: http.Header{}}

	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))

	assert.Equal(t, http.StatusInternalServerError, w.status)
}

type plainWriter struct {
	header http.Header
	status int
}

func (w *plainWriter) Header() http.Header         { return w.header }
func (w *plainWriter) Write(b []byte) (int, error) { return len(b), nil }
func (w *plainWriter) WriteHeader(status int)      { w.status = status }
