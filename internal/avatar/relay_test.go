package avatar

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsURL(u string) string {
	return "ws" + strings.TrimPrefix(u, "http")
}

func TestFilterInbound(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  bool
	}{
		{name: "allowed type", frame: `{"type":"init-stream"}`, want: true},
		{name: "every allowed type", frame: `{"type":"delete-stream","payload":{}}`, want: true},
		{name: "unknown type", frame: `{"type":"unknown-type"}`},
		{name: "missing type", frame: `{"payload":{"x":1}}`},
		{name: "non-string type", frame: `{"type":5}`},
		{name: "not json", frame: `hello`},
		{name: "json array", frame: `["sdp"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := FilterInbound([]byte(tt.frame))
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestFilterInbound_StripsAuthorization(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		keep  string
	}{
		{
			name:  "top level and payload",
			frame: `{"type":"sdp","Authorization":"Bearer a","payload":{"answer":"v=0","authorization":"Bearer b"}}`,
			keep:  `"answer":"v=0"`,
		},
		{
			name:  "nested object",
			frame: `{"type":"ice","payload":{"candidate":"c","headers":{"authorization":"Bearer x"}}}`,
			keep:  `"candidate":"c"`,
		},
		{
			name:  "inside array",
			frame: `{"type":"stream-text","payload":{"parts":[{"text":"hi","AUTHORIZATION":"Bearer y"}]}}`,
			keep:  `"text":"hi"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok := FilterInbound([]byte(tt.frame))
			require.True(t, ok)
			assert.NotContains(t, strings.ToLower(string(out)), "authorization")
			assert.NotContains(t, string(out), "Bearer")
			assert.Contains(t, string(out), tt.keep)
		})
	}
}

func TestFilterInbound_PreservesNumbers(t *testing.T) {
	out, ok := FilterInbound([]byte(`{"type":"stream-audio","payload":{"seq":12345678901234567890,"gain":0.25}}`))
	require.True(t, ok)
	assert.Contains(t, string(out), `"seq":12345678901234567890`)
	assert.Contains(t, string(out), `"gain":0.25`)
}

func TestFilterInbound_RejectsTrailingData(t *testing.T) {
	_, ok := FilterInbound([]byte(`{"type":"sdp"} {"type":"ice"}`))
	assert.False(t, ok)
}

func TestRelay_ForwardsOnlyAllowedFrames(t *testing.T) {
	received := make(chan []byte, 10)
	authHeader := make(chan string, 1)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader <- r.Header.Get("Authorization")
		conn, err := (&websocket.Upgrader{}).Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			received <- data
		}
	}))
	defer upstream.Close()

	front := httptest.NewServer(NewRelay(wsURL(upstream.URL), "secret", nil))
	defer front.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(front.URL), nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	for _, frame := range []string{
		`{"type":"unknown-type","payload":{"answer":"x"}}`,
		`not json`,
		`{"payload":{"answer":"x"}}`,
		`{"type":"sdp","payload":{"answer":"v=0","authorization":"Bearer stolen"}}`,
	} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
	}

	select {
	case data := <-received:
		var msg map[string]any
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, "sdp", msg["type"])
		payload := msg["payload"].(map[string]any)
		assert.Equal(t, "v=0", payload["answer"])
		assert.NotContains(t, payload, "authorization")
	case <-time.After(2 * time.Second):
		t.Fatal("sdp frame was not forwarded")
	}

	select {
	case extra := <-received:
		t.Fatalf("unexpected frame forwarded: %s", extra)
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, "Basic secret", <-authHeader)
}

func TestRelay_ForwardsUpstreamFrames(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := (&websocket.Upgrader{}).Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"sdp","offer":"v=0"}`))
		_, _, _ = conn.ReadMessage()
	}))
	defer upstream.Close()

	front := httptest.NewServer(NewRelay(wsURL(upstream.URL), "", nil))
	defer front.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(front.URL), nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"sdp","offer":"v=0"}`, string(data))
}

func TestRelay_UpstreamCloseClosesClient(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := (&websocket.Upgrader{}).Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		_ = conn.Close()
	}))
	defer upstream.Close()

	front := httptest.NewServer(NewRelay(wsURL(upstream.URL), "", nil))
	defer front.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(front.URL), nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	var netErr net.Error
	if errors.As(err, &netErr) {
		assert.False(t, netErr.Timeout(), "client leg should be closed, not time out")
	}
}

func TestRelay_UpstreamUnavailable(t *testing.T) {
	front := httptest.NewServer(NewRelay("ws://127.0.0.1:1/unreachable", "", nil))
	defer front.Close()

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(front.URL), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}
