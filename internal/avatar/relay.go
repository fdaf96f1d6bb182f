package avatar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// allowedTypes are the inbound message types forwarded upstream.
var allowedTypes = map[string]bool{
	"init-stream":   true,
	"sdp":           true,
	"ice":           true,
	"stream-audio":  true,
	"stream-text":   true,
	"delete-stream": true,
}

// errLegClosed ends a relay leg whose peer went away.
var errLegClosed = errors.New("relay leg closed")

// FilterInbound applies the inbound allow-list to a browser frame. It returns the frame
// to forward with every authorization field removed, or false if the frame is dropped.
func FilterInbound(data []byte) ([]byte, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var msg map[string]any
	if err := dec.Decode(&msg); err != nil || dec.More() {
		return nil, false
	}
	typ, ok := msg["type"].(string)
	if !ok || !allowedTypes[typ] {
		return nil, false
	}

	stripAuthorization(msg)

	out, err := json.Marshal(msg)
	if err != nil {
		return nil, false
	}
	return out, true
}

// stripAuthorization removes authorization keys at any depth.
func stripAuthorization(v any) {
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			if strings.EqualFold(k, "authorization") {
				delete(node, k)
				continue
			}
			stripAuthorization(child)
		}
	case []any:
		for _, child := range node {
			stripAuthorization(child)
		}
	}
}

// Relay bridges a browser WebSocket to the avatar platform's WebSocket. Both legs
// share one lifetime: when either closes, the other is closed too.
type Relay struct {
	upstreamURL string
	apiKey      string
	dialer      *websocket.Dialer
	upgrader    websocket.Upgrader
}

// NewRelay creates a Relay. allowedOrigins restricts browser origins; empty allows any.
func NewRelay(upstreamURL, apiKey string, allowedOrigins []string) *Relay {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[strings.TrimRight(o, "/")] = true
	}
	return &Relay{
		upstreamURL: upstreamURL,
		apiKey:      apiKey,
		dialer:      &websocket.Dialer{HandshakeTimeout: 15 * time.Second},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(origins) == 0 || origin == "" || origins[origin]
			},
		},
	}
}

// ServeHTTP upgrades the request and relays until either side disconnects.
func (r *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	upstream, resp, err := r.dialer.DialContext(req.Context(), r.upstreamURL, r.upstreamHeader())
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		log.Error().Err(err).Msg("failed to dial avatar upstream")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"Avatar service unavailable"}`))
		return
	}

	client, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		_ = upstream.Close()
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	// The request context ends once the handler returns; hijacked connections outlive it.
	if err := Pipe(context.WithoutCancel(req.Context()), client, upstream); err != nil {
		log.Warn().Err(err).Msg("avatar relay ended with error")
	}
}

func (r *Relay) upstreamHeader() http.Header {
	h := http.Header{}
	if r.apiKey != "" {
		h.Set("Authorization", "Basic "+r.apiKey)
	}
	return h
}

// Pipe relays frames between client and upstream until one side closes or ctx is done.
// Inbound frames pass through FilterInbound; upstream frames are forwarded unchanged.
// Both connections are closed on return.
func Pipe(ctx context.Context, client, upstream *websocket.Conn) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return relayInbound(client, upstream) })
	g.Go(func() error { return relayOutbound(upstream, client) })
	g.Go(func() error {
		<-gctx.Done()
		_ = client.Close()
		_ = upstream.Close()
		return nil
	})

	err := g.Wait()
	if errors.Is(err, errLegClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func relayInbound(client, upstream *websocket.Conn) error {
	for {
		_, data, err := client.ReadMessage()
		if err != nil {
			return legError(err)
		}
		out, ok := FilterInbound(data)
		if !ok {
			log.Debug().Int("bytes", len(data)).Msg("dropped inbound avatar frame")
			continue
		}
		if err := upstream.WriteMessage(websocket.TextMessage, out); err != nil {
			return legError(err)
		}
	}
}

func relayOutbound(upstream, client *websocket.Conn) error {
	for {
		kind, data, err := upstream.ReadMessage()
		if err != nil {
			return legError(err)
		}
		if err := client.WriteMessage(kind, data); err != nil {
			return legError(err)
		}
	}
}

// legError turns the end of a leg into errLegClosed so the group cancels the other leg.
// Abnormal closes are kept so they can be logged.
func legError(err error) error {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
		errors.Is(err, websocket.ErrCloseSent) || errors.Is(err, net.ErrClosed) {
		return errLegClosed
	}
	return err
}
