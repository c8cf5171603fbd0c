package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/medtouch/featureflag"
	"github.com/aukilabs/medtouch/suite"
	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"
	"golang.org/x/net/websocket"
)

// Creates a testing environement to unit test handlers. It returns a
// connected client and a function to release the environment.
func NewTestingEnv(t *testing.T, newHandler func() Handler) (*websocket.Conn, func()) {
	return NewTestingEnvWithContext(context.Background(), t, newHandler)
}

// NewTestingEnvWithContext is like NewTestingEnv but the server handles
// connections with the given context. Canceling it simulates a server
// shutdown.
func NewTestingEnvWithContext(ctx context.Context, t *testing.T, newHandler func() Handler) (*websocket.Conn, func()) {
	var mutex sync.Mutex
	logger := t.Log

	logs.Encoder = func(v any) ([]byte, error) {
		return json.MarshalIndent(v, "", "  ")
	}

	logs.SetLogger(func(e logs.Entry) {
		mutex.Lock()
		defer mutex.Unlock()

		if logger != nil {
			logger(e)
		}
	})

	errors.Encoder = json.Marshal

	client, close := newTestingEnv(ctx, t, newHandler)
	return client, func() {
		mutex.Lock()
		defer mutex.Unlock()
		logger = nil
		close()
	}
}

func newTestingEnv(ctx context.Context, t *testing.T, newHandler func() Handler) (*websocket.Conn, func()) {
	server := httptest.NewServer(websocket.Server{
		Handshake: func(c *websocket.Config, r *http.Request) error {
			return nil
		},
		Handler: func(conn *websocket.Conn) {
			defer conn.Close()

			handler := newHandler()
			defer handler.Close()

			Handle(ctx, conn, handler)
		},
	})

	config, err := websocket.NewConfig(
		strings.ReplaceAll(server.URL, "http://", "ws://"),
		"http://localhost",
	)
	if err != nil {
		t.Fatalf("error initializing web socket: %s", err)
	}

	config.Header.Set("User-Agent", "ted")
	config.Header.Set("X-Forwarded-For", "192.0.0.0")
	config.Header.Set(HeaderClientID, uuid.NewString())

	client, err := websocket.DialConfig(config)
	if err != nil {
		t.Fatalf("error dialing web socket: %s", err)
	}

	return client, func() {
		client.Close()
		server.Close()
	}
}

// NewTestHandler returns a function that creates decorated touch handlers
// sharing the given store.
func NewTestHandler(store *suite.Store, flags ...featureflag.Flag) func() Handler {
	names := make([]string, len(flags))
	for i, f := range flags {
		names[i] = string(f)
	}

	return func() Handler {
		var h Handler = &TouchHandler{
			ClientPollInterval: time.Millisecond * 20,
			ClientIdleTimeout:  time.Minute,
			Layout:             suite.DefaultLayout(),
			Navigators:         store,
			FeatureFlags:       featureflag.New(names),
		}

		h = HandlerWithLogs(h, time.Millisecond*100)
		h = HandlerWithMetrics(h, "https://medtouch-test.com")
		return h
	}
}

// ReceiveUntil receives messages from conn until one matches the given type
// and the filter, or the timeout expires.
func ReceiveUntil(conn *websocket.Conn, t MsgType, timeout time.Duration, filter func(Msg) bool) (Msg, error) {
	deadline := time.Now().Add(timeout)
	if err := conn.SetReadDeadline(deadline); err != nil {
		return Msg{}, err
	}
	defer conn.SetReadDeadline(time.Time{})

	for {
		msg, _, err := Receive(conn)
		if err != nil {
			return Msg{}, errors.New("receiving message failed").
				WithTag("msg_type", t).
				Wrap(err)
		}

		if msg.Type == t && (filter == nil || filter(msg)) {
			return msg, nil
		}
	}
}
