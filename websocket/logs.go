package websocket

import (
	"context"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"golang.org/x/net/websocket"
)

const (
	screenTag = "screen"
)

func HandlerWithLogs(h Handler, summaryInterval time.Duration) Handler {
	ctx, cancel := context.WithCancel(context.Background())

	handler := &handlerWithLogs{
		Handler:            h,
		summaryInterval:    summaryInterval,
		closeSummaryWorker: cancel,
		counter:            make(map[string]int),
	}

	go handler.startSummaryWorker(ctx)
	return handler
}

type handlerWithLogs struct {
	Handler

	originalRequest *http.Request

	summaryInterval    time.Duration
	closeSummaryWorker func()
	counterMutex       sync.Mutex
	counter            map[string]int
}

func (h *handlerWithLogs) HandleConnect(conn *websocket.Conn) error {
	if err := h.Handler.HandleConnect(conn); err != nil {
		logs.WithTag(logs.ClientIDTag, h.GetClientID()).
			Error(errors.New("client connection failed").Wrap(err))
		return err
	}

	h.originalRequest = conn.Request()

	entry := logs.WithTag(logs.ClientIDTag, h.GetClientID()).
		WithTag(screenTag, h.CurrentScreen())
	if h.originalRequest != nil {
		entry = entry.WithTag("http_headers", struct {
			UserAgent     string `json:"user_agent,omitempty"`
			XForwardedFor string `json:"x_forwarded_for,omitempty"`
		}{
			UserAgent:     h.originalRequest.UserAgent(),
			XForwardedFor: h.originalRequest.Header.Get("X-Forwarded-For"),
		})
	}
	entry.Info("new client is connected")
	return nil
}

func (h *handlerWithLogs) HandleCycle(ctx context.Context, respond ResponseSender) error {
	from := h.CurrentScreen()

	if err := h.Handler.HandleCycle(ctx, respond); err != nil {
		return err
	}

	if to := h.CurrentScreen(); to != from {
		logs.WithTag(logs.ClientIDTag, h.GetClientID()).
			WithTag("from", from).
			WithTag("to", to).
			Info("screen changed")
	}
	return nil
}

func (h *handlerWithLogs) HandleDisconnect(err error) {
	screen := h.CurrentScreen()
	h.Handler.HandleDisconnect(err)

	entry := logs.WithTag(logs.ClientIDTag, h.GetClientID()).
		WithTag(screenTag, screen)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
		entry = entry.WithTag("reason", err.Error())
	}
	entry.Info("client disconnected")
}

func (h *handlerWithLogs) Receiver() Receiver {
	receive := h.Handler.Receiver()

	return func() (Msg, int, error) {
		msg, n, err := receive()
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
			logs.WithTag(logs.ClientIDTag, h.GetClientID()).
				WithTag(screenTag, h.CurrentScreen()).
				Error(errors.New("receiving message failed").Wrap(err))
		} else if err == nil {
			logs.WithTag(logs.ClientIDTag, h.GetClientID()).
				WithTag("msg_type", msg.Type).
				WithTag("binary", msg.IsBinary()).
				Debug("message received")
			h.incCounter(string(msg.Type))
		}
		return msg, n, err
	}
}

func (h *handlerWithLogs) Sender() Sender {
	sender := h.Handler.Sender()

	return func(msg Msg) (int, error) {
		n, err := sender(msg)
		if err != nil && !errors.Is(err, net.ErrClosed) {
			logs.WithTag(logs.ClientIDTag, h.GetClientID()).
				WithTag("msg_type", msg.Type).
				Error(errors.New("sending message failed").Wrap(err))
		} else if err == nil && msg.Type != MsgTypeAction {
			logs.WithTag(logs.ClientIDTag, h.GetClientID()).
				WithTag("msg_type", msg.Type).
				Debug("message sent")
		}
		return n, err
	}
}

func (h *handlerWithLogs) Close() {
	h.Handler.Close()
	h.closeSummaryWorker()
	h.logSummary()
}

func (h *handlerWithLogs) startSummaryWorker(ctx context.Context) {
	ticker := time.NewTicker(h.summaryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			h.logSummary()
		}
	}
}

func (h *handlerWithLogs) incCounter(msgType string) {
	h.counterMutex.Lock()
	defer h.counterMutex.Unlock()

	h.counter[msgType]++
}

func (h *handlerWithLogs) logSummary() {
	h.counterMutex.Lock()
	defer h.counterMutex.Unlock()

	if len(h.counter) == 0 {
		return
	}

	entry := logs.
		WithTag(logs.ClientIDTag, h.GetClientID()).
		WithTag("time_interval", h.summaryInterval)

	for k, v := range h.counter {
		entry = entry.WithTag(k, v)
		delete(h.counter, k)
	}

	entry.Info("inbound message summary")
}
