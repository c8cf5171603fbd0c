package websocket

import (
	"context"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/net/websocket"
)

const (
	errTypeLabel        = "error_type"
	msgTypeLabel        = "msg_type"
	screenLabel         = "screen"
	publicEndpointLabel = "public_endpoint"

	cycleMsgType = "cycle"
)

var (
	wsConnectedClients = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ws_connected_clients",
		Help: "The number of connected clients.",
	}, []string{
		publicEndpointLabel,
	})

	wsReceivedMsgs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_received_msgs",
		Help: "The number of messages received from WebSocket connections.",
	}, []string{
		publicEndpointLabel,
		msgTypeLabel,
	})

	wsReceivedBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_received_bytes",
		Help: "The number of bytes received from WebSocket connections.",
	}, []string{
		publicEndpointLabel,
		msgTypeLabel,
	})

	wsReceiveError = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_receive_errors",
		Help: "The errors that occured while receiving a websocket message.",
	}, []string{
		publicEndpointLabel,
		errTypeLabel,
	})

	wsSentMsgs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_sent_msgs",
		Help: "The number of messages sent to WebSocket connections.",
	}, []string{
		publicEndpointLabel,
		msgTypeLabel,
	})

	wsSentBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_sent_bytes",
		Help: "The number of bytes sent to WebSocket connections.",
	}, []string{
		publicEndpointLabel,
		msgTypeLabel,
	})

	wsSendError = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_send_errors",
		Help: "The errors that occured while sending a websocket message.",
	}, []string{
		publicEndpointLabel,
		errTypeLabel,
		msgTypeLabel,
	})

	wsMsgLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "ws_msg_latency",
		Help: "The time to process a WebSocket msg or a poll cycle.",
	}, []string{
		publicEndpointLabel,
		msgTypeLabel,
		screenLabel,
	})
)

func HandlerWithMetrics(h Handler, publicEndpoint string) Handler {
	return &handlerWithMetrics{
		Handler:        h,
		publicEndpoint: publicEndpoint,
	}
}

type handlerWithMetrics struct {
	Handler

	publicEndpoint string
	connected      bool
}

func (h *handlerWithMetrics) HandleConnect(conn *websocket.Conn) error {
	if err := h.Handler.HandleConnect(conn); err != nil {
		return err
	}

	h.connected = true
	wsConnectedClients.
		With(prometheus.Labels{
			publicEndpointLabel: h.publicEndpoint,
		}).
		Inc()
	return nil
}

func (h *handlerWithMetrics) HandleDisconnect(err error) {
	if h.connected {
		h.connected = false
		wsConnectedClients.
			With(prometheus.Labels{
				publicEndpointLabel: h.publicEndpoint,
			}).
			Dec()
	}

	h.Handler.HandleDisconnect(err)
}

func (h *handlerWithMetrics) HandlePing(ctx context.Context, sender ResponseSender, msg Msg) error {
	return h.measureLatency(string(msg.Type), func() error {
		return h.Handler.HandlePing(ctx, sender, msg)
	})
}

func (h *handlerWithMetrics) HandleTouchFrame(ctx context.Context, sender ResponseSender, msg Msg) error {
	return h.measureLatency(string(msg.Type), func() error {
		return h.Handler.HandleTouchFrame(ctx, sender, msg)
	})
}

func (h *handlerWithMetrics) HandleCycle(ctx context.Context, sender ResponseSender) error {
	return h.measureLatency(cycleMsgType, func() error {
		return h.Handler.HandleCycle(ctx, sender)
	})
}

func (h *handlerWithMetrics) Receiver() Receiver {
	receive := h.Handler.Receiver()

	return func() (Msg, int, error) {
		msg, n, err := receive()
		if err != nil {
			wsReceiveError.
				With(prometheus.Labels{
					publicEndpointLabel: h.publicEndpoint,
					errTypeLabel:        errors.Type(err),
				}).
				Inc()
		} else {
			wsReceivedMsgs.
				With(prometheus.Labels{
					publicEndpointLabel: h.publicEndpoint,
					msgTypeLabel:        string(msg.Type),
				}).
				Inc()
		}

		if n != 0 {
			wsReceivedBytes.
				With(prometheus.Labels{
					publicEndpointLabel: h.publicEndpoint,
					msgTypeLabel:        string(msg.Type),
				}).
				Add(float64(n))
		}

		return msg, n, err
	}
}

func (h *handlerWithMetrics) Sender() Sender {
	sender := h.Handler.Sender()

	return func(msg Msg) (int, error) {
		msgType := string(msg.Type)

		n, err := sender(msg)
		if err != nil {
			wsSendError.
				With(prometheus.Labels{
					publicEndpointLabel: h.publicEndpoint,
					msgTypeLabel:        msgType,
					errTypeLabel:        errors.Type(err),
				}).
				Inc()
		}

		if n != 0 {
			wsSentMsgs.
				With(prometheus.Labels{
					publicEndpointLabel: h.publicEndpoint,
					msgTypeLabel:        msgType,
				}).
				Inc()
			wsSentBytes.
				With(prometheus.Labels{
					publicEndpointLabel: h.publicEndpoint,
					msgTypeLabel:        msgType,
				}).
				Add(float64(n))
		}

		return n, err
	}
}

func (h *handlerWithMetrics) measureLatency(msgType string, f func() error) error {
	start := time.Now()
	screen := h.CurrentScreen()

	err := f()

	wsMsgLatency.With(prometheus.Labels{
		publicEndpointLabel: h.publicEndpoint,
		msgTypeLabel:        msgType,
		screenLabel:         screen,
	}).Observe(time.Since(start).Seconds())

	return err
}
