package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"golang.org/x/net/websocket"
)

const (
	sendChanSize    = 512
	receiveChanSize = 64
)

// Handler represents a medtouch handler.
type Handler interface {
	// Handles a client connection. Returning an error closes the connection.
	HandleConnect(conn *websocket.Conn) error

	// Handles a client's disconnection.
	HandleDisconnect(error)

	// Handles a ping request.
	HandlePing(ctx context.Context, respond ResponseSender, msg Msg) error

	// Handles a touch frame.
	HandleTouchFrame(ctx context.Context, respond ResponseSender, msg Msg) error

	// Runs a poll cycle: polls the latest touch frame, updates the cursor
	// tracker and sends the resulting action.
	HandleCycle(ctx context.Context, respond ResponseSender) error

	// Creates a message receiver used to receive incoming messages.
	Receiver() Receiver

	// Creates a message sender passed in service methods in order to send
	// messages.
	Sender() Sender

	// Closes the service and releases its allocated resources.
	Close()

	// The interval between each poll cycle.
	PollInterval() time.Duration

	// The time a client is idle before being disconnected.
	IdleTimeout() time.Duration

	// The screen currently shown to the client.
	CurrentScreen() string

	// Returns the client identifier.
	GetClientID() string
}

// Handle handles the given service.
func Handle(ctx context.Context, conn *websocket.Conn, h Handler) {
	handler := handler{
		Conn:    conn,
		Handler: h,
	}

	handler.Handle(ctx)
}

type handler struct {
	// The WebSocket connection.
	Conn *websocket.Conn

	// The medtouch handler.
	Handler Handler

	sendChan       chan Msg
	sender         Sender
	receiveChan    chan Msg
	receiver       Receiver
	disconnectChan chan error
}

func (h *handler) Handle(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := h.Handler.HandleConnect(h.Conn); err != nil {
		h.handleDisconnect(errors.New("handling connection failed").Wrap(err))
		return
	}

	h.disconnectChan = make(chan error, 8)
	defer func() {
		for len(h.disconnectChan) != 0 {
			<-h.disconnectChan
		}
	}()

	var wg sync.WaitGroup

	h.sendChan = make(chan Msg, sendChanSize)
	h.sender = h.Handler.Sender()

	wg.Add(1)
	go func() {
		defer wg.Done()
		h.startSending(ctx)
	}()

	h.receiveChan = make(chan Msg, receiveChanSize)
	h.receiver = h.Handler.Receiver()

	wg.Add(1)
	go func() {
		defer wg.Done()
		h.startReceiving(ctx)
	}()

	idleTimeout := h.Handler.IdleTimeout()
	idleTimer := time.NewTimer(idleTimeout)
	defer idleTimer.Stop()

	pollTicker := time.NewTicker(h.Handler.PollInterval())
	defer pollTicker.Stop()

	var responder = responseSender{
		send:    h.send,
		sendMsg: h.sendMsg,
	}

	var disconnectErr error

loop:
	for {
		select {
		case <-ctx.Done():
			disconnectErr = ctx.Err()
			break loop

		case <-idleTimer.C:
			h.disconnect(errors.New("idle connection").WithTag("duration", h.Handler.IdleTimeout()))

		case <-pollTicker.C:
			if err := h.Handler.HandleCycle(ctx, responder); err != nil {
				h.disconnect(errors.New("handling poll cycle failed").Wrap(err))
			}

		case msg := <-h.receiveChan:
			idleTimer.Stop()
			idleTimer.Reset(idleTimeout)

			if err := h.handleMessage(ctx, msg, responder); err != nil {
				h.disconnect(errors.New("handling message failed").Wrap(err))
			}

		case err := <-h.disconnectChan:
			disconnectErr = err
			break loop
		}
	}

	// Closing the connection unblocks the receiving goroutine.
	cancel()
	h.handleDisconnect(disconnectErr)
	wg.Wait()
}

func (h *handler) send(t MsgType, data any) {
	msg, err := NewMsg(t, data)
	if err != nil {
		logs.WithTag("msg_type", t).
			WithTag(logs.ClientIDTag, h.Handler.GetClientID()).
			Debug(err)
		return
	}
	h.sendMsg(msg)
}

func (h *handler) sendMsg(msg Msg) {
	select {
	case h.sendChan <- msg:
	default:
		logs.WithTag("msg_type", msg.Type).
			WithTag(logs.ClientIDTag, h.Handler.GetClientID()).
			Warn(errors.New("send queue is full, message dropped"))
	}
}

func (h *handler) startSending(ctx context.Context) {
	defer func() {
		for len(h.sendChan) != 0 {
			<-h.sendChan
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case msg := <-h.sendChan:
			if _, err := h.sender(msg); err != nil {
				h.disconnect(errors.New("sending message failed").Wrap(err))
				return
			}
		}
	}
}

func (h *handler) startReceiving(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		default:
			msg, _, err := h.receiver()
			if err != nil {
				h.disconnect(errors.New("receiving message failed").Wrap(err))
				return
			}

			select {
			case <-ctx.Done():
				return
			case h.receiveChan <- msg:
			}
		}
	}
}

func (h *handler) handleMessage(ctx context.Context, msg Msg, responder ResponseSender) error {
	switch msg.Type {
	case MsgTypePing:
		return h.Handler.HandlePing(ctx, responder, msg)

	case MsgTypeTouchFrame:
		return h.Handler.HandleTouchFrame(ctx, responder, msg)

	default:
		responder.Send(MsgTypeError, ErrorData{
			Code:    ErrTypeMsgDecoding,
			Message: "unknown message type: " + string(msg.Type),
		})
		return nil
	}
}

func (h *handler) disconnect(err error) {
	select {
	case h.disconnectChan <- err:
	default:
	}
}

func (h *handler) handleDisconnect(err error) {
	h.Conn.Close()
	h.Handler.HandleDisconnect(err)
}

type responseSender struct {
	send    func(MsgType, any)
	sendMsg func(Msg)
}

func (r responseSender) Send(t MsgType, data any) {
	r.send(t, data)
}

func (r responseSender) SendMsg(msg Msg) {
	r.sendMsg(msg)
}
