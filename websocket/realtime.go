package websocket

import (
	"context"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/medtouch/featureflag"
	"github.com/aukilabs/medtouch/models"
	"github.com/aukilabs/medtouch/screens"
	"github.com/aukilabs/medtouch/suite"
	"github.com/aukilabs/medtouch/touch"
	"github.com/google/uuid"
	"golang.org/x/net/websocket"
)

// HeaderClientID is the request header that carries the client identifier.
const HeaderClientID = "X-Medtouch-Client-Id"

// ActionData is the data of an action message.
type ActionData struct {
	Seq     uint64              `json:"seq"`
	Action  screens.Action      `json:"action"`
	Update  models.UpdateResult `json:"update"`
	Cursors []models.Cursor     `json:"cursors,omitempty"`
}

// PingData is the data of ping and pong messages.
type PingData struct {
	Payload string `json:"payload,omitempty"`
}

// TouchHandler represents a service that receives the touch frames of a client
// and runs them through the demo suite at a fixed poll interval.
type TouchHandler struct {
	// The interval between each poll cycle.
	ClientPollInterval time.Duration

	// The time a client is idle before being disconnected.
	ClientIdleTimeout time.Duration

	// The layout of the suite screens.
	Layout suite.Layout

	// The store that contains the navigators of the connected clients.
	Navigators *suite.Store

	FeatureFlags featureflag.FeatureFlag

	conn      *websocket.Conn
	clientID  string
	buffer    touch.Buffer
	navigator *suite.Navigator
	wasIdle   bool
}

func (h *TouchHandler) HandleConnect(conn *websocket.Conn) error {
	h.conn = conn

	if req := conn.Request(); req != nil {
		h.clientID = req.Header.Get(HeaderClientID)
	}
	if h.clientID == "" {
		h.clientID = uuid.NewString()
	}

	navigator, err := suite.NewNavigator(h.Layout)
	if err != nil {
		return errors.New("creating navigator failed").
			WithTag("client_id", h.clientID).
			Wrap(err)
	}
	h.navigator = navigator

	if h.Navigators != nil {
		h.Navigators.Add(navigator)
	}
	return nil
}

func (h *TouchHandler) HandleDisconnect(_ error) {
	if h.navigator == nil {
		return
	}

	h.navigator.Close()
	if h.Navigators != nil {
		h.Navigators.Remove(h.navigator)
	}
	h.buffer.Clear()
}

func (h *TouchHandler) HandlePing(ctx context.Context, respond ResponseSender, msg Msg) error {
	var req PingData
	if err := msg.DataTo(&req); err != nil {
		return err
	}

	res, err := NewMsg(MsgTypePong, req)
	if err != nil {
		return err
	}
	res.RequestID = msg.RequestID
	respond.SendMsg(res)
	return nil
}

func (h *TouchHandler) HandleTouchFrame(ctx context.Context, respond ResponseSender, msg Msg) error {
	frame, err := msg.Frame()
	if err != nil {
		respond.Send(MsgTypeError, ErrorData{
			Code:    errors.Type(err),
			Message: err.Error(),
		})
		return nil
	}

	h.buffer.Push(frame)
	return nil
}

func (h *TouchHandler) HandleCycle(ctx context.Context, respond ResponseSender) error {
	if h.navigator == nil {
		return nil
	}

	c, err := h.navigator.Cycle(h.buffer.Poll())
	if err != nil {
		return err
	}

	idle := c.Action.Fingers == 0 && len(c.Update.Vanished) == 0 && !c.Switched()
	skip := idle && h.wasIdle && h.FeatureFlags.IsSet(featureflag.FlagDisableIdleActions)
	h.wasIdle = idle

	if !skip {
		data := ActionData{
			Seq:    c.Seq,
			Action: c.Action,
			Update: c.Update,
		}
		h.FeatureFlags.IfNotSet(featureflag.FlagDisableCursorEcho, func() {
			data.Cursors = h.navigator.State().Cursors
		})
		respond.Send(MsgTypeAction, data)
	}

	if c.Seq == 1 || c.Switched() {
		h.sendScreenState(respond)
	}
	return nil
}

func (h *TouchHandler) sendScreenState(respond ResponseSender) {
	h.FeatureFlags.IfNotSet(featureflag.FlagDisableScreenState, func() {
		respond.Send(MsgTypeScreenState, h.navigator.State())
	})
}

func (h *TouchHandler) Receiver() Receiver {
	return func() (Msg, int, error) {
		return Receive(h.conn)
	}
}

func (h *TouchHandler) Sender() Sender {
	return func(msg Msg) (int, error) {
		return Send(h.conn, msg)
	}
}

func (h *TouchHandler) Close() {
}

func (h *TouchHandler) PollInterval() time.Duration {
	return h.ClientPollInterval
}

func (h *TouchHandler) IdleTimeout() time.Duration {
	return h.ClientIdleTimeout
}

func (h *TouchHandler) CurrentScreen() string {
	if h.navigator == nil {
		return ""
	}
	return h.navigator.Screen()
}

// Navigator returns the navigator of the connected client.
func (h *TouchHandler) Navigator() *suite.Navigator {
	return h.navigator
}

func (h *TouchHandler) GetClientID() string {
	return h.clientID
}
