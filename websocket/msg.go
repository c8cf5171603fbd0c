package websocket

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/medtouch/touch"
	"github.com/segmentio/encoding/json"
	"golang.org/x/net/websocket"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// MsgType is the type of a message.
type MsgType string

const (
	// Inbound.
	MsgTypeTouchFrame MsgType = "touch_frame"
	MsgTypePing       MsgType = "ping"

	// Outbound.
	MsgTypePong        MsgType = "pong"
	MsgTypeAction      MsgType = "action"
	MsgTypeScreenState MsgType = "screen_state"
	MsgTypeError       MsgType = "error"
)

// Msg is a message exchanged with a client.
type Msg struct {
	Type      MsgType                `json:"type"`
	Timestamp *timestamppb.Timestamp `json:"timestamp,omitempty"`
	RequestID uint32                 `json:"request_id,omitempty"`
	Data      json.RawMessage        `json:"data,omitempty"`

	// The payload of a binary touch frame.
	binary []byte
}

// NewMsg creates a message with the given type and JSON encoded data.
func NewMsg(t MsgType, data any) (Msg, error) {
	msg := Msg{
		Type:      t,
		Timestamp: timestamppb.Now(),
	}

	if data == nil {
		return msg, nil
	}

	b, err := json.Marshal(data)
	if err != nil {
		return Msg{}, errors.New("encoding message data failed").
			WithType(ErrTypeMsgEncoding).
			WithTag("msg_type", t).
			Wrap(err)
	}
	msg.Data = b
	return msg, nil
}

// DataTo decodes the message data into v.
func (m Msg) DataTo(v any) error {
	if len(m.Data) == 0 {
		return nil
	}

	if err := json.Unmarshal(m.Data, v); err != nil {
		return errors.New("decoding message data failed").
			WithType(ErrTypeMsgDecoding).
			WithTag("msg_type", m.Type).
			Wrap(err)
	}
	return nil
}

// Frame returns the touch frame carried by the message, from either its binary
// payload or its JSON data.
func (m Msg) Frame() (touch.Frame, error) {
	if m.Type != MsgTypeTouchFrame {
		return touch.Frame{}, errors.New("message is not a touch frame").
			WithType(ErrTypeMsgDecoding).
			WithTag("msg_type", m.Type)
	}

	if m.binary != nil {
		var f touch.Frame
		err := f.UnmarshalBinary(m.binary)
		return f, err
	}
	return touch.DecodeFrame(m.Data)
}

// IsBinary reports whether the message was received as a binary frame.
func (m Msg) IsBinary() bool {
	return m.binary != nil
}

// Receiver is a function that receives a message. It returns the received
// message and its size in bytes.
type Receiver func() (Msg, int, error)

// Sender is a function that sends a message. It returns the number of bytes
// sent.
type Sender func(Msg) (int, error)

// ResponseSender is the interface to send messages to the client being
// handled.
type ResponseSender interface {
	// Sends a message built from a type and its data.
	Send(t MsgType, data any)

	// Sends a message.
	SendMsg(Msg)
}

// ErrorData is the data of an error message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type rawFrame struct {
	data        []byte
	payloadType byte
}

var rawCodec = websocket.Codec{
	Marshal: func(v any) ([]byte, byte, error) {
		f := v.(rawFrame)
		return f.data, f.payloadType, nil
	},
	Unmarshal: func(data []byte, payloadType byte, v any) error {
		f := v.(*rawFrame)
		f.data = data
		f.payloadType = payloadType
		return nil
	},
}

// Receive receives a message from the given connection. Binary frames are
// received as touch frames.
func Receive(conn *websocket.Conn) (Msg, int, error) {
	var f rawFrame
	if err := rawCodec.Receive(conn, &f); err != nil {
		return Msg{}, 0, err
	}
	n := len(f.data)

	if f.payloadType == websocket.BinaryFrame {
		return Msg{
			Type:      MsgTypeTouchFrame,
			Timestamp: timestamppb.Now(),
			binary:    f.data,
		}, n, nil
	}

	var msg Msg
	if err := json.Unmarshal(f.data, &msg); err != nil {
		return Msg{}, n, errors.New("decoding message failed").
			WithType(ErrTypeMsgDecoding).
			WithTag("size", n).
			Wrap(err)
	}
	return msg, n, nil
}

// Send sends a message as a JSON text frame to the given connection.
func Send(conn *websocket.Conn, msg Msg) (int, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return 0, errors.New("encoding message failed").
			WithType(ErrTypeMsgEncoding).
			WithTag("msg_type", msg.Type).
			Wrap(err)
	}

	if err := rawCodec.Send(conn, rawFrame{data: b, payloadType: websocket.TextFrame}); err != nil {
		return 0, err
	}
	return len(b), nil
}

// SendBinary sends a touch frame as a binary frame to the given connection.
func SendBinary(conn *websocket.Conn, f touch.Frame) (int, error) {
	b, err := f.MarshalBinary()
	if err != nil {
		return 0, err
	}

	if err := rawCodec.Send(conn, rawFrame{data: b, payloadType: websocket.BinaryFrame}); err != nil {
		return 0, err
	}
	return len(b), nil
}
