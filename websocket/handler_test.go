package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/aukilabs/medtouch/featureflag"
	"github.com/aukilabs/medtouch/models"
	"github.com/aukilabs/medtouch/screens/chooser"
	"github.com/aukilabs/medtouch/screens/viewer"
	"github.com/aukilabs/medtouch/suite"
	"github.com/aukilabs/medtouch/touch"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

const testTimeout = time.Second * 2

func sendTestMsg(t *testing.T, conn *websocket.Conn, msgType MsgType, data any) {
	msg, err := NewMsg(msgType, data)
	require.NoError(t, err)

	_, err = Send(conn, msg)
	require.NoError(t, err)
}

func sendTestFrame(t *testing.T, conn *websocket.Conn, reports ...models.Report) {
	sendTestMsg(t, conn, MsgTypeTouchFrame, touch.Frame{Cursors: reports})
}

func receiveAction(t *testing.T, conn *websocket.Conn, filter func(ActionData) bool) ActionData {
	var data ActionData
	_, err := ReceiveUntil(conn, MsgTypeAction, testTimeout, func(msg Msg) bool {
		var d ActionData
		if err := msg.DataTo(&d); err != nil {
			return false
		}
		if !filter(d) {
			return false
		}
		data = d
		return true
	})
	require.NoError(t, err)
	return data
}

func receiveScreenState(t *testing.T, conn *websocket.Conn, screen string) suite.State {
	var state suite.State
	_, err := ReceiveUntil(conn, MsgTypeScreenState, testTimeout, func(msg Msg) bool {
		var s suite.State
		if err := msg.DataTo(&s); err != nil {
			return false
		}
		state = s
		return s.Screen == screen
	})
	require.NoError(t, err)
	return state
}

func TestHandlerHandlePing(t *testing.T) {
	client, close := NewTestingEnv(t, NewTestHandler(&suite.Store{}))
	defer close()

	msg, err := NewMsg(MsgTypePing, PingData{Payload: "hello"})
	require.NoError(t, err)
	msg.RequestID = 42

	_, err = Send(client, msg)
	require.NoError(t, err)

	res, err := ReceiveUntil(client, MsgTypePong, testTimeout, func(m Msg) bool {
		return m.RequestID == 42
	})
	require.NoError(t, err)
	require.NotNil(t, res.Timestamp)

	var data PingData
	require.NoError(t, res.DataTo(&data))
	require.Equal(t, "hello", data.Payload)
}

func TestHandlerSendsScreenStateOnConnect(t *testing.T) {
	client, close := NewTestingEnv(t, NewTestHandler(&suite.Store{}))
	defer close()

	state := receiveScreenState(t, client, chooser.Name)
	require.NotEmpty(t, state.ID)
	require.Equal(t, 2, state.MaxCursors)
	require.Zero(t, state.Fingers)
}

func TestHandlerHandleTouchFrame(t *testing.T) {
	t.Run("json frame is tracked", func(t *testing.T) {
		client, close := NewTestingEnv(t, NewTestHandler(&suite.Store{}))
		defer close()

		sendTestFrame(t, client, models.Report{ID: "1", X: 0.5, Y: 0.5})

		data := receiveAction(t, client, func(d ActionData) bool {
			return d.Action.Fingers == 1
		})
		require.Equal(t, chooser.Name, data.Action.Screen)
		require.Equal(t, "rotate", data.Action.Gesture)
		require.Len(t, data.Cursors, 1)
		require.Equal(t, models.Point{X: 340, Y: 230}, data.Cursors[0].Current)
	})

	t.Run("binary frame is tracked", func(t *testing.T) {
		client, close := NewTestingEnv(t, NewTestHandler(&suite.Store{}))
		defer close()

		_, err := SendBinary(client, touch.Frame{
			Seq: 1,
			Cursors: []models.Report{
				{ID: "7", X: 0.1, Y: 0.1},
				{ID: "8", X: 0.9, Y: 0.9},
			},
		})
		require.NoError(t, err)

		data := receiveAction(t, client, func(d ActionData) bool {
			return d.Action.Fingers == 2
		})
		require.Equal(t, "pick", data.Action.Gesture)
		require.Len(t, data.Action.Markers, 2)
	})

	t.Run("invalid frame returns an error message", func(t *testing.T) {
		client, close := NewTestingEnv(t, NewTestHandler(&suite.Store{}))
		defer close()

		sendTestMsg(t, client, MsgTypeTouchFrame, map[string]any{
			"cursors": []map[string]any{{"x": 0.5}},
		})

		msg, err := ReceiveUntil(client, MsgTypeError, testTimeout, nil)
		require.NoError(t, err)

		var data ErrorData
		require.NoError(t, msg.DataTo(&data))
		require.Equal(t, touch.ErrTypeInvalidFrame, data.Code)
	})

	t.Run("unknown message returns an error message", func(t *testing.T) {
		client, close := NewTestingEnv(t, NewTestHandler(&suite.Store{}))
		defer close()

		sendTestMsg(t, client, MsgType("dance"), nil)

		msg, err := ReceiveUntil(client, MsgTypeError, testTimeout, nil)
		require.NoError(t, err)

		var data ErrorData
		require.NoError(t, msg.DataTo(&data))
		require.Equal(t, ErrTypeMsgDecoding, data.Code)
	})
}

func TestHandlerNavigation(t *testing.T) {
	client, close := NewTestingEnv(t, NewTestHandler(&suite.Store{}))
	defer close()

	receiveScreenState(t, client, chooser.Name)

	sendTestFrame(t, client,
		models.Report{ID: "1", X: 0.1, Y: 0.1},
		models.Report{ID: "2", X: 0.5, Y: 0.5},
	)
	receiveAction(t, client, func(d ActionData) bool {
		return d.Action.Revealed
	})

	sendTestFrame(t, client,
		models.Report{ID: "1", X: 0.1, Y: 0.1},
		models.Report{ID: "2", X: 0.68, Y: 0.24},
	)
	state := receiveScreenState(t, client, viewer.SliceName)
	require.Equal(t, 4, state.MaxCursors)

	sendTestFrame(t, client,
		models.Report{ID: "1", X: 0.1, Y: 0.1},
		models.Report{ID: "2", X: 0.2, Y: 0.2},
		models.Report{ID: "3", X: 0.3, Y: 0.3},
		models.Report{ID: "4", X: 0.4, Y: 0.4},
	)
	receiveScreenState(t, client, chooser.Name)
}

func TestHandlerNavigatorStore(t *testing.T) {
	store := &suite.Store{}
	client, close := NewTestingEnv(t, NewTestHandler(store))
	defer close()

	require.Eventually(t, func() bool {
		return store.Count() == 1
	}, testTimeout, time.Millisecond*10)

	client.Close()

	require.Eventually(t, func() bool {
		return store.Count() == 0
	}, testTimeout, time.Millisecond*10)
}

func TestHandlerServerShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &suite.Store{}
	client, close := NewTestingEnvWithContext(ctx, t, NewTestHandler(store))
	defer close()

	sendTestFrame(t, client, models.Report{ID: "1", X: 0.5, Y: 0.5})
	receiveAction(t, client, func(d ActionData) bool {
		return d.Action.Fingers == 1
	})
	require.Equal(t, 1, store.Count())

	cancel()

	require.Eventually(t, func() bool {
		return store.Count() == 0
	}, testTimeout, time.Millisecond*10)

	_, err := ReceiveUntil(client, MsgTypePong, testTimeout, nil)
	require.Error(t, err)
}

func TestHandlerFeatureFlags(t *testing.T) {
	t.Run("cursor echo is disabled", func(t *testing.T) {
		client, close := NewTestingEnv(t, NewTestHandler(&suite.Store{}, featureflag.FlagDisableCursorEcho))
		defer close()

		sendTestFrame(t, client, models.Report{ID: "1", X: 0.5, Y: 0.5})

		data := receiveAction(t, client, func(d ActionData) bool {
			return d.Action.Fingers == 1
		})
		require.Empty(t, data.Cursors)
	})

	t.Run("screen state is disabled", func(t *testing.T) {
		client, close := NewTestingEnv(t, NewTestHandler(&suite.Store{}, featureflag.FlagDisableScreenState))
		defer close()

		_, err := ReceiveUntil(client, MsgTypeScreenState, time.Millisecond*200, nil)
		require.Error(t, err)
	})

	t.Run("idle actions are disabled", func(t *testing.T) {
		client, close := NewTestingEnv(t, NewTestHandler(&suite.Store{}, featureflag.FlagDisableIdleActions))
		defer close()

		receiveAction(t, client, func(d ActionData) bool {
			return d.Seq == 1
		})

		_, err := ReceiveUntil(client, MsgTypeAction, time.Millisecond*200, nil)
		require.Error(t, err)

		sendTestFrame(t, client, models.Report{ID: "1", X: 0.5, Y: 0.5})
		receiveAction(t, client, func(d ActionData) bool {
			return d.Action.Fingers == 1
		})
	})
}
