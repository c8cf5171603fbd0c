package websocket

const (
	ErrTypeMsgEncoding = "msg_encoding"
	ErrTypeMsgDecoding = "msg_decoding"
)
