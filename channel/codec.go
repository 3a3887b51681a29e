package channel

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tailored-agentic-units/relay/messaging"
)

// Codec translates messages to and from the bytes an adapter puts on the
// wire. The router never sees the encoded form.
type Codec interface {
	Encode(msg *messaging.Message) ([]byte, error)
	Decode(data []byte) (*messaging.Message, error)
}

// JSONCodec encodes messages as JSON. It is the default codec for the
// wire adapters.
type JSONCodec struct{}

func (JSONCodec) Encode(msg *messaging.Message) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return data, nil
}

func (JSONCodec) Decode(data []byte) (*messaging.Message, error) {
	var msg messaging.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	return &msg, nil
}

// MsgpackCodec encodes messages as MessagePack for links where payload
// size matters more than readability.
type MsgpackCodec struct{}

func (MsgpackCodec) Encode(msg *messaging.Message) ([]byte, error) {
	data, err := msgpack.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return data, nil
}

func (MsgpackCodec) Decode(data []byte) (*messaging.Message, error) {
	var msg messaging.Message
	if err := msgpack.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode message: %w", err)
	}
	return &msg, nil
}
