package grpc

import (
	"fmt"

	"google.golang.org/protobuf/proto"
)

// Codec encodes the hand-written messages in protobuf wire format. It keeps
// the "proto" name so clients generated from the .proto contract interoperate.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case wireMessage:
		return marshalWire(m)
	case proto.Message:
		return proto.Marshal(m)
	default:
		return nil, fmt.Errorf("codec: cannot marshal %T", v)
	}
}

func (Codec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case wireMessage:
		return unmarshalWire(data, m)
	case proto.Message:
		return proto.Unmarshal(data, m)
	default:
		return fmt.Errorf("codec: cannot unmarshal into %T", v)
	}
}

func (Codec) Name() string { return "proto" }
