package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Envelope is a decoded frame. P is still encoded with the frame's codec.
type Envelope struct {
	T string
	P []byte
}

// Codec turns envelopes into frames and back.
type Codec interface {
	// Name identifies the codec in the ?codec= query parameter.
	Name() string

	// Binary reports whether frames must be sent as binary messages.
	Binary() bool

	Encode(t string, payload any) ([]byte, error)
	DecodeEnvelope(b []byte) (Envelope, error)
	Unmarshal(p []byte, v any) error
}

var (
	ErrEmptyFrame   = errors.New("protocol: empty frame")
	ErrEmptyType    = errors.New("protocol: envelope without type")
	ErrEmptyPayload = errors.New("protocol: empty payload")
)

// CodecByName returns the codec for name. Empty selects JSON.
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON, nil
	case "msgpack":
		return Msgpack, nil
	default:
		return nil, fmt.Errorf("protocol: unknown codec %q", name)
	}
}

// DecodePayload decodes env's payload into a T.
func DecodePayload[T any](c Codec, env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("%w for type %q", ErrEmptyPayload, env.T)
	}
	err := c.Unmarshal(env.P, &out)
	return out, err
}

// JSON is the text codec.
var JSON Codec = jsonCodec{}

// Msgpack is the binary codec.
var Msgpack Codec = msgpackCodec{}

type jsonEnvelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }
func (jsonCodec) Binary() bool { return false }

func (jsonCodec) Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, ErrEmptyType
	}
	if payload == nil {
		return nil, fmt.Errorf("%w for type %q", ErrEmptyPayload, t)
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonEnvelope{T: t, P: pb})
}

func (jsonCodec) DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, ErrEmptyFrame
	}
	var e jsonEnvelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	if e.T == "" {
		return Envelope{}, ErrEmptyType
	}
	return Envelope{T: e.T, P: e.P}, nil
}

func (jsonCodec) Unmarshal(p []byte, v any) error {
	return json.Unmarshal(p, v)
}

type msgpackEnvelope struct {
	T string             `msgpack:"t"`
	P msgpack.RawMessage `msgpack:"p"`
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return "msgpack" }
func (msgpackCodec) Binary() bool { return true }

func (msgpackCodec) Encode(t string, payload any) ([]byte, error) {
	if t == "" {
		return nil, ErrEmptyType
	}
	if payload == nil {
		return nil, fmt.Errorf("%w for type %q", ErrEmptyPayload, t)
	}
	pb, err := msgpack.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(&msgpackEnvelope{T: t, P: pb})
}

func (msgpackCodec) DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, ErrEmptyFrame
	}
	var e msgpackEnvelope
	if err := msgpack.Unmarshal(b, &e); err != nil {
		return Envelope{}, err
	}
	if e.T == "" {
		return Envelope{}, ErrEmptyType
	}
	return Envelope{T: e.T, P: e.P}, nil
}

func (msgpackCodec) Unmarshal(p []byte, v any) error {
	return msgpack.Unmarshal(p, v)
}
