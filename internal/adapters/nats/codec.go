package natsadapter

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/samirrijal/geoshape/internal/core/domain"
)

// EncodeEvent serialises an event as a protobuf Struct.
func EncodeEvent(event *domain.ShapeEvent) ([]byte, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("struct event: %w", err)
	}
	return proto.Marshal(st)
}

// DecodeEvent parses a payload produced by EncodeEvent.
func DecodeEvent(data []byte) (*domain.ShapeEvent, error) {
	raw, err := EventJSON(data)
	if err != nil {
		return nil, err
	}
	var event domain.ShapeEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &event, nil
}

// EventJSON converts a wire payload to JSON for clients that cannot read
// protobuf.
func EventJSON(data []byte) ([]byte, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return protojson.Marshal(&st)
}

// Subject is the subject a shape event is published on.
func Subject(kind domain.ShapeKind) string {
	return subjectPrefix + string(kind)
}
