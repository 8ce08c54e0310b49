package http

import (
	"encoding/json"
	"errors"
	"fmt"

	"iot-practice-service/internal/domain"
	"iot-practice-service/internal/practice"
)

var errInvalidPayload = errors.New("invalid event payload")

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type assignmentPayload struct {
	Assignment string `json:"assignment"`
}

type modePayload struct {
	Mode string `json:"mode"`
}

type optionPayload struct {
	Option string `json:"option"`
}

// decodeEvent maps a wire message onto a practice event.
func decodeEvent(msg inboundMessage) (practice.Event, error) {
	switch msg.Type {
	case practice.EventChooseAssignment:
		var p assignmentPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return nil, err
		}
		return practice.ChooseAssignment{Selection: p.Assignment}, nil
	case practice.EventChooseMode:
		var p modePayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return nil, err
		}
		mode, ok := practice.ParseMode(p.Mode)
		if !ok {
			return nil, fmt.Errorf("%w: unknown mode %q", errInvalidPayload, p.Mode)
		}
		return practice.ChooseMode{Mode: mode}, nil
	case practice.EventStart:
		return practice.Start{}, nil
	case practice.EventSelectOption:
		var p optionPayload
		if err := decodePayload(msg.Payload, &p); err != nil {
			return nil, err
		}
		return practice.SelectOption{Option: p.Option}, nil
	case practice.EventSubmit:
		return practice.Submit{}, nil
	case practice.EventNext:
		return practice.Next{}, nil
	case practice.EventReset:
		return practice.Reset{}, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEvent, msg.Type)
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing payload", errInvalidPayload)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidPayload, err)
	}
	return nil
}
