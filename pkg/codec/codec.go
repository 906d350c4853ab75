package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"unicode/utf8"

	"github.com/aretw0/wheelsim/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// DecodeError describes a payload that could not be decoded.
type DecodeError struct {
	Payload []byte
	Cause   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: %v", domain.ErrDecode, e.Cause)
}

// Unwrap exposes both domain.ErrDecode and the underlying cause.
func (e *DecodeError) Unwrap() []error {
	return []error{domain.ErrDecode, e.Cause}
}

func decodeErr(payload []byte, cause error) error {
	return &DecodeError{Payload: payload, Cause: cause}
}

// Decode parses a BCI command.
// Unknown keys are ignored; known keys must have the right type.
func Decode(payload []byte) (domain.Inbound, error) {
	var msg domain.Inbound
	fields, err := object(payload)
	if err != nil {
		return msg, err
	}
	if err := bind(fields, &msg); err != nil {
		return domain.Inbound{}, decodeErr(payload, err)
	}
	return msg, nil
}

// DecodeReply parses a status message as seen by the BCI peer.
func DecodeReply(payload []byte) (domain.Outbound, error) {
	var msg domain.Outbound
	fields, err := object(payload)
	if err != nil {
		return msg, err
	}
	if err := bind(fields, &msg); err != nil {
		return domain.Outbound{}, decodeErr(payload, err)
	}
	return msg, nil
}

// Encode serializes a status message. It cannot fail for an Outbound.
func Encode(msg domain.Outbound) []byte {
	data, err := json.Marshal(msg)
	if err != nil {
		// Outbound only holds strings and an *int.
		panic(fmt.Sprintf("codec: encoding outbound: %v", err))
	}
	return data
}

// EncodeCommand serializes a BCI command, used by the peer side.
func EncodeCommand(msg domain.Inbound) []byte {
	data, err := json.Marshal(msg)
	if err != nil {
		panic(fmt.Sprintf("codec: encoding command: %v", err))
	}
	return data
}

// object validates the payload and returns its top-level fields.
// Numbers are kept as json.Number so integer checks stay exact.
func object(payload []byte) (map[string]any, error) {
	if !utf8.Valid(payload) {
		return nil, decodeErr(payload, errors.New("payload is not valid UTF-8"))
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, decodeErr(payload, err)
	}
	if fields == nil {
		return nil, decodeErr(payload, errors.New("payload is not a JSON object"))
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, decodeErr(payload, errors.New("trailing data after JSON object"))
	}
	return fields, nil
}

var numberType = reflect.TypeOf(json.Number(""))

// rejectNumberAsString stops a json.Number, which has a string kind, from filling a
// string field.
func rejectNumberAsString(from, to reflect.Type, data any) (any, error) {
	if from == numberType && to.Kind() == reflect.String {
		return nil, fmt.Errorf("expected a string, got number %v", data)
	}
	return data, nil
}

// bind copies fields into out. Keys match field names exactly.
func bind(fields map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     out,
		TagName:    "mapstructure",
		DecodeHook: mapstructure.DecodeHookFuncType(rejectNumberAsString),
		MatchName: func(mapKey, fieldName string) bool {
			return mapKey == fieldName
		},
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(fields); err != nil {
		return err
	}
	return nil
}
