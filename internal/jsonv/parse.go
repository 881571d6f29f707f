package jsonv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/buger/jsonparser"
)

// ErrInvalid is returned by Parse for input that is not a single well-formed
// JSON document.
var ErrInvalid = errors.New("jsonv: invalid JSON")

// Parse decodes data into a Value. The document is validated and compacted
// before it is walked, so the walker only ever sees well-formed input.
func Parse(data []byte) (Value, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || !json.Valid(data) {
		return Value{}, ErrInvalid
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return Value{}, fmt.Errorf("jsonv: compact: %w", err)
	}
	return parseRaw(buf.Bytes())
}

// ParseString is Parse for string input.
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

// parseRaw decodes one complete compact JSON value, including quotes for
// strings.
func parseRaw(raw []byte) (Value, error) {
	switch raw[0] {
	case '{':
		return parseTyped(raw, jsonparser.Object)
	case '[':
		return parseTyped(raw, jsonparser.Array)
	case '"':
		return parseTyped(raw[1:len(raw)-1], jsonparser.String)
	case 't', 'f':
		return parseTyped(raw, jsonparser.Boolean)
	case 'n':
		return Null(), nil
	default:
		return parseTyped(raw, jsonparser.Number)
	}
}

// parseTyped decodes a value as handed out by jsonparser: strings arrive
// without their quotes and still escaped.
func parseTyped(raw []byte, t jsonparser.ValueType) (Value, error) {
	switch t {
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return Value{}, fmt.Errorf("jsonv: string: %w", err)
		}
		return String(s), nil
	case jsonparser.Number:
		n, err := strconv.ParseFloat(string(raw), 64)
		if errors.Is(err, strconv.ErrRange) {
			// Out-of-range literals are kept verbatim and do not read as numbers.
			return Value{kind: KindNumber, s: string(raw)}, nil
		}
		if err != nil {
			return Value{}, fmt.Errorf("jsonv: number %q: %w", raw, err)
		}
		return Number(n), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return Value{}, fmt.Errorf("jsonv: bool: %w", err)
		}
		return Bool(b), nil
	case jsonparser.Null:
		return Null(), nil
	case jsonparser.Array:
		return parseArray(raw)
	case jsonparser.Object:
		return parseObject(raw)
	}
	return Value{}, ErrInvalid
}

func parseArray(raw []byte) (Value, error) {
	items := []Value{}
	var firstErr error
	_, err := jsonparser.ArrayEach(raw, func(value []byte, t jsonparser.ValueType, _ int, err error) {
		if firstErr != nil {
			return
		}
		if err != nil {
			firstErr = err
			return
		}
		v, err := parseTyped(value, t)
		if err != nil {
			firstErr = err
			return
		}
		items = append(items, v)
	})
	if err != nil {
		return Value{}, fmt.Errorf("jsonv: array: %w", err)
	}
	if firstErr != nil {
		return Value{}, firstErr
	}
	return Array(items...), nil
}

func parseObject(raw []byte) (Value, error) {
	obj := NewObject()
	err := jsonparser.ObjectEach(raw, func(key, value []byte, t jsonparser.ValueType, _ int) error {
		v, err := parseTyped(value, t)
		if err != nil {
			return err
		}
		obj.Set(string(key), v)
		return nil
	})
	if err != nil {
		return Value{}, fmt.Errorf("jsonv: object: %w", err)
	}
	return FromObject(obj), nil
}
