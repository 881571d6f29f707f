package jsonv

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// MarshalJSON writes v as compact JSON with members in declaration order.
// Undefined values encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	writeValue(&buf, v)
	return buf.Bytes(), nil
}

// UnmarshalJSON parses data into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalJSON writes o as a compact JSON object. The zero Object encodes as {}.
func (o Object) MarshalJSON() ([]byte, error) {
	return FromObject(o).MarshalJSON()
}

// Compact returns v as compact JSON text.
func Compact(v Value) string {
	var buf bytes.Buffer
	writeValue(&buf, v)
	return buf.String()
}

// Pretty returns v as JSON indented by two spaces. HTML-significant
// characters are left as-is; escaping is the renderer's job.
func Pretty(v Value) string {
	var compact bytes.Buffer
	writeValue(&compact, v)
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return compact.String()
	}
	return out.String()
}

func writeValue(buf *bytes.Buffer, v Value) {
	switch v.kind {
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		if v.s != "" {
			buf.WriteString(v.s)
			return
		}
		buf.WriteString(strconv.FormatFloat(v.n, 'f', -1, 64))
	case KindString:
		writeString(buf, v.s)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.a {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeValue(buf, item)
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		first := true
		v.o.Each(func(k string, item Value) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			writeString(buf, k)
			buf.WriteByte(':')
			writeValue(buf, item)
			return true
		})
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
}

func writeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
}
