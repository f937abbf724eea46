package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/matzehuels/stackinv/pkg/errors"
)

// MarshalJSON encodes v, preserving map key order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			return fmt.Errorf("unsupported number %v", v.n)
		}
		data, err := json.Marshal(v.n)
		if err != nil {
			return err
		}
		buf.Write(data)
	case KindString:
		if err := encodeString(buf, v.s, "string"); err != nil {
			return err
		}
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.list.Items() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, k := range v.m.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, k, "map key"); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := v.m.vals[i].encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// encodeString writes s as a JSON string. encoding/json would replace
// invalid UTF-8 with U+FFFD, so such strings are rejected instead.
func encodeString(buf *bytes.Buffer, s, what string) error {
	if !utf8.ValidString(s) {
		return errors.New(errors.ErrCodeInvalidInput, "%s %q is not valid UTF-8", what, s)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

// UnmarshalJSON decodes any JSON document into v. Object key order is kept.
// Duplicate object keys keep the position of the first occurrence and the
// value of the last.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	out, err := decode(dec)
	if err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected trailing data")
	}
	*v = out
	return nil
}

// MarshalJSON encodes m as a JSON object in key order.
func (m *Map) MarshalJSON() ([]byte, error) { return FromMap(m).MarshalJSON() }

// UnmarshalJSON decodes a JSON object into m. A JSON null leaves m empty.
func (m *Map) UnmarshalJSON(data []byte) error {
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	if v.IsNull() {
		*m = *NewMap()
		return nil
	}
	decoded, ok := v.AsMap()
	if !ok {
		return fmt.Errorf("expected object, got %s", v.Kind())
	}
	*m = *decoded
	return nil
}

func decode(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("number %s: %w", t, err)
		}
		return Number(n), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			l := NewList()
			for dec.More() {
				item, err := decode(dec)
				if err != nil {
					return Value{}, err
				}
				l.Append(item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return FromList(l), nil
		case '{':
			m := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("invalid object key %v", keyTok)
				}
				item, err := decode(dec)
				if err != nil {
					return Value{}, err
				}
				m.Set(key, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return FromMap(m), nil
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}
