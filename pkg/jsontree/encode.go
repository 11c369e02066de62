package jsontree

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Marshal serializes a value to compact UTF-8 JSON text.
//
// The output re-parses to a value structurally equal to the input: key
// order, array order, numeric literals, booleans, and nulls are all
// preserved.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v, "", ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent serializes a value to pretty-printed JSON text using the
// given indent string per nesting level.
func MarshalIndent(v Value, indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v, "", indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write serializes a value as compact JSON to w.
func Write(v Value, w io.Writer) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile writes a value as pretty-printed JSON to a file.
// The file is created with 0644 permissions.
func WriteFile(v Value, path string) error {
	data, err := MarshalIndent(v, "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func encode(buf *bytes.Buffer, v Value, prefix, indent string) error {
	switch val := v.(type) {
	case Object:
		return encodeObject(buf, val, prefix, indent)
	case Array:
		return encodeArray(buf, val, prefix, indent)
	case String:
		buf.WriteString(quote(string(val)))
	case Number:
		buf.WriteString(string(val))
	case Bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Null:
		buf.WriteString("null")
	default:
		return fmt.Errorf("unsupported value of type %T", v)
	}
	return nil
}

func encodeObject(buf *bytes.Buffer, obj Object, prefix, indent string) error {
	if len(obj) == 0 {
		buf.WriteString("{}")
		return nil
	}
	inner := prefix + indent
	buf.WriteByte('{')
	for i, m := range obj {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeNewline(buf, inner, indent)
		buf.WriteString(quote(m.Key))
		buf.WriteByte(':')
		if indent != "" {
			buf.WriteByte(' ')
		}
		if err := encode(buf, m.Value, inner, indent); err != nil {
			return err
		}
	}
	writeNewline(buf, prefix, indent)
	buf.WriteByte('}')
	return nil
}

func encodeArray(buf *bytes.Buffer, arr Array, prefix, indent string) error {
	if len(arr) == 0 {
		buf.WriteString("[]")
		return nil
	}
	inner := prefix + indent
	buf.WriteByte('[')
	for i, el := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeNewline(buf, inner, indent)
		if err := encode(buf, el, inner, indent); err != nil {
			return err
		}
	}
	writeNewline(buf, prefix, indent)
	buf.WriteByte(']')
	return nil
}

func writeNewline(buf *bytes.Buffer, prefix, indent string) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(prefix)
}

// Truncate shortens s to max runes, appending "…" when cut. Used for node
// label previews; hover details always carry the full string.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
