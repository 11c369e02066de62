package jsontree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrEmptyDocument is returned by Parse when the input contains no
	// JSON value at all (empty or whitespace-only input).
	ErrEmptyDocument = errors.New("empty document")

	// ErrTrailingData is returned by Parse when well-formed JSON is
	// followed by further non-whitespace input.
	ErrTrailingData = errors.New("trailing data after document")
)

// Parse decodes a single JSON document into a Value.
//
// Object key order follows the source document and numeric literals are
// kept verbatim, so Marshal(Parse(data)) reproduces the document's
// structure exactly. Parse rejects trailing garbage after the value.
func Parse(data []byte) (Value, error) {
	return Read(bytes.NewReader(data))
}

// ParseString decodes a JSON document from a string.
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

// Read decodes a single JSON document from r.
func Read(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, err
	}

	// A second token means the input held more than one document. Anything
	// other than a clean EOF here is a genuine read failure, not trailing data.
	if _, err := dec.Token(); err == nil {
		return nil, ErrTrailingData
	} else if !errors.Is(err, io.EOF) {
		return nil, err
	}
	return v, nil
}

// ReadFile decodes a JSON document from a file.
func ReadFile(path string) (Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// decodeValue consumes exactly one JSON value from the token stream.
func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t.String())
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder) (Value, error) {
	obj := Object{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		// Append, not Set: the decoder trusts the source order and
		// keeps duplicate keys as distinct members.
		obj = append(obj, Member{Key: key, Value: val})
	}
	// Consume the closing '}'.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	arr := Array{}
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	// Consume the closing ']'.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}
