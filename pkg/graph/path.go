package graph

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Step is one hop from a container to a child: an object key or an array
// index. Index steps set Array to true and leave Key empty.
type Step struct {
	Key   string `json:"key,omitempty" bson:"key,omitempty"`
	Index int    `json:"index,omitempty" bson:"index,omitempty"`
	Array bool   `json:"array,omitempty" bson:"array,omitempty"`

	// Ordinal disambiguates repeated keys within the same object: the
	// second "a" member gets Ordinal 1, the third 2, and so on. Zero for
	// unique keys, which is the overwhelmingly common case.
	Ordinal int `json:"ordinal,omitempty" bson:"ordinal,omitempty"`
}

// Label returns the edge label for the step: the key for object children,
// the decimal index for array elements.
func (s Step) Label() string {
	if s.Array {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// Path is the ordered sequence of steps from the document root to a value.
// The empty path denotes the root itself.
type Path []Step

// Key extends the path with an object key step. ordinal is the key's
// occurrence count so far within the parent object (0 for unique keys).
func (p Path) Key(key string, ordinal int) Path {
	return append(p[:len(p):len(p)], Step{Key: key, Ordinal: ordinal})
}

// Index extends the path with an array index step.
func (p Path) Index(i int) Path {
	return append(p[:len(p):len(p)], Step{Index: i, Array: true})
}

// String renders the path in JSONPath-like notation, e.g. $.users[0].name.
func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, s := range p {
		if s.Array {
			fmt.Fprintf(&b, "[%d]", s.Index)
		} else {
			b.WriteByte('.')
			b.WriteString(s.Key)
		}
	}
	return b.String()
}

// Hash derives the node ID for the value at this path. The encoding is
// collision-free: each step contributes a type tag and a length-prefixed
// payload, so $.a.b and $."a.b" hash differently. Identical documents
// always produce identical IDs, which keeps layouts stable across
// rebuilds.
func (p Path) Hash() string {
	h := sha256.New()
	var buf [8]byte
	for _, s := range p {
		if s.Array {
			h.Write([]byte{'i'})
			binary.BigEndian.PutUint64(buf[:], uint64(s.Index))
			h.Write(buf[:])
		} else {
			h.Write([]byte{'k'})
			binary.BigEndian.PutUint64(buf[:], uint64(s.Ordinal))
			h.Write(buf[:])
			binary.BigEndian.PutUint64(buf[:], uint64(len(s.Key)))
			h.Write(buf[:])
			h.Write([]byte(s.Key))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
