// Package settings models the configuration of a search index and provides the
// pure operations the synchronizer relies on: merging, canonical fingerprinting,
// drift classification and compilation to the local artifact format.
package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Settings is an ordered mapping from setting name to value.
//
// Values are opaque to this package: scalars (string, bool, numbers, nil),
// sequences ([]any) and nested mappings (map[string]any). Key order is kept
// for presentation only; equality and fingerprints ignore it.
type Settings struct {
	keys   []string
	values map[string]any
}

// New returns an empty Settings object.
func New() Settings {
	return Settings{values: map[string]any{}}
}

// FromMap builds a Settings object from a plain map. Keys are ordered
// lexicographically since map iteration order carries no meaning.
func FromMap(m map[string]any) Settings {
	s := New()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.Set(k, m[k])
	}
	return s
}

// Set assigns value to key. A new key is appended after the existing ones;
// an existing key keeps its position.
func (s *Settings) Set(key string, value any) {
	if s.values == nil {
		s.values = map[string]any{}
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Get returns the value stored under key.
func (s Settings) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Keys returns the setting names in insertion order.
func (s Settings) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of settings.
func (s Settings) Len() int {
	return len(s.keys)
}

// ToMap returns a shallow copy of the settings as a plain map.
func (s Settings) ToMap() map[string]any {
	out := make(map[string]any, len(s.keys))
	for _, k := range s.keys {
		out[k] = s.values[k]
	}
	return out
}

// Clone returns a copy that can be mutated without affecting s. Nested
// values are shared.
func (s Settings) Clone() Settings {
	c := New()
	for _, k := range s.keys {
		c.Set(k, s.values[k])
	}
	return c
}

// Merge lays override over defaults key by key. Keys present in override win,
// keys only present in defaults fall back to the default value. Nested
// mappings are replaced as a whole, never merged.
//
// The result lists the default keys first, in their original order, followed
// by keys only known to override.
func Merge(override, defaults Settings) Settings {
	out := New()
	for _, k := range defaults.keys {
		if v, ok := override.values[k]; ok {
			out.Set(k, v)
			continue
		}
		out.Set(k, defaults.values[k])
	}
	for _, k := range override.keys {
		if _, ok := defaults.values[k]; !ok {
			out.Set(k, override.values[k])
		}
	}
	return out
}

// Equal reports whether a and b hold the same content regardless of key order.
// Settings that cannot be canonicalized are never equal.
func Equal(a, b Settings) bool {
	ca, err := Canonical(a)
	if err != nil {
		return false
	}
	cb, err := Canonical(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ca, cb)
}

// MarshalJSON encodes the settings as a JSON object preserving key order.
func (s Settings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.values[k])
		if err != nil {
			return nil, fmt.Errorf("%w: setting %q: %v", ErrSerialization, k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving the order of its top-level
// keys. Numbers are kept as json.Number so integers survive untouched.
func (s *Settings) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: settings must be a JSON object", ErrSerialization)
	}

	out := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSerialization, err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: unexpected token %v", ErrSerialization, tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("%w: setting %q: %v", ErrSerialization, key, err)
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	*s = out
	return nil
}
