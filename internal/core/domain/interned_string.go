package domain

import "unique"

// InternedString is a canonicalised string backed by unique.Handle.
// Target names are compared on every graph edge, so they are interned once at parse time
// and compared by handle afterwards.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString interns s.
func NewInternedString(s string) InternedString {
	return InternedString{h: unique.Make(s)}
}

// NewInternedStrings interns every element of s, preserving order.
func NewInternedStrings(s []string) []InternedString {
	res := make([]InternedString, len(s))
	for i, v := range s {
		res[i] = NewInternedString(v)
	}
	return res
}

// Strings converts interned names back to plain strings, preserving order.
func Strings(names []InternedString) []string {
	res := make([]string, len(names))
	for i, n := range names {
		res[i] = n.String()
	}
	return res
}

// String returns the underlying string value.
// The zero InternedString yields "".
func (is InternedString) String() string {
	if is.IsZero() {
		return ""
	}
	return is.h.Value()
}

// IsZero reports whether is was never assigned.
func (is InternedString) IsZero() bool {
	return is.h == unique.Handle[string]{}
}

// MarshalText implements encoding.TextMarshaler.
func (is InternedString) MarshalText() ([]byte, error) {
	return []byte(is.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (is *InternedString) UnmarshalText(text []byte) error {
	is.h = unique.Make(string(text))
	return nil
}
