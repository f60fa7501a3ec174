package domain

import (
	"strings"
	"unique"
)

// InternedString is a package name interned with the unique package, so
// names compare by handle when used as graph and state map keys.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString interns s.
func NewInternedString(s string) InternedString {
	return InternedString{h: unique.Make(s)}
}

// NewInternedStrings interns every element of names.
func NewInternedStrings(names []string) []InternedString {
	res := make([]InternedString, len(names))
	for i, n := range names {
		res[i] = NewInternedString(n)
	}
	return res
}

// Strings returns the plain names, in order.
func Strings(names []InternedString) []string {
	res := make([]string, len(names))
	for i, n := range names {
		res[i] = n.String()
	}
	return res
}

// String returns the name.
func (is InternedString) String() string {
	return is.h.Value()
}

// Compare orders names lexically, for slices.SortFunc.
func (is InternedString) Compare(other InternedString) int {
	return strings.Compare(is.String(), other.String())
}
