package models

import "strings"

// Favorites is an ordered, duplicate-free list of country codes.
type Favorites []string

// NormalizeCountryCode trims and upper-cases a country code.
func NormalizeCountryCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Contains reports whether code is already in the list.
func (f Favorites) Contains(code string) bool {
	for _, c := range f {
		if c == code {
			return true
		}
	}
	return false
}

// Add appends code and reports true, or returns the list unchanged and false
// when code is already present.
func (f Favorites) Add(code string) (Favorites, bool) {
	if f.Contains(code) {
		return f, false
	}
	out := make(Favorites, 0, len(f)+1)
	out = append(out, f...)
	return append(out, code), true
}

// Remove drops every occurrence of code. Removing an absent code is a no-op.
func (f Favorites) Remove(code string) Favorites {
	out := make(Favorites, 0, len(f))
	for _, c := range f {
		if c != code {
			out = append(out, c)
		}
	}
	return out
}

// Dedupe keeps the first occurrence of each code, preserving order. The result is never nil.
func (f Favorites) Dedupe() Favorites {
	seen := make(map[string]struct{}, len(f))
	out := make(Favorites, 0, len(f))
	for _, c := range f {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Clone returns a copy that is never nil, so it encodes as [] rather than null.
func (f Favorites) Clone() Favorites {
	out := make(Favorites, len(f))
	copy(out, f)
	return out
}
