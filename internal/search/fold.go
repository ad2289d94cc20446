package search

import (
	"unicode"
	"unicode/utf8"
)

// foldRune reports whether a and b are the same letter ignoring case. Runes
// equal after lower-casing or within one simple case-folding orbit match.
func foldRune(a, b rune) bool {
	if a == b {
		return true
	}
	if unicode.ToLower(a) == unicode.ToLower(b) {
		return true
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}

// matchAt reports whether pat occurs in s starting at byte offset i, and the
// byte offset just past the occurrence. s is walked in place so invalid
// UTF-8 is never rewritten.
func matchAt(s string, i int, pat []rune) (int, bool) {
	if len(pat) == 0 {
		return i, false
	}
	for _, p := range pat {
		if i >= len(s) {
			return 0, false
		}
		r, w := utf8.DecodeRuneInString(s[i:])
		if !foldRune(r, p) {
			return 0, false
		}
		i += w
	}
	return i, true
}

// containsFold reports whether s contains pat under foldRune.
func containsFold(s string, pat []rune) bool {
	for i := 0; i < len(s); {
		if _, ok := matchAt(s, i, pat); ok {
			return true
		}
		_, w := utf8.DecodeRuneInString(s[i:])
		i += w
	}
	return false
}
