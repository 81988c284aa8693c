// Package sanitize makes free-form build output safe to embed in an XML
// report. Text that contains characters outside the XML 1.0 Char production
// is filtered and prefixed with a fixed warning so the removal stays visible
// to whoever reads the report.
package sanitize

import (
	"strings"
	"unicode/utf8"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_err"
)

// Preamble is prepended to every message that had characters removed.
const Preamble = "WARNING This message contained invalid XML character(s) which have been removed: "

// IsXMLChar reports whether r may appear in an XML 1.0 document:
// #x9 | #xA | #xD | [#x20-#xD7FF] | [#xE000-#xFFFD] | [#x10000-#x10FFFF].
func IsXMLChar(r rune) bool {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= utf8.MaxRune:
		return true
	}
	return false
}

// NeedsSanitation reports whether text contains at least one character that
// is not allowed in XML. Bytes that do not form valid UTF-8 count as
// disallowed.
func NeedsSanitation(text *string) (bool, error) {
	if text == nil {
		return false, ccnet_err.InvalidArgument("text")
	}
	return needsSanitation(*text), nil
}

// Sanitize returns text unchanged when it is already XML-safe. Otherwise the
// disallowed characters are dropped, the remaining ones are kept in order,
// and the result is prefixed with Preamble.
func Sanitize(text *string) (string, error) {
	if text == nil {
		return "", ccnet_err.InvalidArgument("text")
	}
	return Text(*text), nil
}

// Text is Sanitize for values that are known to be present.
func Text(s string) string {
	if !needsSanitation(s) {
		return s
	}
	return Preamble + Strip(s)
}

// Strip drops disallowed characters without adding Preamble. It is for
// identifiers such as codes and paths, where a sentence would corrupt the
// value.
func Strip(s string) string {
	if !needsSanitation(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if allowed(r, size) {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

func needsSanitation(s string) bool {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !allowed(r, size) {
			return true
		}
		i += size
	}
	return false
}

// allowed treats a RuneError of width 1 as an undecodable byte; a literal
// U+FFFD in the input decodes with width 3 and is a legal XML character.
func allowed(r rune, size int) bool {
	if r == utf8.RuneError && size == 1 {
		return false
	}
	return IsXMLChar(r)
}
