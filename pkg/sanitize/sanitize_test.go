package sanitize

import (
	"strings"
	"testing"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/ccnet_err"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestNeedsSanitation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "enquiry", input: "This contains ENQUIRY (0x5) \u0005", want: true},
		{name: "valid", input: "This is a valid Xml String", want: false},
		{name: "empty", input: "", want: false},
		{name: "tab_lf_cr", input: "a\tb\nc\rd", want: false},
		{name: "nul", input: "a\x00b", want: true},
		{name: "vertical_tab", input: "a\x0bb", want: true},
		{name: "form_feed", input: "a\x0cb", want: true},
		{name: "unit_separator", input: "\x1f", want: true},
		{name: "replacement_char_literal", input: "bad \uFFFD char", want: false},
		{name: "nonchar_fffe", input: "\uFFFE", want: true},
		{name: "astral", input: "emoji \U0001F600", want: false},
		{name: "invalid_utf8", input: "broken \xed\xa0\x80 surrogate", want: true},
		{name: "lone_continuation_byte", input: "x\x80y", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NeedsSanitation(ptr(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "enquiry",
			input: "This contains ENQUIRY (0x5) \u0005",
			want:  "WARNING This message contained invalid XML character(s) which have been removed: This contains ENQUIRY (0x5) ",
		},
		{
			name:  "valid_round_trips",
			input: "This is a valid string.",
			want:  "This is a valid string.",
		},
		{
			name:  "empty_round_trips",
			input: "",
			want:  "",
		},
		{
			name:  "keeps_order_of_permitted",
			input: "\x01a\x02b\tc\x1fd",
			want:  Preamble + "ab\tcd",
		},
		{
			name:  "only_disallowed",
			input: "\x00\x01",
			want:  Preamble,
		},
		{
			name:  "invalid_utf8_removed",
			input: "caf\xe9 au lait",
			want:  Preamble + "caf au lait",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Sanitize(ptr(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitize_NilInput(t *testing.T) {
	t.Parallel()

	_, err := Sanitize(nil)
	assert.ErrorIs(t, err, ccnet_err.ErrInvalidArgument)

	_, err = NeedsSanitation(nil)
	assert.ErrorIs(t, err, ccnet_err.ErrInvalidArgument)
}

func TestSanitize_OutputIsClean(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"warning CS0168: \x07bell",
		"\x00\x00\x00",
		"mixed \x1b[31mansi\x1b[0m colour codes",
		strings.Repeat("ok\x0b", 50),
	}

	for _, in := range inputs {
		out := Text(in)
		assert.True(t, strings.HasPrefix(out, Preamble), in)

		suffix := strings.TrimPrefix(out, Preamble)
		dirty, err := NeedsSanitation(&suffix)
		require.NoError(t, err)
		assert.False(t, dirty, "sanitized suffix must be XML-safe: %q", suffix)
		assert.Equal(t, suffix, Text(suffix), "clean suffix must round trip")
	}
}

func TestStrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"CS0001", "CS0001"},
		{"CS\x010001", "CS0001"},
		{"C:\\src\x00\\a.cs", `C:\src\a.cs`},
		{"lone \xed\xa0\x80 unit", "lone  unit"},
		{"keep \uFFFD", "keep \uFFFD"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Strip(tt.in), "%q", tt.in)
		assert.False(t, strings.HasPrefix(Strip(tt.in), Preamble))
	}
}

func TestIsXMLChar(t *testing.T) {
	t.Parallel()

	for _, r := range []rune{0x09, 0x0A, 0x0D, 0x20, 0xD7FF, 0xE000, 0xFFFD, 0x10000, 0x10FFFF} {
		assert.True(t, IsXMLChar(r), "%U", r)
	}
	for _, r := range []rune{0x00, 0x08, 0x0B, 0x0C, 0x0E, 0x1F, 0xD800, 0xDFFF, 0xFFFE, 0xFFFF} {
		assert.False(t, IsXMLChar(r), "%U", r)
	}
}
