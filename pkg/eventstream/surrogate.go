// pkg/eventstream/surrogate.go

package eventstream

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	cerr "github.com/cockroachdb/errors"
	"golang.org/x/text/transform"
)

// Build output can carry unpaired UTF-16 surrogates. encoding/json and the
// x/text UTF-16 decoder both turn them into U+FFFD, which is a legal XML
// character, so the loss would go unnoticed. Instead a lone surrogate is
// kept in its generalized UTF-8 form (ED A0..BF xx), which is never valid
// UTF-8 and is therefore dropped and flagged by the sanitizer.

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// text strips a UTF-8 BOM and transcodes UTF-16 input (recognised by its
// BOM) to UTF-8. Other input is passed through byte for byte.
func text(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(bomUTF8))

	switch {
	case bytes.HasPrefix(head, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br
	case bytes.HasPrefix(head, bomUTF16LE):
		_, _ = br.Discard(len(bomUTF16LE))
		return transform.NewReader(br, utf16Decoder{order: binary.LittleEndian})
	case bytes.HasPrefix(head, bomUTF16BE):
		_, _ = br.Discard(len(bomUTF16BE))
		return transform.NewReader(br, utf16Decoder{order: binary.BigEndian})
	}
	return br
}

// appendSurrogate writes a surrogate code unit the way UTF-8 would encode
// it if surrogates were allowed.
func appendSurrogate(b []byte, u rune) []byte {
	return append(b,
		0xE0|byte(u>>12),
		0x80|byte(u>>6)&0x3F,
		0x80|byte(u)&0x3F,
	)
}

func isHighSurrogate(u rune) bool { return u >= 0xD800 && u < 0xDC00 }
func isLowSurrogate(u rune) bool  { return u >= 0xDC00 && u <= 0xDFFF }

// utf16Decoder is a transform.Transformer from UTF-16 (without BOM) to
// UTF-8 that keeps unpaired surrogates.
type utf16Decoder struct {
	order binary.ByteOrder
}

func (utf16Decoder) Reset() {}

func (d utf16Decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	var buf [utf8.UTFMax]byte
	for nSrc+2 <= len(src) {
		u := rune(d.order.Uint16(src[nSrc:]))
		size := 2
		var out []byte

		switch {
		case isHighSurrogate(u):
			if nSrc+4 > len(src) && !atEOF {
				return nDst, nSrc, transform.ErrShortSrc
			}
			if nSrc+4 <= len(src) {
				if lo := rune(d.order.Uint16(src[nSrc+2:])); isLowSurrogate(lo) {
					out = utf8.AppendRune(buf[:0], utf16.DecodeRune(u, lo))
					size = 4
					break
				}
			}
			out = appendSurrogate(buf[:0], u)
		case isLowSurrogate(u):
			out = appendSurrogate(buf[:0], u)
		default:
			out = utf8.AppendRune(buf[:0], u)
		}

		if nDst+len(out) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], out)
		nSrc += size
	}

	if nSrc < len(src) {
		if !atEOF {
			return nDst, nSrc, transform.ErrShortSrc
		}
		// A dangling odd byte cannot be a code unit.
		out := utf8.AppendRune(buf[:0], utf8.RuneError)
		if nDst+len(out) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], out)
		nSrc++
	}
	return nDst, nSrc, nil
}

var errBadString = cerr.New("malformed JSON string")

// UnmarshalJSON decodes the free-text fields without collapsing unpaired
// \uXXXX surrogate escapes or raw invalid bytes into U+FFFD.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	var aux struct {
		plain
		Code    json.RawMessage `json:"code"`
		Message json.RawMessage `json:"message"`
		File    json.RawMessage `json:"file"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	rec := Record(aux.plain)
	var err error
	if rec.Code, err = unquoteText(aux.Code); err != nil {
		return cerr.Wrap(err, "code")
	}
	if rec.Message, err = unquoteText(aux.Message); err != nil {
		return cerr.Wrap(err, "message")
	}
	if rec.File, err = unquoteText(aux.File); err != nil {
		return cerr.Wrap(err, "file")
	}
	*r = rec
	return nil
}

// unquoteText decodes a JSON string literal. Absent and null values yield
// nil.
func unquoteText(raw json.RawMessage) (*string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return nil, cerr.Wrapf(errBadString, "expected a string, got %.20s", raw)
	}

	s := raw[1 : len(raw)-1]
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			out = append(out, s[i])
			i++
			continue
		}
		if i+1 >= len(s) {
			return nil, errBadString
		}

		switch c := s[i+1]; c {
		case '"', '\\', '/':
			out = append(out, c)
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'u':
			u, ok := hex4(s[i+2:])
			if !ok {
				return nil, cerr.Wrapf(errBadString, "bad escape at offset %d", i)
			}
			i += 6
			switch {
			case isHighSurrogate(u):
				if i+6 <= len(s) && s[i] == '\\' && s[i+1] == 'u' {
					if lo, ok := hex4(s[i+2:]); ok && isLowSurrogate(lo) {
						out = utf8.AppendRune(out, utf16.DecodeRune(u, lo))
						i += 6
						continue
					}
				}
				out = appendSurrogate(out, u)
			case isLowSurrogate(u):
				out = appendSurrogate(out, u)
			default:
				out = utf8.AppendRune(out, u)
			}
			continue
		default:
			return nil, cerr.Wrapf(errBadString, "bad escape at offset %d", i)
		}
		i += 2
	}

	str := string(out)
	return &str, nil
}

func hex4(b []byte) (rune, bool) {
	if len(b) < 4 {
		return 0, false
	}
	v, err := strconv.ParseUint(string(b[:4]), 16, 16)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
