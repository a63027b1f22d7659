package dictscan

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"

	"github.com/benedoc-inc/acroedit/internal/ascii"
)

var upperFallback = cases.Upper(language.Und)

var utf16BOM = []byte{0xFE, 0xFF}

// EncodeValue converts a host value into its PDF token representation, per
// spec 4.1 encode_pdf_string: booleans become true/false, symbols (names)
// become /<name>, and strings are transliterated to ASCII first — if the
// result is pure ASCII it is emitted as an escaped literal, otherwise the
// original string is encoded as UTF-16BE with a leading BOM and emitted as
// a hex string so non-Latin values round-trip exactly.
func EncodeValue(value any) []byte {
	switch v := value.(type) {
	case bool:
		if v {
			return []byte("true")
		}
		return []byte("false")
	case Name:
		return []byte(EncodePDFName(string(v)))
	case string:
		return encodeStringToken(v)
	case int:
		return []byte(fmt.Sprintf("%d", v))
	case int64:
		return []byte(fmt.Sprintf("%d", v))
	case float64:
		return []byte(fmt.Sprintf("%g", v))
	default:
		return encodeStringToken(fmt.Sprintf("%v", v))
	}
}

// Name marks a string as a PDF name (/Foo) rather than a string value, for
// use with EncodeValue.
type Name string

func encodeStringToken(s string) []byte {
	translit := ascii.ToASCII(s)
	// ToASCII writes '?' for each character it cannot reduce; a string that
	// gained a '?' is not ASCII-reducible and keeps its text as UTF-16BE.
	if ascii.IsASCII(translit) && strings.Count(translit, "?") == strings.Count(s, "?") {
		return encodeLiteralString(translit)
	}
	return encodeHexUTF16(s)
}

func encodeLiteralString(s string) []byte {
	var b bytes.Buffer
	b.WriteByte('(')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			b.WriteString(`\\`)
		case '(':
			b.WriteString(`\(`)
		case ')':
			b.WriteString(`\)`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(s[i])
		}
	}
	b.WriteByte(')')
	return b.Bytes()
}

func encodeHexUTF16(s string) []byte {
	enc := unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	encoded, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		encoded = append(append([]byte{}, utf16BOM...), []byte(s)...)
	}
	hexed := make([]byte, hex.EncodedLen(len(encoded)))
	hex.Encode(hexed, encoded)
	return append(append([]byte{'<'}, hexed...), '>')
}

// DecodeString is the inverse of EncodeValue's string path: given a
// literal "(...)" or hex "<...>" token's raw bytes, it decodes escapes or
// hex digits, then detects a UTF-16BE BOM to recover the original string,
// per spec 4.1 decode_pdf_string.
func DecodeString(token []byte) (string, error) {
	if len(token) < 2 {
		return "", fmt.Errorf("dictscan: string token too short")
	}
	var raw []byte
	switch token[0] {
	case '(':
		raw = decodeLiteralBytes(token[1 : len(token)-1])
	case '<':
		hexDigits := bytes.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
				return -1
			}
			return r
		}, token[1:len(token)-1])
		if len(hexDigits)%2 == 1 {
			hexDigits = append(hexDigits, '0')
		}
		decoded := make([]byte, hex.DecodedLen(len(hexDigits)))
		n, err := hex.Decode(decoded, hexDigits)
		if err != nil {
			return "", fmt.Errorf("dictscan: invalid hex string: %w", err)
		}
		raw = decoded[:n]
	default:
		return "", fmt.Errorf("dictscan: not a string token")
	}

	if bytes.HasPrefix(raw, utf16BOM) {
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
		out, _, err := transform.Bytes(dec.NewDecoder(), raw)
		if err != nil {
			return "", fmt.Errorf("dictscan: invalid utf-16be string: %w", err)
		}
		return string(out), nil
	}
	return string(raw), nil
}

func decodeLiteralBytes(body []byte) []byte {
	var out bytes.Buffer
	for i := 0; i < len(body); i++ {
		if body[i] != '\\' || i+1 >= len(body) {
			out.WriteByte(body[i])
			continue
		}
		i++
		switch body[i] {
		case 'n':
			out.WriteByte('\n')
		case 'r':
			out.WriteByte('\r')
		case 't':
			out.WriteByte('\t')
		case 'b':
			out.WriteByte('\b')
		case 'f':
			out.WriteByte('\f')
		case '(', ')', '\\':
			out.WriteByte(body[i])
		case '\n':
			// line continuation, escaped newline is dropped
		case '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		default:
			if body[i] >= '0' && body[i] <= '7' {
				val := int(body[i] - '0')
				for k := 0; k < 2 && i+1 < len(body) && body[i+1] >= '0' && body[i+1] <= '7'; k++ {
					i++
					val = val*8 + int(body[i]-'0')
				}
				out.WriteByte(byte(val))
			} else {
				out.WriteByte(body[i])
			}
		}
	}
	return out.Bytes()
}

const nameEscapeSet = "#()<>[]{}/%"

// EncodePDFName transliterates name to ASCII, then hex-escapes delimiter,
// control, and high-bit bytes as "#hh", per spec 4.1 encode_pdf_name. A
// name that transliterates to nothing (one made only of combining marks,
// which ToASCII drops) is transliterated again from its uppercased form;
// most combining marks have no uppercase form, so such a name usually
// still encodes as a bare "/".
func EncodePDFName(name string) string {
	translit := ascii.ToASCII(name)
	if translit == "" && name != "" {
		translit = ascii.ToASCII(upperFallback.String(name))
	}
	var b strings.Builder
	b.WriteByte('/')
	for i := 0; i < len(translit); i++ {
		c := translit[i]
		if c < 0x21 || c > 0x7E || strings.IndexByte(nameEscapeSet, c) >= 0 {
			fmt.Fprintf(&b, "#%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// DecodePDFName reverses EncodePDFName-style escaping for a "/Name" token's
// raw bytes (leading '/' included), expanding "#hh" sequences.
func DecodePDFName(token []byte) string {
	if len(token) == 0 || token[0] != '/' {
		return string(token)
	}
	body := token[1:]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '#' && i+2 < len(body) {
			hi, okHi := hexDigit(body[i+1])
			lo, okLo := hexDigit(body[i+2])
			if okHi && okLo {
				b.WriteByte(byte(hi<<4 | lo))
				i += 2
				continue
			}
		}
		b.WriteByte(body[i])
	}
	return b.String()
}

func hexDigit(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	}
	return 0, false
}
