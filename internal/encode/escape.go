// Package encode emits JSON text from the ir value tree.
//
// All string escaping in the repository funnels through AppendQuoted; no
// caller hand-rolls its own escaping.
package encode

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// AppendQuoted writes s to sb as a quoted JSON string, escaping quotes,
// backslashes, control characters, and invalid UTF-8 per the JSON grammar.
func AppendQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case c == '"':
				sb.WriteString(`\"`)
			case c == '\\':
				sb.WriteString(`\\`)
			case c == '\b':
				sb.WriteString(`\b`)
			case c == '\f':
				sb.WriteString(`\f`)
			case c == '\n':
				sb.WriteString(`\n`)
			case c == '\r':
				sb.WriteString(`\r`)
			case c == '\t':
				sb.WriteString(`\t`)
			case c < 0x20:
				sb.WriteString(`\u00`)
				sb.WriteByte(hexDigits[c>>4])
				sb.WriteByte(hexDigits[c&0xf])
			default:
				sb.WriteByte(c)
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			// Invalid UTF-8 byte; emit the replacement character rather
			// than producing an invalid JSON document.
			sb.WriteString(`�`)
			i++
			continue
		}
		sb.WriteString(s[i : i+size])
		i += size
	}
	sb.WriteByte('"')
}

// Quote returns s as a quoted JSON string.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	AppendQuoted(&sb, s)
	return sb.String()
}

// AppendNumber writes f as a JSON number. NaN and infinities have no JSON
// representation and indicate a defect upstream.
func AppendNumber(sb *strings.Builder, f float64) error {
	if f != f || f > maxFinite || f < -maxFinite {
		return fmt.Errorf("number %v has no JSON representation", f)
	}
	sb.WriteString(formatNumber(f))
	return nil
}

const maxFinite = 1.7976931348623157e308
