// Package parse implements the JSON scanner/decoder for résumé documents.
//
// The decoder operates on a cursor over the raw byte buffer rather than
// pre-tokenizing the whole input, produces the order-preserving ir.Value
// representation, and reports every failure as a positional DecodeError.
package parse

import (
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/jonathan/resume-studio/internal/ir"
)

// DefaultMaxDepth bounds nesting so corrupted or malicious input fails with
// a DecodeError instead of exhausting the stack.
const DefaultMaxDepth = 128

// Options configures decoding.
type Options struct {
	// MaxDepth is the maximum object/array nesting depth. Zero means
	// DefaultMaxDepth.
	MaxDepth int
}

// Decode parses a complete JSON document with default options.
func Decode(data []byte) (*ir.Value, error) {
	return DecodeWithOptions(data, Options{})
}

// DecodeWithOptions parses a complete JSON document. The input must contain
// exactly one JSON value; trailing non-whitespace bytes are an error.
func DecodeWithOptions(data []byte, opts Options) (*ir.Value, error) {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	d := &decoder{data: data, maxDepth: maxDepth}

	d.skipWhitespace()
	v, err := d.parseValue()
	if err != nil {
		return nil, err
	}
	d.skipWhitespace()
	if d.pos < len(d.data) {
		return nil, errAt(d.pos, "unexpected trailing data")
	}
	if d.depth != 0 {
		// Not reachable from malformed input; indicates a defect in the
		// decoder itself.
		return nil, errAt(d.pos, "internal error: nesting depth %d at top level", d.depth)
	}
	return v, nil
}

type decoder struct {
	data     []byte
	pos      int
	depth    int
	maxDepth int
}

func (d *decoder) skipWhitespace() {
	for d.pos < len(d.data) {
		switch d.data[d.pos] {
		case ' ', '\t', '\n', '\r':
			d.pos++
		default:
			return
		}
	}
}

func (d *decoder) peek() (byte, bool) {
	if d.pos >= len(d.data) {
		return 0, false
	}
	return d.data[d.pos], true
}

func (d *decoder) parseValue() (*ir.Value, error) {
	c, ok := d.peek()
	if !ok {
		return nil, errAt(d.pos, "unexpected end of input")
	}
	switch {
	case c == '{':
		return d.parseObject()
	case c == '[':
		return d.parseArray()
	case c == '"':
		s, err := d.parseString()
		if err != nil {
			return nil, err
		}
		return ir.FromString(s), nil
	case c == 't', c == 'f':
		return d.parseBool()
	case c == 'n':
		return d.parseNull()
	case c == '-' || (c >= '0' && c <= '9'):
		return d.parseNumber()
	default:
		return nil, errAt(d.pos, "unexpected character %q", rune(c))
	}
}

func (d *decoder) enter() error {
	d.depth++
	if d.depth > d.maxDepth {
		return errAt(d.pos, "maximum nesting depth %d exceeded", d.maxDepth)
	}
	return nil
}

func (d *decoder) leave() {
	d.depth--
}

func (d *decoder) parseObject() (*ir.Value, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	d.pos++ // consume '{'
	obj := ir.NewObject()
	seen := map[string]struct{}{}

	d.skipWhitespace()
	if c, ok := d.peek(); ok && c == '}' {
		d.pos++
		return obj, nil
	}

	for {
		d.skipWhitespace()
		c, ok := d.peek()
		if !ok {
			return nil, errAt(d.pos, "unexpected end of input in object")
		}
		if c != '"' {
			return nil, errAt(d.pos, "expected object key, got %q", rune(c))
		}
		keyOffset := d.pos
		key, err := d.parseString()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[key]; dup {
			return nil, errAt(keyOffset, "duplicate object key %q", key)
		}
		seen[key] = struct{}{}

		d.skipWhitespace()
		c, ok = d.peek()
		if !ok || c != ':' {
			return nil, errAt(d.pos, "expected ':' after object key %q", key)
		}
		d.pos++

		d.skipWhitespace()
		val, err := d.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Members = append(obj.Members, ir.Member{Key: key, Value: val})

		d.skipWhitespace()
		c, ok = d.peek()
		if !ok {
			return nil, errAt(d.pos, "unexpected end of input in object")
		}
		switch c {
		case ',':
			d.pos++
		case '}':
			d.pos++
			return obj, nil
		default:
			return nil, errAt(d.pos, "expected ',' or '}' in object, got %q", rune(c))
		}
	}
}

func (d *decoder) parseArray() (*ir.Value, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	d.pos++ // consume '['
	arr := &ir.Value{Kind: ir.ArrayKind}

	d.skipWhitespace()
	if c, ok := d.peek(); ok && c == ']' {
		d.pos++
		return arr, nil
	}

	for {
		d.skipWhitespace()
		item, err := d.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, item)

		d.skipWhitespace()
		c, ok := d.peek()
		if !ok {
			return nil, errAt(d.pos, "unexpected end of input in array")
		}
		switch c {
		case ',':
			d.pos++
		case ']':
			d.pos++
			return arr, nil
		default:
			return nil, errAt(d.pos, "expected ',' or ']' in array, got %q", rune(c))
		}
	}
}

func (d *decoder) parseString() (string, error) {
	start := d.pos
	d.pos++ // consume opening quote
	var sb []byte

	for {
		if d.pos >= len(d.data) {
			return "", errAt(start, "unterminated string")
		}
		c := d.data[d.pos]
		switch {
		case c == '"':
			d.pos++
			return string(sb), nil
		case c == '\\':
			r, err := d.parseEscape()
			if err != nil {
				return "", err
			}
			sb = utf8.AppendRune(sb, r)
		case c < 0x20:
			return "", errAt(d.pos, "invalid control character 0x%02x in string", c)
		default:
			sb = append(sb, c)
			d.pos++
		}
	}
}

// parseEscape consumes a backslash escape sequence, including \uXXXX with
// surrogate pairs, and returns the decoded rune.
func (d *decoder) parseEscape() (rune, error) {
	escStart := d.pos
	d.pos++ // consume '\'
	if d.pos >= len(d.data) {
		return 0, errAt(escStart, "unterminated string")
	}
	c := d.data[d.pos]
	d.pos++
	switch c {
	case '"':
		return '"', nil
	case '\\':
		return '\\', nil
	case '/':
		return '/', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'u':
		r1, err := d.parseHex4(escStart)
		if err != nil {
			return 0, err
		}
		if utf16.IsSurrogate(r1) {
			// A high surrogate must be followed by \uXXXX holding the low
			// half; anything else is malformed.
			if d.pos+1 >= len(d.data) || d.data[d.pos] != '\\' || d.data[d.pos+1] != 'u' {
				return 0, errAt(escStart, "invalid unicode escape: unpaired surrogate")
			}
			pairStart := d.pos
			d.pos += 2
			r2, err := d.parseHex4(pairStart)
			if err != nil {
				return 0, err
			}
			r := utf16.DecodeRune(r1, r2)
			if r == utf8.RuneError {
				return 0, errAt(escStart, "invalid unicode escape: bad surrogate pair")
			}
			return r, nil
		}
		return r1, nil
	default:
		return 0, errAt(escStart, "invalid escape character %q", rune(c))
	}
}

func (d *decoder) parseHex4(escStart int) (rune, error) {
	if d.pos+4 > len(d.data) {
		return 0, errAt(escStart, "invalid unicode escape: truncated")
	}
	var r rune
	for i := 0; i < 4; i++ {
		c := d.data[d.pos+i]
		var v rune
		switch {
		case c >= '0' && c <= '9':
			v = rune(c - '0')
		case c >= 'a' && c <= 'f':
			v = rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v = rune(c-'A') + 10
		default:
			return 0, errAt(escStart, "invalid unicode escape: non-hex digit %q", rune(c))
		}
		r = r<<4 | v
	}
	d.pos += 4
	return r, nil
}

func (d *decoder) parseBool() (*ir.Value, error) {
	if d.hasLiteral("true") {
		d.pos += 4
		return ir.FromBool(true), nil
	}
	if d.hasLiteral("false") {
		d.pos += 5
		return ir.FromBool(false), nil
	}
	return nil, errAt(d.pos, "unexpected token")
}

func (d *decoder) parseNull() (*ir.Value, error) {
	if d.hasLiteral("null") {
		d.pos += 4
		return ir.Null(), nil
	}
	return nil, errAt(d.pos, "unexpected token")
}

func (d *decoder) hasLiteral(lit string) bool {
	if d.pos+len(lit) > len(d.data) {
		return false
	}
	return string(d.data[d.pos:d.pos+len(lit)]) == lit
}

// parseNumber validates the JSON number grammar over the raw bytes before
// handing the slice to strconv, so inputs like "01" or "1." are rejected.
func (d *decoder) parseNumber() (*ir.Value, error) {
	start := d.pos

	if c, ok := d.peek(); ok && c == '-' {
		d.pos++
	}

	// Integer part: 0, or a non-zero digit followed by digits.
	c, ok := d.peek()
	switch {
	case !ok:
		return nil, errAt(start, "invalid number")
	case c == '0':
		d.pos++
	case c >= '1' && c <= '9':
		d.consumeDigits()
	default:
		return nil, errAt(start, "invalid number")
	}

	// Fraction.
	if c, ok := d.peek(); ok && c == '.' {
		d.pos++
		if n := d.consumeDigits(); n == 0 {
			return nil, errAt(start, "invalid number: no digits after decimal point")
		}
	}

	// Exponent.
	if c, ok := d.peek(); ok && (c == 'e' || c == 'E') {
		d.pos++
		if c, ok := d.peek(); ok && (c == '+' || c == '-') {
			d.pos++
		}
		if n := d.consumeDigits(); n == 0 {
			return nil, errAt(start, "invalid number: no digits in exponent")
		}
	}

	f, err := strconv.ParseFloat(string(d.data[start:d.pos]), 64)
	if err != nil {
		return nil, errAt(start, "number out of range")
	}
	return ir.FromNumber(f), nil
}

func (d *decoder) consumeDigits() int {
	n := 0
	for d.pos < len(d.data) && d.data[d.pos] >= '0' && d.data[d.pos] <= '9' {
		d.pos++
		n++
	}
	return n
}
