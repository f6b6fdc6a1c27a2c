package parse

import "fmt"

// DecodeError reports malformed JSON input. Offset is the byte position in
// the input buffer where the problem was detected.
type DecodeError struct {
	Offset int
	Msg    string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error at byte %d: %s", e.Offset, e.Msg)
}

// errAt builds a positional decode error.
func errAt(offset int, format string, args ...any) *DecodeError {
	return &DecodeError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}
