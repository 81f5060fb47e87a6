package lyrics

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedDocument = errors.New("malformed lyrics document")
	ErrMalformedLine     = errors.New("malformed lyrics line")
)

// MalformedDocumentError points at the line/segment that failed JSON validation.
// Line and Segment are -1 when not applicable.
type MalformedDocumentError struct {
	Line    int
	Segment int
	Reason  string
}

func (e *MalformedDocumentError) Error() string {
	switch {
	case e.Line < 0:
		return fmt.Sprintf("%v: %s", ErrMalformedDocument, e.Reason)
	case e.Segment < 0:
		return fmt.Sprintf("%v: line %d: %s", ErrMalformedDocument, e.Line, e.Reason)
	default:
		return fmt.Sprintf("%v: line %d, segment %d: %s", ErrMalformedDocument, e.Line, e.Segment, e.Reason)
	}
}

func (e *MalformedDocumentError) Unwrap() error { return ErrMalformedDocument }

// MalformedLineError reports a plain-text record that could not be parsed.
// LineNo is 1-based.
type MalformedLineError struct {
	LineNo int
	Input  string
	Reason string
	Err    error
}

func (e *MalformedLineError) Error() string {
	msg := fmt.Sprintf("%v %d (%q): %s", ErrMalformedLine, e.LineNo, e.Input, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedLineError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedLine}
	}
	return []error{ErrMalformedLine, e.Err}
}
