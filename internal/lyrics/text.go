package lyrics

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultAnimLength is the hold length, in frames, given to plain-text lines.
const DefaultAnimLength = 50.0

const (
	fieldSep   = ":"
	segmentSep = ";"
)

// TextOptions tunes plain-text parsing. A zero AnimLength means no hold.
type TextOptions struct {
	AnimLength float64
}

func DefaultTextOptions() TextOptions {
	return TextOptions{AnimLength: DefaultAnimLength}
}

// ParseText reads the plain-text format, one lyric line per input line:
//
//	<timing>:<phase>:<seg1>;<seg2>;...;<segN>
//
// Splitting is literal; segment text cannot contain ':' or ';'. Blank input
// lines are skipped. Segments are kept verbatim, including empty ones.
func ParseText(r io.Reader, opts TextOptions) (*Document, error) {
	if opts.AnimLength < 0 || math.IsNaN(opts.AnimLength) || math.IsInf(opts.AnimLength, 0) {
		return nil, fmt.Errorf("invalid anim length %v", opts.AnimLength)
	}

	doc := &Document{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		line, err := parseTextLine(raw, lineNo, opts)
		if err != nil {
			return nil, err
		}
		doc.Lines = append(doc.Lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lyrics text: %w", err)
	}
	return doc, nil
}

func parseTextLine(raw string, lineNo int, opts TextOptions) (Line, error) {
	fields := strings.Split(raw, fieldSep)
	if len(fields) < 3 {
		return Line{}, &MalformedLineError{LineNo: lineNo, Input: raw,
			Reason: "expected <timing>:<phase>:<segments>"}
	}
	if len(fields) > 3 {
		return Line{}, &MalformedLineError{LineNo: lineNo, Input: raw,
			Reason: "segment text must not contain ':'"}
	}

	start, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return Line{}, &MalformedLineError{LineNo: lineNo, Input: raw, Reason: "timing is not a number", Err: err}
	}
	if math.IsNaN(start) || math.IsInf(start, 0) || start < 0 {
		return Line{}, &MalformedLineError{LineNo: lineNo, Input: raw, Reason: "timing must be a finite, non-negative number"}
	}
	phase, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return Line{}, &MalformedLineError{LineNo: lineNo, Input: raw, Reason: "phase is not an integer", Err: err}
	}

	spec := FixedFade{Start: start, Length: opts.AnimLength}
	parts := strings.Split(fields[2], segmentSep)
	line := Line{
		Phase:    &phase,
		Timing:   &Timing{Start: start, Length: opts.AnimLength},
		Segments: make([]Segment, 0, len(parts)),
	}
	for _, p := range parts {
		line.Segments = append(line.Segments, Segment{Text: norm.NFC.String(p), Schedule: spec})
	}
	return line, nil
}
