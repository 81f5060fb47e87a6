package lyrics

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Converted is the JSON interchange document produced from a plain-text file.
// Offsets keep the time exactly as written in the source.
type Converted struct {
	Meta  ConvertedMeta   `json:"meta"`
	Lines []ConvertedLine `json:"lines"`
}

type ConvertedMeta struct {
	TotalLength int `json:"total_length"`
	TotalOffset int `json:"total_offset"`
}

type ConvertedLine struct {
	Segments []ConvertedSegment `json:"segments"`
}

type ConvertedSegment struct {
	Text string         `json:"text"`
	Keys []ConvertedKey `json:"keys"`
}

type ConvertedKey struct {
	Offset string `json:"offset"`
	Value  int    `json:"value"`
}

// Convert turns timestamped text into the JSON interchange shape. Each record
// is "<time>;<seg>;<seg>..." or "<time>:<phase>:<seg>;<seg>...". Every segment
// gets a single fully visible key at the record's time; no fades are made.
func Convert(r io.Reader) (*Converted, error) {
	out := &Converted{Lines: []ConvertedLine{}}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		raw := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}

		parts := strings.Split(raw, segmentSep)
		head, segments := parts[0], parts[1:]
		time := head
		// "4:1:Hey" -> time "4", first segment "Hey"
		if fields := strings.SplitN(head, fieldSep, 3); len(fields) == 3 {
			time = fields[0]
			segments = append([]string{fields[2]}, segments...)
		}

		line := ConvertedLine{Segments: make([]ConvertedSegment, 0, len(segments))}
		for _, s := range segments {
			line.Segments = append(line.Segments, ConvertedSegment{
				Text: s,
				Keys: []ConvertedKey{{Offset: time, Value: 1}},
			})
		}
		out.Lines = append(out.Lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read lyrics text: %w", err)
	}
	return out, nil
}

// Encode writes c pretty-printed with two-space indentation.
func (c *Converted) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(c)
}
