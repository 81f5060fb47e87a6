package lyrics

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrNotExplicit is returned when encoding a document whose segments were not
// described with explicit keyframes.
var ErrNotExplicit = errors.New("segment schedule has no explicit keys")

type wireDocument struct {
	Meta  Meta        `json:"meta"`
	Lines *[]wireLine `json:"lines"`
}

type wireLine struct {
	Phase    *int           `json:"phase,omitempty"`
	Segments *[]wireSegment `json:"segments"`
}

type wireSegment struct {
	Text *string    `json:"text"`
	Keys *[]wireKey `json:"keys"`
}

type wireKey struct {
	Offset *flexNumber `json:"offset"`
	Value  *flexNumber `json:"value"`
}

// flexNumber accepts both 12.5 and "12.5"; converter output quotes its offsets.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if strings.HasPrefix(s, `"`) {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		s = strings.TrimSpace(unq)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", data)
	}
	*n = flexNumber(v)
	return nil
}

// ParseJSON decodes the JSON interchange format into a Document.
// No partial document is returned on error.
func ParseJSON(r io.Reader) (*Document, error) {
	var wd wireDocument
	if err := json.NewDecoder(r).Decode(&wd); err != nil {
		return nil, &MalformedDocumentError{Line: -1, Segment: -1, Reason: err.Error()}
	}
	if wd.Lines == nil {
		return nil, &MalformedDocumentError{Line: -1, Segment: -1, Reason: `missing "lines"`}
	}

	if wd.Meta == nil {
		wd.Meta = Meta{}
	}
	doc := &Document{Meta: wd.Meta, Lines: make([]Line, 0, len(*wd.Lines))}
	for i, wl := range *wd.Lines {
		if wl.Segments == nil {
			return nil, &MalformedDocumentError{Line: i, Segment: -1, Reason: `missing "segments"`}
		}
		line := Line{Phase: wl.Phase, Segments: make([]Segment, 0, len(*wl.Segments))}
		for j, ws := range *wl.Segments {
			if ws.Text == nil {
				return nil, &MalformedDocumentError{Line: i, Segment: j, Reason: `missing "text"`}
			}
			if ws.Keys == nil {
				return nil, &MalformedDocumentError{Line: i, Segment: j, Reason: `missing "keys"`}
			}
			keys := make([]Keyframe, 0, len(*ws.Keys))
			for k, wk := range *ws.Keys {
				if wk.Offset == nil || wk.Value == nil {
					return nil, &MalformedDocumentError{Line: i, Segment: j,
						Reason: fmt.Sprintf(`key %d: needs both "offset" and "value"`, k)}
				}
				offset, value := float64(*wk.Offset), float64(*wk.Value)
				if !finite(offset) || !finite(value) {
					return nil, &MalformedDocumentError{Line: i, Segment: j,
						Reason: fmt.Sprintf(`key %d: "offset" and "value" must be finite numbers`, k)}
				}
				keys = append(keys, Keyframe{Offset: offset, Value: value})
			}
			line.Segments = append(line.Segments, Segment{
				Text:     norm.NFC.String(*ws.Text),
				Schedule: ExplicitKeys{Keys: keys},
			})
		}
		doc.Lines = append(doc.Lines, line)
	}
	return doc, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// EncodeJSON writes doc in the JSON interchange format, indented by two spaces.
// Every segment must carry ExplicitKeys.
func EncodeJSON(w io.Writer, doc *Document) error {
	type outKey struct {
		Offset float64 `json:"offset"`
		Value  float64 `json:"value"`
	}
	type outSegment struct {
		Text string   `json:"text"`
		Keys []outKey `json:"keys"`
	}
	type outLine struct {
		Phase    *int         `json:"phase,omitempty"`
		Segments []outSegment `json:"segments"`
	}
	type outDocument struct {
		Meta  Meta      `json:"meta"`
		Lines []outLine `json:"lines"`
	}

	meta := doc.Meta
	if meta == nil {
		meta = Meta{}
	}
	out := outDocument{Meta: meta, Lines: make([]outLine, 0, len(doc.Lines))}
	for i, l := range doc.Lines {
		ol := outLine{Phase: l.Phase, Segments: make([]outSegment, 0, len(l.Segments))}
		for j, s := range l.Segments {
			ek, ok := s.Schedule.(ExplicitKeys)
			if !ok {
				return fmt.Errorf("line %d, segment %d: %w", i, j, ErrNotExplicit)
			}
			keys := make([]outKey, 0, len(ek.Keys))
			for _, k := range ek.Keys {
				keys = append(keys, outKey{Offset: k.Offset, Value: k.Value})
			}
			ol.Segments = append(ol.Segments, outSegment{Text: s.Text, Keys: keys})
		}
		out.Lines = append(out.Lines, ol)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
