package lyrics

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

const sampleJSON = `{
  "meta": {"total_length": 120, "total_offset": 0},
  "lines": [
    {"segments": [
      {"text": "Hello", "keys": [{"offset": 800, "value": 0}, {"offset": 850, "value": 1}]},
      {"text": "world", "keys": [{"offset": 900, "value": 1}]}
    ]},
    {"phase": 2, "segments": [
      {"text": "again", "keys": [{"offset": "1000", "value": 1}]}
    ]}
  ]
}`

func TestParseJSON(t *testing.T) {
	doc, err := ParseJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}

	if len(doc.Lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(doc.Lines))
	}
	if got := doc.SegmentCount(); got != 3 {
		t.Errorf("Expected 3 segments, got %d", got)
	}

	first := doc.Lines[0].Segments[0]
	if first.Text != "Hello" {
		t.Errorf("Expected text Hello, got %q", first.Text)
	}
	keys, ok := first.Schedule.(ExplicitKeys)
	if !ok {
		t.Fatalf("Expected ExplicitKeys, got %T", first.Schedule)
	}
	want := []Keyframe{{Offset: 800, Value: 0}, {Offset: 850, Value: 1}}
	if !reflect.DeepEqual(keys.Keys, want) {
		t.Errorf("Expected keys %v, got %v", want, keys.Keys)
	}

	if doc.Lines[1].Phase == nil || *doc.Lines[1].Phase != 2 {
		t.Errorf("Expected phase 2 on second line, got %v", doc.Lines[1].Phase)
	}
	quoted := doc.Lines[1].Segments[0].Schedule.(ExplicitKeys).Keys[0]
	if quoted.Offset != 1000 {
		t.Errorf("Expected quoted offset to parse as 1000, got %f", quoted.Offset)
	}
}

func TestParseJSONRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"sample", sampleJSON},
		{"empty meta", `{"meta": {}, "lines": [{"segments": [{"text": "a", "keys": [{"offset": 1, "value": 1}]}]}]}`},
		{"no meta", `{"lines": [{"segments": []}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseJSON(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ParseJSON failed: %v", err)
			}

			var buf bytes.Buffer
			if err := EncodeJSON(&buf, doc); err != nil {
				t.Fatalf("EncodeJSON failed: %v", err)
			}

			again, err := ParseJSON(&buf)
			if err != nil {
				t.Fatalf("ParseJSON of encoded document failed: %v", err)
			}
			if !reflect.DeepEqual(doc, again) {
				t.Errorf("Round trip mismatch:\nfirst:  %+v\nsecond: %+v", doc, again)
			}
		})
	}
}

func TestParseJSONEmptyMeta(t *testing.T) {
	doc, err := ParseJSON(strings.NewReader(`{"meta": {}, "lines": []}`))
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, doc); err != nil {
		t.Fatalf("EncodeJSON failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"meta": {}`) {
		t.Errorf("Expected empty meta to be kept, got:\n%s", buf.String())
	}
}

func TestParseJSONMalformed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		segment int
	}{
		{"no lines", `{"meta": {}}`, -1, -1},
		{"not json", `{"lines": [`, -1, -1},
		{"no segments", `{"lines": [{"segments": []}, {}]}`, 1, -1},
		{"no text", `{"lines": [{"segments": [{"keys": []}]}]}`, 0, 0},
		{"no keys", `{"lines": [{"segments": [{"text": "a", "keys": []}, {"text": "b"}]}]}`, 0, 1},
		{"key without value", `{"lines": [{"segments": [{"text": "a", "keys": [{"offset": 1}]}]}]}`, 0, 0},
		{"bad offset", `{"lines": [{"segments": [{"text": "a", "keys": [{"offset": "soon", "value": 1}]}]}]}`, -1, -1},
		{"nan offset", `{"lines": [{"segments": [{"text": "a", "keys": [{"offset": "NaN", "value": 1}, {"offset": 800, "value": 1}]}]}]}`, 0, 0},
		{"nan value", `{"lines": [{"segments": [{"text": "a", "keys": [{"offset": 1, "value": 1}]}, {"text": "b", "keys": [{"offset": 2, "value": "NaN"}]}]}]}`, 0, 1},
		{"infinite offset", `{"lines": [{"segments": []}, {"segments": [{"text": "a", "keys": [{"offset": "Inf", "value": 1}]}]}]}`, 1, 0},
		{"negative infinite value", `{"lines": [{"segments": [{"text": "a", "keys": [{"offset": 1, "value": "-Infinity"}]}]}]}`, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseJSON(strings.NewReader(tt.input))
			if err == nil {
				t.Fatalf("Expected error, got document %+v", doc)
			}
			if doc != nil {
				t.Errorf("Expected no partial document on error")
			}
			if !errors.Is(err, ErrMalformedDocument) {
				t.Errorf("Expected ErrMalformedDocument, got %v", err)
			}
			var mde *MalformedDocumentError
			if !errors.As(err, &mde) {
				t.Fatalf("Expected *MalformedDocumentError, got %T", err)
			}
			if mde.Line != tt.line || mde.Segment != tt.segment {
				t.Errorf("Expected line %d segment %d, got line %d segment %d (%v)",
					tt.line, tt.segment, mde.Line, mde.Segment, err)
			}
		})
	}
}

func TestEncodeJSONRejectsFixedFade(t *testing.T) {
	doc, err := ParseText(strings.NewReader("1:0:a\n"), DefaultTextOptions())
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if err := EncodeJSON(&bytes.Buffer{}, doc); !errors.Is(err, ErrNotExplicit) {
		t.Errorf("Expected ErrNotExplicit, got %v", err)
	}
}
