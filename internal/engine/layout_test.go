package engine

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/ivlev/lyricanim/internal/config"
	"github.com/ivlev/lyricanim/internal/director"
	"github.com/ivlev/lyricanim/internal/lyrics"
	"github.com/ivlev/lyricanim/internal/scene"
)

var testLayout = config.Layout{FontSize: 0.5, SpaceSize: 0.2, LineSpacing: 0.5}

// widthPlacer reports len(text)*perRune as the width of each segment.
func widthPlacer(perRune float64) scene.Placer {
	return scene.PlacerFunc(func(ctx context.Context, p scene.Placement) (float64, error) {
		return float64(len(p.Text)) * perRune, nil
	})
}

func fadeLine(start float64, texts ...string) lyrics.Line {
	line := lyrics.Line{}
	for _, text := range texts {
		line.Segments = append(line.Segments, lyrics.Segment{
			Text:     text,
			Schedule: lyrics.FixedFade{Start: start, Length: 50},
		})
	}
	return line
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestVerticalSlot(t *testing.T) {
	want := []int{0, 1, 2, 0, 1}
	for i, w := range want {
		if got := VerticalSlot(i); got != w {
			t.Errorf("VerticalSlot(%d) = %d, want %d", i, got, w)
		}
	}
}

func TestSegmentX(t *testing.T) {
	tests := []struct {
		acc   float64
		index int
		space float64
		want  float64
	}{
		{0, 0, 0.2, 0},
		{1.5, 1, 0.2, 1.7},
		{3.0, 2, 0.2, 3.4},
		{2.0, 3, 0, 2.0},
	}
	for _, tt := range tests {
		if got := SegmentX(tt.acc, tt.index, tt.space); !approx(got, tt.want) {
			t.Errorf("SegmentX(%v, %d, %v) = %v, want %v", tt.acc, tt.index, tt.space, got, tt.want)
		}
	}
}

func TestRunPositions(t *testing.T) {
	doc := &lyrics.Document{Lines: []lyrics.Line{
		fadeLine(0, "I", "got", "you"),
		fadeLine(1, "babe"),
		fadeLine(2, "so", "far"),
		fadeLine(3, "a"),
		fadeLine(4, "b"),
	}}

	rotation := director.Vec3{1.5708, 0, 0}
	eng := NewEngine(testLayout, director.NewDirector(24), widthPlacer(0.1), rotation, 2)
	res, err := eng.Run(context.Background(), doc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Lines) != len(doc.Lines) {
		t.Fatalf("got %d lines, want %d", len(res.Lines), len(doc.Lines))
	}

	wantY := []float64{0, -0.5, -1.0, 0, -0.5}
	for i, line := range res.Lines {
		if line.Index != i {
			t.Errorf("line %d reported index %d", i, line.Index)
		}
		for _, seg := range line.Segments {
			if !approx(seg.Position[1], wantY[i]) {
				t.Errorf("line %d y = %v, want %v", i, seg.Position[1], wantY[i])
			}
			if seg.Position[2] != 0 {
				t.Errorf("line %d z = %v, want 0", i, seg.Position[2])
			}
			if seg.Rotation != rotation {
				t.Errorf("line %d rotation = %v, want %v", i, seg.Rotation, rotation)
			}
			if seg.Size != testLayout.FontSize {
				t.Errorf("line %d size = %v", i, seg.Size)
			}
		}
	}

	// "I"=0.1, "got"=0.3: x = 0, 0.1+0.2, 0.1+0.3+0.4
	first := res.Lines[0].Segments
	wantX := []float64{0, 0.3, 0.8}
	for j, seg := range first {
		if !approx(seg.Position[0], wantX[j]) {
			t.Errorf("segment %d x = %v, want %v", j, seg.Position[0], wantX[j])
		}
		if seg.Text != doc.Lines[0].Segments[j].Text {
			t.Errorf("segment %d text = %q", j, seg.Text)
		}
	}

	if got := res.Lines[1].Segments[0].Schedule; len(got) != 4 || got[0].Frame != 24 {
		t.Errorf("line 1 schedule = %v", got)
	}
}

func TestRunXNonDecreasing(t *testing.T) {
	texts := []string{"", "a", "", "longer", "x", ""}
	doc := &lyrics.Document{Lines: []lyrics.Line{fadeLine(0, texts...)}}

	for _, space := range []float64{0, 0.2} {
		layout := testLayout
		layout.SpaceSize = space
		res, err := NewEngine(layout, director.NewDirector(24), widthPlacer(0.25), director.Vec3{}, 1).
			Run(context.Background(), doc)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		prev := math.Inf(-1)
		for _, seg := range res.Lines[0].Segments {
			if seg.Position[0] < prev {
				t.Errorf("space %v: x went backwards at segment %d: %v < %v", space, seg.Index, seg.Position[0], prev)
			}
			prev = seg.Position[0]
		}
	}
}

func TestRunSequentialWithinLine(t *testing.T) {
	var mu sync.Mutex
	seen := map[int][]int{}
	placer := scene.PlacerFunc(func(ctx context.Context, p scene.Placement) (float64, error) {
		mu.Lock()
		seen[p.Line] = append(seen[p.Line], p.Index)
		mu.Unlock()
		return 1, nil
	})

	var lines []lyrics.Line
	for i := 0; i < 8; i++ {
		lines = append(lines, fadeLine(float64(i), "a", "b", "c", "d"))
	}
	_, err := NewEngine(testLayout, director.NewDirector(24), placer, director.Vec3{}, 4).
		Run(context.Background(), &lyrics.Document{Lines: lines})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for line, order := range seen {
		for j, idx := range order {
			if idx != j {
				t.Errorf("line %d placed out of order: %v", line, order)
				break
			}
		}
	}
}

func TestRunErrors(t *testing.T) {
	backwards := lyrics.Line{Segments: []lyrics.Segment{{
		Text: "x",
		Schedule: lyrics.ExplicitKeys{Keys: []lyrics.Keyframe{
			{Offset: 800, Value: 1},
			{Offset: 100, Value: 0},
		}},
	}}}
	placeErr := errors.New("host refused")

	tests := []struct {
		name   string
		line   lyrics.Line
		placer scene.Placer
		want   error
	}{
		{
			name: "negative width",
			line: fadeLine(0, "a"),
			placer: scene.PlacerFunc(func(ctx context.Context, p scene.Placement) (float64, error) {
				return -1, nil
			}),
			want: ErrNegativeWidth,
		},
		{
			name:   "backwards keys",
			line:   backwards,
			placer: widthPlacer(1),
			want:   director.ErrNonMonotonic,
		},
		{
			name: "placer failure",
			line: fadeLine(0, "a"),
			placer: scene.PlacerFunc(func(ctx context.Context, p scene.Placement) (float64, error) {
				return 0, placeErr
			}),
			want: placeErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &lyrics.Document{Lines: []lyrics.Line{tt.line}}
			res, err := NewEngine(testLayout, director.NewDirector(24), tt.placer, director.Vec3{}, 1).
				Run(context.Background(), doc)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if res != nil {
				t.Errorf("expected no result on failure")
			}
		})
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := &lyrics.Document{Lines: []lyrics.Line{fadeLine(0, "a")}}
	_, err := NewEngine(testLayout, director.NewDirector(24), widthPlacer(1), director.Vec3{}, 1).Run(ctx, doc)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestRunMissingPlacer(t *testing.T) {
	_, err := NewEngine(testLayout, director.NewDirector(24), nil, director.Vec3{}, 1).
		Run(context.Background(), &lyrics.Document{})
	if err == nil || !strings.Contains(err.Error(), "placer") {
		t.Fatalf("err = %v, want missing placer", err)
	}
}

type lineRecorder struct {
	mu      sync.Mutex
	started map[int]bool
}

func (r *lineRecorder) StartLine(ctx context.Context, line int, phase *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started[line] = true
	return nil
}

func (r *lineRecorder) PlaceSegment(ctx context.Context, p scene.Placement) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.started[p.Line] {
		return 0, errors.New("segment placed before its line was started")
	}
	return 1, nil
}

func TestRunStartsEveryLine(t *testing.T) {
	rec := &lineRecorder{started: map[int]bool{}}
	doc := &lyrics.Document{Lines: []lyrics.Line{
		{},
		fadeLine(1, "a", "b"),
		{Segments: []lyrics.Segment{}},
	}}

	res, err := NewEngine(testLayout, director.NewDirector(24), rec, director.Vec3{}, 2).
		Run(context.Background(), doc)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i := range doc.Lines {
		if !rec.started[i] {
			t.Errorf("line %d was never started", i)
		}
	}
	if len(res.Lines) != 3 || len(res.Lines[0].Segments) != 0 {
		t.Errorf("unexpected result: %+v", res.Lines)
	}
}

func TestPlacements(t *testing.T) {
	phase := 2
	res := &Result{Lines: []LineResult{
		{Index: 0, Phase: &phase, Segments: []SegmentResult{{Line: 0, Index: 0, Text: "a"}, {Line: 0, Index: 1, Text: "b"}}},
		{Index: 1, Segments: []SegmentResult{{Line: 1, Index: 0, Text: "c"}}},
	}}
	got := res.Placements()
	if len(got) != 3 {
		t.Fatalf("got %d placements, want 3", len(got))
	}
	if got[1].Text != "b" || got[2].Line != 1 {
		t.Errorf("unexpected order: %+v", got)
	}
	if got[0].Phase == nil || *got[0].Phase != 2 || got[2].Phase != nil {
		t.Errorf("phase not carried: %+v", got)
	}
}
