package engine

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/lyricanim/internal/config"
	"github.com/ivlev/lyricanim/internal/director"
	"github.com/ivlev/lyricanim/internal/lyrics"
	"github.com/ivlev/lyricanim/internal/scene"
)

// VerticalSlots is how many vertical positions lines cycle through.
const VerticalSlots = 3

var ErrNegativeWidth = errors.New("placer reported a negative width")

// SegmentResult is a placed segment: its local position and frame schedule.
type SegmentResult struct {
	Line     int
	Index    int
	Text     string
	Size     float64
	Position director.Vec3
	Rotation director.Vec3
	Width    float64
	Schedule []director.FrameKey
}

type LineResult struct {
	Index    int
	Phase    *int
	Segments []SegmentResult
}

type Result struct {
	Lines []LineResult
}

// Placements flattens the result in document order.
func (r *Result) Placements() []scene.Placement {
	var out []scene.Placement
	for _, l := range r.Lines {
		for _, s := range l.Segments {
			out = append(out, scene.Placement{
				Line:     s.Line,
				Index:    s.Index,
				Phase:    l.Phase,
				Text:     s.Text,
				Size:     s.Size,
				Position: s.Position,
				Rotation: s.Rotation,
				Schedule: s.Schedule,
			})
		}
	}
	return out
}

// Engine lays out a document line by line, handing each segment to the Placer.
type Engine struct {
	Layout   config.Layout
	Director *director.Director
	Placer   scene.Placer
	Rotation director.Vec3 // inherited from the anchor
	Workers  int
}

func NewEngine(layout config.Layout, dir *director.Director, placer scene.Placer, rotation director.Vec3, workers int) *Engine {
	return &Engine{
		Layout:   layout,
		Director: dir,
		Placer:   placer,
		Rotation: rotation,
		Workers:  workers,
	}
}

// Run places every segment. Lines are independent and run concurrently, up to
// Workers at a time; segments within a line are strictly sequential because
// each position depends on the widths placed before it.
func (e *Engine) Run(ctx context.Context, doc *lyrics.Document) (*Result, error) {
	if e.Placer == nil {
		return nil, fmt.Errorf("engine has no placer")
	}
	if e.Director == nil {
		return nil, fmt.Errorf("engine has no director")
	}

	lines := make([]LineResult, len(doc.Lines))

	g, gctx := errgroup.WithContext(ctx)
	workers := e.Workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	for i := range doc.Lines {
		i := i
		g.Go(func() error {
			res, err := e.layoutLine(gctx, i, doc.Lines[i])
			if err != nil {
				return err
			}
			lines[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Result{Lines: lines}, nil
}

func (e *Engine) layoutLine(ctx context.Context, i int, line lyrics.Line) (LineResult, error) {
	res := LineResult{Index: i, Phase: line.Phase, Segments: make([]SegmentResult, 0, len(line.Segments))}
	y := -(e.Layout.LineSpacing * float64(VerticalSlot(i)))

	if starter, ok := e.Placer.(scene.LineStarter); ok {
		if err := starter.StartLine(ctx, i, line.Phase); err != nil {
			return LineResult{}, fmt.Errorf("start line %d: %w", i, err)
		}
	}

	accumulated := 0.0
	for j, seg := range line.Segments {
		if err := ctx.Err(); err != nil {
			return LineResult{}, err
		}

		schedule, err := e.Director.Schedule(seg.Schedule)
		if err != nil {
			return LineResult{}, fmt.Errorf("line %d, segment %d: %w", i, j, err)
		}

		pos := director.Vec3{SegmentX(accumulated, j, e.Layout.SpaceSize), y, 0}
		width, err := e.Placer.PlaceSegment(ctx, scene.Placement{
			Line:     i,
			Index:    j,
			Phase:    line.Phase,
			Text:     seg.Text,
			Size:     e.Layout.FontSize,
			Position: pos,
			Rotation: e.Rotation,
			Schedule: schedule,
		})
		if err != nil {
			return LineResult{}, fmt.Errorf("place line %d, segment %d: %w", i, j, err)
		}
		if width < 0 {
			return LineResult{}, fmt.Errorf("line %d, segment %d: %w (%f)", i, j, ErrNegativeWidth, width)
		}
		accumulated += width

		res.Segments = append(res.Segments, SegmentResult{
			Line:     i,
			Index:    j,
			Text:     seg.Text,
			Size:     e.Layout.FontSize,
			Position: pos,
			Rotation: e.Rotation,
			Width:    width,
			Schedule: schedule,
		})
	}
	return res, nil
}

// VerticalSlot maps a line index to one of three cycling vertical positions.
func VerticalSlot(line int) int {
	return line % VerticalSlots
}

// SegmentX is the accumulated width of earlier segments plus index*space.
func SegmentX(accumulated float64, index int, space float64) float64 {
	return accumulated + float64(index)*space
}
