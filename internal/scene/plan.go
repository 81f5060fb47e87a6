package scene

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ivlev/lyricanim/internal/director"
)

const PlanVersion = "1.0"

// PlanBuilder is a Placer that records placements into a Plan for the host to
// replay, measuring widths with its Measurer. Safe for concurrent use.
type PlanBuilder struct {
	scene    Context
	measurer Measurer
	fps      int

	mu    sync.Mutex
	lines map[int]*director.PlanLine
}

func NewPlanBuilder(sc Context, m Measurer, fps int) (*PlanBuilder, error) {
	if err := sc.Check(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("plan builder needs a measurer")
	}
	return &PlanBuilder{
		scene:    sc,
		measurer: m,
		fps:      fps,
		lines:    make(map[int]*director.PlanLine),
	}, nil
}

func (b *PlanBuilder) PlaceSegment(ctx context.Context, p Placement) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	width := b.measurer.Measure(p.Text, p.Size)

	b.mu.Lock()
	defer b.mu.Unlock()

	line := b.line(p.Line, p.Phase)
	keys := make([]director.FrameKey, len(p.Schedule))
	copy(keys, p.Schedule)
	line.Segments = append(line.Segments, director.PlanSegment{
		Name:      fmt.Sprintf("segment_%d_%d", p.Line, p.Index),
		Text:      p.Text,
		Size:      p.Size,
		Location:  p.Position,
		Rotation:  p.Rotation,
		Width:     width,
		Keyframes: keys,
	})
	return width, nil
}

// StartLine registers the parent object for a line, so lines without
// segments still show up in the plan.
func (b *PlanBuilder) StartLine(ctx context.Context, index int, phase *int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.line(index, phase)
	return nil
}

func (b *PlanBuilder) line(index int, phase *int) *director.PlanLine {
	line, ok := b.lines[index]
	if !ok {
		line = &director.PlanLine{
			Name:  fmt.Sprintf("lyrics_line_%d", index),
			Index: index,
			Phase: phase,
		}
		b.lines[index] = line
	}
	return line
}

// Plan snapshots everything placed so far, lines in document order.
func (b *PlanBuilder) Plan(source string) *director.Plan {
	b.mu.Lock()
	defer b.mu.Unlock()

	indexes := make([]int, 0, len(b.lines))
	for i := range b.lines {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	lines := make([]director.PlanLine, 0, len(indexes))
	for _, i := range indexes {
		l := *b.lines[i]
		l.Segments = append([]director.PlanSegment(nil), l.Segments...)
		lines = append(lines, l)
	}

	return &director.Plan{
		Version:    PlanVersion,
		ID:         uuid.NewString(),
		Source:     source,
		Collection: b.scene.Collection,
		FPS:        b.fps,
		Anchor:     *b.scene.Anchor,
		Material:   b.scene.Material,
		Lines:      lines,
	}
}
