package scene

import (
	"context"
	"errors"

	"github.com/ivlev/lyricanim/internal/director"
)

var (
	ErrMissingCollection = errors.New("output collection is not set")
	ErrMissingAnchor     = errors.New("anchor transform is not set")
)

// Placement is everything the host needs to materialise one segment.
// Position is in the line's local frame; the line itself hangs off the anchor.
type Placement struct {
	Line     int
	Index    int
	Phase    *int
	Text     string
	Size     float64
	Position director.Vec3
	Rotation director.Vec3
	Schedule []director.FrameKey
}

// Placer materialises a segment and reports its rendered width in scene units.
// Layout calls it once per segment, in order within a line; lines may be
// placed concurrently.
type Placer interface {
	PlaceSegment(ctx context.Context, p Placement) (width float64, err error)
}

// PlacerFunc adapts a function to Placer.
// LineStarter is an optional Placer extension. StartLine is called once per
// document line before any of its segments, including lines with none.
type LineStarter interface {
	StartLine(ctx context.Context, line int, phase *int) error
}

type PlacerFunc func(ctx context.Context, p Placement) (float64, error)

func (f PlacerFunc) PlaceSegment(ctx context.Context, p Placement) (float64, error) {
	return f(ctx, p)
}

// Context replaces the host globals the scripts relied on: the output
// collection, the anchor every line is parented to and the shared material.
type Context struct {
	Collection string
	Anchor     *director.Transform
	Material   director.Material
}

// Check reports a missing collection or anchor; nothing should run without them.
func (c Context) Check() error {
	if c.Collection == "" {
		return ErrMissingCollection
	}
	if c.Anchor == nil {
		return ErrMissingAnchor
	}
	return nil
}

// SharedMaterial describes the translucent group driven by a single alpha input.
func SharedMaterial(group string) director.Material {
	return director.Material{
		Group:       group,
		Parameter:   "alpha",
		Min:         0.0,
		Max:         1.0,
		Default:     1.0,
		BlendMethod: "BLEND",
	}
}
