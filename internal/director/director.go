package director

import (
	"errors"
	"fmt"
	"math"

	"github.com/ivlev/lyricanim/internal/lyrics"
)

const (
	DefaultFPS        = 24
	DefaultFadeFrames = 10
)

// MaxFrame bounds every scheduled frame number in either direction.
const MaxFrame = math.MaxInt32

var (
	// ErrNonMonotonic is returned when a schedule would make the animation jump backwards.
	ErrNonMonotonic = errors.New("keyframes go backwards in time")
	ErrInvalidKey   = errors.New("keyframe is not a finite number")
	ErrFrameRange   = errors.New("keyframe lies outside the timeline")
)

// FrameKey is an opacity value pinned to a timeline frame.
type FrameKey struct {
	Frame int     `yaml:"frame" json:"frame"`
	Value float64 `yaml:"value" json:"value"`
}

// Director turns segment schedule specs into frame schedules for the host timeline.
type Director struct {
	FPS        int
	FadeFrames int // fade-in and fade-out length for FixedFade
}

// NewDirector creates a new Director with the default fade length
func NewDirector(fps int) *Director {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Director{
		FPS:        fps,
		FadeFrames: DefaultFadeFrames,
	}
}

// Schedule resolves spec into an ordered frame schedule. Values are clamped to
// [0,1]; frames that decrease yield ErrNonMonotonic.
func (d *Director) Schedule(spec lyrics.ScheduleSpec) ([]FrameKey, error) {
	var keys []FrameKey
	var err error
	switch s := spec.(type) {
	case lyrics.ExplicitKeys:
		keys, err = d.explicitKeys(s.Keys)
	case lyrics.FixedFade:
		keys, err = d.fixedFade(s)
	case nil:
		return nil, fmt.Errorf("segment has no schedule")
	default:
		return nil, fmt.Errorf("unsupported schedule %T", spec)
	}
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(keys); i++ {
		if keys[i].Frame < keys[i-1].Frame {
			return nil, fmt.Errorf("%w: key %d at frame %d follows frame %d",
				ErrNonMonotonic, i, keys[i].Frame, keys[i-1].Frame)
		}
	}
	return keys, nil
}

// explicitKeys maps every listed pair to exactly one keyframe
func (d *Director) explicitKeys(keys []lyrics.Keyframe) ([]FrameKey, error) {
	out := make([]FrameKey, 0, len(keys))
	for i, k := range keys {
		frame, err := frameOf(k.Offset * float64(d.FPS) / 100.0)
		if err != nil {
			return nil, fmt.Errorf("key %d offset %v: %w", i, k.Offset, err)
		}
		value, err := clamp01(k.Value)
		if err != nil {
			return nil, fmt.Errorf("key %d value: %w", i, err)
		}
		out = append(out, FrameKey{Frame: frame, Value: value})
	}
	return out, nil
}

// fixedFade builds fade-in, hold and fade-out around the line start
func (d *Director) fixedFade(f lyrics.FixedFade) ([]FrameKey, error) {
	start, err := frameOf(f.Start * float64(d.FPS))
	if err != nil {
		return nil, fmt.Errorf("start %v: %w", f.Start, err)
	}
	hold, err := frameOf(f.Length)
	if err != nil {
		return nil, fmt.Errorf("length %v: %w", f.Length, err)
	}

	fadeInEnd := start + d.FadeFrames
	holdEnd := fadeInEnd + hold
	end := holdEnd + d.FadeFrames
	if end > MaxFrame || end < -MaxFrame {
		return nil, fmt.Errorf("fade ends at frame %d: %w", end, ErrFrameRange)
	}

	return []FrameKey{
		{Frame: start, Value: 0.0},
		{Frame: fadeInEnd, Value: 1.0},
		{Frame: holdEnd, Value: 1.0},
		{Frame: end, Value: 0.0},
	}, nil
}

// ExplicitFrame converts a percentage-like offset to a frame number: floor(offset*fps/100).
// Out-of-range offsets saturate at MaxFrame; Schedule rejects them instead.
func ExplicitFrame(offset float64, fps int) int {
	f := math.Floor(offset * float64(fps) / 100.0)
	switch {
	case math.IsNaN(f):
		return 0
	case f > MaxFrame:
		return MaxFrame
	case f < -MaxFrame:
		return -MaxFrame
	}
	return int(f)
}

func frameOf(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidKey
	}
	f := math.Floor(v)
	if f > MaxFrame || f < -MaxFrame {
		return 0, ErrFrameRange
	}
	return int(f), nil
}

func clamp01(v float64) (float64, error) {
	if math.IsNaN(v) {
		return 0, ErrInvalidKey
	}
	return math.Min(math.Max(v, 0), 1), nil
}
