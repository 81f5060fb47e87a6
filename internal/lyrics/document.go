package lyrics

// Document is the normalized lyrics description shared by both input formats.
type Document struct {
	Meta  Meta
	Lines []Line
}

// Meta is carried through untouched; layout never reads it.
type Meta map[string]any

// Line is an ordered group of segments displayed together in one vertical slot.
type Line struct {
	Segments []Segment
	Phase    *int    // voice/grouping tag, plain-text format only
	Timing   *Timing // set when the line came from the plain-text format
}

// Timing is the per-line timing of the plain-text format.
type Timing struct {
	Start  float64 // seconds
	Length float64 // hold, in frames
}

// Segment is the smallest independently placed and animated piece of text.
type Segment struct {
	Text     string
	Schedule ScheduleSpec
}

// Keyframe is an opacity value at a format-dependent time offset.
type Keyframe struct {
	Offset float64
	Value  float64
}

// ScheduleSpec describes how a segment's visibility changes over time.
// It is either ExplicitKeys or FixedFade.
type ScheduleSpec interface {
	isScheduleSpec()
}

// ExplicitKeys lists keyframes verbatim; offsets are percentage-like timeline units.
type ExplicitKeys struct {
	Keys []Keyframe
}

// FixedFade expands to a fade-in, hold and fade-out starting at Start seconds.
type FixedFade struct {
	Start  float64
	Length float64
}

func (ExplicitKeys) isScheduleSpec() {}
func (FixedFade) isScheduleSpec()    {}

// SegmentCount returns the total number of segments over all lines.
func (d *Document) SegmentCount() int {
	n := 0
	for _, l := range d.Lines {
		n += len(l.Segments)
	}
	return n
}
