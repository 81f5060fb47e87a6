package renderer

import (
	"math"

	"github.com/ivlev/lyricanim/internal/director"
)

// InterpolateAlpha calculates opacity at a given frame by interpolating between keyframes
func InterpolateAlpha(keyframes []director.FrameKey, frame float64) float64 {
	if len(keyframes) == 0 {
		return 1.0
	}

	// Before first keyframe, hold first value
	if frame <= float64(keyframes[0].Frame) {
		return keyframes[0].Value
	}

	// After last keyframe, hold last value
	last := keyframes[len(keyframes)-1]
	if frame >= float64(last.Frame) {
		return last.Value
	}

	// Find surrounding keyframes
	var prevKf, nextKf director.FrameKey
	for i := 0; i < len(keyframes)-1; i++ {
		if frame >= float64(keyframes[i].Frame) && frame < float64(keyframes[i+1].Frame) {
			prevKf = keyframes[i]
			nextKf = keyframes[i+1]
			break
		}
	}

	frameDelta := float64(nextKf.Frame - prevKf.Frame)
	if frameDelta == 0 {
		return nextKf.Value
	}
	t := (frame - float64(prevKf.Frame)) / frameDelta

	// Host curves default to eased bezier handles
	t = easeInOutCubic(t)

	return lerp(prevKf.Value, nextKf.Value, t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(2-2*t, 3)/2
}
