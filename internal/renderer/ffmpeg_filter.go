package renderer

import (
	"fmt"
	"strings"

	"github.com/ivlev/lyricanim/internal/director"
	"github.com/ivlev/lyricanim/internal/scene"
)

// FilterOptions configures the drawtext preview filter.
type FilterOptions struct {
	Viewport  Viewport
	FontFile  string // optional; ffmpeg's default font is used when empty
	FontColor string
}

// GenerateDrawTextFilter creates an FFmpeg drawtext chain that shows every
// placement with its opacity schedule, one drawtext per segment
func GenerateDrawTextFilter(placements []scene.Placement, opts FilterOptions) string {
	if len(placements) == 0 {
		return ""
	}

	color := opts.FontColor
	if color == "" {
		color = "white"
	}

	filters := make([]string, 0, len(placements))
	for _, p := range placements {
		x, y := opts.Viewport.ToScreen(p.Position)
		parts := []string{}
		if opts.FontFile != "" {
			parts = append(parts, fmt.Sprintf("fontfile='%s'", escapeDrawText(opts.FontFile)))
		}
		parts = append(parts,
			fmt.Sprintf("text='%s'", escapeDrawText(p.Text)),
			fmt.Sprintf("fontsize=%d", int(opts.Viewport.FontPixels(p.Size)+0.5)),
			fmt.Sprintf("fontcolor=%s", color),
			fmt.Sprintf("x=%.1f", x),
			fmt.Sprintf("y=%.1f", y),
			fmt.Sprintf("alpha='%s'", buildAlphaExpression(p.Schedule)),
		)
		if enable := buildEnableExpression(p.Schedule); enable != "" {
			parts = append(parts, fmt.Sprintf("enable='%s'", enable))
		}
		filters = append(filters, "drawtext="+strings.Join(parts, ":"))
	}
	return strings.Join(filters, ",")
}

// buildAlphaExpression creates piecewise linear alpha expression over the frame counter n
func buildAlphaExpression(keyframes []director.FrameKey) string {
	if len(keyframes) == 0 {
		return "1"
	}
	if len(keyframes) == 1 {
		return formatValue(keyframes[0].Value)
	}

	first := keyframes[0]
	expr := fmt.Sprintf("if(lt(n,%d),%s,", first.Frame, formatValue(first.Value))
	open := 1

	for i := 0; i < len(keyframes)-1; i++ {
		a, b := keyframes[i], keyframes[i+1]
		if b.Frame <= a.Frame {
			continue
		}
		// if(lte(n,endFrame),startAlpha+(n-startFrame)/(endFrame-startFrame)*(endAlpha-startAlpha),...)
		expr += fmt.Sprintf("if(lte(n,%d),%s+(n-%d)/%d*(%s-%s),",
			b.Frame, formatValue(a.Value), a.Frame, b.Frame-a.Frame, formatValue(b.Value), formatValue(a.Value))
		open++
	}

	expr += formatValue(keyframes[len(keyframes)-1].Value)
	expr += strings.Repeat(")", open)
	return expr
}

// buildEnableExpression limits drawing to frames where the segment can be visible
func buildEnableExpression(keyframes []director.FrameKey) string {
	if len(keyframes) < 2 {
		return ""
	}
	first, last := keyframes[0], keyframes[len(keyframes)-1]
	if first.Value > 0 || last.Value > 0 {
		return ""
	}
	return fmt.Sprintf("between(n,%d,%d)", first.Frame, last.Frame)
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// escapeDrawText escapes characters with special meaning inside a quoted drawtext option
func escapeDrawText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `'\''`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return r.Replace(s)
}
