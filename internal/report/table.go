package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/ivlev/lyricanim/internal/director"
	"github.com/ivlev/lyricanim/internal/engine"
)

var summaryHeaders = table.Row{"Line", "Seg", "Text", "X", "Y", "Width", "Keyframes"}

// Summary renders one table row per placed segment.
func Summary(res *engine.Result, colorize bool) string {
	tw := table.NewWriter()
	if colorize {
		tw.SetStyle(table.StyleColoredDark)
	} else {
		tw.SetStyle(table.StyleRounded)
	}
	tw.AppendHeader(summaryHeaders)

	segments := 0
	for _, line := range res.Lines {
		for _, s := range line.Segments {
			tw.AppendRow(table.Row{
				s.Line,
				s.Index,
				s.Text,
				formatFloat(s.Position[0]),
				formatFloat(s.Position[1]),
				formatFloat(s.Width),
				formatKeys(s.Schedule),
			})
			segments++
		}
	}
	tw.AppendFooter(table.Row{"", "", fmt.Sprintf("%d lines / %d segments", len(res.Lines), segments)})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	return tw.Render()
}

// WriteSummary prints the summary, colouring it only for terminals.
func WriteSummary(w io.Writer, res *engine.Result) error {
	_, err := fmt.Fprintln(w, Summary(res, ShouldColorize(w)))
	return err
}

func ShouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func formatKeys(keys []director.FrameKey) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d:%s", k.Frame, strconv.FormatFloat(k.Value, 'f', -1, 64)))
	}
	return strings.Join(parts, " ")
}
