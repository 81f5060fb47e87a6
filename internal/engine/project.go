package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ivlev/lyricanim/internal/config"
	"github.com/ivlev/lyricanim/internal/director"
	"github.com/ivlev/lyricanim/internal/logger"
	"github.com/ivlev/lyricanim/internal/lyrics"
	"github.com/ivlev/lyricanim/internal/renderer"
	"github.com/ivlev/lyricanim/internal/scene"
	"github.com/ivlev/lyricanim/internal/system"
)

// LyricsProject runs one input file through parse, layout and plan output.
type LyricsProject struct {
	Config       *config.Config
	InputPath    string
	OutputPath   string
	FilterPath   string // optional drawtext filter script
	PreviewPath  string // optional PNG of PreviewFrame
	PreviewFrame int
	Summary      func(io.Writer, *Result) error
	SummaryOut   io.Writer
}

func NewLyricsProject(cfg *config.Config, input, output string) *LyricsProject {
	return &LyricsProject{
		Config:     cfg,
		InputPath:  input,
		OutputPath: output,
	}
}

// SceneContext builds the host context from configuration.
func (p *LyricsProject) SceneContext() scene.Context {
	sc := scene.Context{
		Collection: p.Config.Scene.Collection,
		Material:   scene.SharedMaterial(p.Config.Scene.MaterialGroup),
	}
	if p.Config.Scene.AnchorName != "" {
		sc.Anchor = &director.Transform{
			Name:     p.Config.Scene.AnchorName,
			Location: director.Vec3(p.Config.Scene.AnchorLocation),
			Rotation: director.Vec3(p.Config.Scene.AnchorRotation),
		}
	}
	return sc
}

// Run lays out the input and writes the plan plus any requested extras.
// Nothing is written when parsing or layout fails.
func (p *LyricsProject) Run(ctx context.Context) (*director.Plan, error) {
	startTime := time.Now()
	cfg := p.Config

	sc := p.SceneContext()
	if err := sc.Check(); err != nil {
		return nil, fmt.Errorf("scene precondition: %w", err)
	}

	doc, err := lyrics.Load(p.InputPath, lyrics.TextOptions{AnimLength: cfg.Timeline.AnimLength})
	if err != nil {
		return nil, err
	}
	logger.Info("Source: %s | Lines: %d | Segments: %d", p.InputPath, len(doc.Lines), doc.SegmentCount())

	measurer, err := scene.NewFontMeasurer(cfg.Preview.FontPoints)
	if err != nil {
		return nil, err
	}
	builder, err := scene.NewPlanBuilder(sc, measurer, cfg.Timeline.FPS)
	if err != nil {
		return nil, err
	}

	dir := director.NewDirector(cfg.Timeline.FPS)
	dir.FadeFrames = cfg.Timeline.FadeFrames

	workers := cfg.Workers
	if workers <= 0 {
		workers = system.DefaultWorkers()
	}
	logger.Debug("Layout: font %.2f, space %.2f, line spacing %.2f @ %d FPS, %d workers",
		cfg.Layout.FontSize, cfg.Layout.SpaceSize, cfg.Layout.LineSpacing, cfg.Timeline.FPS, workers)

	eng := NewEngine(cfg.Layout, dir, builder, sc.Anchor.Rotation, workers)
	res, err := eng.Run(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	plan := builder.Plan(p.InputPath)
	if err := writeFile(p.OutputPath, func(path string) error { return director.WritePlan(plan, path) }); err != nil {
		return nil, fmt.Errorf("write plan: %w", err)
	}
	logger.Info("Plan written: %s", p.OutputPath)

	vp := renderer.NewViewport(cfg.Preview.Width, cfg.Preview.Height, cfg.Preview.PixelsPerUnit)
	placements := res.Placements()

	if p.FilterPath != "" {
		filter := renderer.GenerateDrawTextFilter(placements, renderer.FilterOptions{Viewport: vp})
		if err := writeFile(p.FilterPath, func(path string) error {
			return os.WriteFile(path, []byte(filter+"\n"), 0644)
		}); err != nil {
			return nil, fmt.Errorf("write filter: %w", err)
		}
		logger.Info("Drawtext filter written: %s", p.FilterPath)
	}

	if p.PreviewPath != "" {
		img, err := renderer.RenderPreview(placements, vp, p.PreviewFrame)
		if err != nil {
			return nil, fmt.Errorf("render preview: %w", err)
		}
		err = writeFile(p.PreviewPath, func(path string) error { return renderer.WritePNG(img, path) })
		system.PutImage(img)
		if err != nil {
			return nil, fmt.Errorf("write preview: %w", err)
		}
		logger.Info("Preview of frame %d written: %s", p.PreviewFrame, p.PreviewPath)
	}

	if p.Summary != nil && p.SummaryOut != nil {
		if err := p.Summary(p.SummaryOut, res); err != nil {
			return nil, fmt.Errorf("write summary: %w", err)
		}
	}

	logger.Debug("Run finished in %.2fs", time.Since(startTime).Seconds())
	return plan, nil
}

func writeFile(path string, write func(string) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return write(path)
}
