package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ivlev/lyricanim/internal/config"
	"github.com/ivlev/lyricanim/internal/director"
	"github.com/ivlev/lyricanim/internal/engine"
	"github.com/ivlev/lyricanim/internal/logger"
	"github.com/ivlev/lyricanim/internal/lyrics"
	"github.com/ivlev/lyricanim/internal/report"
	"github.com/ivlev/lyricanim/internal/system"
)

const watchDebounce = 300 * time.Millisecond

func main() {
	// working directories the defaults point into
	dirs := []string{"input/lyrics", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	inputPtr := flag.String("input", "", "Lyrics file, .json or .txt (default: newest file in input/lyrics/)")
	configPtr := flag.String("config", "", "YAML config file")
	outputPtr := flag.String("output", "", "Scene plan path, .yaml or .json (default: generated in output/)")
	fpsPtr := flag.Int("fps", director.DefaultFPS, "FPS")
	fadePtr := flag.Int("fade", director.DefaultFadeFrames, "Fade length in frames for plain-text lines")
	animLengthPtr := flag.Float64("anim-length", lyrics.DefaultAnimLength, "Hold length in frames for plain-text lines")
	workersPtr := flag.Int("workers", 0, "Lines laid out in parallel (0 = physical CPU count)")
	filterPtr := flag.String("filter", "", "Also write an FFmpeg drawtext filter script to this path")
	previewPtr := flag.String("preview", "", "Also render a PNG preview of -preview-frame to this path")
	previewFramePtr := flag.Int("preview-frame", 0, "Frame rendered by -preview")
	summaryPtr := flag.Bool("summary", false, "Print a layout table to stdout")
	watchPtr := flag.Bool("watch", false, "Re-run whenever the input file changes")
	verbosePtr := flag.Bool("verbose", false, "Debug logging")

	flag.Parse()

	logger.Init(os.Stderr, *verbosePtr)

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatalf("[-] Config error: %v", err)
	}

	// flags win over file and environment, but only when given explicitly
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "fps":
			cfg.Timeline.FPS = *fpsPtr
		case "fade":
			cfg.Timeline.FadeFrames = *fadePtr
		case "anim-length":
			cfg.Timeline.AnimLength = *animLengthPtr
		case "workers":
			cfg.Workers = *workersPtr
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Invalid config: %v", err)
	}

	inputPath := *inputPtr
	if inputPath == "" {
		latest, err := system.FindLatestLyrics("input/lyrics")
		if err != nil {
			log.Fatalf("[-] Error: %v. Put a .txt or .json file into input/lyrics/", err)
		}
		inputPath = latest
		logger.Info("Selected file: %s", inputPath)
	}

	outputPath := *outputPtr
	if outputPath == "" {
		outputPath = director.GeneratePlanPath("output", inputPath)
	}

	project := engine.NewLyricsProject(cfg, inputPath, outputPath)
	project.FilterPath = *filterPtr
	project.PreviewPath = *previewPtr
	project.PreviewFrame = *previewFramePtr
	if *summaryPtr {
		project.Summary = report.WriteSummary
		project.SummaryOut = os.Stdout
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := project.Run(ctx); err != nil {
		if !*watchPtr {
			log.Fatalf("[-] Project error: %v", err)
		}
		logger.Error("Project error: %v", err)
	} else {
		logger.Success("Done! Plan: %s", outputPath)
	}

	if !*watchPtr {
		return
	}

	err = system.WatchFile(ctx, inputPath, watchDebounce, func() {
		logger.Info("Change detected, rebuilding %s", inputPath)
		if _, err := project.Run(ctx); err != nil {
			logger.LogWithErr("Rebuild failed", err)
			return
		}
		logger.Success("Rebuilt: %s", outputPath)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("[-] Watch error: %v", err)
	}
}
