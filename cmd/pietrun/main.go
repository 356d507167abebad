// Command pietrun loads a Piet source image and executes it. Flag
// wiring and the Load-then-Run shape mirror gintendo.go's thin main:
// parse flags, construct the host objects, and hand off to either a
// headless Run or an ebiten-driven visualizer.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/pietlang/pietvm/internal/pietgrid"
	"github.com/pietlang/pietvm/internal/pietimage"
	"github.com/pietlang/pietvm/internal/pietio"
	"github.com/pietlang/pietvm/internal/pietlog"
	"github.com/pietlang/pietvm/internal/pietvm"
	"github.com/pietlang/pietvm/internal/visualizer"
)

var (
	imagePath   = flag.String("image", "", "Path to a Piet source image (PNG, GIF or BMP).")
	codelSize   = flag.Int("codel-size", 0, "Codel size in pixels. 0 auto-detects it from the image.")
	maxSteps    = flag.Int("max-steps", 0, "Maximum number of productive transitions to execute. 0 means unbounded.")
	missingBlk  = flag.Bool("missing-color-black", false, "Treat unrecognized pixel colors as Black instead of White.")
	logLevel    = flag.String("log-level", "warn", "Logging verbosity: warn or info.")
	trace       = flag.Bool("trace", false, "Log every productive transition at info level.")
	visualize   = flag.Bool("visualize", false, "Open a window animating the direction pointer as it runs.")
)

func main() {
	flag.Parse()

	if *imagePath == "" {
		log.Fatalf("-image is required")
	}

	img, err := pietimage.Load(*imagePath)
	if err != nil {
		log.Fatalf("Couldn't load image: %v", err)
	}

	size := *codelSize
	if size <= 0 {
		size = pietimage.DetectCodelSize(img)
	}

	level := pietlog.LevelWarn
	if *logLevel == "info" {
		level = pietlog.LevelInfo
	}
	logger := pietlog.New(os.Stderr, level)

	var viz *visualizer.Visualizer
	onStep := func(pietvm.StepInfo) {}
	if *trace {
		traceStep := onStep
		onStep = func(info pietvm.StepInfo) {
			traceStep(info)
			logger.Info("step=%d pos=%v dp=%s cc=%s stack=%d", info.Step, info.To, info.DP, info.CC, info.StackSize)
		}
	}
	if *visualize {
		viz = visualizer.New(img)
		prevStep := onStep
		onStep = func(info pietvm.StepInfo) {
			prevStep(info)
			viz.OnStep(info)
		}
	}

	p, _, err := pietvm.Load(img, size, pietvm.Options{
		MissingColorPolicy: pietgrid.MissingColorPolicy{MissingBlack: *missingBlk},
		IO:                 pietio.NewStdio(os.Stdin, os.Stdout),
		Logger:             logger,
		OnStep:             onStep,
	})
	if err != nil {
		log.Fatalf("Couldn't load program: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *visualize {
		if err := visualizer.Run(ctx, p, viz); err != nil {
			log.Fatalf("Visualizer error: %v", err)
		}
		os.Exit(0)
	}

	var reason pietvm.TerminationReason
	if *maxSteps > 0 {
		reason, err = p.RunUntil(ctx, *maxSteps)
	} else {
		reason, err = p.Run(ctx)
	}
	if err != nil {
		log.Fatalf("Execution aborted: %v", err)
	}

	logger.Info("terminated: %s after %d steps", reason, p.Steps())
	os.Exit(0)
}
