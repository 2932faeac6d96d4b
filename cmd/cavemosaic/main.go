// Package main is the entry point for CaveMosaic.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/samdwyer/cavemosaic/internal/export"
	"github.com/samdwyer/cavemosaic/internal/mapgen"
	"github.com/samdwyer/cavemosaic/internal/presets"
	"github.com/samdwyer/cavemosaic/internal/telemetry"
	"github.com/samdwyer/cavemosaic/internal/ui"
	"github.com/samdwyer/cavemosaic/internal/world"
)

var (
	styleHeading = color.Style{color.FgCyan, color.OpBold}
	styleValue   = color.Style{color.FgGreen}
	styleSubtle  = color.Style{color.FgGray}
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := loadConfig(os.Args[1:], os.LookupEnv)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
		log.Printf("Using random seed %d", cfg.Seed)
	}

	setupOTelEnv()

	ctx := context.Background()

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			log.Printf("Warning: telemetry setup failed: %v", err)
			log.Printf("Running without observability")
		} else {
			defer func() {
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down telemetry: %v", err)
				}
			}()
		}
	}

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Generation failed: %v", err)
	}
}

// loadConfig layers defaults, an optional preset, CAVEMOSAIC_* variables and
// command line flags, in that order.
func loadConfig(args []string, lookup func(string) (string, bool)) (mapgen.Config, error) {
	presetName, _ := lookup(mapgen.EnvPrefix + "PRESET")

	// First pass only finds -preset so it can sit underneath env and flags.
	scan := flag.NewFlagSet("scan", flag.ContinueOnError)
	scan.SetOutput(io.Discard)
	scratch := mapgen.DefaultConfig()
	scratch.Bind(scan)
	scan.StringVar(&presetName, "preset", presetName, "")
	_ = scan.Parse(args)

	cfg := mapgen.DefaultConfig()
	if presetName != "" {
		registry, err := presets.LoadRegistry()
		if err != nil {
			return cfg, err
		}
		p, err := registry.Lookup(presetName)
		if err != nil {
			return cfg, err
		}
		if err := cfg.ApplyPreset(p); err != nil {
			return cfg, err
		}
	}

	if err := cfg.FromMap(mapgen.EnvValues(lookup)); err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}

	fs := flag.NewFlagSet("cavemosaic", flag.ContinueOnError)
	cfg.Bind(fs)
	fs.String("preset", presetName, "embedded preset applied before env and flags")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func run(ctx context.Context, cfg mapgen.Config) error {
	preview, err := openPreview(cfg)
	if err != nil {
		log.Printf("Warning: preview unavailable: %v", err)
	}
	closePreview := func() {
		if preview != nil {
			preview.Close()
			preview = nil
		}
	}
	defer closePreview()

	if cfg.Input != "" {
		return runInput(ctx, cfg, preview, closePreview)
	}

	var hooks mapgen.Hooks
	if preview != nil {
		hooks.OnStep = preview.Step
	} else {
		hooks.OnStage = func(s mapgen.Stage, elapsed time.Duration) {
			log.Printf("%s stage finished in %s", s, elapsed.Round(time.Microsecond))
		}
	}

	out, err := mapgen.Generate(ctx, cfg, hooks)
	if err != nil {
		return err
	}

	files := []struct {
		name string
		save func(path string) error
	}{
		{cfg.CaveFile, func(p string) error { return export.Save(out.CaveImage, p, cfg.Scale) }},
		{cfg.MosaicFile, func(p string) error { return export.Save(out.Mosaic.Image, p, cfg.Scale) }},
		{cfg.FinalFile, func(p string) error { return export.Save(out.Final, p, cfg.Scale) }},
	}
	var written []string
	for _, f := range files {
		if f.name == "" {
			continue
		}
		path := filepath.Join(cfg.OutputDir, f.name)
		if err := f.save(path); err != nil {
			return err
		}
		written = append(written, path)
	}

	if preview != nil {
		preview.Hold(out.Final, fmt.Sprintf("seed %d", out.Seed))
	}
	closePreview()

	printSummary(out, written)
	return nil
}

func runInput(ctx context.Context, cfg mapgen.Config, preview *ui.Preview, closePreview func()) error {
	src, err := export.Load(cfg.Input)
	if err != nil {
		return err
	}

	res, err := mapgen.MosaicFromImage(ctx, src, cfg)
	if err != nil {
		return err
	}

	var written []string
	if cfg.MosaicFile != "" {
		path := filepath.Join(cfg.OutputDir, cfg.MosaicFile)
		if err := export.Save(res.Image, path, cfg.Scale); err != nil {
			return err
		}
		written = append(written, path)
	}

	if preview != nil {
		preview.Hold(res.Image, filepath.Base(cfg.Input))
	}
	closePreview()

	styleHeading.Println("CaveMosaic")
	fmt.Printf("  input    %s\n", styleValue.Sprint(cfg.Input))
	fmt.Printf("  regions  %s (%d empty)\n", styleValue.Sprint(len(res.Regions)), len(res.EmptyRegions()))
	for _, path := range written {
		fmt.Printf("  wrote    %s\n", styleSubtle.Sprint(path))
	}
	return nil
}

// openPreview returns nil when previews are off or stdout is not a terminal.
func openPreview(cfg mapgen.Config) (*ui.Preview, error) {
	if !cfg.Preview || !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, nil
	}
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	return ui.NewPreview(screen, cfg.StepDelay), nil
}

func printSummary(out *mapgen.Output, written []string) {
	styleHeading.Println("CaveMosaic")
	fmt.Printf("  run      %s\n", styleSubtle.Sprint(out.RunID))
	fmt.Printf("  seed     %s\n", styleValue.Sprint(out.Seed))
	fmt.Printf("  cave     %dx%d, %s walls, fingerprint %016x\n",
		out.Cave.Width, out.Cave.Height, styleValue.Sprint(out.Cave.Count()), out.Cave.Fingerprint())
	fmt.Printf("  regions  %s (%d empty)\n", styleValue.Sprint(len(out.Mosaic.Regions)), len(out.Mosaic.EmptyRegions()))
	fmt.Printf("  treasure %s\n", styleValue.Sprint(formatPoints(out.Treasures)))
	for _, path := range written {
		fmt.Printf("  wrote    %s\n", styleSubtle.Sprint(path))
	}
}

func formatPoints(points []world.Point) string {
	if len(points) == 0 {
		return "none"
	}
	s := points[0].String()
	for _, p := range points[1:] {
		s += " " + p.String()
	}
	return s
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_CAVEMOSAIC_API_KEY")
	if apiKey == "" {
		return
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}

	dataset := os.Getenv("HONEYCOMB_CAVEMOSAIC_DATASET")
	if dataset == "" {
		dataset = "cavemosaic" // default dataset name
	}
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
}
