package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/anatolykoptev/go-photosort"
	"github.com/urfave/cli/v3"
)

func scanCommand(logger *consoleLogger, stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "scan a directory of photos and sort them by NSFW confidence",
		ArgsUsage: "<input-dir>",
		Description: "Walks the input directory, scores every supported image" +
			" (jpg, jpeg, png, gif, bmp, tiff, tif) with the selected scorer, and" +
			" moves each file to <output>/clean_photos or <output>/sensitive_photos." +
			" A structured log and a run report are written at the output root.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML settings file",
				Value:   photosort.DefaultSettingsFile,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output root for sorted photos (default: the input directory)",
			},
			&cli.Float64Flag{
				Name:        "threshold",
				Aliases:     []string{"t"},
				Usage:       "confidence at or above which a photo counts as sensitive",
				DefaultText: "0.7",
				Action: func(_ context.Context, _ *cli.Command, v float64) error {
					if v < 0 || v > 1 {
						return fmt.Errorf("%w: threshold %g outside [0.0, 1.0]", photosort.ErrConfig, v)
					}
					return nil
				},
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "compute and report decisions without moving any file",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log every decision, not just sensitive finds",
			},
			&cli.IntFlag{
				Name:        "workers",
				Usage:       "parallel scoring workers",
				DefaultText: "1",
			},
			&cli.StringFlag{
				Name:        "scorer",
				Usage:       "scoring backend: heuristic or vision",
				DefaultText: "heuristic",
			},
			&cli.BoolFlag{
				Name:  "detect-duplicates",
				Usage: "flag perceptually identical photos in the report",
			},
			&cli.BoolFlag{
				Name:  "flag-location",
				Usage: "flag photos carrying embedded GPS coordinates",
			},
			&cli.StringFlag{
				Name:  "vision-model",
				Usage: "model name for the vision scorer",
			},
			&cli.StringFlag{
				Name:  "vision-base-url",
				Usage: "OpenAI-compatible endpoint override for the vision scorer",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runScan(ctx, cmd, logger, stdout)
		},
	}
}

func runScan(ctx context.Context, cmd *cli.Command, logger *consoleLogger, stdout io.Writer) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("%w: expected exactly one input directory, got %d arguments",
			photosort.ErrConfig, cmd.Args().Len())
	}

	settings, err := photosort.LoadSettings(cmd.String("config"))
	if err != nil {
		// A missing default settings file means built-in defaults; a missing
		// file the user named explicitly is their mistake.
		if !errors.Is(err, fs.ErrNotExist) || cmd.IsSet("config") {
			return fmt.Errorf("%w: %v", photosort.ErrConfig, err)
		}
	}
	applyFlags(cmd, &settings)

	if settings.Verbose {
		logger.SetLevel(slog.LevelDebug)
	}

	scorer, err := buildScorer(settings)
	if err != nil {
		return err
	}

	sorter := &photosort.Sorter{
		Scorer:           scorer,
		Workers:          settings.Workers,
		DetectDuplicates: settings.DetectDuplicates,
		FlagLocation:     settings.FlagLocation,
	}
	req := photosort.Request{
		InputDir:  cmd.Args().First(),
		OutputDir: cmd.String("output"),
		Threshold: settings.Threshold,
		DryRun:    settings.DryRun,
	}

	report, err := sorter.Scan(ctx, req)
	if report != nil {
		_ = report.WriteSummary(stdout)
	}
	return err
}

// applyFlags lays explicitly-set command line flags over the file settings.
func applyFlags(cmd *cli.Command, settings *photosort.Settings) {
	if cmd.IsSet("threshold") {
		settings.Threshold = cmd.Float64("threshold")
	}
	if cmd.IsSet("dry-run") {
		settings.DryRun = cmd.Bool("dry-run")
	}
	if cmd.IsSet("verbose") {
		settings.Verbose = cmd.Bool("verbose")
	}
	if cmd.IsSet("workers") {
		settings.Workers = cmd.Int("workers")
	}
	if cmd.IsSet("scorer") {
		settings.Scorer = cmd.String("scorer")
	}
	if cmd.IsSet("detect-duplicates") {
		settings.DetectDuplicates = cmd.Bool("detect-duplicates")
	}
	if cmd.IsSet("flag-location") {
		settings.FlagLocation = cmd.Bool("flag-location")
	}
	if cmd.IsSet("vision-model") {
		settings.Vision.Model = cmd.String("vision-model")
	}
	if cmd.IsSet("vision-base-url") {
		settings.Vision.BaseURL = cmd.String("vision-base-url")
	}
}

func buildScorer(settings photosort.Settings) (photosort.Scorer, error) {
	switch settings.Scorer {
	case "", "heuristic":
		return photosort.HeuristicScorer{}, nil
	case "vision":
		key := os.Getenv(settings.Vision.APIKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("%w: vision scorer needs an API key in $%s",
				photosort.ErrConfig, settings.Vision.APIKeyEnv)
		}
		return photosort.NewVisionScorer(key, photosort.VisionOptions{
			Model:   settings.Vision.Model,
			BaseURL: settings.Vision.BaseURL,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown scorer %q (want heuristic or vision)",
			photosort.ErrConfig, settings.Scorer)
	}
}
