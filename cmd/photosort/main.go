// Command photosort scans a directory of photos, scores each image with an
// NSFW classifier, and sorts the files into clean and sensitive folders.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/anatolykoptev/go-photosort"
	"github.com/urfave/cli/v3"
)

const version = "1.0.0"

const (
	exitOK          = 0
	exitConfig      = 1
	exitFailure     = 127
	exitInterrupted = 130
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := newConsoleLogger(stdout, stderr)
	slog.SetDefault(slog.New(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:           "photosort",
		Version:        version,
		Usage:          "scan a photo collection for NSFW content and sort it into clean and sensitive folders",
		Writer:         stdout,
		ErrWriter:      stderr,
		DefaultCommand: "scan",
		Commands: []*cli.Command{
			scanCommand(logger, stdout),
		},
	}
	// The default handler calls os.Exit for errors that happen to implement
	// cli.ExitCoder; exit codes are decided below instead.
	app.ExitErrHandler = func(_ context.Context, _ *cli.Command, _ error) {}

	args = insertDefaultCommand(args, app.Commands, app.DefaultCommand)

	err := app.Run(ctx, args)
	switch {
	case err == nil:
	case errors.Is(err, photosort.ErrConfig):
		slog.Error(err.Error())
		return exitConfig
	case errors.Is(err, context.Canceled):
		slog.Error("photosort: interrupted, partial report persisted")
		return exitInterrupted
	default:
		slog.Error(err.Error())
		return exitFailure
	}

	if logger.HasErrored() {
		return exitFailure
	}
	return exitOK
}

// insertDefaultCommand routes bare invocations ("photosort ./photos") to the
// default command.
func insertDefaultCommand(args []string, commands []*cli.Command, defaultCommand string) []string {
	if len(args) < 2 {
		return args
	}

	known := make([]string, 0, len(commands)+6)
	for _, c := range commands {
		known = append(known, c.Name)
		known = append(known, c.Aliases...)
	}
	for _, name := range cli.HelpFlag.Names() {
		known = append(known, name, "-"+name, "--"+name)
	}
	for _, name := range cli.VersionFlag.Names() {
		known = append(known, "-"+name, "--"+name)
	}
	if slices.Contains(known, args[1]) {
		return args
	}

	rewritten := make([]string, len(args)+1)
	rewritten[0] = args[0]
	rewritten[1] = defaultCommand
	copy(rewritten[2:], args[1:])
	return rewritten
}
