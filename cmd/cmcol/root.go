package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/handiism/cmcol/internal/audio"
	"github.com/handiism/cmcol/internal/config"
	"github.com/handiism/cmcol/internal/export"
	ioutils "github.com/handiism/cmcol/internal/io"
	"github.com/handiism/cmcol/internal/logging"
)

// Version is injected at build time via -ldflags
var Version = "dev"

type options struct {
	input         string
	output        string
	configPath    string
	verbose       bool
	jobs          int
	exclude       []string
	ignoreFile    string
	logLevel      string
	relativeNames bool
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "cmcol [DIR]",
		Short: "Catalog the audio tags of a music directory as XML",
		Long: `cmcol walks a directory tree, reads the title, artist, album, year,
track and genre tags of every audio file it recognizes, and writes one XML
document listing them in sorted path order.

Files that are not audio are skipped. The document goes to stdout unless
--output names a file.`,
		Example: `  cmcol ~/Music > catalog.xml
  cmcol -i ~/Music -o catalog.xml -j 4 -x '*.cue'`,
		Version: Version,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return usageError(err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, opts, stdout, stderr)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	flags := cmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", ".", "directory to scan")
	flags.StringVarP(&opts.output, "output", "o", ioutils.StdoutName, `output file, "-" for stdout`)
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "print the canonical scan root before the document")
	flags.StringVarP(&opts.configPath, "config", "c", "", "settings file (default "+config.DefaultPath()+")")
	flags.IntVarP(&opts.jobs, "jobs", "j", 1, "number of files probed in parallel")
	flags.StringArrayVarP(&opts.exclude, "exclude", "x", nil, "gitignore-style pattern to skip (repeatable)")
	flags.StringVar(&opts.ignoreFile, "ignore-file", "", "file of gitignore-style patterns to skip")
	flags.StringVar(&opts.logLevel, "log-level", config.LogLevelWarn, "log level: debug, info, warn, error")
	flags.BoolVar(&opts.relativeNames, "relative-names", false, "name files relative to the root on separator boundaries")

	return cmd
}

// loadSettings reads the settings file and applies the flags that were
// given explicitly on the command line.
func loadSettings(cmd *cobra.Command, opts *options) (*config.Settings, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}

	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		settings.Output = opts.output
	}
	if flags.Changed("verbose") {
		settings.Verbose = opts.verbose
	}
	if flags.Changed("jobs") {
		settings.Jobs = opts.jobs
	}
	if flags.Changed("exclude") {
		settings.Exclude = opts.exclude
	}
	if flags.Changed("ignore-file") {
		settings.IgnoreFile = opts.ignoreFile
	}
	if flags.Changed("log-level") {
		settings.LogLevel = opts.logLevel
	}
	if flags.Changed("relative-names") {
		settings.RelativeNames = opts.relativeNames
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func runExport(cmd *cobra.Command, args []string, opts *options, stdout, stderr io.Writer) error {
	input := opts.input
	if len(args) == 1 {
		if cmd.Flags().Changed("input") {
			return usageError(errors.New("give the directory either as an argument or with --input, not both"))
		}
		input = args[0]
	}

	settings, err := loadSettings(cmd, opts)
	if err != nil {
		return usageError(err)
	}

	// The root is validated before the destination is touched.
	canonical, err := ioutils.ResolveRoot(input)
	if err != nil {
		return usageError(err)
	}

	log := logging.New(stderr, settings.LogLevel)
	log.Debug().Str("root", canonical).Int("jobs", settings.Jobs).Str("output", settings.Output).Msg("starting export")

	if settings.Verbose {
		fmt.Fprintln(stdout, canonical)
	}

	exporter := export.NewExporter(settings, audio.DefaultProbe(), progressLogger(log))
	exporter.SetStdout(stdout)

	return exporter.Export(contextOf(cmd), input, settings.Output)
}

// progressLogger forwards exporter progress to log.
func progressLogger(log zerolog.Logger) func(export.ProgressEvent) {
	return func(event export.ProgressEvent) {
		var e *zerolog.Event
		switch event.Level {
		case export.LevelVerbose:
			e = log.Debug()
		case export.LevelWarning:
			e = log.Warn()
		case export.LevelError:
			e = log.Error()
		default:
			e = log.Info()
		}
		e.Msg(event.Message)
	}
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
