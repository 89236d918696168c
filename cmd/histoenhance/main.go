package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/term"

	"histoenhance/internal/config"
	"histoenhance/internal/console"
	"histoenhance/internal/debug/timing"
	"histoenhance/internal/logger"
	"histoenhance/internal/models"
	"histoenhance/internal/pipeline"
	"histoenhance/internal/shutdown"
)

const (
	AppName    = "histoenhance"
	AppVersion = "1.0.0"
)

var errUsage = errors.New("usage")

// Application bundles the components shared by every run mode
type Application struct {
	logger      logger.Logger
	coordinator *pipeline.Coordinator
	shutdown    *shutdown.Manager
	stdin       io.Reader
	stdout      io.Writer
}

type options struct {
	jobFile     string
	interactive bool
	logLevel    string
	logFormat   string
	workers     int
	defaults    config.Job
}

func main() {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, interactive))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, stdinIsTerminal bool) int {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	level, err := logger.ParseLevel(opts.logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	appLogger, err := logger.New(opts.logFormat, stderr, level)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	app := NewApplication(appLogger, stdin, stdout)
	app.shutdown.Listen()
	defer app.shutdown.Shutdown()

	appLogger.Debug("Application", "starting", map[string]interface{}{
		"version":    AppVersion,
		"go_version": runtime.Version(),
		"num_cpu":    runtime.NumCPU(),
	})

	ctx := app.shutdown.Context()
	switch {
	case opts.jobFile != "":
		err = app.runBatch(ctx, opts)
	case fs.NArg() == 2:
		job := opts.defaults
		job.Input, job.Output = fs.Arg(0), fs.Arg(1)
		err = app.runSingle(ctx, job)
	case fs.NArg() == 0 && (opts.interactive || stdinIsTerminal):
		err = app.runInteractive(ctx, opts.defaults)
	default:
		err = errUsage
	}

	if errors.Is(err, errUsage) {
		usage(fs)
		return 2
	}
	if err != nil {
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (*options, *flag.FlagSet, error) {
	fs := flag.NewFlagSet(AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	def := config.Default()
	window := models.Window{}
	outRange := *def.Range

	opts := &options{}
	fs.StringVar(&opts.jobFile, "jobs", "", "YAML job file for batch mode")
	fs.BoolVar(&opts.interactive, "i", false, "Prompt for parameters even when stdin is not a terminal")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.logFormat, "log-format", logger.FormatConsole, "Log output format (console, json)")
	fs.IntVar(&opts.workers, "workers", 0, "Parallel jobs in batch mode (default: job file value or GOMAXPROCS)")
	fs.IntVar(&def.Width, "width", 0, "Image width in pixels")
	fs.IntVar(&def.Height, "height", 0, "Image height in pixels")
	fs.IntVar(&window.Low, "window-low", 0, "Lower bound of the intensity window")
	fs.IntVar(&window.High, "window-high", models.MaxSample, "Upper bound of the intensity window")
	fs.IntVar(&outRange.Low, "out-low", outRange.Low, "Lower bound of the output range")
	fs.IntVar(&outRange.High, "out-high", outRange.High, "Upper bound of the output range")
	fs.StringVar(&def.InputFormat, "in-format", def.InputFormat, "Input format (raw, image)")
	fs.StringVar(&def.OutputFormat, "out-format", def.OutputFormat, "Output format (raw, tiff, png)")
	fs.StringVar(&def.ByteOrder, "byte-order", def.ByteOrder, "Byte order of raw files (little, big)")
	fs.Usage = func() { usage(fs) }

	if err := fs.Parse(args); err != nil {
		return nil, fs, err
	}

	def.Window = &window
	def.Range = &outRange
	opts.defaults = def
	return opts, fs, nil
}

func usage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: %s [options] input output\n", AppName)
	fmt.Fprintf(fs.Output(), "       %s -jobs jobs.yaml\n", AppName)
	fmt.Fprintf(fs.Output(), "       %s            (interactive)\n", AppName)
	fs.PrintDefaults()
}

// NewApplication wires the pipeline and registers it for shutdown
func NewApplication(log logger.Logger, stdin io.Reader, stdout io.Writer) *Application {
	tracker := timing.NewTracker()
	coordinator := pipeline.NewCoordinator(log, tracker, pipeline.NewLoader(log), pipeline.NewSaver(log))

	mgr := shutdown.NewManager(log)
	mgr.Register(coordinator)

	return &Application{
		logger:      log,
		coordinator: coordinator,
		shutdown:    mgr,
		stdin:       stdin,
		stdout:      stdout,
	}
}

func (app *Application) runSingle(ctx context.Context, job config.Job) error {
	_, err := app.coordinator.Run(ctx, job)
	app.report(job, err)
	return err
}

func (app *Application) runInteractive(ctx context.Context, defaults config.Job) error {
	prompter := console.NewPrompter(app.stdin, app.stdout)

	job, err := prompter.Collect(defaults)
	if err != nil {
		app.logger.Error("Console", err, nil)
		return err
	}

	_, err = app.coordinator.Run(ctx, job)
	if err != nil {
		app.logger.Error("Application", err, nil)
	}
	prompter.Report(err == nil)
	return err
}

func (app *Application) runBatch(ctx context.Context, opts *options) error {
	jf, err := config.LoadJobFile(opts.jobFile)
	if err != nil {
		app.logger.Error("Application", err, map[string]interface{}{"job_file": opts.jobFile})
		return err
	}

	workers := jf.Workers
	if opts.workers > 0 {
		workers = opts.workers
	}

	app.logger.Info("Application", "batch started", map[string]interface{}{
		"jobs":    len(jf.Jobs),
		"workers": workers,
	})

	results, err := pipeline.RunBatch(ctx, app.coordinator, jf.Jobs, workers)
	failed := 0
	for i, job := range jf.Jobs {
		if results[i] == nil {
			failed++
			fmt.Fprintf(app.stdout, "FAIL %s\n", job.Input)
			continue
		}
		fmt.Fprintf(app.stdout, "ok   %s -> %s\n", job.Input, job.Output)
	}
	if err != nil {
		app.logger.Error("Application", err, map[string]interface{}{"failed": failed})
	}
	return err
}

func (app *Application) report(job config.Job, err error) {
	if err != nil {
		app.logger.Error("Application", err, nil)
		fmt.Fprintf(app.stdout, "FAIL %s\n", job.Input)
		return
	}
	fmt.Fprintf(app.stdout, "ok   %s -> %s\n", job.Input, job.Output)
}
