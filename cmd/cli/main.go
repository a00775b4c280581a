package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"csvviz/adapters/plotting"
	"csvviz/app"
	"csvviz/internal"
	"csvviz/internal/charts"
	"csvviz/internal/config"
	"csvviz/internal/dataset"
	"csvviz/internal/profiling"
)

func main() {
	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newApp(cfg).Execute(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// App is the csvviz command line
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer
	opts   globalOptions
}

// globalOptions are shared by every command that renders.
type globalOptions struct {
	outDir   string
	seed     int64
	bins     int
	width    float64
	height   float64
	workers  int
	asJSON   bool
	logLevel string
}

func newApp(cfg *config.Config) *App {
	a := &App{stdout: os.Stdout, stderr: os.Stderr}

	a.root = &cobra.Command{
		Use:   "csvviz",
		Short: "Classify, summarize and chart the columns of a CSV file",
		Long: `csvviz reads a CSV file, decides whether each column is numeric, a date or
categorical, and renders a chart together with summary statistics.

Examples:
  csvviz columns people.csv
  csvviz columns cities.xlsx
  csvviz describe people.csv age
  csvviz render people.csv age --chart boxplot --out charts --xlsx age.xlsx
  csvviz report people.csv --out charts`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := a.root.PersistentFlags()
	flags.StringVarP(&a.opts.outDir, "out", "o", ".", "Directory chart images are written to")
	flags.Int64Var(&a.opts.seed, "seed", cfg.Charts.ColorSeed, "Colour seed; 0 picks colours at random")
	flags.IntVar(&a.opts.bins, "bins", cfg.Charts.Bins, "Histogram bin count")
	flags.Float64Var(&a.opts.width, "width", cfg.Charts.WidthIn, "Chart width in inches")
	flags.Float64Var(&a.opts.height, "height", cfg.Charts.HeightIn, "Chart height in inches")
	flags.IntVar(&a.opts.workers, "workers", cfg.Charts.Workers, "Columns rendered at once by report")
	flags.BoolVar(&a.opts.asJSON, "json", false, "Print results as JSON")
	flags.StringVar(&a.opts.logLevel, "log-level", "WARN", "ERROR, WARN, INFO, DEBUG or TRACE")

	a.root.AddCommand(
		a.newColumnsCmd(),
		a.newDescribeCmd(),
		a.newRenderCmd(),
		a.newReportCmd(),
		a.newSampleCmd(),
	)
	return a
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the command line with signal handling.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// logger writes to stderr at the --log-level threshold.
func (a *App) logger() (*internal.Logger, error) {
	level, ok := internal.ParseLogLevel(a.opts.logLevel)
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", a.opts.logLevel)
	}
	return internal.NewLogger(level).WithOutput(log.New(a.stderr, "", log.LstdFlags)), nil
}

// service wires the pipeline against local paths. File ids are paths.
func (a *App) service() (*app.VisualizeService, error) {
	logger, err := a.logger()
	if err != nil {
		return nil, err
	}
	if a.opts.width <= 0 || a.opts.height <= 0 {
		return nil, fmt.Errorf("chart dimensions must be positive")
	}

	colors := charts.RandomColors()
	if a.opts.seed != 0 {
		colors = charts.SeededColors(a.opts.seed)
	}
	profiler := profiling.NewDataProfiler(nil)

	return app.NewVisualizeService(app.Dependencies{
		Files:     pathFiles{},
		Reader:    newPathReader(logger),
		Artifacts: dataset.NewLocalArtifactStore(a.opts.outDir, ""),
		Renderer:  plotting.NewRenderer(a.opts.width, a.opts.height),
		Profiler:  profiler,
		Selector:  charts.NewSelector(profiler, colors).WithBins(a.opts.bins),
		Logger:    logger,
		Workers:   a.opts.workers,
	}), nil
}
