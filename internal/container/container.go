package container

import (
	"context"
	"fmt"

	"csvviz/adapters/csvfile"
	"csvviz/adapters/excel"
	"csvviz/adapters/plotting"
	"csvviz/app"
	"csvviz/internal"
	"csvviz/internal/charts"
	"csvviz/internal/config"
	"csvviz/internal/dataset"
	"csvviz/internal/profiling"
)

// StaticURLPrefix is where chart artifacts are served by the web UI.
const StaticURLPrefix = "/static"

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Storage
	Files     *dataset.LocalFileStorage
	Artifacts *dataset.LocalArtifactStore
	Cache     *dataset.TableCache

	// Pipeline
	Reader   *csvfile.Reader
	Renderer *plotting.Renderer
	Profiler *profiling.DataProfiler
	Selector *charts.Selector

	// Services
	Service   *app.VisualizeService
	Processor *dataset.Processor
	Exporter  *excel.SummaryExporter
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewDefaultLogger(),
	}
	c.initStorage()
	c.initPipeline()
	c.initServices()

	c.Logger.WithComponent("Container").Info("uploads in %s, charts in %s", cfg.Storage.UploadDir, cfg.Storage.StaticDir)
	return c, nil
}

func (c *Container) initStorage() {
	storageConfig := dataset.DefaultStorageConfig()
	storageConfig.BasePath = c.Config.Storage.UploadDir
	storageConfig.MaxFileSize = c.Config.Storage.MaxUploadBytes

	c.Files = dataset.NewLocalFileStorage(storageConfig)
	c.Artifacts = dataset.NewLocalArtifactStore(c.Config.Storage.StaticDir, StaticURLPrefix)
	c.Cache = dataset.NewTableCache(c.Config.Cache.Size, c.Config.Cache.TTL)
	c.Processor = dataset.NewProcessor(c.Files, c.Cache, storageConfig).WithLogger(c.Logger)
}

func (c *Container) initPipeline() {
	colors := charts.RandomColors()
	if seed := c.Config.Charts.ColorSeed; seed != 0 {
		colors = charts.SeededColors(seed)
	}

	c.Reader = csvfile.NewReader().WithLogger(c.Logger)
	c.Renderer = plotting.NewRenderer(c.Config.Charts.WidthIn, c.Config.Charts.HeightIn)
	c.Profiler = profiling.NewDataProfiler(nil)
	c.Selector = charts.NewSelector(c.Profiler, colors)
	if bins := c.Config.Charts.Bins; bins > 0 {
		c.Selector = c.Selector.WithBins(bins)
	}
}

func (c *Container) initServices() {
	c.Service = app.NewVisualizeService(app.Dependencies{
		Files:     c.Files,
		Reader:    c.Reader,
		Artifacts: c.Artifacts,
		Renderer:  c.Renderer,
		Profiler:  c.Profiler,
		Selector:  c.Selector,
		Cache:     c.Cache,
		Logger:    c.Logger,
		Workers:   c.Config.Charts.Workers,
	})
	c.Exporter = excel.NewSummaryExporter().WithLogger(c.Logger)
	// uploads are parsed once before they are listed
	c.Processor = c.Processor.WithReader(c.Reader)
}

// Shutdown drops cached tables. Nothing else holds resources between requests.
func (c *Container) Shutdown(ctx context.Context) error {
	c.Cache.Purge()
	c.Logger.WithComponent("Container").Info("shutdown complete")
	return ctx.Err()
}
