package app

import (
	"context"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"csvviz/domain/chart"
	"csvviz/domain/column"
	"csvviz/domain/core"
	domainStats "csvviz/domain/stats"
	"csvviz/internal"
	"csvviz/internal/charts"
	"csvviz/internal/dataset"
	"csvviz/internal/errors"
	"csvviz/internal/profiling"
	"csvviz/ports"
)

// VisualizeService runs the column pipeline: load, classify, summarize, select,
// render. It is safe for concurrent use when its ports are.
type VisualizeService struct {
	files     ports.FileStore
	reader    ports.TableReader
	artifacts ports.ArtifactStore
	renderer  ports.Renderer
	profiler  *profiling.DataProfiler
	selector  *charts.Selector
	cache     *dataset.TableCache
	logger    *internal.Logger
	workers   int
}

// Dependencies wires a VisualizeService. Profiler, Selector, Cache and Logger
// are optional. Workers bounds RenderAll; zero means four.
type Dependencies struct {
	Files     ports.FileStore
	Reader    ports.TableReader
	Artifacts ports.ArtifactStore
	Renderer  ports.Renderer
	Profiler  *profiling.DataProfiler
	Selector  *charts.Selector
	Cache     *dataset.TableCache
	Logger    *internal.Logger
	Workers   int
}

// ColumnDescription is what the chart picker needs to know about a column.
type ColumnDescription struct {
	Column  string       `json:"column"`
	Kind    column.Kind  `json:"kind"`
	Allowed []chart.Type `json:"allowed"`
	Default chart.Type   `json:"default,omitempty"`
}

// Result is a rendered chart together with its statistics.
type Result struct {
	Record   domainStats.Record `json:"record"`
	Spec     chart.RenderSpec   `json:"spec"`
	Artifact string             `json:"artifact"`
}

// ReportEntry is one column of a batch report. Err holds request-level errors
// (unclassifiable or empty columns); Result is zero when Err is set.
type ReportEntry struct {
	Column string
	Result Result
	Err    error
}

// NewVisualizeService creates the service.
func NewVisualizeService(deps Dependencies) *VisualizeService {
	profiler := deps.Profiler
	if profiler == nil {
		profiler = profiling.NewDataProfiler(nil)
	}
	selector := deps.Selector
	if selector == nil {
		selector = charts.NewSelector(profiler, nil)
	}
	logger := deps.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}
	workers := deps.Workers
	if workers <= 0 {
		workers = 4
	}
	return &VisualizeService{
		files:     deps.Files,
		reader:    deps.Reader,
		artifacts: deps.Artifacts,
		renderer:  deps.Renderer,
		profiler:  profiler,
		selector:  selector,
		cache:     deps.Cache,
		logger:    logger.WithComponent("VisualizeService"),
		workers:   workers,
	}
}

// ListColumns returns the headers of an uploaded file in file order.
func (s *VisualizeService) ListColumns(ctx context.Context, fileID string) ([]string, error) {
	table, err := s.loadTable(ctx, fileID)
	if err != nil {
		return nil, err
	}
	return table.ColumnNames(), nil
}

// DescribeColumn classifies a column and lists the charts it accepts.
func (s *VisualizeService) DescribeColumn(ctx context.Context, fileID, name string) (ColumnDescription, error) {
	col, err := s.loadColumn(ctx, fileID, name)
	if err != nil {
		return ColumnDescription{}, err
	}
	kind := s.profiler.Classify(col)
	return ColumnDescription{
		Column:  name,
		Kind:    kind,
		Allowed: charts.Allowed(kind),
		Default: charts.Default(kind),
	}, nil
}

// Summarize computes the statistics record without rendering anything.
func (s *VisualizeService) Summarize(ctx context.Context, fileID, name string) (domainStats.Record, error) {
	col, err := s.loadColumn(ctx, fileID, name)
	if err != nil {
		return domainStats.Record{}, err
	}
	_, rec, err := s.profiler.Profile(col)
	return rec, err
}

// RenderAndSummarize validates chartType against the column kind, renders the
// chart and computes the statistics. Either everything succeeds or nothing is
// returned.
func (s *VisualizeService) RenderAndSummarize(ctx context.Context, fileID, name, chartType string) (Result, error) {
	col, err := s.loadColumn(ctx, fileID, name)
	if err != nil {
		return Result{}, err
	}
	return s.renderColumn(ctx, col, chartType)
}

// RenderAll renders every column of a file with its default chart. Columns
// that cannot be charted are reported in their entry; storage and rendering
// failures abort the whole batch.
func (s *VisualizeService) RenderAll(ctx context.Context, fileID string) ([]ReportEntry, error) {
	return s.StreamReport(ctx, fileID, nil)
}

// StreamReport is RenderAll with a callback invoked as each column finishes.
// Calls to onEntry are serialized but arrive in completion order.
func (s *VisualizeService) StreamReport(ctx context.Context, fileID string, onEntry func(ReportEntry)) ([]ReportEntry, error) {
	start := time.Now()
	table, err := s.loadTable(ctx, fileID)
	if err != nil {
		return nil, err
	}

	names := table.ColumnNames()
	entries := make([]ReportEntry, len(names))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, name := range names {
		g.Go(func() error {
			col, _ := table.Column(name)
			res, err := s.renderColumn(gctx, col, "")
			if err != nil && !core.IsUserError(err) {
				return err
			}
			entries[i] = ReportEntry{Column: name, Result: res, Err: err}
			if onEntry != nil {
				mu.Lock()
				onEntry(entries[i])
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("rendered %d columns of %s in %s", len(names), fileID, time.Since(start).Round(time.Millisecond))
	return entries, nil
}

func (s *VisualizeService) renderColumn(ctx context.Context, col column.Column, chartType string) (Result, error) {
	kind, rec, err := s.profiler.Profile(col)
	if err != nil {
		return Result{}, err
	}
	if chartType == "" {
		chartType = charts.Default(kind).String()
	}

	spec, err := s.selector.Select(col, kind, chartType)
	if err != nil {
		return Result{}, err
	}

	ref, err := s.artifacts.Save(ctx, spec.Output, func(w io.Writer) error {
		if err := s.renderer.Render(ctx, spec, w); err != nil {
			return errors.RenderError("failed to render "+spec.Output, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("chart %s for column %q failed: %v", spec.Type, col.Name, err)
		return Result{}, errors.Wrapf(err, "failed to produce %s", spec.Output)
	}

	s.logger.Debug("rendered %s (%s column %q)", ref, kind, col.Name)
	return Result{Record: rec, Spec: spec, Artifact: ref}, nil
}

func (s *VisualizeService) loadColumn(ctx context.Context, fileID, name string) (column.Column, error) {
	table, err := s.loadTable(ctx, fileID)
	if err != nil {
		return column.Column{}, err
	}
	col, ok := table.Column(name)
	if !ok {
		return column.Column{}, &core.ColumnNotFoundError{Column: name}
	}
	return col, nil
}

func (s *VisualizeService) loadTable(ctx context.Context, fileID string) (*column.Table, error) {
	if table, ok := s.cache.Get(fileID); ok {
		return table, nil
	}

	rc, err := s.files.Open(ctx, fileID)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	table, err := s.reader.ReadTable(ctx, fileID, rc)
	if err != nil {
		return nil, err
	}
	s.cache.Add(fileID, table)
	return table, nil
}
