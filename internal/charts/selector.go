package charts

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"csvviz/domain/chart"
	"csvviz/domain/column"
	"csvviz/domain/core"
	"csvviz/internal/profiling"
)

// DefaultBins matches the common plotting-library default.
const DefaultBins = 10

// PieStartAngle is the angle, in degrees counter-clockwise from the positive x axis,
// at which the first pie slice starts.
const PieStartAngle = 140.0

// kindHandler describes which charts a column kind can produce.
type kindHandler struct {
	allowed []chart.Type
	// forced, when set, replaces whatever the caller asked for.
	forced chart.Type
}

var kindHandlers = map[column.Kind]kindHandler{
	column.KindNumeric:     {allowed: []chart.Type{chart.TypeHistogram, chart.TypeBoxplot, chart.TypeScatter}},
	column.KindDatetime:    {allowed: []chart.Type{chart.TypeTrend}, forced: chart.TypeTrend},
	column.KindCategorical: {allowed: []chart.Type{chart.TypeBar, chart.TypePie}},
	column.KindUnsupported: {},
}

type builder func(s *Selector, col column.Column, spec *chart.RenderSpec) error

var builders = map[chart.Type]builder{
	chart.TypeHistogram: buildHistogram,
	chart.TypeBoxplot:   buildBoxplot,
	chart.TypeScatter:   buildScatter,
	chart.TypeBar:       buildBar,
	chart.TypePie:       buildPie,
	chart.TypeTrend:     buildTrend,
}

// Selector validates chart requests against column kinds and resolves render specs
type Selector struct {
	profiler *profiling.DataProfiler
	colors   ColorSource
	bins     int
}

// NewSelector creates a selector. Nil arguments fall back to the default
// profiler and the process-wide random colour source.
func NewSelector(profiler *profiling.DataProfiler, colors ColorSource) *Selector {
	if profiler == nil {
		profiler = profiling.NewDataProfiler(nil)
	}
	if colors == nil {
		colors = RandomColors()
	}
	return &Selector{profiler: profiler, colors: colors, bins: DefaultBins}
}

// WithBins returns a copy of the selector using n histogram bins.
func (s *Selector) WithBins(n int) *Selector {
	cp := *s
	if n > 0 {
		cp.bins = n
	}
	return &cp
}

// Allowed lists the chart types a kind accepts.
func Allowed(kind column.Kind) []chart.Type {
	return slices.Clone(kindHandlers[kind].allowed)
}

// Default is the first allowed chart for a kind, or "" when none is.
func Default(kind column.Kind) chart.Type {
	allowed := kindHandlers[kind].allowed
	if len(allowed) == 0 {
		return ""
	}
	return allowed[0]
}

// Resolve checks requested against kind and returns the chart type to draw.
func Resolve(colName string, kind column.Kind, requested string) (chart.Type, error) {
	handler, ok := kindHandlers[kind]
	if !ok || len(handler.allowed) == 0 {
		return "", &core.UnclassifiableColumnError{Column: colName}
	}
	if handler.forced != "" {
		return handler.forced, nil
	}

	t, err := chart.ParseType(requested)
	if err == nil && slices.Contains(handler.allowed, t) {
		return t, nil
	}
	return "", &core.IncompatibleChartError{
		Column:    colName,
		Kind:      kind.String(),
		Requested: requested,
		Allowed:   typeNames(handler.allowed),
	}
}

// Select validates the request and builds the render spec for col.
func (s *Selector) Select(col column.Column, kind column.Kind, requested string) (chart.RenderSpec, error) {
	t, err := Resolve(col.Name, kind, requested)
	if err != nil {
		return chart.RenderSpec{}, err
	}

	spec := chart.RenderSpec{
		Type:   t,
		Column: col.Name,
		Output: chart.ArtifactName(col.Name, t),
	}
	if err := builders[t](s, col, &spec); err != nil {
		return chart.RenderSpec{}, err
	}
	return spec, nil
}

// numericValues parses the present values and rejects columns whose span
// (max - min) overflows, since no chart axis can cover it.
func numericValues(s *Selector, col column.Column) ([]float64, []int, error) {
	values, rows, err := s.profiler.NumericValues(col)
	if err != nil {
		return nil, nil, err
	}
	if len(values) > 0 && math.IsInf(floats.Max(values)-floats.Min(values), 0) {
		return nil, nil, &core.OutOfRangeError{Column: col.Name, What: "value span"}
	}
	return values, rows, nil
}

func buildHistogram(s *Selector, col column.Column, spec *chart.RenderSpec) error {
	values, _, err := numericValues(s, col)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return &core.UnclassifiableColumnError{Column: col.Name}
	}

	spec.Title = fmt.Sprintf("%s Histogram", col.Name)
	spec.XLabel = col.Name
	spec.YLabel = "Density"
	spec.Color = pickColor(s.colors)
	spec.LineColor = "black"
	spec.Bins = HistogramBins(values, s.bins)
	return nil
}

// HistogramBins splits values into n equal-width bins over [min, max] and
// reports density heights (count / (total * width)). The last bin is closed.
//
// Edges and widths are computed on the range scaled by a power of two into
// (-1, 1), so ranges wider than the largest float64 still bin correctly.
func HistogramBins(values []float64, n int) []chart.Bin {
	if len(values) == 0 || n <= 0 {
		return nil
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = widen(lo)
	}

	exp := profiling.ScaleExponent(lo, hi)
	scaledLo, scaledHi := math.Ldexp(lo, -exp), math.Ldexp(hi, -exp)
	scaledWidth := (scaledHi - scaledLo) / float64(n)

	edges := make([]float64, n+1)
	floats.Span(edges, scaledLo, scaledHi)
	for i := range edges {
		edges[i] = math.Ldexp(edges[i], exp)
	}
	edges[0], edges[n] = lo, hi
	dividers := slices.Clone(edges)
	// stat.Histogram uses half-open bins; nudge the top edge so max is counted.
	dividers[n] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)

	total := float64(len(values))
	bins := make([]chart.Bin, n)
	for i := range bins {
		bins[i] = chart.Bin{
			Min:     edges[i],
			Max:     edges[i+1],
			Count:   int(counts[i]),
			Density: math.Ldexp(counts[i]/(total*scaledWidth), -exp),
		}
	}
	return bins
}

// widen turns a single value into a non-empty range: ±0.5 where that is
// representable, otherwise the neighbouring floats that stay finite.
func widen(v float64) (float64, float64) {
	lo, hi := v-0.5, v+0.5
	if lo < hi {
		return lo, hi
	}
	if down := math.Nextafter(v, math.Inf(-1)); !math.IsInf(down, 0) {
		lo = down
	}
	if up := math.Nextafter(v, math.Inf(1)); !math.IsInf(up, 0) {
		hi = up
	}
	return lo, hi
}

func buildBoxplot(s *Selector, col column.Column, spec *chart.RenderSpec) error {
	values, _, err := numericValues(s, col)
	if err != nil {
		return err
	}
	spec.Title = fmt.Sprintf("%s Box Plot", col.Name)
	spec.YLabel = col.Name
	spec.Values = values
	spec.Box = &chart.BoxStyle{
		BoxColor:    "blue",
		MedianColor: "red",
		LineWidth:   2,
		ShowMean:    true,
		LabelAngle:  45,
		Grid:        true,
	}
	return nil
}

func buildScatter(s *Selector, col column.Column, spec *chart.RenderSpec) error {
	values, rows, err := numericValues(s, col)
	if err != nil {
		return err
	}
	spec.Title = fmt.Sprintf("%s Scatter Plot", col.Name)
	spec.XLabel = "Index"
	spec.YLabel = col.Name
	spec.Points = make([]chart.Point, len(values))
	for i, v := range values {
		spec.Points[i] = chart.Point{X: float64(rows[i]), Y: v}
	}
	return nil
}

func categorySlices(col column.Column) []chart.Slice {
	present, _ := col.Present()
	freqs := profiling.Frequencies(present)
	total := float64(len(present))
	out := make([]chart.Slice, len(freqs))
	for i, f := range freqs {
		out[i] = chart.Slice{Label: f.Value, Count: f.Count, Fraction: float64(f.Count) / total}
	}
	return out
}

func buildBar(s *Selector, col column.Column, spec *chart.RenderSpec) error {
	spec.Title = fmt.Sprintf("%s Bar Chart", col.Name)
	spec.XLabel = col.Name
	spec.YLabel = "Frequency"
	spec.Color = pickColor(s.colors)
	spec.Slices = categorySlices(col)
	return nil
}

func buildPie(s *Selector, col column.Column, spec *chart.RenderSpec) error {
	spec.Title = fmt.Sprintf("%s Pie Chart", col.Name)
	spec.StartAngle = PieStartAngle
	spec.LabelFormat = "%.1f%%"
	spec.Slices = categorySlices(col)
	for i := range spec.Slices {
		spec.Slices[i].Color = pickColor(s.colors)
	}
	return nil
}

// buildTrend keeps file order after parsing; rows are not re-sorted by time.
// The y value is the running number of observations.
func buildTrend(s *Selector, col column.Column, spec *chart.RenderSpec) error {
	present, rows := col.Present()
	series := make([]chart.TimePoint, 0, len(present))
	for i, raw := range present {
		at, ok := s.profiler.Coercer().ParseTimestamp(raw)
		if !ok {
			return fmt.Errorf("column %q row %d: %q is not a date", col.Name, rows[i], raw)
		}
		series = append(series, chart.TimePoint{At: at, Y: float64(i + 1)})
	}

	spec.Title = fmt.Sprintf("%s Trend Chart", col.Name)
	spec.XLabel = "Date"
	spec.YLabel = col.Name
	spec.Color = pickColor(s.colors)
	spec.TimeSeries = series
	return nil
}

func typeNames(types []chart.Type) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return names
}
