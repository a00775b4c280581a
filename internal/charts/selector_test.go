package charts

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvviz/domain/chart"
	"csvviz/domain/column"
	"csvviz/domain/core"
)

func TestEveryTypeHasBuilder(t *testing.T) {
	for _, ct := range chart.Types {
		_, ok := builders[ct]
		assert.True(t, ok, "missing builder for %s", ct)
	}
	for _, kind := range column.Kinds {
		_, ok := kindHandlers[kind]
		assert.True(t, ok, "missing handler for %s", kind)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		kind      column.Kind
		requested string
		want      chart.Type
		wantErr   error
	}{
		{"numeric histogram", column.KindNumeric, "histogram", chart.TypeHistogram, nil},
		{"numeric case folded", column.KindNumeric, " BoxPlot ", chart.TypeBoxplot, nil},
		{"numeric scatter", column.KindNumeric, "scatter", chart.TypeScatter, nil},
		{"numeric rejects pie", column.KindNumeric, "pie", "", core.ErrIncompatibleChart},
		{"numeric rejects unknown", column.KindNumeric, "radar", "", core.ErrIncompatibleChart},
		{"categorical pie", column.KindCategorical, "pie", chart.TypePie, nil},
		{"categorical bar", column.KindCategorical, "bar", chart.TypeBar, nil},
		{"categorical rejects histogram", column.KindCategorical, "histogram", "", core.ErrIncompatibleChart},
		{"datetime ignores request", column.KindDatetime, "pie", chart.TypeTrend, nil},
		{"datetime with empty request", column.KindDatetime, "", chart.TypeTrend, nil},
		{"unsupported", column.KindUnsupported, "bar", "", core.ErrUnclassifiable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve("c", tt.kind, tt.requested)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIncompatibleChartListsAllowed(t *testing.T) {
	_, err := Resolve("age", column.KindNumeric, "pie")
	var incompatible *core.IncompatibleChartError
	require.True(t, errors.As(err, &incompatible))
	assert.Equal(t, []string{"histogram", "boxplot", "scatter"}, incompatible.Allowed)
	assert.Equal(t, "pie", incompatible.Requested)
}

func TestSelectHistogram(t *testing.T) {
	s := NewSelector(nil, FixedColor(1))
	col := column.New("age", []string{"20", "30", "", "40"})

	spec, err := s.Select(col, column.KindNumeric, "histogram")
	require.NoError(t, err)
	assert.Equal(t, "age_histogram.png", spec.Output)
	assert.Equal(t, "age Histogram", spec.Title)
	assert.Equal(t, "Density", spec.YLabel)
	assert.Equal(t, "blue", spec.Color)
	assert.Equal(t, "black", spec.LineColor)
	require.Len(t, spec.Bins, DefaultBins)

	area, count := 0.0, 0
	for _, b := range spec.Bins {
		area += b.Density * (b.Max - b.Min)
		count += b.Count
	}
	assert.InDelta(t, 1.0, area, 1e-9)
	assert.Equal(t, 3, count)
}

func TestHistogramBins(t *testing.T) {
	bins := HistogramBins([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 10)
	require.Len(t, bins, 10)
	assert.Equal(t, 0.0, bins[0].Min)
	assert.Equal(t, 10.0, bins[9].Max)
	assert.Equal(t, 2, bins[9].Count, "max value falls in the closed last bin")

	single := HistogramBins([]float64{5, 5, 5}, 4)
	require.Len(t, single, 4)
	assert.Equal(t, 4.5, single[0].Min)
	assert.Equal(t, 5.5, single[3].Max)
	total := 0
	for _, b := range single {
		total += b.Count
		assert.False(t, math.IsNaN(b.Density))
	}
	assert.Equal(t, 3, total)

	assert.Nil(t, HistogramBins(nil, 10))
}

func TestHistogramBinsExtremeRanges(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"span wider than max float", []float64{-1e308, 1e308}},
		{"single huge value", []float64{1e308, 1e308, 1e308}},
		{"largest float", []float64{math.MaxFloat64, math.MaxFloat64}},
		{"smallest float", []float64{-math.MaxFloat64}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var bins []chart.Bin
			require.NotPanics(t, func() { bins = HistogramBins(tt.values, 10) })
			require.Len(t, bins, 10)

			total := 0
			for i, b := range bins {
				total += b.Count
				assert.False(t, math.IsNaN(b.Density) || math.IsInf(b.Density, 0), "bin %d density %v", i, b.Density)
				assert.LessOrEqual(t, b.Min, b.Max)
			}
			assert.Equal(t, len(tt.values), total)
		})
	}

	wide := HistogramBins([]float64{-1e308, 1e308}, 10)
	assert.Equal(t, -1e308, wide[0].Min)
	assert.Equal(t, 1e308, wide[9].Max)
	assert.Equal(t, 1, wide[0].Count)
	assert.Equal(t, 1, wide[9].Count)
	area := 0.0
	for _, b := range wide {
		area += b.Density * (b.Max - b.Min)
	}
	assert.InDelta(t, 1.0, area, 1e-9)
}

func TestSelectRejectsOverflowingSpan(t *testing.T) {
	s := NewSelector(nil, FixedColor(0))
	col := column.New("big", []string{"-1e308", "1e308"})

	for _, ct := range []string{"histogram", "boxplot", "scatter"} {
		t.Run(ct, func(t *testing.T) {
			_, err := s.Select(col, column.KindNumeric, ct)
			var outOfRange *core.OutOfRangeError
			require.ErrorAs(t, err, &outOfRange)
			assert.Equal(t, "big", outOfRange.Column)
			assert.True(t, core.IsUserError(err))
		})
	}

	spec, err := s.Select(column.New("big", []string{"1e308", "1e308"}), column.KindNumeric, "histogram")
	require.NoError(t, err)
	assert.Len(t, spec.Bins, DefaultBins)
}

func TestSelectBoxplotAndScatter(t *testing.T) {
	s := NewSelector(nil, nil)
	col := column.New("score", []string{"3", "", "9", "6"})

	box, err := s.Select(col, column.KindNumeric, "boxplot")
	require.NoError(t, err)
	require.NotNil(t, box.Box)
	assert.Equal(t, "blue", box.Box.BoxColor)
	assert.Equal(t, "red", box.Box.MedianColor)
	assert.Equal(t, []float64{3, 9, 6}, box.Values)

	scatter, err := s.Select(col, column.KindNumeric, "scatter")
	require.NoError(t, err)
	assert.Equal(t, "Index", scatter.XLabel)
	assert.Equal(t, []chart.Point{{X: 0, Y: 3}, {X: 2, Y: 9}, {X: 3, Y: 6}}, scatter.Points)
}

func TestSelectCategorical(t *testing.T) {
	col := column.New("fruit", []string{"apple", "pear", "apple", "", "fig"})

	bar, err := NewSelector(nil, FixedColor(2)).Select(col, column.KindCategorical, "bar")
	require.NoError(t, err)
	assert.Equal(t, "green", bar.Color)
	assert.Equal(t, "Frequency", bar.YLabel)
	require.Len(t, bar.Slices, 3)
	assert.Equal(t, "apple", bar.Slices[0].Label)
	assert.Equal(t, 2, bar.Slices[0].Count)

	pie, err := NewSelector(nil, SeededColors(7)).Select(col, column.KindCategorical, "pie")
	require.NoError(t, err)
	assert.Equal(t, PieStartAngle, pie.StartAngle)
	assert.Equal(t, "%.1f%%", pie.LabelFormat)
	sum := 0.0
	for _, sl := range pie.Slices {
		sum += sl.Fraction
		assert.Contains(t, Palette, sl.Color)
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestSeededColorsAreReproducible(t *testing.T) {
	col := column.New("fruit", []string{"a", "b", "c", "d"})
	first, err := NewSelector(nil, SeededColors(42)).Select(col, column.KindCategorical, "pie")
	require.NoError(t, err)
	second, err := NewSelector(nil, SeededColors(42)).Select(col, column.KindCategorical, "pie")
	require.NoError(t, err)
	assert.Equal(t, first.Slices, second.Slices)
}

func TestSelectTrendKeepsFileOrder(t *testing.T) {
	col := column.New("when", []string{"2024-03-01", "", "2024-01-01", "2024-02-01"})

	spec, err := NewSelector(nil, nil).Select(col, column.KindDatetime, "bar")
	require.NoError(t, err)
	assert.Equal(t, chart.TypeTrend, spec.Type)
	assert.Equal(t, "when_trend.png", spec.Output)
	assert.Equal(t, "Date", spec.XLabel)
	require.Len(t, spec.TimeSeries, 3)
	assert.Equal(t, 3, int(spec.TimeSeries[0].At.Month()))
	assert.Equal(t, 1.0, spec.TimeSeries[0].Y)
	assert.Equal(t, 3.0, spec.TimeSeries[2].Y)
}

func TestWithBins(t *testing.T) {
	s := NewSelector(nil, nil)
	assert.Equal(t, 5, s.WithBins(5).bins)
	assert.Equal(t, DefaultBins, s.bins)
	assert.Equal(t, DefaultBins, s.WithBins(0).bins)
}
