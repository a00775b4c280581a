package plotting

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"math"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"csvviz/domain/chart"
)

// Renderer draws RenderSpecs with gonum/plot and encodes them as PNG.
type Renderer struct {
	width  vg.Length
	height vg.Length
}

// NewRenderer creates a renderer for figures of the given size in inches.
func NewRenderer(widthIn, heightIn float64) *Renderer {
	if widthIn <= 0 {
		widthIn = 10
	}
	if heightIn <= 0 {
		heightIn = 6
	}
	return &Renderer{
		width:  vg.Length(widthIn) * vg.Inch,
		height: vg.Length(heightIn) * vg.Inch,
	}
}

type drawFunc func(p *plot.Plot, spec chart.RenderSpec, r *Renderer) error

var drawers = map[chart.Type]drawFunc{
	chart.TypeHistogram: drawHistogram,
	chart.TypeBoxplot:   drawBoxplot,
	chart.TypeScatter:   drawScatter,
	chart.TypeBar:       drawBar,
	chart.TypePie:       drawPie,
	chart.TypeTrend:     drawTrend,
}

// Render draws spec and writes the PNG to w. A panic inside gonum/plot is
// returned as an error; reports render on worker goroutines where an
// unrecovered panic would end the process.
func (r *Renderer) Render(ctx context.Context, spec chart.RenderSpec, w io.Writer) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("draw %s for column %q: plotting panicked: %v", spec.Type, spec.Column, p)
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	drawer, ok := drawers[spec.Type]
	if !ok {
		return fmt.Errorf("no renderer for chart type %q", spec.Type)
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel

	if err := drawer(p, spec, r); err != nil {
		return fmt.Errorf("draw %s for column %q: %w", spec.Type, spec.Column, err)
	}

	wt, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return fmt.Errorf("failed to create plot writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}

// ColorByName resolves a palette name, falling back to black.
func ColorByName(name string) color.Color {
	if c, ok := colornames.Map[name]; ok {
		return c
	}
	return colornames.Black
}

func withAlpha(c color.Color, alpha float64) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(math.Round(alpha * 255))
	return n
}

func drawHistogram(p *plot.Plot, spec chart.RenderSpec, _ *Renderer) error {
	if len(spec.Bins) == 0 {
		return fmt.Errorf("histogram has no bins")
	}

	hist := &plotter.Histogram{
		Bins:      make([]plotter.HistogramBin, len(spec.Bins)),
		Width:     spec.Bins[0].Max - spec.Bins[0].Min,
		FillColor: withAlpha(ColorByName(spec.Color), 0.7),
		LineStyle: plotter.DefaultLineStyle,
	}
	hist.LineStyle.Color = colornames.Black

	centers := make(plotter.XYs, len(spec.Bins))
	for i, b := range spec.Bins {
		hist.Bins[i] = plotter.HistogramBin{Min: b.Min, Max: b.Max, Weight: b.Density}
		centers[i] = plotter.XY{X: b.Center(), Y: b.Density}
	}

	line, points, err := plotter.NewLinePoints(centers)
	if err != nil {
		return err
	}
	lineColor := ColorByName(spec.LineColor)
	line.Color = lineColor
	points.Color = lineColor
	points.Shape = draw.CircleGlyph{}

	p.Add(hist, line, points)
	return nil
}

func drawBoxplot(p *plot.Plot, spec chart.RenderSpec, _ *Renderer) error {
	if len(spec.Values) == 0 {
		return fmt.Errorf("box plot has no values")
	}
	style := spec.Box
	if style == nil {
		style = &chart.BoxStyle{BoxColor: "blue", MedianColor: "red", LineWidth: 2}
	}

	box, err := plotter.NewBoxPlot(vg.Points(60), 0, plotter.Values(spec.Values))
	if err != nil {
		return err
	}
	width := vg.Points(style.LineWidth)
	boxColor := ColorByName(style.BoxColor)
	box.BoxStyle.Color = boxColor
	box.BoxStyle.Width = width
	box.WhiskerStyle.Color = boxColor
	box.WhiskerStyle.Width = width
	box.MedianStyle.Color = ColorByName(style.MedianColor)
	box.MedianStyle.Width = width

	if style.Grid {
		p.Add(plotter.NewGrid())
	}
	p.Add(box)

	if style.ShowMean {
		mean := 0.0
		for i, v := range spec.Values {
			mean += (v - mean) / float64(i+1)
		}
		marker, err := plotter.NewScatter(plotter.XYs{{X: 0, Y: mean}})
		if err != nil {
			return err
		}
		marker.Shape = draw.TriangleGlyph{}
		marker.Color = colornames.Green
		marker.Radius = vg.Points(4)
		p.Add(marker)
	}

	p.NominalX(spec.Column)
	p.X.Tick.Label.Rotation = style.LabelAngle * math.Pi / 180
	p.X.Tick.Label.XAlign = draw.XRight
	return nil
}

func drawScatter(p *plot.Plot, spec chart.RenderSpec, _ *Renderer) error {
	pts := make(plotter.XYs, len(spec.Points))
	for i, pt := range spec.Points {
		pts[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	scatter.Shape = draw.CircleGlyph{}
	scatter.Color = ColorByName("blue")
	scatter.Radius = vg.Points(3)
	p.Add(scatter)
	return nil
}

func drawBar(p *plot.Plot, spec chart.RenderSpec, r *Renderer) error {
	if len(spec.Slices) == 0 {
		return fmt.Errorf("bar chart has no categories")
	}
	values := make(plotter.Values, len(spec.Slices))
	labels := make([]string, len(spec.Slices))
	for i, s := range spec.Slices {
		values[i] = float64(s.Count)
		labels[i] = s.Label
	}

	barWidth := r.width * 0.6 / vg.Length(len(values))
	if barWidth > vg.Points(40) {
		barWidth = vg.Points(40)
	}
	bars, err := plotter.NewBarChart(values, barWidth)
	if err != nil {
		return err
	}
	bars.Color = ColorByName(spec.Color)
	bars.LineStyle.Width = 0

	p.Add(bars)
	p.NominalX(labels...)
	if len(labels) > 8 {
		p.X.Tick.Label.Rotation = math.Pi / 2
		p.X.Tick.Label.XAlign = draw.XRight
	}
	return nil
}

func drawPie(p *plot.Plot, spec chart.RenderSpec, _ *Renderer) error {
	if len(spec.Slices) == 0 {
		return fmt.Errorf("pie chart has no categories")
	}
	pie := &PieChart{
		Slices:       spec.Slices,
		StartAngle:   spec.StartAngle * math.Pi / 180,
		LabelFormat:  spec.LabelFormat,
		LabelStyle:   p.X.Tick.Label,
		OutlineStyle: draw.LineStyle{Color: colornames.White, Width: vg.Points(1)},
	}
	p.HideAxes()
	p.Add(pie)
	return nil
}

func drawTrend(p *plot.Plot, spec chart.RenderSpec, _ *Renderer) error {
	if len(spec.TimeSeries) == 0 {
		return fmt.Errorf("trend chart has no observations")
	}
	pts := make(plotter.XYs, len(spec.TimeSeries))
	for i, tp := range spec.TimeSeries {
		pts[i] = plotter.XY{X: float64(tp.At.Unix()), Y: tp.Y}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = ColorByName(spec.Color)
	line.Width = vg.Points(1.5)

	p.Add(line)
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	return nil
}
