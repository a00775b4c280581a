package plotting

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"csvviz/domain/chart"
)

// PieChart implements plot.Plotter. Slices are laid out counter-clockwise
// starting at StartAngle (radians from the positive x axis).
type PieChart struct {
	Slices      []chart.Slice
	StartAngle  float64
	LabelFormat string

	// LabelStyle is used for both the category names and the percentages.
	LabelStyle   draw.TextStyle
	OutlineStyle draw.LineStyle

	// Radius is the share of the smaller canvas side the pie may use.
	Radius float64
}

var _ plot.Plotter = (*PieChart)(nil)

// Plot implements the plot.Plotter interface.
func (pc *PieChart) Plot(c draw.Canvas, _ *plot.Plot) {
	total := 0.0
	for _, s := range pc.Slices {
		total += s.Fraction
	}
	if total <= 0 {
		return
	}

	share := pc.Radius
	if share <= 0 {
		share = 0.8
	}
	size := c.Size()
	radius := vg.Length(share) * 0.5 * min(size.X, size.Y)
	center := c.Center()

	nameStyle := pc.LabelStyle
	nameStyle.XAlign = draw.XCenter
	nameStyle.YAlign = draw.YCenter
	format := pc.LabelFormat
	if format == "" {
		format = "%.1f%%"
	}

	angle := pc.StartAngle
	for _, s := range pc.Slices {
		sweep := 2 * math.Pi * s.Fraction / total

		var path vg.Path
		path.Move(center)
		path.Arc(center, radius, angle, sweep)
		path.Close()

		c.SetColor(ColorByName(s.Color))
		c.Fill(path)
		if pc.OutlineStyle.Width > 0 {
			c.SetLineStyle(pc.OutlineStyle)
			c.Stroke(path)
		}

		mid := angle + sweep/2
		c.FillText(nameStyle, polar(center, 1.15*radius, mid), s.Label)
		c.FillText(nameStyle, polar(center, 0.6*radius, mid), fmt.Sprintf(format, 100*s.Fraction/total))

		angle += sweep
	}
}

func polar(center vg.Point, r vg.Length, theta float64) vg.Point {
	return vg.Point{
		X: center.X + r*vg.Length(math.Cos(theta)),
		Y: center.Y + r*vg.Length(math.Sin(theta)),
	}
}
