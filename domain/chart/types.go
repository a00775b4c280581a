package chart

import (
	"fmt"
	"strings"
	"time"
)

// Type is a chart kind keyword. The keyword doubles as the artifact suffix.
type Type string

const (
	TypeHistogram Type = "histogram"
	TypeBoxplot   Type = "boxplot"
	TypeScatter   Type = "scatter"
	TypeBar       Type = "bar"
	TypePie       Type = "pie"
	TypeTrend     Type = "trend"
)

// Types lists every chart type in menu order.
var Types = []Type{TypeHistogram, TypeBoxplot, TypeScatter, TypeBar, TypePie, TypeTrend}

func (t Type) String() string { return string(t) }

// ParseType normalizes a user-supplied chart keyword.
func ParseType(s string) (Type, error) {
	candidate := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range Types {
		if t == candidate {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown chart type %q", s)
}

// ArtifactName returns the output identifier for a column/chart pair.
func ArtifactName(column string, t Type) string {
	return fmt.Sprintf("%s_%s.png", column, t)
}

// Point is one (x, y) sample of a series.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TimePoint is one sample of a time-indexed series.
type TimePoint struct {
	At time.Time `json:"at"`
	Y  float64   `json:"y"`
}

// Bin is a histogram bin with its density height.
type Bin struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Count   int     `json:"count"`
	Density float64 `json:"density"`
}

// Center is the bin midpoint used for the overlay line.
func (b Bin) Center() float64 { return 0.5 * (b.Min + b.Max) }

// Slice is one category of a bar or pie chart.
type Slice struct {
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	Fraction float64 `json:"fraction"`
	Color    string  `json:"color,omitempty"`
}

// BoxStyle fixes the box plot colours.
type BoxStyle struct {
	BoxColor    string  `json:"box_color"`
	MedianColor string  `json:"median_color"`
	LineWidth   float64 `json:"line_width"`
	ShowMean    bool    `json:"show_mean"`
	LabelAngle  float64 `json:"label_angle"`
	Grid        bool    `json:"grid"`
}

// RenderSpec is the fully resolved drawing instruction for one chart.
// Only the series that belongs to Type is populated.
type RenderSpec struct {
	Type   Type   `json:"type"`
	Column string `json:"column"`
	Title  string `json:"title"`
	XLabel string `json:"x_label"`
	YLabel string `json:"y_label"`
	Color  string `json:"color,omitempty"`
	Output string `json:"output"`

	Bins       []Bin       `json:"bins,omitempty"`
	Values     []float64   `json:"values,omitempty"`
	Points     []Point     `json:"points,omitempty"`
	Slices     []Slice     `json:"slices,omitempty"`
	TimeSeries []TimePoint `json:"time_series,omitempty"`

	Box         *BoxStyle `json:"box,omitempty"`
	LineColor   string    `json:"line_color,omitempty"`
	StartAngle  float64   `json:"start_angle,omitempty"`
	LabelFormat string    `json:"label_format,omitempty"`
}
