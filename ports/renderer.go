package ports

import (
	"context"
	"io"

	"csvviz/domain/chart"
)

// Renderer draws a resolved chart as a PNG image.
type Renderer interface {
	Render(ctx context.Context, spec chart.RenderSpec, w io.Writer) error
}
