// Package fragments names the page templates of the web UI
package fragments

import "strings"

// Template names as registered from the embedded templates directory
const (
	Layout = "layout.html"

	// Upload flow
	Index           = "index.html"
	SelectColumn    = "select_column.html"
	SelectGraphType = "select_graph_type.html"

	// Result pages, one per column kind
	NumericResult     = "numeric.html"
	TrendResult       = "trend.html"
	CategoricalResult = "categorical.html"

	Error = "error.html"
)

// GetAllTemplatePaths returns all template names for registration checks
func GetAllTemplatePaths() []string {
	return []string{
		Layout,
		Index,
		SelectColumn,
		SelectGraphType,
		NumericResult,
		TrendResult,
		CategoricalResult,
		Error,
	}
}

// IsPage reports whether name is a full page rather than the shared layout.
func IsPage(name string) bool {
	return strings.HasSuffix(name, ".html") && name != Layout
}

// ResultTemplate picks the result page for a column kind.
func ResultTemplate(kind string) string {
	switch kind {
	case "numeric":
		return NumericResult
	case "datetime":
		return TrendResult
	default:
		return CategoricalResult
	}
}
