package services

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	domainStats "csvviz/domain/stats"
	"csvviz/internal"
)

// RenderService turns statistics records into HTML fragments for the result pages
type RenderService struct {
	flags  html.Flags
	logger *internal.Logger
}

func NewRenderService() *RenderService {
	return &RenderService{flags: html.SkipHTML, logger: internal.DefaultLogger.WithComponent("RenderService")}
}

// WithLogger returns a copy of the service logging through logger.
func (s *RenderService) WithLogger(logger *internal.Logger) *RenderService {
	cp := *s
	cp.logger = logger.WithComponent("RenderService")
	return &cp
}

// SummaryMarkdown lays the record out as a two-column markdown table.
func (s *RenderService) SummaryMarkdown(rec domainStats.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### Summary of %s\n\n", escapeMarkdown(rec.Column))
	b.WriteString("| Statistic | Value |\n")
	b.WriteString("| --- | --- |\n")
	for _, e := range rec.Entries() {
		fmt.Fprintf(&b, "| %s | %s |\n", escapeMarkdown(e.Name), escapeMarkdown(e.Value))
	}
	return b.String()
}

// RenderSummary renders the record's summary table as HTML.
func (s *RenderService) RenderSummary(rec domainStats.Record) template.HTML {
	md := s.SummaryMarkdown(rec)

	// parsers keep state between documents, so each call gets its own
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: s.flags})
	out := markdown.ToHTML([]byte(md), p, r)
	if len(out) == 0 {
		s.logger.Warn("empty summary for column %q", rec.Column)
	}

	// The renderer escapes cell text and SkipHTML drops raw tags.
	return template.HTML(strings.Replace(string(out), "<table>", `<table class="stats">`, 1))
}

var markdownSpecials = strings.NewReplacer(
	`\`, `\\`, "|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`",
	"[", `\[`, "]", `\]`, "#", `\#`, "<", `\<`, ">", `\>`,
)

func escapeMarkdown(s string) string {
	return markdownSpecials.Replace(s)
}
