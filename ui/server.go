package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"csvviz/adapters/excel"
	"csvviz/app"
	"csvviz/internal"
	"csvviz/internal/dataset"
	"csvviz/ports"
	"csvviz/ui/services"
	"csvviz/ui/templates/fragments"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Server is the browser front end: upload, pick a column, pick a chart, view
// the result.
type Server struct {
	router    *gin.Engine
	templates *template.Template
	service   *app.VisualizeService
	processor *dataset.Processor
	exporter  *excel.SummaryExporter
	render    *services.RenderService
	data      *services.DataService
	staticDir string
	maxUpload int64
	logger    *internal.Logger
}

// Dependencies wires a Server. Exporter and Logger are optional. StaticDir is
// served under /static and is where chart artifacts are written.
type Dependencies struct {
	Service        *app.VisualizeService
	Processor      *dataset.Processor
	Files          ports.FileStore
	Exporter       *excel.SummaryExporter
	StaticDir      string
	MaxUploadBytes int64
	Logger         *internal.Logger
}

// NewServer creates a new web server instance
func NewServer() *Server {
	return &Server{
		router: gin.Default(),
	}
}

// Initialize sets up the server with dependencies
func (s *Server) Initialize(deps Dependencies) error {
	if deps.Service == nil || deps.Processor == nil {
		return fmt.Errorf("ui server needs a visualize service and an upload processor")
	}
	s.service = deps.Service
	s.processor = deps.Processor
	s.logger = deps.Logger
	if s.logger == nil {
		s.logger = internal.DefaultLogger
	}
	s.exporter = deps.Exporter
	if s.exporter == nil {
		s.exporter = excel.NewSummaryExporter().WithLogger(s.logger)
	}
	s.render = services.NewRenderService().WithLogger(s.logger)
	s.data = services.NewDataService(deps.Files, 20)
	s.staticDir = deps.StaticDir
	s.maxUpload = deps.MaxUploadBytes
	s.logger = s.logger.WithComponent("UI")

	if err := s.parseTemplates(); err != nil {
		return err
	}

	s.setupMiddleware()
	s.setupRoutes()
	return nil
}

func (s *Server) parseTemplates() error {
	funcMap := template.FuncMap{
		"title": func(v string) string {
			if v == "" {
				return v
			}
			return strings.ToUpper(v[:1]) + v[1:]
		},
		"upper": strings.ToUpper,
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	for _, name := range fragments.GetAllTemplatePaths() {
		if tmpl.Lookup(name) == nil {
			return fmt.Errorf("template %s is missing", name)
		}
	}
	s.templates = tmpl
	s.logger.Debug("parsed %d templates", len(fragments.GetAllTemplatePaths()))
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/upload", s.handleUpload)
	s.router.GET("/columns", s.handleColumns)
	s.router.POST("/select_graph_type", s.handleSelectGraphType)
	s.router.POST("/visualize", s.handleVisualize)
	s.router.GET("/export", s.handleExport)
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("starting csvviz UI on http://%s", addr)
	return s.router.Run(addr)
}
