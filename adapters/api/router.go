package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"csvviz/adapters/excel"
	"csvviz/app"
	"csvviz/internal"
	"csvviz/internal/dataset"
	"csvviz/ports"
)

// uploadOverhead is the slack allowed on top of the file size for multipart
// framing.
const uploadOverhead = 1 << 20

// Handler serves the JSON API
type Handler struct {
	router    *chi.Mux
	service   *app.VisualizeService
	processor *dataset.Processor
	files     ports.FileStore
	artifacts ports.ArtifactStore
	exporter  *excel.SummaryExporter
	maxUpload int64
	logger    *internal.Logger
}

// Dependencies wires a Handler. Exporter and Logger are optional; a zero
// MaxUploadBytes leaves request bodies unbounded.
type Dependencies struct {
	Service        *app.VisualizeService
	Processor      *dataset.Processor
	Files          ports.FileStore
	Artifacts      ports.ArtifactStore
	Exporter       *excel.SummaryExporter
	MaxUploadBytes int64
	Logger         *internal.Logger
}

// NewHandler creates the API router
func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.Service == nil || deps.Processor == nil || deps.Files == nil || deps.Artifacts == nil {
		return nil, fmt.Errorf("api handler needs a service, a processor, a file store and an artifact store")
	}
	h := &Handler{
		router:    chi.NewRouter(),
		service:   deps.Service,
		processor: deps.Processor,
		files:     deps.Files,
		artifacts: deps.Artifacts,
		exporter:  deps.Exporter,
		maxUpload: deps.MaxUploadBytes,
		logger:    deps.Logger,
	}
	if h.logger == nil {
		h.logger = internal.DefaultLogger
	}
	if h.exporter == nil {
		h.exporter = excel.NewSummaryExporter().WithLogger(h.logger)
	}
	h.logger = h.logger.WithComponent("API")

	h.setupMiddleware()
	h.setupRoutes()
	return h, nil
}

// setupMiddleware configures HTTP middleware
func (h *Handler) setupMiddleware() {
	h.router.Use(middleware.RequestID)
	h.router.Use(middleware.Logger)
	h.router.Use(middleware.Recoverer)
	h.router.Use(middleware.Compress(5))
}

// setupRoutes configures the API routes
func (h *Handler) setupRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Get("/health", h.handleHealth)

		r.Get("/files", h.handleListFiles)
		r.Post("/files", h.handleUpload)

		r.Route("/files/{fileID}", func(r chi.Router) {
			r.Get("/columns", h.handleColumns)
			r.Get("/columns/{column}", h.handleDescribe)
			r.Get("/columns/{column}/summary", h.handleSummary)
			r.Post("/columns/{column}/render", h.handleRender)
			r.Post("/report", h.handleReport)
			r.Get("/report/stream", h.handleReportStream)
		})

		r.Get("/artifacts/{name}", h.handleArtifact)
	})
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}
