package ui

import (
	"csvviz/ui/middleware"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	if s.maxUpload > 0 {
		s.router.Use(middleware.LimitRequestBody(s.maxUpload + middleware.MultipartOverhead))
	}

	if s.staticDir != "" {
		s.logger.Info("serving chart images from %s at /static", s.staticDir)
		s.router.Static("/static", s.staticDir)
	}
}
