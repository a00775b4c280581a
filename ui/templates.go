package ui

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"csvviz/internal/errors"
	"csvviz/ui/templates/fragments"
)

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data gin.H) {
	// First render to a buffer to catch any errors before writing to response
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("template %s failed: %v", templateName, err)
		c.String(http.StatusInternalServerError, "template rendering failed")
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Warn("writing %s response: %v", templateName, err)
	}
}

// renderError shows the error page with the status the error maps to.
func (s *Server) renderError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		s.logger.Debug("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	s.renderTemplate(c, status, fragments.Error, gin.H{
		"Title":      "Error",
		"Status":     status,
		"StatusText": http.StatusText(status),
		"Error":      errors.PublicMessage(err),
	})
}
