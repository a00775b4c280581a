package ui

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"csvviz/domain/core"
	"csvviz/internal/dataset"
	"csvviz/internal/errors"
	"csvviz/ui/templates/fragments"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleIndex renders the upload form and the list of earlier uploads
func (s *Server) handleIndex(c *gin.Context) {
	s.renderIndex(c, http.StatusOK, "")
}

func (s *Server) renderIndex(c *gin.Context, status int, message string) {
	uploads, err := s.data.RecentUploads(c.Request.Context())
	if err != nil {
		s.logger.Warn("listing uploads: %v", err)
	}
	s.renderTemplate(c, status, fragments.Index, gin.H{
		"Title":   "Upload",
		"Error":   message,
		"Uploads": uploads,
	})
}

// handleUpload stores the posted CSV and shows its columns
func (s *Server) handleUpload(c *gin.Context) {
	fh, err := c.FormFile("file")
	switch {
	case stderrors.Is(err, http.ErrNotMultipart):
		s.renderIndex(c, http.StatusBadRequest, "no file part")
		return
	case stderrors.Is(err, http.ErrMissingFile):
		s.renderIndex(c, http.StatusBadRequest, "no file selected")
		return
	case err != nil:
		s.renderError(c, err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.renderError(c, errors.Wrap(err, "failed to open upload"))
		return
	}
	defer f.Close()

	fileID, err := s.processor.ProcessUpload(c.Request.Context(), dataset.Upload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Content:  f,
	})
	if err != nil {
		if status := errors.HTTPStatus(err); status < http.StatusInternalServerError {
			s.renderIndex(c, status, errors.PublicMessage(err))
			return
		}
		s.renderError(c, err)
		return
	}

	s.showColumns(c, fileID)
}

// handleColumns shows the column picker for an earlier upload
func (s *Server) handleColumns(c *gin.Context) {
	fileID := c.Query("file")
	if fileID == "" {
		s.renderError(c, errors.InvalidInput("file is required"))
		return
	}
	s.showColumns(c, fileID)
}

func (s *Server) showColumns(c *gin.Context, fileID string) {
	columns, err := s.service.ListColumns(c.Request.Context(), fileID)
	if err != nil {
		s.renderError(c, err)
		return
	}
	s.renderTemplate(c, http.StatusOK, fragments.SelectColumn, gin.H{
		"Title":   "Choose a column",
		"FileID":  fileID,
		"Columns": columns,
	})
}

// handleSelectGraphType offers the charts allowed for the chosen column
func (s *Server) handleSelectGraphType(c *gin.Context) {
	fileID, name, ok := s.fileAndColumn(c, c.PostForm)
	if !ok {
		return
	}

	desc, err := s.service.DescribeColumn(c.Request.Context(), fileID, name)
	if err != nil {
		s.renderError(c, err)
		return
	}
	if len(desc.Allowed) == 0 {
		s.renderError(c, &core.UnclassifiableColumnError{Column: name})
		return
	}

	s.renderTemplate(c, http.StatusOK, fragments.SelectGraphType, gin.H{
		"Title":       "Choose a chart",
		"FileID":      fileID,
		"Description": desc,
	})
}

// handleVisualize renders the chart and shows it with the column statistics
func (s *Server) handleVisualize(c *gin.Context) {
	fileID, name, ok := s.fileAndColumn(c, c.PostForm)
	if !ok {
		return
	}
	chartType := c.PostForm("graph_type")

	res, err := s.service.RenderAndSummarize(c.Request.Context(), fileID, name, chartType)
	if err != nil {
		s.renderError(c, err)
		return
	}

	s.renderTemplate(c, http.StatusOK, fragments.ResultTemplate(res.Record.Kind.String()), gin.H{
		"Title":   res.Spec.Title,
		"FileID":  fileID,
		"Column":  name,
		"Result":  res,
		"Image":   res.Artifact,
		"Summary": s.render.RenderSummary(res.Record),
	})
}

// handleExport downloads the column statistics as a workbook
func (s *Server) handleExport(c *gin.Context) {
	fileID, name, ok := s.fileAndColumn(c, c.Query)
	if !ok {
		return
	}

	rec, err := s.service.Summarize(c.Request.Context(), fileID, name)
	if err != nil {
		s.renderError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := s.exporter.Export(&buf, rec); err != nil {
		s.renderError(c, errors.Wrap(err, "failed to build workbook"))
		return
	}

	filename := dataset.ArtifactFilename(name) + "_summary.xlsx"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// fileAndColumn reads the two identifiers every column page needs.
func (s *Server) fileAndColumn(c *gin.Context, get func(string) string) (string, string, bool) {
	fileID := strings.TrimSpace(get("file"))
	name := get("column")
	if fileID == "" || name == "" {
		s.renderError(c, errors.InvalidInput("file and column are required"))
		return "", "", false
	}
	return fileID, name, true
}
