package api

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"csvviz/app"
	"csvviz/internal/dataset"
	"csvviz/internal/errors"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleListFiles(w http.ResponseWriter, r *http.Request) {
	ids, err := h.files.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	h.writeJSON(w, http.StatusOK, FilesResponse{Files: ids})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+uploadOverhead)
	}

	f, fh, err := r.FormFile("file")
	switch {
	case stderrors.Is(err, http.ErrNotMultipart):
		h.writeError(w, r, errors.InvalidInput("no file part"))
		return
	case stderrors.Is(err, http.ErrMissingFile):
		h.writeError(w, r, errors.InvalidInput("no file selected"))
		return
	case err != nil:
		h.writeError(w, r, err)
		return
	}
	defer f.Close()

	fileID, err := h.processor.ProcessUpload(r.Context(), dataset.Upload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Content:  f,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	columns, err := h.service.ListColumns(r.Context(), fileID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/files/"+url.PathEscape(fileID)+"/columns")
	h.writeJSON(w, http.StatusCreated, UploadResponse{FileID: fileID, Columns: columns})
}

func (h *Handler) handleColumns(w http.ResponseWriter, r *http.Request) {
	fileID := pathParam(r, "fileID")
	columns, err := h.service.ListColumns(r.Context(), fileID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ColumnsResponse{FileID: fileID, Columns: columns})
}

func (h *Handler) handleDescribe(w http.ResponseWriter, r *http.Request) {
	desc, err := h.service.DescribeColumn(r.Context(), pathParam(r, "fileID"), pathParam(r, "column"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, desc)
}

// handleSummary returns the statistics record, as JSON or as a workbook when
// format=xlsx.
func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "column")
	rec, err := h.service.Summarize(r.Context(), pathParam(r, "fileID"), name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		h.writeJSON(w, http.StatusOK, rec)
	case "xlsx":
		var buf bytes.Buffer
		if err := h.exporter.Export(&buf, rec); err != nil {
			h.writeError(w, r, errors.Wrap(err, "failed to build workbook"))
			return
		}
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dataset.ArtifactFilename(name)+"_summary.xlsx"))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			h.logger.Warn("writing workbook: %v", err)
		}
	default:
		h.writeError(w, r, errors.InvalidInput(fmt.Sprintf("unknown format %q", format)))
	}
}

type renderRequest struct {
	ChartType string `json:"chart_type"`
}

// handleRender draws one column. The chart type comes from ?chart= or a JSON
// body; when absent the column's default chart is used.
func (h *Handler) handleRender(w http.ResponseWriter, r *http.Request) {
	chartType := r.URL.Query().Get("chart")
	if chartType == "" && r.Body != nil && r.ContentLength != 0 {
		var req renderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			h.writeError(w, r, errors.InvalidInput("request body must be JSON: "+err.Error()))
			return
		}
		chartType = req.ChartType
	}

	res, err := h.service.RenderAndSummarize(r.Context(), pathParam(r, "fileID"), pathParam(r, "column"), chartType)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newRenderResponse(res))
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	fileID := pathParam(r, "fileID")
	entries, err := h.service.RenderAll(r.Context(), fileID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newReportResponse(fileID, entries))
}

// handleReportStream renders every column and reports progress as
// server-sent events.
func (h *Handler) handleReportStream(w http.ResponseWriter, r *http.Request) {
	fileID := pathParam(r, "fileID")
	columns, err := h.service.ListColumns(r.Context(), fileID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	stream, err := NewSSEWriter(w, fileID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	start := time.Now()
	if err := stream.Send(EventTypeReportStarted, ReportStartedEvent{Columns: columns}); err != nil {
		h.logger.Warn("report stream for %s closed: %v", fileID, err)
		return
	}

	var rendered, skipped int
	_, err = h.service.StreamReport(r.Context(), fileID, func(e app.ReportEntry) {
		eventType := EventTypeColumnRendered
		if e.Err != nil {
			eventType = EventTypeColumnSkipped
			skipped++
		} else {
			rendered++
		}
		if err := stream.Send(eventType, newReportEntry(e)); err != nil {
			h.logger.Debug("report stream for %s: %v", fileID, err)
		}
	})
	if err != nil {
		h.logger.Error("report for %s failed: %v", fileID, err)
		_ = stream.Send(EventTypeReportFailed, ReportFailedEvent{Error: errors.PublicMessage(err)})
		return
	}

	_ = stream.Send(EventTypeReportCompleted, ReportCompletedEvent{
		Rendered:   rendered,
		Skipped:    skipped,
		DurationMs: time.Since(start).Milliseconds(),
	})
}

func (h *Handler) handleArtifact(w http.ResponseWriter, r *http.Request) {
	rc, err := h.artifacts.Open(r.Context(), pathParam(r, "name"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "image/png")
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("streaming artifact: %v", err)
	}
}

// pathParam returns a decoded route parameter. chi matches on the escaped
// path when the request has one, so values are unescaped only in that case.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}

// writeJSON encodes v before committing status, so a value that cannot be
// encoded turns into a 500 instead of a truncated success.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		h.logger.Error("encoding %T response: %v", v, err)
		status = http.StatusInternalServerError
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(ErrorResponse{Error: http.StatusText(status)})
		w.Header().Del("Location")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("writing response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("%s %s: %v", r.Method, r.URL.Path, err)
	}
	resp := ErrorResponse{Error: errors.PublicMessage(err)}
	if code := errors.GetCode(err); code != "UNKNOWN" && status < http.StatusInternalServerError {
		resp.Code = code
	}
	h.writeJSON(w, status, resp)
}
