package api

import (
	"csvviz/app"
	domainStats "csvviz/domain/stats"
)

// UploadResponse is returned after a file is stored
type UploadResponse struct {
	FileID  string   `json:"file_id"`
	Columns []string `json:"columns"`
}

// FilesResponse lists stored uploads
type FilesResponse struct {
	Files []string `json:"files"`
}

// ColumnsResponse lists the headers of one upload in file order
type ColumnsResponse struct {
	FileID  string   `json:"file_id"`
	Columns []string `json:"columns"`
}

// RenderResponse is a rendered chart with its statistics
type RenderResponse struct {
	Artifact    string             `json:"artifact"`
	ChartType   string             `json:"chart_type"`
	Title       string             `json:"title"`
	MissingInfo string             `json:"missing_info"`
	Record      domainStats.Record `json:"record"`
}

// ReportEntry is one column of a batch report. Exactly one of Result and
// Error is set.
type ReportEntry struct {
	Column string          `json:"column"`
	Result *RenderResponse `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// ReportResponse is the outcome of rendering every column of a file
type ReportResponse struct {
	FileID   string        `json:"file_id"`
	Rendered int           `json:"rendered"`
	Skipped  int           `json:"skipped"`
	Entries  []ReportEntry `json:"entries"`
}

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func newRenderResponse(res app.Result) *RenderResponse {
	return &RenderResponse{
		Artifact:    res.Artifact,
		ChartType:   res.Spec.Type.String(),
		Title:       res.Spec.Title,
		MissingInfo: res.Record.MissingInfo(),
		Record:      res.Record,
	}
}

func newReportEntry(e app.ReportEntry) ReportEntry {
	if e.Err != nil {
		return ReportEntry{Column: e.Column, Error: e.Err.Error()}
	}
	return ReportEntry{Column: e.Column, Result: newRenderResponse(e.Result)}
}

func newReportResponse(fileID string, entries []app.ReportEntry) ReportResponse {
	resp := ReportResponse{FileID: fileID, Entries: make([]ReportEntry, len(entries))}
	for i, e := range entries {
		resp.Entries[i] = newReportEntry(e)
		if e.Err != nil {
			resp.Skipped++
		} else {
			resp.Rendered++
		}
	}
	return resp
}
