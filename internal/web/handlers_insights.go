package web

import (
	"net/http"

	"github.com/JonMunkholm/datacatalog/internal/insight"
	"github.com/JonMunkholm/datacatalog/internal/logging"
)

// importResponse is the body returned by a CSV import. A batch stopped by
// timeout or cancellation carries both the error and the rows already
// committed.
type importResponse struct {
	Success bool `json:"success"`
	*ErrorResponse
	*insight.ImportResult
}

// handleListInsights returns insights matching the query filters.
// targetBanks and targetTables may be repeated.
func (s *Server) handleListInsights(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.Insights.List(r.Context(), insight.FilterFromQuery(r.URL.Query()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetInsight(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	rec, err := s.service.Insights.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCreateInsight(w http.ResponseWriter, r *http.Request) {
	var in insight.Input
	if err := decodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}
	rec, err := s.service.Insights.Create(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleUpdateInsight replaces every writable attribute of an insight.
func (s *Server) handleUpdateInsight(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var in insight.Input
	if err := decodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}
	rec, err := s.service.Insights.Update(r.Context(), id, in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteInsight(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.service.Insights.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// handleImportInsights imports the multipart field "file" one row at a
// time. Row failures are reported in the body; the status stays 200. When
// the batch is cut short the error status is returned with the partial
// counts.
func (s *Server) handleImportInsights(w http.ResponseWriter, r *http.Request) {
	file, err := formFile(w, r, s.cfg.Upload.MaxFileSize)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer file.Close()

	logging.FromContext(r.Context()).Info("insight import requested", "file", file.Name, "size", file.Size)

	ctx := WithRequestMetadata(r.Context(), r)
	result, err := s.service.ImportInsightsFrom(ctx, file, s.cfg.Upload.MaxFileSize)
	if err != nil && result != nil {
		status, userMsg := logRequestError(r, err)
		resp := errorResponse(err, status, userMsg)
		writeJSON(w, status, importResponse{ErrorResponse: &resp, ImportResult: result})
		return
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Success: true, ImportResult: result})
}

// handleImportStatus reports import slot usage.
func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ImportLimiterStatus())
}

// handleExportInsights downloads every insight as BOM-prefixed CSV.
func (s *Server) handleExportInsights(w http.ResponseWriter, r *http.Request) {
	content, err := s.service.ExportInsights(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+insight.ExportFileName)
	_, _ = w.Write([]byte(content))
}

// handleUploadImage stores a teaser or story image and returns its URL.
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	file, err := formFile(w, r, s.cfg.Upload.MaxImageSize)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer file.Close()

	url, err := s.service.SaveImage(file.Name, file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
