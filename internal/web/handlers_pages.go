package web

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/datacatalog/internal/catalog"
	"github.com/JonMunkholm/datacatalog/internal/insight"
	"github.com/JonMunkholm/datacatalog/internal/web/templates"
)

// handleCatalogPage renders the table catalog, narrowed by ?q= when given.
func (s *Server) handleCatalogPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query().Get("q")

	var tables []catalog.DataTable
	var err error
	if q != "" {
		tables, err = s.service.Catalog.Search(ctx, q)
	} else {
		tables, err = s.service.Catalog.ListTables(ctx)
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	users, err := s.service.Catalog.ListUsers(ctx)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.render(w, r, templates.CatalogPage(tables, users, q))
}

// handleInsightsPage renders the insight list, honoring the same filters
// as the list API.
func (s *Server) handleInsightsPage(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.Insights.List(r.Context(), insight.FilterFromQuery(r.URL.Query()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.render(w, r, templates.InsightsPage(records))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render page", "path", r.URL.Path, "error", err)
	}
}
