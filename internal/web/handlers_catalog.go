package web

import (
	"fmt"
	"net/http"

	"github.com/JonMunkholm/datacatalog/internal/catalog"
)

// createdResponse acknowledges a create with the new id.
type createdResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// tableDetail always renders columns, even when the table has none.
type tableDetail struct {
	*catalog.DataTable
	Columns []catalog.DataColumn `json:"columns"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// handleListTables returns all tables, most recently updated first.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.service.Catalog.ListTables(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

// handleGetTable returns one table with its columns embedded.
func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	t, err := s.service.Catalog.GetTable(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	cols := t.Columns
	if cols == nil {
		cols = []catalog.DataColumn{}
	}
	writeJSON(w, http.StatusOK, tableDetail{DataTable: t, Columns: cols})
}

func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	var in catalog.TableInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}
	t, err := s.service.Catalog.CreateTable(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, createdResponse{ID: t.ID, Message: "Table created"})
}

func (s *Server) handleUpdateTable(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var in catalog.TableInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}
	if _, err := s.service.Catalog.UpdateTable(r.Context(), id, in); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Table updated"})
}

// handleDeleteTable removes a table; its columns go with it.
func (s *Server) handleDeleteTable(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.service.Catalog.DeleteTable(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Table deleted"})
}

func (s *Server) handleListColumns(w http.ResponseWriter, r *http.Request) {
	tableID, err := idParam(r, "tableID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	cols, err := s.service.Catalog.ListColumns(r.Context(), tableID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cols)
}

// handleCreateColumn adds a column. A table already holding
// catalog.MaxColumnsPerTable columns yields 400.
func (s *Server) handleCreateColumn(w http.ResponseWriter, r *http.Request) {
	var in catalog.ColumnInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}
	col, err := s.service.Catalog.CreateColumn(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, createdResponse{ID: col.ID, Message: "Column created"})
}

func (s *Server) handleUpdateColumn(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var in catalog.ColumnInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}
	if _, err := s.service.Catalog.UpdateColumn(r.Context(), id, in); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Column updated"})
}

func (s *Server) handleDeleteColumn(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.service.Catalog.DeleteColumn(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Column deleted"})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.service.Catalog.ListUsers(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in catalog.UserInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}
	u, err := s.service.Catalog.CreateUser(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, createdResponse{ID: u.ID, Message: "User created"})
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var in catalog.UserInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}
	if _, err := s.service.Catalog.UpdateUser(r.Context(), id, in); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "User updated"})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.service.Catalog.DeleteUser(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "User deleted"})
}

// handleSearch returns tables whose own text or whose columns' text
// contains q. An empty q returns an empty array.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	tables, err := s.service.Catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	path, err := s.service.Backup(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Backup created", "path": path})
}

// handleTableCSV downloads one table and its columns as CSV.
func (s *Server) handleTableCSV(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	name, content, err := s.service.Catalog.ExportTableCSV(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write([]byte(content))
}
