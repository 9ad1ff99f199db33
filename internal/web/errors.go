package web

// errors.go provides unified error response handling for the web layer.
//
// Every handler failure goes through respondError, which:
//  1. Picks the status from the error taxonomy (validation 400, missing 404)
//  2. Maps the error via core.MapError to a user-friendly message and code
//  3. Logs the technical error with the request ID for correlation
//  4. Renders JSON for API routes and a templ fragment for pages

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/datacatalog/internal/apperrors"
	"github.com/JonMunkholm/datacatalog/internal/core"
	"github.com/JonMunkholm/datacatalog/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor classifies err into an HTTP status.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr), errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes a user-facing error response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, userMsg := logRequestError(r, err)

	if wantsJSON(r) {
		writeJSON(w, status, errorResponse(err, status, userMsg))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if rerr := templates.ErrorAlert(userMsg.Message, userMsg.Action, userMsg.Code).Render(r.Context(), w); rerr != nil {
		slog.Error("render error alert", "error", rerr)
	}
}

// logRequestError classifies err, logs it with the request ID and returns
// the status and user message to respond with.
func logRequestError(r *http.Request, err error) (int, core.UserMessage) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)
	return status, userMsg
}

// errorResponse builds the JSON body. Client errors echo the technical
// message since it names the offending field; server errors do not.
func errorResponse(err error, status int, msg core.UserMessage) ErrorResponse {
	detail := msg.Message
	if status < http.StatusInternalServerError {
		detail = clientMessage(err)
	}
	return ErrorResponse{
		Error:   detail,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}
}

func clientMessage(err error) string {
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		if ve.Field == "" {
			return ve.Message
		}
		return ve.Field + ": " + ve.Message
	}
	var nf *apperrors.NotFoundError
	if errors.As(err, &nf) {
		return strings.ToUpper(nf.Kind[:1]) + nf.Kind[1:] + " not found"
	}
	return err.Error()
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
