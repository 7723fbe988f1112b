package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/nao1215/realreach/internal/analysis"
	"github.com/nao1215/realreach/internal/auth"
	"github.com/nao1215/realreach/internal/database"
	"github.com/nao1215/realreach/internal/filter"
	"github.com/nao1215/realreach/internal/model"
	"github.com/nao1215/realreach/internal/report"
)

// errBadRequest marks malformed request bodies.
var errBadRequest = errors.New("bad request")

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

type loginRequest struct {
	Platform string `json:"platform"`
}

// sessionSummary is the list view of a session, without its results.
type sessionSummary struct {
	ID                string         `json:"id"`
	Platform          model.Platform `json:"platform"`
	Date              time.Time      `json:"date"`
	TotalFollowers    int            `json:"totalFollowers"`
	AnalyzedFollowers int            `json:"analyzedFollowers"`
	MarkedCount       int            `json:"markedCount"`
	Summary           model.Summary  `json:"summary"`
}

type resultsResponse struct {
	SessionID string                 `json:"sessionId"`
	Total     int                    `json:"total"`
	Count     int                    `json:"count"`
	Criteria  filter.Criteria        `json:"criteria"`
	Results   []model.AnalysisResult `json:"results"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"source": s.service.Source.Name(),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	platform, err := model.ParsePlatform(req.Platform)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.service.Auth.Login(r.Context(), platform)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, publicUser(user))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Auth.Logout(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.service.Auth.Current(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, publicUser(user))
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	summaries := make([]sessionSummary, len(sessions))
	for i, session := range sessions {
		summaries[i] = sessionSummary{
			ID:                session.ID,
			Platform:          session.Platform,
			Date:              session.Date,
			TotalFollowers:    session.TotalFollowers,
			AnalyzedFollowers: session.AnalyzedFollowers,
			MarkedCount:       session.MarkedCount(),
			Summary:           session.Summary,
		}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleStartAnalysis(w http.ResponseWriter, r *http.Request) {
	user, err := s.service.Auth.Current(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	start := time.Now()
	session, err := s.service.StartAnalysis(r.Context(), nil)
	followers := 0
	if session != nil {
		followers = session.AnalyzedFollowers
	}
	s.metrics.ObserveAnalysis(user.Platform.String(), time.Since(start), followers, err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/analyses/"+session.ID)
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	session, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteSession(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	criteria, err := filter.ParseCriteria(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	session, err := s.service.GetSession(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	results, err := filter.Apply(session.Results, criteria)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resultsResponse{
		SessionID: session.ID,
		Total:     len(session.Results),
		Count:     len(results),
		Criteria:  criteria,
		Results:   results,
	})
}

func (s *Server) handleToggleMark(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	result, err := s.service.ToggleMark(r.Context(), vars["id"], vars["resultID"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleToggleHidden(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	result, err := s.service.ToggleHidden(r.Context(), vars["id"], vars["resultID"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	session, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	name := report.ExportFileName(time.Now())
	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", replaceExt(name, ".md")))
		if _, err := report.NewMarkdownWriter(w).Write(session); err != nil {
			s.logger.Error("failed to write markdown export", "request_id", RequestID(r.Context()), "error", err)
		}
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	writeJSON(w, http.StatusOK, report.NewExport(session))
}

// writeError maps err to a status code and writes it as JSON.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", RequestID(r.Context()), "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), RequestID: RequestID(r.Context())})
}

// statusFor returns the HTTP status for an error returned by the service.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, filter.ErrInvalidCriteria),
		errors.Is(err, model.ErrUnsupportedPlatform):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrNotLoggedIn):
		return http.StatusUnauthorized
	case errors.Is(err, database.ErrSessionNotFound),
		errors.Is(err, analysis.ErrResultNotFound):
		return http.StatusNotFound
	case errors.Is(err, analysis.ErrNoFollowers):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// publicUser returns a copy of user without its token.
func publicUser(user *model.User) model.User {
	u := *user
	u.Token = ""
	return u
}

func replaceExt(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}
