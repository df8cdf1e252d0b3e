package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/claude/setlog/internal/api"
	"github.com/claude/setlog/internal/draft"
	"github.com/claude/setlog/internal/editor"
	"github.com/go-chi/chi/v5"
)

type detailsRequest struct {
	Name  *string `json:"name"`
	Notes *string `json:"notes"`
}

type exerciseRequest struct {
	Name string `json:"name"`
}

type setRequest struct {
	Field draft.Field `json:"field"`
	Value string      `json:"value"`
}

func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	sessions := s.svc.Sessions()
	views := make([]editor.View, 0, len(sessions))
	for _, sess := range sessions {
		views = append(views, sess.View())
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleNewDraft(w http.ResponseWriter, r *http.Request) {
	sess := s.svc.NewWorkout()
	writeJSON(w, http.StatusCreated, sess.View())
}

func (s *Server) handleEditDraft(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.EditWorkout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess.View())
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleUpdateDetails(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req detailsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name != nil {
		if err := sess.SetName(*req.Name); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if req.Notes != nil {
		if err := sess.SetNotes(*req.Notes); err != nil {
			s.writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleCancelDraft(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.Cancel(chi.URLParam(r, "sid"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, _, err := s.svc.Submit(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if _, err := sess.AddExercise(); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess.View())
}

func (s *Server) handleRenameExercise(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	ei, ok := indexParam(w, r, "ei")
	if !ok {
		return
	}
	var req exerciseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := sess.UpdateExerciseName(ei, req.Name); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	ei, ok := indexParam(w, r, "ei")
	if !ok {
		return
	}
	if err := sess.RemoveExercise(ei); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	ei, ok := indexParam(w, r, "ei")
	if !ok {
		return
	}
	if _, err := sess.AddSet(ei); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess.View())
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	ei, ok := indexParam(w, r, "ei")
	if !ok {
		return
	}
	si, ok := indexParam(w, r, "si")
	if !ok {
		return
	}
	var req setRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := sess.UpdateSet(ei, si, req.Field, req.Value); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleRemoveSet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	ei, ok := indexParam(w, r, "ei")
	if !ok {
		return
	}
	si, ok := indexParam(w, r, "si")
	if !ok {
		return
	}
	if err := sess.RemoveSet(ei, si); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

// session resolves the {sid} URL parameter, writing a 404 if it is unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*editor.Session, bool) {
	sess, err := s.svc.Session(chi.URLParam(r, "sid"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return sess, true
}

// writeError maps editor and draft errors onto status codes. Messages from
// validation, submission and load failures are user-facing and passed through.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		verr *draft.ValidationError
		serr *editor.SubmissionError
		lerr *editor.LoadError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":    verr.Message,
			"rule":     verr.Rule,
			"exercise": verr.Exercise,
			"set":      verr.Set,
		})
	case errors.As(err, &serr):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": serr.Message()})
	case errors.As(err, &lerr):
		status := http.StatusBadGateway
		if errors.Is(err, api.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]string{
			"error":    lerr.Message(),
			"redirect": editor.RouteDashboard,
		})
	case errors.Is(err, editor.ErrSessionNotFound), errors.Is(err, draft.ErrIndexOutOfRange):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, editor.ErrBusy), errors.Is(err, editor.ErrLastExercise), errors.Is(err, editor.ErrLastSet):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, editor.ErrClosed):
		writeJSON(w, http.StatusGone, map[string]string{"error": err.Error()})
	case errors.Is(err, draft.ErrUnknownField):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.log.Error("unhandled editor error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

func indexParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid index %q", raw)})
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
