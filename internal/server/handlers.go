package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/vectorcad/pkg/buildinfo"
	"github.com/matzehuels/vectorcad/pkg/entity"
	"github.com/matzehuels/vectorcad/pkg/errors"
	"github.com/matzehuels/vectorcad/pkg/history"
	"github.com/matzehuels/vectorcad/pkg/interaction"
	docio "github.com/matzehuels/vectorcad/pkg/io"
	"github.com/matzehuels/vectorcad/pkg/script"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	s.writeJSON(w, errors.HTTPStatus(err), errorResponse{Code: string(code), Message: errors.UserMessage(err)})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) getDocument(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := docio.WriteJSON(s.doc, w); err != nil {
		s.logger.Error("write document", "err", err)
	}
}

type sessionResponse struct {
	interaction.State
	Dragging     bool                 `json:"dragging"`
	Participants []entity.ID          `json:"participants"`
	Stats        interaction.Stats    `json:"stats"`
	Results      []interaction.Result `json:"results"`
	Ortho        bool                 `json:"ortho"`
}

func (s *Server) getSession(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, sessionResponse{
		State:        s.session.State(),
		Dragging:     s.session.Dragging(),
		Participants: s.session.Participants(),
		Stats:        s.session.Stats(),
		Results:      s.session.Results(),
		Ortho:        s.session.Ortho(),
	})
}

// =============================================================================
// History
// =============================================================================

type historyResponse struct {
	Cursor     int             `json:"cursor"`
	CanUndo    bool            `json:"can_undo"`
	CanRedo    bool            `json:"can_redo"`
	Generation uint64          `json:"generation"`
	Entries    []history.Entry `json:"entries"`
}

func (s *Server) historyState() historyResponse {
	return historyResponse{
		Cursor:     s.hist.Cursor(),
		CanUndo:    s.hist.CanUndo(),
		CanRedo:    s.hist.CanRedo(),
		Generation: s.doc.Generation(),
		Entries:    s.hist.Entries(),
	}
}

func (s *Server) getHistory(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, s.historyState())
}

func (s *Server) undo(w http.ResponseWriter, _ *http.Request) {
	s.step(w, s.hist.Undo, "nothing to undo")
}

func (s *Server) redo(w http.ResponseWriter, _ *http.Request) {
	s.step(w, s.hist.Redo, "nothing to redo")
}

func (s *Server) step(w http.ResponseWriter, fn func() bool, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Active() {
		s.writeError(w, errors.New(errors.ErrCodeConflict, "a gesture is active"))
		return
	}
	if !fn() {
		s.writeError(w, errors.New(errors.ErrCodeConflict, "%s", msg))
		return
	}
	s.writeJSON(w, http.StatusOK, s.historyState())
}

// =============================================================================
// Transform log
// =============================================================================

type transformLogResponse struct {
	Enabled    bool                   `json:"enabled"`
	Overflowed bool                   `json:"overflowed"`
	Entries    []interaction.LogEntry `json:"entries"`
	IDs        []entity.ID            `json:"ids"`
}

func (s *Server) getTransformLog(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, s.transformLog())
}

func (s *Server) transformLog() transformLogResponse {
	return transformLogResponse{
		Enabled:    s.session.LogEnabled(),
		Overflowed: s.session.LogOverflowed(),
		Entries:    s.session.LogEntries(),
		IDs:        s.session.LogIDs(),
	}
}

type transformLogRequest struct {
	Enabled    bool `json:"enabled"`
	MaxEntries int  `json:"max_entries"`
	MaxIDs     int  `json:"max_ids"`
}

func (s *Server) configureTransformLog(w http.ResponseWriter, r *http.Request) {
	var req transformLogRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.SetLogEnabled(req.Enabled, req.MaxEntries, req.MaxIDs)
	s.writeJSON(w, http.StatusOK, s.transformLog())
}

func (s *Server) replay(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.Replay(); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"active":  s.session.Active(),
		"results": s.session.Results(),
	})
}

// =============================================================================
// Scripts
// =============================================================================

type stepResponse struct {
	Index    int                  `json:"index"`
	Op       script.Op            `json:"op"`
	Applied  bool                 `json:"applied"`
	Results  []interaction.Result `json:"results,omitempty"`
	Duration string               `json:"duration"`
}

func (s *Server) runScript(w http.ResponseWriter, r *http.Request) {
	sc, err := script.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if sc.Name == "" {
		sc.Name = "http"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	report, err := s.runner.Run(r.Context(), sc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	steps := make([]stepResponse, len(report.Steps))
	for i, st := range report.Steps {
		steps[i] = stepResponse{
			Index:    st.Index,
			Op:       st.Op,
			Applied:  st.Applied,
			Results:  st.Results,
			Duration: st.Duration.String(),
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"steps":   steps,
		"results": report.Results,
		"active":  s.session.Active(),
	})
}
