package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dd0wney/cluso-attackmap/pkg/dashboard"
	"github.com/dd0wney/cluso-attackmap/pkg/logging"
)

// respondJSON encodes before writing the header so an encode failure can
// still be reported as a 500.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", logging.Error(err))
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(ErrorResponse{
			Error:   http.StatusText(http.StatusInternalServerError),
			Message: "failed to encode response",
			Code:    http.StatusInternalServerError,
		})
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Warn("failed to write JSON response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	s.respondJSON(w, status, response)
}

// respondSessionError maps session errors to status codes. Unknown
// errors are logged and hidden behind a generic message.
func (s *Server) respondSessionError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, dashboard.ErrNotReady):
		s.respondError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, dashboard.ErrInvalidTransition):
		s.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, dashboard.ErrNodeNotFound), errors.Is(err, dashboard.ErrEdgeNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, dashboard.ErrInvalidEdit):
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, operation))
	}
}

func (s *Server) viewResponse(sess *dashboard.Session) ViewResponse {
	snap := sess.Snapshot()
	return ViewResponse{
		Zoom:         snap.Zoom,
		Offset:       snap.Offset,
		SelectedNode: snap.SelectedNode,
	}
}
