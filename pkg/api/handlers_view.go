package api

import (
	"net/http"

	"github.com/dd0wney/cluso-attackmap/pkg/dashboard"
)

// viewAction wraps a session view method as a POST handler that returns
// the resulting view
func (s *Server) viewAction(apply func(*dashboard.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resp ViewResponse
		s.session.Do(func(sess *dashboard.Session) error {
			apply(sess)
			resp = s.viewResponse(sess)
			return nil
		})
		s.respondJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handlePan(w http.ResponseWriter, r *http.Request) {
	var req PanRequest
	if s.NewRequestDecoder(w, r).DecodeJSON(&req).RespondError() {
		return
	}

	s.viewAction(func(sess *dashboard.Session) {
		sess.Pan(req.DX, req.DY)
	})(w, r)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if s.NewRequestDecoder(w, r).DecodeJSON(&req).RespondError() {
		return
	}

	var ev dashboard.SelectionEvent
	err := s.session.Do(func(sess *dashboard.Session) error {
		var err error
		ev, err = sess.Click(req.X, req.Y)
		return err
	})
	if err != nil {
		s.respondSessionError(w, err, "click")
		return
	}
	s.respondJSON(w, http.StatusOK, ev)
}
