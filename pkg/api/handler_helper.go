package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dd0wney/cluso-attackmap/pkg/logging"
	"github.com/dd0wney/cluso-attackmap/pkg/topology"
	"github.com/dd0wney/cluso-attackmap/pkg/validation"
)

// sanitizeError converts an internal error to a user-safe message.
// The full error is logged; file paths and internals stay server side.
func (s *Server) sanitizeError(err error, operation string) string {
	if err == nil {
		return ""
	}

	s.logger.Error("request failed", logging.Operation(operation), logging.Error(err))

	return fmt.Sprintf("%s failed", operation)
}

// requestDecoder decodes and validates request bodies.
// It provides a fluent interface for common request handling patterns.
type requestDecoder struct {
	r          *http.Request
	w          http.ResponseWriter
	server     *Server
	err        error
	statusCode int
}

// NewRequestDecoder creates a new request decoder for the given request.
func (s *Server) NewRequestDecoder(w http.ResponseWriter, r *http.Request) *requestDecoder {
	return &requestDecoder{
		r:      r,
		w:      w,
		server: s,
	}
}

// DecodeJSON decodes the request body into the provided struct.
// Returns the decoder for chaining. Check HasError() after calling.
func (rd *requestDecoder) DecodeJSON(v any) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if err := json.NewDecoder(rd.r.Body).Decode(v); err != nil {
		rd.fail(err)
	}
	return rd
}

// DecodeEdge decodes an edge object, filling omitted weight, protocol
// and port with the document defaults.
func (rd *requestDecoder) DecodeEdge(e *topology.Edge) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	edge, err := topology.DecodeEdge(rd.r.Body, topology.FormatJSON)
	if err != nil {
		rd.fail(err)
		return rd
	}
	*e = edge
	return rd
}

func (rd *requestDecoder) fail(err error) {
	rd.err = fmt.Errorf("invalid request body: %w", err)
	rd.statusCode = http.StatusBadRequest
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		rd.err = fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		rd.statusCode = http.StatusRequestEntityTooLarge
	}
}

// ValidateData validates a graph and attack upload.
// Returns the decoder for chaining.
func (rd *requestDecoder) ValidateData(req *validation.DataRequest) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if err := validation.ValidateDataRequest(req); err != nil {
		rd.err = err
		rd.statusCode = http.StatusUnprocessableEntity
	}
	return rd
}

// HasError returns true if any error occurred during decoding/validation.
func (rd *requestDecoder) HasError() bool {
	return rd.err != nil
}

// Error returns the error if any occurred.
func (rd *requestDecoder) Error() error {
	return rd.err
}

// RespondError sends the error response and returns true if there was an error.
// Returns false if no error occurred.
func (rd *requestDecoder) RespondError() bool {
	if rd.err == nil {
		return false
	}
	rd.server.respondError(rd.w, rd.statusCode, rd.err.Error())
	return true
}

// queryInt reads a non-negative integer query parameter. A missing
// parameter yields def; a malformed one sends 400 and returns false.
func (s *Server) queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("%s must be a non-negative integer", name))
		return 0, false
	}
	return v, true
}
