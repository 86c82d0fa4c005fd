package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"promptdex/internal/logging"
	"promptdex/internal/query"
	"promptdex/internal/record"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	result, err := s.engine.Search(*req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rec, err := s.engine.Random(*req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		Record *record.PromptRecord `json:"record"`
	}{Record: rec})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.Stats()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, struct {
		Categories  []record.Category   `json:"categories"`
		Models      []string            `json:"models"`
		OutputTypes []record.OutputType `json:"output_types"`
	}{
		Categories:  record.Categories(),
		Models:      record.KnownModels(),
		OutputTypes: record.OutputTypes(),
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	status := struct {
		Status  string `json:"status"`
		Dataset string `json:"dataset"`
		Records int    `json:"records,omitempty"`
	}{Status: "ok", Dataset: "unavailable"}

	if snap, err := s.engine.Snapshot(); err == nil {
		status.Dataset = "ready"
		status.Records = snap.Len()
	}
	s.writeJSON(w, http.StatusOK, status)
}

// requestFromQuery maps URL parameters onto a query request. Pagination
// values must be integers; everything else is validated by the engine.
func requestFromQuery(r *http.Request) (*query.Request, error) {
	values := r.URL.Query()
	req := &query.Request{
		Query:      values.Get("q"),
		Category:   values.Get("category"),
		Model:      values.Get("model"),
		OutputType: values.Get("type"),
	}
	var err error
	if req.Limit, err = intParam(values.Get("limit")); err != nil {
		return nil, fmt.Errorf("%w: limit must be an integer", query.ErrInvalidRequest)
	}
	if req.Offset, err = intParam(values.Get("offset")); err != nil {
		return nil, fmt.Errorf("%w: offset must be an integer", query.ErrInvalidRequest)
	}
	return req, nil
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, query.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, query.ErrUnavailable):
		status = http.StatusServiceUnavailable
	default:
		s.logger.Error("request failed", logging.Error(err))
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		s.logger.Warn("write response failed", logging.Error(err))
	}
}
