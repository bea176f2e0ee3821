package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/jpalmerr/sitepulse/internal/store"
)

// maxRequestBodySize caps registry API request bodies.
const maxRequestBodySize = 64 << 10 // 64KB

type websiteRequest struct {
	URL string `json:"url"`
}

type websiteResponse struct {
	URL string `json:"url"`
}

type reorderRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// handleStatus returns every registered endpoint with its metrics as JSON.
//
// Clients that join late call this once and then rely on the streams.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	s.writeJSON(w, http.StatusOK, s.registry.Statuses())
}

func (s *Server) handleListWebsites(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.registry.List())
}

func (s *Server) handleAddWebsite(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.decodeURL(w, r)
	if !ok {
		return
	}

	id, err := s.registry.Add(raw)
	if err != nil {
		s.writeRegistryError(w, err)
		return
	}

	s.logger.Info("endpoint added", "url", id)
	s.writeJSON(w, http.StatusCreated, websiteResponse{URL: id})
}

func (s *Server) handleRemoveWebsite(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.decodeURL(w, r)
	if !ok {
		return
	}

	id, err := s.registry.RemoveByIdentifier(raw)
	if err != nil {
		s.writeRegistryError(w, err)
		return
	}

	s.logger.Info("endpoint removed", "url", id)
	s.writeJSON(w, http.StatusOK, websiteResponse{URL: id})
}

func (s *Server) handleUpdateWebsite(w http.ResponseWriter, r *http.Request) {
	pos, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid index %q", r.PathValue("index")))
		return
	}

	raw, ok := s.decodeURL(w, r)
	if !ok {
		return
	}

	id, err := s.registry.UpdateAt(pos, raw)
	if err != nil {
		s.writeRegistryError(w, err)
		return
	}

	s.logger.Info("endpoint updated", "position", pos, "url", id)
	s.writeJSON(w, http.StatusOK, websiteResponse{URL: id})
}

func (s *Server) handleReorderWebsites(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.From == nil || req.To == nil {
		s.writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	if err := s.registry.Move(*req.From, *req.To); err != nil {
		s.writeRegistryError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, s.registry.List())
}

// decodeURL reads a {"url": ...} body. On failure it writes a 400 and
// returns false.
func (s *Server) decodeURL(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req websiteRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	if req.URL == "" {
		s.writeError(w, http.StatusBadRequest, "url is required")
		return "", false
	}
	return req.URL, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeRegistryError maps registry sentinel errors onto status codes.
func (s *Server) writeRegistryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrInvalidURL), errors.Is(err, store.ErrDuplicateEndpoint):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("registry operation failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, errorResponse{Message: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
