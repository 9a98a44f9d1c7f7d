package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/soundcheck-labs/constellation/internal/align"
	"github.com/soundcheck-labs/constellation/internal/audio"
	"github.com/soundcheck-labs/constellation/pkg/acousticdna"
	"github.com/soundcheck-labs/constellation/pkg/logger"
)

// maxUploadBytes is the per-request body limit: 32 MiB.
const maxUploadBytes = 32 * 1024 * 1024

// Server encapsulates the HTTP server and its dependencies.
type Server struct {
	service *acousticdna.Service
	config  *ServerConfig
	log     acousticdna.Logger
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port           int
	AllowedOrigins []string
}

// NewServer creates a new server instance.
func NewServer(service *acousticdna.Service, config *ServerConfig) *Server {
	return &Server{
		service: service,
		config:  config,
		log:     logger.GetLogger(),
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("failed to encode JSON response: %v", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, statusCode int, reason string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	w.Write([]byte(reason))
}

// handleRoot handles GET /.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Write([]byte("OK"))
}

// handleUploadReference handles POST /api/reference: a multipart upload
// with one MP3 file field, returning the assigned reference id.
func (s *Server) handleUploadReference(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusBadRequest, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing multipart file field")
		return
	}
	defer file.Close()

	id, err := s.service.IngestReference(r.Context(), file)
	if err != nil {
		s.writeAnalyzeError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"id": id})
}

// handleCompare handles POST /api/reference/{id}/compare: a multipart
// upload with one MP3 sample file field, returning the offset report in
// seconds.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	id, ok := parseCompareID(r.URL.Path)
	if !ok || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing multipart file field")
		return
	}
	defer file.Close()

	result, err := s.service.Compare(r.Context(), id, file)
	if err != nil {
		if errors.Is(err, acousticdna.ErrUnknownReference) {
			s.respondError(w, http.StatusNotFound, "unknown reference id")
			return
		}
		s.writeAnalyzeError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]float64{
		"offset_seconds":             result.OffsetSeconds,
		"sample_first_match_seconds": result.SampleFirstMatchSeconds,
	})
}

// writeAnalyzeError maps the pipeline's sentinel errors onto the status
// codes the façade contract specifies: 400 for decode/empty/no-match
// failures, 500 for anything else.
func (s *Server) writeAnalyzeError(w http.ResponseWriter, err error) {
	var decErr *audio.DecodeError
	switch {
	case errors.Is(err, acousticdna.ErrEmptyInput):
		s.respondError(w, http.StatusBadRequest, "empty input")
	case errors.Is(err, align.ErrNoMatches):
		s.respondError(w, http.StatusBadRequest, "no alignment")
	case errors.As(err, &decErr):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Errorf("internal error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseCompareID extracts {id} from "/api/reference/{id}/compare".
func parseCompareID(path string) (string, bool) {
	const prefix = "/api/reference/"
	const suffix = "/compare"
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(path, prefix), suffix)
	if id == "" {
		return "", false
	}
	return id, true
}
