package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Clark-Hu/flopwatch/internal/boxoffice"
	"github.com/Clark-Hu/flopwatch/internal/domain"
	"github.com/Clark-Hu/flopwatch/internal/repository"
)

type flopResponse struct {
	Title      string `json:"title"`
	TotalGross *int64 `json:"totalGross"`
	Threshold  int64  `json:"threshold"`
	Flop       bool   `json:"flop"`
}

type flopReportResponse struct {
	Threshold int64 `json:"threshold"`
	Total     int64 `json:"total"`
	Flops     int64 `json:"flops"`
	Hits      int64 `json:"hits"`
}

// grossRequest keeps totalGross raw so a missing field can be told apart
// from an explicit null.
type grossRequest struct {
	TotalGross json.RawMessage `json:"totalGross"`
}

func (s *Server) handleGetFlop(w http.ResponseWriter, r *http.Request) {
	movie, ok := s.loadMovieByTitle(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, flopResponse{
		Title:      movie.Title,
		TotalGross: movie.TotalGross,
		Threshold:  domain.FlopThreshold,
		Flop:       movie.IsFlop(),
	})
}

func (s *Server) handleSetGross(w http.ResponseWriter, r *http.Request) {
	if !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondUnauthorized(w)
		return
	}

	var req grossRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	totalGross, msg := parseGross(req.TotalGross)
	if msg != "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", msg)
		return
	}

	movie, ok := s.loadMovieByTitle(w, r)
	if !ok {
		return
	}

	updated, err := s.repo.Movies.SetTotalGross(r.Context(), movie.ID, totalGross)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("set total gross for %q failed: %v", movie.Title, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update total gross")
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieResponse(updated))
}

// parseGross returns the decoded gross or a validation message.
func parseGross(raw json.RawMessage) (*int64, string) {
	if len(raw) == 0 {
		return nil, "totalGross is required"
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, ""
	}
	var v int64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, "totalGross must be an integer or null"
	}
	if v < 0 {
		return nil, "totalGross must be non-negative"
	}
	return &v, ""
}

func (s *Server) handleRefreshBoxOffice(w http.ResponseWriter, r *http.Request) {
	if !s.verifyBearer(r.Header.Get("Authorization")) {
		s.respondUnauthorized(w)
		return
	}

	movie, ok := s.loadMovieByTitle(w, r)
	if !ok {
		return
	}

	result, err := s.fetchBoxOffice(r.Context(), movie.Title)
	if err != nil {
		if errors.Is(err, boxoffice.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "No box office data for movie")
			return
		}
		s.logger.Printf("boxoffice refresh failed for %s: %v", movie.Title, err)
		s.respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Box office service unavailable")
		return
	}

	updated, err := s.repo.Movies.UpdateMetadata(r.Context(), movie.ID, repository.MovieMetadataParams{
		Distributor: firstNonNil(movie.Distributor, result.Distributor),
		Budget:      firstNonNil(movie.Budget, result.Budget),
		MpaRating:   firstNonNil(movie.MpaRating, result.MpaRating),
		TotalGross:  result.TotalGross(),
		BoxOffice:   result.BoxOffice,
	})
	if err != nil {
		s.logger.Printf("update movie metadata failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to refresh box office")
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieResponse(updated))
}

func (s *Server) handleFlopReport(w http.ResponseWriter, r *http.Request) {
	summary, err := s.repo.Movies.FlopSummary(r.Context())
	if err != nil {
		s.logger.Printf("flop report error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build flop report")
		return
	}
	s.respondJSON(w, http.StatusOK, flopReportResponse{
		Threshold: summary.Threshold,
		Total:     summary.Total,
		Flops:     summary.Flops,
		Hits:      summary.Hits,
	})
}
