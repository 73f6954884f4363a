package handlers

import (
	"net/http"

	"study-log-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// RankingHandler serves the ranking table
type RankingHandler struct {
	rankingService *services.RankingService
}

// NewRankingHandler creates a new ranking handler
func NewRankingHandler(rankingService *services.RankingService) *RankingHandler {
	return &RankingHandler{
		rankingService: rankingService,
	}
}

// GetRankings handles GET /api/v1/ranking
func (h *RankingHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	rankings, err := h.rankingService.Rankings(r.Context())
	if err != nil {
		respondServiceError(w, err, "compute ranking")
		return
	}
	respondJSON(w, map[string]any{"rankings": rankings}, http.StatusOK)
}

// GetUserRanking handles GET /api/v1/ranking/{user_id}
func (h *RankingHandler) GetUserRanking(w http.ResponseWriter, r *http.Request) {
	entry, err := h.rankingService.UserRanking(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		respondServiceError(w, err, "compute ranking")
		return
	}
	respondJSON(w, map[string]any{"ranking": entry}, http.StatusOK)
}
