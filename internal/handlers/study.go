package handlers

import (
	"net/http"

	"study-log-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// StudyHandler handles study record HTTP requests
type StudyHandler struct {
	studyService *services.StudyService
}

// NewStudyHandler creates a new study handler
func NewStudyHandler(studyService *services.StudyService) *StudyHandler {
	return &StudyHandler{
		studyService: studyService,
	}
}

// SubmitRequest represents the request body for a study submission
type SubmitRequest struct {
	UserID    string             `json:"user_id" validate:"required"`
	StudyData map[string]float64 `json:"study_data" validate:"required"`
	PhotoURL  string             `json:"photo_url" validate:"omitempty,url"`
}

// Submit handles POST /api/v1/study-records
func (h *StudyHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.studyService.Submit(r.Context(), services.Submission{
		UserID:    req.UserID,
		StudyData: req.StudyData,
		PhotoURL:  req.PhotoURL,
	})
	if err != nil {
		respondServiceError(w, err, "save study records")
		return
	}

	respondJSON(w, result, http.StatusCreated)
}

// ListRecords handles GET /api/v1/study-records
func (h *StudyHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.studyService.ListAll(r.Context())
	if err != nil {
		respondServiceError(w, err, "list study records")
		return
	}
	respondJSON(w, map[string]any{"records": records}, http.StatusOK)
}

// UserHistory handles GET /api/v1/study-records/{user_id}
func (h *StudyHandler) UserHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.studyService.UserHistory(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		respondServiceError(w, err, "get study history")
		return
	}
	respondJSON(w, history, http.StatusOK)
}
