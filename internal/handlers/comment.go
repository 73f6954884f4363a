package handlers

import (
	"net/http"

	"study-log-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// CommentHandler handles profile comment HTTP requests
type CommentHandler struct {
	commentService *services.CommentService
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// CreateCommentRequest represents the request body for a new comment
type CreateCommentRequest struct {
	CommenterName string `json:"commenter_name" validate:"required,max=30"`
	CommentText   string `json:"comment_text" validate:"required,max=500"`
}

// CreateComment handles POST /api/v1/users/{user_id}/comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	var req CreateCommentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	comment, err := h.commentService.AddComment(r.Context(), userID, req.CommenterName, req.CommentText)
	if err != nil {
		respondServiceError(w, err, "create comment")
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("comment_id", comment.ID).
		Msg("Comment created")

	respondJSON(w, map[string]any{"comment": comment}, http.StatusCreated)
}

// ListComments handles GET /api/v1/users/{user_id}/comments
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.ListComments(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		respondServiceError(w, err, "list comments")
		return
	}
	respondJSON(w, map[string]any{"comments": comments}, http.StatusOK)
}
