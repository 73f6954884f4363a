package handlers

import (
	"errors"
	"net/http"

	"study-log-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// multipart framing allowance on top of the file itself
const formOverhead = 64 << 10

// PhotoHandler handles photo-related HTTP requests
type PhotoHandler struct {
	photoService *services.PhotoService
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
	}
}

// UploadPhoto handles POST /api/v1/photos
func (h *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.photoService.MaxUploadBytes()+formOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			respondServiceError(w, services.ErrFileTooLarge, "upload photo")
		case errors.Is(err, http.ErrMissingFile):
			respondServiceError(w, services.ErrFileRequired, "upload photo")
		default:
			respondError(w, "invalid multipart form", http.StatusBadRequest)
		}
		return
	}
	defer file.Close()

	photo, err := h.photoService.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		log.Warn().
			Err(err).
			Str("filename", header.Filename).
			Int64("size", header.Size).
			Msg("Photo upload rejected")
		respondServiceError(w, err, "upload photo")
		return
	}

	respondJSON(w, photo, http.StatusCreated)
}

// PresignUpload handles POST /api/v1/photos/presign
func (h *PhotoHandler) PresignUpload(w http.ResponseWriter, r *http.Request) {
	var req services.PresignRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	response, err := h.photoService.Presign(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "generate pre-signed URL")
		return
	}

	log.Info().
		Str("path", response.Path).
		Str("filename", req.Filename).
		Msg("Pre-signed URL generated")

	respondJSON(w, response, http.StatusOK)
}
