package services

import (
	"errors"
	"net/http"

	"study-log-backend/internal/stats"
)

var (
	ErrUserIDRequired = errors.New("user_id is required")
	ErrUserNotFound   = errors.New("user not found")
	ErrNameRequired   = errors.New("name is required")
	ErrNameTooLong    = errors.New("name is too long")
	ErrNameTaken      = errors.New("name is already taken")
	ErrNoStudyHours   = errors.New("at least one day with study hours is required")
	ErrInvalidDate    = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidHours   = errors.New("invalid study hours, expected 0 to 24")
	ErrCommentInvalid = errors.New("invalid comment")
	ErrFileRequired   = errors.New("file is required")
	ErrFileNotImage   = errors.New("only image files can be uploaded")
	ErrFileTooLarge   = errors.New("file is too large")
	ErrNotRanked      = errors.New("user has no ranking yet")
)

// ErrorMap maps service errors to HTTP status codes
var ErrorMap = map[error]int{
	ErrUserIDRequired:        http.StatusBadRequest,
	ErrUserNotFound:          http.StatusNotFound,
	ErrNameRequired:          http.StatusBadRequest,
	ErrNameTooLong:           http.StatusBadRequest,
	ErrNameTaken:             http.StatusConflict,
	ErrNoStudyHours:          http.StatusBadRequest,
	ErrInvalidDate:           http.StatusBadRequest,
	ErrInvalidHours:          http.StatusBadRequest,
	ErrCommentInvalid:        http.StatusBadRequest,
	ErrFileRequired:          http.StatusBadRequest,
	ErrFileNotImage:          http.StatusBadRequest,
	ErrFileTooLarge:          http.StatusRequestEntityTooLarge,
	ErrNotRanked:             http.StatusNotFound,
	stats.ErrDataUnavailable: http.StatusServiceUnavailable,
}

// StatusCode returns the HTTP status for err together with the service error
// it matched, or 500 and nil when err is not a known service error.
func StatusCode(err error) (int, error) {
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, target
		}
	}
	return http.StatusInternalServerError, nil
}
