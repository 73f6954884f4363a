package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"study-log-backend/internal/models"

	"github.com/google/uuid"
)

const (
	MaxCommenterNameLength = 30
	MaxCommentLength       = 500
)

// CommentService handles comments left on user profiles
type CommentService struct {
	commentRepo CommentStore
	users       *UserService
	now         func() time.Time
}

// NewCommentService creates a new comment service
func NewCommentService(commentRepo CommentStore, users *UserService) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		users:       users,
		now:         time.Now,
	}
}

// AddComment appends a comment to userID's profile. The commenter name is
// free text and need not belong to a registered user.
func (s *CommentService) AddComment(ctx context.Context, userID, commenterName, text string) (*models.Comment, error) {
	commenterName = strings.TrimSpace(commenterName)
	text = strings.TrimSpace(text)

	switch {
	case commenterName == "":
		return nil, fmt.Errorf("%w: commenter_name is required", ErrCommentInvalid)
	case text == "":
		return nil, fmt.Errorf("%w: comment_text is required", ErrCommentInvalid)
	case utf8.RuneCountInString(commenterName) > MaxCommenterNameLength:
		return nil, fmt.Errorf("%w: commenter_name exceeds %d characters", ErrCommentInvalid, MaxCommenterNameLength)
	case utf8.RuneCountInString(text) > MaxCommentLength:
		return nil, fmt.Errorf("%w: comment_text exceeds %d characters", ErrCommentInvalid, MaxCommentLength)
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:            uuid.New().String(),
		UserID:        userID,
		CommenterName: commenterName,
		CommentText:   text,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// ListComments returns the comments on userID's profile, newest first
func (s *CommentService) ListComments(ctx context.Context, userID string) ([]models.Comment, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}
