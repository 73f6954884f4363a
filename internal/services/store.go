package services

import (
	"context"

	"study-log-backend/internal/models"
)

// UserStore persists registered users
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByName(ctx context.Context, name string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	NameExists(ctx context.Context, name string) (bool, error)
}

// RecordStore persists study records, at most one per (user, date)
type RecordStore interface {
	ListAll(ctx context.Context) ([]models.StudyRecord, error)
	ListByUser(ctx context.Context, userID string) ([]models.StudyRecord, error)
	// UpsertBatch atomically inserts records, replacing any stored record with
	// the same (user_id, date), and returns the stored rows.
	UpsertBatch(ctx context.Context, records []models.StudyRecord) ([]models.StudyRecord, error)
}

// CommentStore persists profile comments
type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByUser(ctx context.Context, userID string) ([]models.Comment, error)
}
