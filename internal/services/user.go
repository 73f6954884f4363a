package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"study-log-backend/internal/models"
	"study-log-backend/internal/repository"

	"github.com/google/uuid"
)

// MaxNameLength is the longest nickname accepted, in characters
const MaxNameLength = 30

// UserService handles nickname registration and lookup
type UserService struct {
	userRepo UserStore
	now      func() time.Time
}

// NewUserService creates a new user service
func NewUserService(userRepo UserStore) *UserService {
	return &UserService{
		userRepo: userRepo,
		now:      time.Now,
	}
}

// CreateUser registers a new nickname. Names are trimmed and compared
// case-sensitively.
func (s *UserService) CreateUser(ctx context.Context, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return nil, fmt.Errorf("%w: at most %d characters", ErrNameTooLong, MaxNameLength)
	}

	exists, err := s.userRepo.NameExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check name: %w", err)
	}
	if exists {
		return nil, ErrNameTaken
	}

	now := s.now().UTC()
	user := &models.User{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByName looks a user up by exact nickname
func (s *UserService) GetByName(ctx context.Context, name string) (*models.User, error) {
	user, err := s.userRepo.GetByName(ctx, name)
	if err != nil {
		return nil, userLookupError(err)
	}
	return user, nil
}

// GetByID looks a user up by ID
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, ErrUserIDRequired
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, userLookupError(err)
	}
	return user, nil
}

// ListUsers returns every user, newest first
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func userLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("failed to get user: %w", err)
}
