package services

import (
	"context"
	"fmt"

	"study-log-backend/internal/models"
	"study-log-backend/internal/stats"
)

// RankingService builds the ranking table from the full record set
type RankingService struct {
	recordRepo RecordStore
	userRepo   UserStore
}

// NewRankingService creates a new ranking service
func NewRankingService(recordRepo RecordStore, userRepo UserStore) *RankingService {
	return &RankingService{
		recordRepo: recordRepo,
		userRepo:   userRepo,
	}
}

// Rankings aggregates every record per user and ranks users by total hours.
// A failed fetch aborts with stats.ErrDataUnavailable rather than returning a
// partial table.
func (s *RankingService) Rankings(ctx context.Context) ([]models.RankingEntry, error) {
	records, err := s.recordRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", stats.ErrDataUnavailable, err)
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", stats.ErrDataUnavailable, err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	aggs, rejected := stats.Aggregate(records)
	logRejected(rejected)

	return stats.Rank(aggs, names), nil
}

// UserRanking returns the ranking entry of one user
func (s *RankingService) UserRanking(ctx context.Context, userID string) (*models.RankingEntry, error) {
	entries, err := s.Rankings(ctx)
	if err != nil {
		return nil, err
	}
	entry, ok := stats.Find(entries, userID)
	if !ok {
		return nil, ErrNotRanked
	}
	return &entry, nil
}
