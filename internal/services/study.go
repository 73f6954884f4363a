package services

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"study-log-backend/internal/models"
	"study-log-backend/internal/stats"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// SubmissionListener is told about every saved submission
type SubmissionListener interface {
	SubmissionSaved(ctx context.Context, userID string)
}

// StudyService handles study hour submissions and per-user history
type StudyService struct {
	recordRepo RecordStore
	users      *UserService
	listener   SubmissionListener
	now        func() time.Time
}

// NewStudyService creates a new study service. listener may be nil.
func NewStudyService(recordRepo RecordStore, users *UserService, listener SubmissionListener) *StudyService {
	return &StudyService{
		recordRepo: recordRepo,
		users:      users,
		listener:   listener,
		now:        time.Now,
	}
}

// Submission is one user action recording hours for one or more dates
type Submission struct {
	UserID    string
	StudyData map[string]float64
	PhotoURL  string
}

// SubmissionResult holds the stored rows of a submission
type SubmissionResult struct {
	Records []models.StudyRecord     `json:"records"`
	Summary models.SubmissionSummary `json:"summary"`
}

// UserHistory is a user's records with their aggregate and display groups
type UserHistory struct {
	Records []models.StudyRecord `json:"records"`
	Stats   models.Aggregate     `json:"stats"`
	Groups  []models.BatchGroup  `json:"groups"`
}

// Submit validates and stores a submission. Days with zero hours are
// dropped; every stored row shares one batch timestamp and is flagged as part
// of a batch when more than one row is stored. A date that already has a
// record for the user is overwritten.
func (s *StudyService) Submit(ctx context.Context, sub Submission) (*SubmissionResult, error) {
	if sub.UserID == "" {
		return nil, ErrUserIDRequired
	}
	if len(sub.StudyData) == 0 {
		return nil, ErrNoStudyHours
	}

	dates := make([]string, 0, len(sub.StudyData))
	for date, hours := range sub.StudyData {
		if _, err := time.Parse(models.DateLayout, date); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
		}
		if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 || hours > stats.MaxHoursPerDay {
			return nil, fmt.Errorf("%w: %v on %s", ErrInvalidHours, hours, date)
		}
		if hours > 0 {
			dates = append(dates, date)
		}
	}
	if len(dates) == 0 {
		return nil, ErrNoStudyHours
	}
	slices.Sort(dates)

	if _, err := s.users.GetByID(ctx, sub.UserID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	batchTimestamp := now.Format(time.RFC3339Nano)
	var photoURL *string
	if p := strings.TrimSpace(sub.PhotoURL); p != "" {
		photoURL = &p
	}

	records := make([]models.StudyRecord, 0, len(dates))
	for _, date := range dates {
		ts := batchTimestamp
		records = append(records, models.StudyRecord{
			ID:             uuid.New().String(),
			UserID:         sub.UserID,
			Date:           date,
			Hours:          sub.StudyData[date],
			PhotoURL:       photoURL,
			IsPartOfBatch:  len(dates) > 1,
			BatchTimestamp: &ts,
			CreatedAt:      now,
		})
	}

	saved, err := s.recordRepo.UpsertBatch(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("failed to save study records: %w", err)
	}

	agg := stats.Summarize(saved)
	log.Info().
		Str("user_id", sub.UserID).
		Int("days", agg.StudyDays).
		Float64("hours", agg.TotalHours).
		Msg("Study records saved")

	if s.listener != nil {
		s.listener.SubmissionSaved(ctx, sub.UserID)
	}

	return &SubmissionResult{
		Records: saved,
		Summary: models.SubmissionSummary{
			DaysCount:    agg.StudyDays,
			TotalHours:   agg.TotalHours,
			AverageHours: agg.AverageHours,
		},
	}, nil
}

// ListAll returns every stored record, most recent date first
func (s *StudyService) ListAll(ctx context.Context) ([]models.StudyRecord, error) {
	records, err := s.recordRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", stats.ErrDataUnavailable, err)
	}
	return records, nil
}

// UserHistory returns a user's records, newest first, with their aggregate
// and batch grouping. Malformed rows are left out and logged.
func (s *StudyService) UserHistory(ctx context.Context, userID string) (*UserHistory, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	records, err := s.recordRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", stats.ErrDataUnavailable, err)
	}

	valid, rejected := stats.Partition(records)
	logRejected(rejected)

	groups := stats.GroupBatches(valid)
	ordered := make([]models.StudyRecord, 0, len(valid))
	for _, g := range groups {
		ordered = append(ordered, g.Records...)
	}

	agg := stats.Summarize(valid)
	agg.UserID = userID

	return &UserHistory{
		Records: ordered,
		Stats:   agg,
		Groups:  groups,
	}, nil
}

func logRejected(rejected []stats.RecordError) {
	for _, r := range rejected {
		log.Warn().
			Str("record_id", r.Record.ID).
			Str("user_id", r.Record.UserID).
			Str("date", r.Record.Date).
			Str("reason", r.Reason).
			Msg("Skipping invalid study record")
	}
}
