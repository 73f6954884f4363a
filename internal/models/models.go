package models

import "time"

// DateLayout is the ISO calendar date format used for study record dates
const DateLayout = "2006-01-02"

// User represents a registered nickname
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StudyRecord represents the hours a user studied on one calendar day
type StudyRecord struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Date           string    `json:"date"`
	Hours          float64   `json:"hours"`
	PhotoURL       *string   `json:"photo_url,omitempty"`
	IsPartOfBatch  bool      `json:"is_part_of_batch"`
	BatchTimestamp *string   `json:"batch_timestamp,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// BatchKey returns the batch timestamp, or "" when the record has none
func (r StudyRecord) BatchKey() string {
	if r.BatchTimestamp == nil {
		return ""
	}
	return *r.BatchTimestamp
}

// Comment represents a note left on a user's profile
type Comment struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	CommenterName string    `json:"commenter_name"`
	CommentText   string    `json:"comment_text"`
	CreatedAt     time.Time `json:"created_at"`
}

// Aggregate is the per-user summary derived from study records
type Aggregate struct {
	UserID       string  `json:"user_id,omitempty"`
	TotalHours   float64 `json:"total_hours"`
	StudyDays    int     `json:"study_days"`
	AverageHours float64 `json:"average_hours"`
}

// RankingEntry is one row of the ranking table
type RankingEntry struct {
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	TotalHours   float64 `json:"total_hours"`
	AverageHours float64 `json:"average_hours"`
	StudyDays    int     `json:"study_days"`
	Rank         int     `json:"rank"`
}

// BatchGroup is a display group of records submitted together, or a single standalone record
type BatchGroup struct {
	IsBatch        bool          `json:"is_batch"`
	BatchTimestamp string        `json:"batch_timestamp,omitempty"`
	Records        []StudyRecord `json:"records"`
	TotalHours     float64       `json:"total_hours"`
	AverageHours   float64       `json:"average_hours"`
}

// SubmissionSummary describes the rows persisted by one submission
type SubmissionSummary struct {
	DaysCount    int     `json:"days_count"`
	TotalHours   float64 `json:"total_hours"`
	AverageHours float64 `json:"average_hours"`
}
