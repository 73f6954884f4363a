package stats

import (
	"math"
	"time"

	"study-log-backend/internal/models"
)

// MaxHoursPerDay is the upper bound for a single day's study hours
const MaxHoursPerDay = 24

// ValidateRecord checks that a record can be counted: it must have an owner,
// an ISO calendar date and hours in (0, 24].
func ValidateRecord(r models.StudyRecord) error {
	if r.UserID == "" {
		return &RecordError{Record: r, Reason: "missing user_id"}
	}
	if _, err := time.Parse(models.DateLayout, r.Date); err != nil {
		return &RecordError{Record: r, Reason: "date is not YYYY-MM-DD"}
	}
	if math.IsNaN(r.Hours) || math.IsInf(r.Hours, 0) {
		return &RecordError{Record: r, Reason: "hours is not a number"}
	}
	if r.Hours <= 0 || r.Hours > MaxHoursPerDay {
		return &RecordError{Record: r, Reason: "hours out of range (0, 24]"}
	}
	return nil
}

// Partition splits records into the ones that pass ValidateRecord and the
// errors describing the ones that do not. Input order is preserved.
func Partition(records []models.StudyRecord) ([]models.StudyRecord, []RecordError) {
	valid := make([]models.StudyRecord, 0, len(records))
	var rejected []RecordError
	for _, r := range records {
		if err := ValidateRecord(r); err != nil {
			rejected = append(rejected, *err.(*RecordError))
			continue
		}
		valid = append(valid, r)
	}
	return valid, rejected
}
