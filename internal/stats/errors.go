package stats

import (
	"errors"
	"fmt"

	"study-log-backend/internal/models"
)

var (
	// ErrDataUnavailable reports that the record snapshot could not be fetched
	ErrDataUnavailable = errors.New("study records unavailable")
	// ErrInvalidRecord reports a record that cannot take part in aggregation
	ErrInvalidRecord = errors.New("invalid study record")
)

// RecordError describes a record that was skipped during aggregation
type RecordError struct {
	Record models.StudyRecord
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s %q (user %q, date %q): %s",
		ErrInvalidRecord, e.Record.ID, e.Record.UserID, e.Record.Date, e.Reason)
}

func (e *RecordError) Unwrap() error {
	return ErrInvalidRecord
}
