package stats

import (
	"study-log-backend/internal/models"
)

// Aggregate computes one aggregate per user present in records.
// Invalid records are skipped and returned so the caller can report them;
// they never contribute to any sum.
func Aggregate(records []models.StudyRecord) (map[string]models.Aggregate, []RecordError) {
	valid, rejected := Partition(records)

	byUser := groupByUser(valid)
	aggs := make(map[string]models.Aggregate, len(byUser))
	for userID, owned := range byUser {
		agg := Summarize(owned)
		agg.UserID = userID
		aggs[userID] = agg
	}
	return aggs, rejected
}

// Summarize totals a set of records that are assumed to be valid.
// The average is zero when there are no records.
func Summarize(records []models.StudyRecord) models.Aggregate {
	var agg models.Aggregate
	for _, r := range records {
		agg.TotalHours += r.Hours
	}
	agg.StudyDays = len(records)
	if agg.StudyDays > 0 {
		agg.AverageHours = agg.TotalHours / float64(agg.StudyDays)
	}
	return agg
}

func groupByUser(records []models.StudyRecord) map[string][]models.StudyRecord {
	groups := make(map[string][]models.StudyRecord)
	for _, r := range records {
		groups[r.UserID] = append(groups[r.UserID], r)
	}
	return groups
}
