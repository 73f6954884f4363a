package stats

import (
	"cmp"
	"slices"

	"study-log-backend/internal/models"
)

// Rank orders aggregates by total hours descending, breaking ties by user ID
// ascending, and assigns positional ranks starting at 1. Equal totals still
// get distinct ranks. names maps user IDs to display names; unknown users
// keep an empty name.
func Rank(aggs map[string]models.Aggregate, names map[string]string) []models.RankingEntry {
	entries := make([]models.RankingEntry, 0, len(aggs))
	for userID, agg := range aggs {
		entries = append(entries, models.RankingEntry{
			UserID:       userID,
			Name:         names[userID],
			TotalHours:   agg.TotalHours,
			AverageHours: agg.AverageHours,
			StudyDays:    agg.StudyDays,
		})
	}

	slices.SortFunc(entries, func(a, b models.RankingEntry) int {
		if c := cmp.Compare(b.TotalHours, a.TotalHours); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Find returns the entry for userID, if ranked
func Find(entries []models.RankingEntry, userID string) (models.RankingEntry, bool) {
	i := slices.IndexFunc(entries, func(e models.RankingEntry) bool {
		return e.UserID == userID
	})
	if i < 0 {
		return models.RankingEntry{}, false
	}
	return entries[i], true
}
