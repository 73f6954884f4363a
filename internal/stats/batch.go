package stats

import (
	"cmp"
	"slices"

	"study-log-backend/internal/models"
)

// MinBatchSize is the number of records a run needs to be shown as one batch
const MinBatchSize = 2

// GroupBatches splits one user's records into display groups, newest first.
//
// Records are sorted by date descending and scanned once. Consecutive records
// flagged as part of a batch with the same batch timestamp form one run; any
// other record closes the current run and stands alone. A run is reported as a
// batch only when it has at least MinBatchSize members. Concatenating the
// records of all groups yields the sorted input exactly once.
func GroupBatches(records []models.StudyRecord) []models.BatchGroup {
	sorted := slices.Clone(records)
	sortNewestFirst(sorted)

	var (
		groups []models.BatchGroup
		run    []models.StudyRecord
	)
	flush := func() {
		if len(run) == 0 {
			return
		}
		groups = append(groups, newGroup(run))
		run = nil
	}

	for _, r := range sorted {
		if !inBatch(r) {
			flush()
			groups = append(groups, newGroup([]models.StudyRecord{r}))
			continue
		}
		if len(run) > 0 && run[0].BatchKey() != r.BatchKey() {
			flush()
		}
		run = append(run, r)
	}
	flush()

	return groups
}

// inBatch treats a batch flag without a timestamp as a standalone record
func inBatch(r models.StudyRecord) bool {
	return r.IsPartOfBatch && r.BatchKey() != ""
}

func newGroup(members []models.StudyRecord) models.BatchGroup {
	members = slices.Clone(members)
	sortNewestFirst(members)

	agg := Summarize(members)
	g := models.BatchGroup{
		Records:      members,
		TotalHours:   agg.TotalHours,
		AverageHours: agg.AverageHours,
	}
	if inBatch(members[0]) {
		g.BatchTimestamp = members[0].BatchKey()
		g.IsBatch = len(members) >= MinBatchSize
	}
	return g
}

// sortNewestFirst orders by ISO date descending. Dates are unique per user, the
// remaining keys only make the order total.
func sortNewestFirst(records []models.StudyRecord) {
	slices.SortStableFunc(records, func(a, b models.StudyRecord) int {
		if c := cmp.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
