package stats

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-log-backend/internal/models"
)

func strPtr(s string) *string { return &s }

func record(userID, date string, hours float64, batch string) models.StudyRecord {
	r := models.StudyRecord{
		ID:     userID + "-" + date,
		UserID: userID,
		Date:   date,
		Hours:  hours,
	}
	if batch != "" {
		r.IsPartOfBatch = true
		r.BatchTimestamp = strPtr(batch)
	}
	return r
}

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		name    string
		rec     models.StudyRecord
		wantErr bool
	}{
		{"valid", record("u1", "2024-01-01", 2.5, ""), false},
		{"full day", record("u1", "2024-01-01", 24, ""), false},
		{"missing user", record("", "2024-01-01", 1, ""), true},
		{"bad date", record("u1", "01/02/2024", 1, ""), true},
		{"zero hours", record("u1", "2024-01-01", 0, ""), true},
		{"negative hours", record("u1", "2024-01-01", -1, ""), true},
		{"over a day", record("u1", "2024-01-01", 24.5, ""), true},
		{"nan hours", record("u1", "2024-01-01", math.NaN(), ""), true},
		{"inf hours", record("u1", "2024-01-01", math.Inf(1), ""), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord(tt.rec)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRecord))
			var recErr *RecordError
			require.True(t, errors.As(err, &recErr))
			assert.Equal(t, tt.rec.ID, recErr.Record.ID)
		})
	}
}

func TestAggregate(t *testing.T) {
	records := []models.StudyRecord{
		record("a", "2024-01-01", 4, ""),
		record("b", "2024-01-01", 5, "T1"),
		record("a", "2024-01-02", 6, ""),
		record("b", "2024-01-02", 5, "T1"),
		record("b", "2024-01-03", 5, ""),
	}

	aggs, rejected := Aggregate(records)
	assert.Empty(t, rejected)
	require.Len(t, aggs, 2)

	assert.Equal(t, models.Aggregate{UserID: "a", TotalHours: 10, StudyDays: 2, AverageHours: 5}, aggs["a"])
	assert.Equal(t, models.Aggregate{UserID: "b", TotalHours: 15, StudyDays: 3, AverageHours: 5}, aggs["b"])

	days := 0
	for _, agg := range aggs {
		days += agg.StudyDays
		assert.Equal(t, agg.TotalHours/float64(agg.StudyDays), agg.AverageHours)
	}
	assert.Equal(t, len(records), days)
}

func TestAggregate_SkipsInvalidRecords(t *testing.T) {
	records := []models.StudyRecord{
		record("a", "2024-01-01", 3, ""),
		record("a", "2024-01-02", 0, ""),
		record("b", "not-a-date", 2, ""),
	}

	aggs, rejected := Aggregate(records)
	require.Len(t, rejected, 2)
	for _, r := range rejected {
		assert.ErrorIs(t, &r, ErrInvalidRecord)
	}

	require.Len(t, aggs, 1)
	assert.Equal(t, 3.0, aggs["a"].TotalHours)
	assert.Equal(t, 1, aggs["a"].StudyDays)
	_, ok := aggs["b"]
	assert.False(t, ok, "user with only invalid records must not be aggregated")
}

func TestAggregate_Empty(t *testing.T) {
	aggs, rejected := Aggregate(nil)
	assert.Empty(t, aggs)
	assert.Empty(t, rejected)
}

func TestSummarize_NoRecords(t *testing.T) {
	assert.Equal(t, models.Aggregate{}, Summarize(nil))
}

func TestRank_OrdersByTotalHours(t *testing.T) {
	aggs := map[string]models.Aggregate{
		"a": {UserID: "a", TotalHours: 10, StudyDays: 2, AverageHours: 5},
		"b": {UserID: "b", TotalHours: 15, StudyDays: 3, AverageHours: 5},
	}
	names := map[string]string{"a": "alice", "b": "bob"}

	got := Rank(aggs, names)
	want := []models.RankingEntry{
		{UserID: "b", Name: "bob", TotalHours: 15, AverageHours: 5, StudyDays: 3, Rank: 1},
		{UserID: "a", Name: "alice", TotalHours: 10, AverageHours: 5, StudyDays: 2, Rank: 2},
	}
	assert.Equal(t, want, got)
}

func TestRank_TiesBreakByUserID(t *testing.T) {
	aggs := map[string]models.Aggregate{
		"zed":   {TotalHours: 8, StudyDays: 2, AverageHours: 4},
		"amy":   {TotalHours: 8, StudyDays: 4, AverageHours: 2},
		"mia":   {TotalHours: 12, StudyDays: 3, AverageHours: 4},
		"bruno": {TotalHours: 1, StudyDays: 1, AverageHours: 1},
	}

	for i := 0; i < 20; i++ {
		got := Rank(aggs, nil)
		require.Len(t, got, 4)
		ids := []string{got[0].UserID, got[1].UserID, got[2].UserID, got[3].UserID}
		assert.Equal(t, []string{"mia", "amy", "zed", "bruno"}, ids)
		for pos, e := range got {
			assert.Equal(t, pos+1, e.Rank)
			if pos > 0 {
				assert.GreaterOrEqual(t, got[pos-1].TotalHours, e.TotalHours)
			}
		}
	}
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(map[string]models.Aggregate{}, nil))
}

func TestFind(t *testing.T) {
	entries := []models.RankingEntry{{UserID: "a", Rank: 1}, {UserID: "b", Rank: 2}}

	e, ok := Find(entries, "b")
	assert.True(t, ok)
	assert.Equal(t, 2, e.Rank)

	_, ok = Find(entries, "c")
	assert.False(t, ok)
}

func dates(g models.BatchGroup) []string {
	out := make([]string, len(g.Records))
	for i, r := range g.Records {
		out[i] = r.Date
	}
	return out
}

func TestGroupBatches_BatchThenStandalone(t *testing.T) {
	records := []models.StudyRecord{
		record("u", "2024-01-01", 1, ""),
		record("u", "2024-01-03", 2, "T1"),
		record("u", "2024-01-02", 3, "T1"),
	}

	groups := GroupBatches(records)
	require.Len(t, groups, 2)

	assert.True(t, groups[0].IsBatch)
	assert.Equal(t, "T1", groups[0].BatchTimestamp)
	assert.Equal(t, []string{"2024-01-03", "2024-01-02"}, dates(groups[0]))
	assert.Equal(t, 5.0, groups[0].TotalHours)
	assert.Equal(t, 2.5, groups[0].AverageHours)

	assert.False(t, groups[1].IsBatch)
	assert.Equal(t, []string{"2024-01-01"}, dates(groups[1]))
}

func TestGroupBatches_SplitsInterleavedBatches(t *testing.T) {
	records := []models.StudyRecord{
		record("u", "2024-01-06", 1, "T2"),
		record("u", "2024-01-05", 1, "T2"),
		record("u", "2024-01-04", 1, "T1"),
		record("u", "2024-01-03", 1, ""),
		record("u", "2024-01-02", 1, "T1"),
		record("u", "2024-01-01", 1, "T1"),
	}

	groups := GroupBatches(records)
	require.Len(t, groups, 4)

	assert.True(t, groups[0].IsBatch)
	assert.Equal(t, []string{"2024-01-06", "2024-01-05"}, dates(groups[0]))

	// a lone survivor of T1 above the standalone record is not shown as a batch
	assert.False(t, groups[1].IsBatch)
	assert.Equal(t, "T1", groups[1].BatchTimestamp)
	assert.Equal(t, []string{"2024-01-04"}, dates(groups[1]))

	assert.False(t, groups[2].IsBatch)
	assert.Equal(t, []string{"2024-01-03"}, dates(groups[2]))

	assert.True(t, groups[3].IsBatch)
	assert.Equal(t, []string{"2024-01-02", "2024-01-01"}, dates(groups[3]))
}

func TestGroupBatches_BatchFlagWithoutTimestampStandsAlone(t *testing.T) {
	broken := record("u", "2024-01-02", 2, "")
	broken.IsPartOfBatch = true
	empty := record("u", "2024-01-01", 2, "")
	empty.IsPartOfBatch = true
	empty.BatchTimestamp = strPtr("")

	groups := GroupBatches([]models.StudyRecord{broken, empty})
	require.Len(t, groups, 2)
	for _, g := range groups {
		assert.False(t, g.IsBatch)
		assert.Len(t, g.Records, 1)
		assert.Empty(t, g.BatchTimestamp)
	}
}

func TestGroupBatches_ConservesRecords(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var records []models.StudyRecord
	for i := 0; i < 30; i++ {
		batch := ""
		switch i % 7 {
		case 0, 1, 2:
			batch = "A"
		case 4, 5:
			batch = "B"
		}
		records = append(records, record("u", base.AddDate(0, 0, i).Format(models.DateLayout), float64(i%5+1), batch))
	}
	// reverse-ish input order
	shuffled := append(append([]models.StudyRecord{}, records[15:]...), records[:15]...)

	groups := GroupBatches(shuffled)

	var flat []string
	for _, g := range groups {
		flat = append(flat, dates(g)...)
		if g.IsBatch {
			require.GreaterOrEqual(t, len(g.Records), MinBatchSize)
			for _, r := range g.Records {
				assert.Equal(t, g.BatchTimestamp, r.BatchKey())
			}
		}
	}
	require.Len(t, flat, len(records))
	for i := 1; i < len(flat); i++ {
		assert.Greater(t, flat[i-1], flat[i], "groups must keep newest-first order")
	}
}

func TestGroupBatches_DoesNotMutateInput(t *testing.T) {
	records := []models.StudyRecord{
		record("u", "2024-01-01", 1, "T"),
		record("u", "2024-01-02", 1, "T"),
	}
	GroupBatches(records)
	assert.Equal(t, "2024-01-01", records[0].Date)
}

func TestGroupBatches_Empty(t *testing.T) {
	assert.Empty(t, GroupBatches(nil))
}
