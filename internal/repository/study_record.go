package repository

import (
	"context"
	"fmt"

	"study-log-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const recordColumns = `id, user_id, date::text, hours::float8, photo_url, is_part_of_batch, batch_timestamp, created_at`

// StudyRecordRepository handles database operations for study records
type StudyRecordRepository struct {
	db *pgxpool.Pool
}

// NewStudyRecordRepository creates a new study record repository
func NewStudyRecordRepository(db *pgxpool.Pool) *StudyRecordRepository {
	return &StudyRecordRepository{db: db}
}

// ListAll retrieves every study record, most recent date first
func (r *StudyRecordRepository) ListAll(ctx context.Context) ([]models.StudyRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM study_records
		ORDER BY date DESC, user_id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list study records: %w", err)
	}
	return collectRecords(rows)
}

// ListByUser retrieves a user's study records, most recent date first
func (r *StudyRecordRepository) ListByUser(ctx context.Context, userID string) ([]models.StudyRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM study_records
		WHERE user_id = $1
		ORDER BY date DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list study records for user: %w", err)
	}
	return collectRecords(rows)
}

// UpsertBatch writes all records in one transaction. A record for a
// (user_id, date) that already exists replaces the stored row but keeps its ID.
// The stored rows are returned in input order.
func (r *StudyRecordRepository) UpsertBatch(ctx context.Context, records []models.StudyRecord) ([]models.StudyRecord, error) {
	query := `
		INSERT INTO study_records (id, user_id, date, hours, photo_url, is_part_of_batch, batch_timestamp, created_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, date) DO UPDATE SET
			hours = EXCLUDED.hours,
			photo_url = EXCLUDED.photo_url,
			is_part_of_batch = EXCLUDED.is_part_of_batch,
			batch_timestamp = EXCLUDED.batch_timestamp,
			created_at = EXCLUDED.created_at
		RETURNING ` + recordColumns

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	saved := make([]models.StudyRecord, 0, len(records))
	for _, rec := range records {
		var out models.StudyRecord
		err := tx.QueryRow(ctx, query,
			rec.ID, rec.UserID, rec.Date, rec.Hours, rec.PhotoURL,
			rec.IsPartOfBatch, rec.BatchTimestamp, rec.CreatedAt,
		).Scan(
			&out.ID, &out.UserID, &out.Date, &out.Hours, &out.PhotoURL,
			&out.IsPartOfBatch, &out.BatchTimestamp, &out.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to upsert study record for %s: %w", rec.Date, err)
		}
		saved = append(saved, out)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit study records: %w", err)
	}
	return saved, nil
}

func collectRecords(rows pgx.Rows) ([]models.StudyRecord, error) {
	defer rows.Close()

	records := []models.StudyRecord{}
	for rows.Next() {
		var rec models.StudyRecord
		err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Date, &rec.Hours, &rec.PhotoURL,
			&rec.IsPartOfBatch, &rec.BatchTimestamp, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan study record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating study records: %w", err)
	}

	return records, nil
}
