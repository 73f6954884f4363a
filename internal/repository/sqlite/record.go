package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"study-log-backend/internal/models"
)

const recordColumns = `id, user_id, date, hours, photo_url, is_part_of_batch, batch_timestamp, created_at`

// RecordDB stores study records
type RecordDB struct {
	conn *sql.DB
}

// ListAll retrieves every study record, most recent date first
func (r *RecordDB) ListAll(ctx context.Context) ([]models.StudyRecord, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM study_records ORDER BY date DESC, user_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing study records: %w", err)
	}
	return scanRecords(rows)
}

// ListByUser retrieves a user's study records, most recent date first
func (r *RecordDB) ListByUser(ctx context.Context, userID string) ([]models.StudyRecord, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM study_records WHERE user_id = ? ORDER BY date DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing study records for %s: %w", userID, err)
	}
	return scanRecords(rows)
}

// UpsertBatch writes all records in one transaction, replacing the row for
// any (user_id, date) that already exists while keeping its ID.
func (r *RecordDB) UpsertBatch(ctx context.Context, records []models.StudyRecord) ([]models.StudyRecord, error) {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	saved := make([]models.StudyRecord, 0, len(records))
	for _, rec := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO study_records (`+recordColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (user_id, date) DO UPDATE SET
				hours = excluded.hours,
				photo_url = excluded.photo_url,
				is_part_of_batch = excluded.is_part_of_batch,
				batch_timestamp = excluded.batch_timestamp,
				created_at = excluded.created_at`,
			rec.ID, rec.UserID, rec.Date, rec.Hours, rec.PhotoURL,
			rec.IsPartOfBatch, rec.BatchTimestamp, rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite: upserting study record for %s: %w", rec.Date, err)
		}

		var out models.StudyRecord
		err = tx.QueryRowContext(ctx,
			`SELECT `+recordColumns+` FROM study_records WHERE user_id = ? AND date = ?`,
			rec.UserID, rec.Date,
		).Scan(
			&out.ID, &out.UserID, &out.Date, &out.Hours, &out.PhotoURL,
			&out.IsPartOfBatch, &out.BatchTimestamp, &out.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite: reading back study record for %s: %w", rec.Date, err)
		}
		saved = append(saved, out)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: committing study records: %w", err)
	}
	return saved, nil
}

func scanRecords(rows *sql.Rows) ([]models.StudyRecord, error) {
	defer rows.Close()

	records := []models.StudyRecord{}
	for rows.Next() {
		var rec models.StudyRecord
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Date, &rec.Hours, &rec.PhotoURL,
			&rec.IsPartOfBatch, &rec.BatchTimestamp, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning study record row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating study records: %w", err)
	}
	return records, nil
}
