package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"study-log-backend/internal/models"
)

// CommentDB stores profile comments
type CommentDB struct {
	conn *sql.DB
}

// Create inserts a comment
func (c *CommentDB) Create(ctx context.Context, comment *models.Comment) error {
	_, err := c.conn.ExecContext(ctx,
		`INSERT INTO comments (id, user_id, commenter_name, comment_text, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		comment.ID, comment.UserID, comment.CommenterName, comment.CommentText, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating comment: %w", err)
	}
	return nil
}

// ListByUser retrieves the comments on a user's profile, newest first
func (c *CommentDB) ListByUser(ctx context.Context, userID string) ([]models.Comment, error) {
	rows, err := c.conn.QueryContext(ctx,
		`SELECT id, user_id, commenter_name, comment_text, created_at
		 FROM comments WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var cm models.Comment
		if err := rows.Scan(&cm.ID, &cm.UserID, &cm.CommenterName, &cm.CommentText, &cm.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, cm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}
	return comments, nil
}
