package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/maheshrc27/socialnet-api/internal/models"
)

type PublishHistoryRepository interface {
	Create(ctx context.Context, ph *models.PublishHistory) (int64, error)
	GetByUserID(ctx context.Context, userID int64) ([]*models.PublishHistory, error)
}

type publishHistoryRepository struct {
	db *sql.DB
}

func NewPublishHistoryRepository(db *sql.DB) PublishHistoryRepository {
	return &publishHistoryRepository{db: db}
}

func (r *publishHistoryRepository) Create(ctx context.Context, ph *models.PublishHistory) (int64, error) {
	query := `
		INSERT INTO publish_history (user_id, scheduled_post_id, post_id, trigger, error_message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var postID sql.NullInt64
	if ph.PostID != 0 {
		postID = sql.NullInt64{Int64: ph.PostID, Valid: true}
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query, ph.UserID, ph.ScheduledPostID, postID, ph.Trigger, ph.ErrorMessage).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *publishHistoryRepository) GetByUserID(ctx context.Context, userID int64) ([]*models.PublishHistory, error) {
	query := `
		SELECT id, user_id, scheduled_post_id, post_id, trigger, error_message, created_at
		FROM publish_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	phs := []*models.PublishHistory{}
	for rows.Next() {
		var ph models.PublishHistory
		var postID sql.NullInt64
		err := rows.Scan(&ph.ID, &ph.UserID, &ph.ScheduledPostID, &postID, &ph.Trigger, &ph.ErrorMessage, &ph.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		ph.PostID = postID.Int64
		phs = append(phs, &ph)
	}

	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return phs, nil
}
