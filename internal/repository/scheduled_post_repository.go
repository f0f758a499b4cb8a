package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/maheshrc27/socialnet-api/internal/models"
)

var scheduledPostColumns = []string{
	"id", "user_id", "content", "media_url", "scheduled_at", "published", "created_at", "updated_at",
}

type ScheduledPostRepository interface {
	Create(ctx context.Context, tx *sql.Tx, sp *models.ScheduledPost) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error)
	ListPending(ctx context.Context, userID int64, now time.Time) ([]*models.ScheduledPost, error)
	ListDue(ctx context.Context, now time.Time) ([]*models.ScheduledPost, error)
	// Update applies patch only while the post is unpublished. It returns
	// false when no unpublished row with id exists.
	Update(ctx context.Context, id int64, patch models.ScheduledPostPatch) (*models.ScheduledPost, bool, error)
	// Remove hard-deletes an unpublished post. It returns false when no
	// unpublished row with id exists.
	Remove(ctx context.Context, id int64) (bool, error)
	// MarkPublished flips published from false to true and returns the row
	// as it was committed, or nil when the row is gone, already published or
	// (with due set) scheduled after due. Only one caller can ever get the row.
	MarkPublished(ctx context.Context, tx *sql.Tx, id int64, due *time.Time) (*models.ScheduledPost, error)
}

type scheduledPostRepository struct {
	db *sql.DB
}

func NewScheduledPostRepository(db *sql.DB) ScheduledPostRepository {
	return &scheduledPostRepository{db: db}
}

func (r *scheduledPostRepository) Create(ctx context.Context, tx *sql.Tx, sp *models.ScheduledPost) (int64, error) {
	query, args, err := SqBuilder.
		Insert("scheduled_posts").
		Columns("user_id", "content", "media_url", "scheduled_at", "published").
		Values(sp.UserID, sp.Content, sp.MediaURL, sp.ScheduledAt, false).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, ErrBadQuery
	}

	err = conn(r.db, tx).QueryRowContext(ctx, query, args...).Scan(&sp.ID, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	sp.Published = false

	return sp.ID, nil
}

func (r *scheduledPostRepository) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	query, args, err := SqBuilder.
		Select(scheduledPostColumns...).
		From("scheduled_posts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, ErrBadQuery
	}

	sp, err := scanScheduledPost(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return sp, nil
}

func (r *scheduledPostRepository) ListPending(ctx context.Context, userID int64, now time.Time) ([]*models.ScheduledPost, error) {
	query, args, err := SqBuilder.
		Select(scheduledPostColumns...).
		From("scheduled_posts").
		Where(sq.Eq{"user_id": userID, "published": false}).
		Where(sq.GtOrEq{"scheduled_at": now}).
		OrderBy("scheduled_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, ErrBadQuery
	}

	return r.list(ctx, query, args)
}

func (r *scheduledPostRepository) ListDue(ctx context.Context, now time.Time) ([]*models.ScheduledPost, error) {
	query, args, err := SqBuilder.
		Select(scheduledPostColumns...).
		From("scheduled_posts").
		Where(sq.Eq{"published": false}).
		Where(sq.LtOrEq{"scheduled_at": now}).
		OrderBy("scheduled_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, ErrBadQuery
	}

	return r.list(ctx, query, args)
}

func (r *scheduledPostRepository) Update(ctx context.Context, id int64, patch models.ScheduledPostPatch) (*models.ScheduledPost, bool, error) {
	b := SqBuilder.
		Update("scheduled_posts").
		Set("updated_at", time.Now())

	if patch.Content != nil {
		b = b.Set("content", *patch.Content)
	}
	if patch.MediaURL != nil {
		b = b.Set("media_url", *patch.MediaURL)
	}
	if patch.ScheduledAt != nil {
		b = b.Set("scheduled_at", *patch.ScheduledAt)
	}

	query, args, err := b.
		Where(sq.Eq{"id": id, "published": false}).
		Suffix("RETURNING " + strings.Join(scheduledPostColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, false, ErrBadQuery
	}

	sp, err := scanScheduledPost(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}

	return sp, true, nil
}

func (r *scheduledPostRepository) Remove(ctx context.Context, id int64) (bool, error) {
	query, args, err := SqBuilder.
		Delete("scheduled_posts").
		Where(sq.Eq{"id": id, "published": false}).
		ToSql()
	if err != nil {
		return false, ErrBadQuery
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}

func (r *scheduledPostRepository) MarkPublished(ctx context.Context, tx *sql.Tx, id int64, due *time.Time) (*models.ScheduledPost, error) {
	b := SqBuilder.
		Update("scheduled_posts").
		Set("published", true).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id, "published": false})
	if due != nil {
		b = b.Where(sq.LtOrEq{"scheduled_at": *due})
	}

	query, args, err := b.
		Suffix("RETURNING " + strings.Join(scheduledPostColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, ErrBadQuery
	}

	sp, err := scanScheduledPost(conn(r.db, tx).QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return sp, nil
}

func (r *scheduledPostRepository) list(ctx context.Context, query string, args []any) ([]*models.ScheduledPost, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	posts := []*models.ScheduledPost{}
	for rows.Next() {
		sp, err := scanScheduledPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, sp)
	}

	if err = rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return posts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScheduledPost(row rowScanner) (*models.ScheduledPost, error) {
	var sp models.ScheduledPost
	err := row.Scan(&sp.ID, &sp.UserID, &sp.Content, &sp.MediaURL, &sp.ScheduledAt, &sp.Published, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sp, nil
}
