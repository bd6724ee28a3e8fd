package likes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mpetrenko/clipstream/internal/common"
	"github.com/mpetrenko/clipstream/internal/dbx"
	"github.com/mpetrenko/clipstream/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// targetColumns maps a target kind to its column; Find refuses anything else,
// so caller input never becomes SQL text.
var targetColumns = map[TargetKind]string{
	TargetVideo:   "video_id",
	TargetComment: "comment_id",
	TargetTweet:   "tweet_id",
}

func (r *PostgresRepository) Create(ctx context.Context, like *models.Like) (*models.Like, error) {
	if like.ID == "" {
		like.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO likes (id, owner_id, video_id, comment_id, tweet_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		like.ID, like.OwnerID, like.VideoID, like.CommentID, like.TweetID).
		Scan(&like.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return like, nil
}

func (r *PostgresRepository) Find(ctx context.Context, ownerID string, target Target) (*models.Like, error) {
	column, ok := targetColumns[target.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown like target %q", target.Kind)
	}

	query := fmt.Sprintf(
		`SELECT id, owner_id, video_id, comment_id, tweet_id, created_at
		 FROM likes WHERE owner_id = $1 AND %s = $2`, column)

	like := &models.Like{}
	err := r.db.QueryRowContext(ctx, query, ownerID, target.ID).
		Scan(&like.ID, &like.OwnerID, &like.VideoID, &like.CommentID, &like.TweetID, &like.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return like, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM likes WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListLikedVideos(ctx context.Context, ownerID string) ([]*models.Video, error) {
	query :=
		`SELECT v.id, v.owner_id, v.title, v.description, v.video_key, v.thumbnail_key,
		        v.duration, v.views, v.is_published, v.created_at, v.updated_at
		 FROM likes l
		 JOIN videos v ON v.id = l.video_id
		 WHERE l.owner_id = $1 AND l.video_id IS NOT NULL
		 ORDER BY l.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var videos []*models.Video
	for rows.Next() {
		v := &models.Video{}
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.VideoKey,
			&v.ThumbnailKey, &v.Duration, &v.Views, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		videos = append(videos, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return videos, nil
}
