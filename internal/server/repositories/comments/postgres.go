package comments

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

const commentColumns = `id, video_id, owner_id, content, created_at, updated_at`

func scanComment(row *sql.Row) (*models.Comment, error) {
	c := &models.Comment{}
	err := row.Scan(&c.ID, &c.VideoID, &c.OwnerID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO comments (id, video_id, owner_id, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		comment.ID, comment.VideoID, comment.OwnerID, comment.Content).
		Scan(&comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return comment, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	return scanComment(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments
		 WHERE video_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, videoID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		c := &models.Comment{}
		if err := rows.Scan(&c.ID, &c.VideoID, &c.OwnerID, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return comments, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id, content string) (*models.Comment, error) {
	query :=
		`UPDATE comments SET content = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + commentColumns
	return scanComment(r.db.QueryRowContext(ctx, query, id, content))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM comments WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
