package videos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

const videoColumns = `id, owner_id, title, description, video_key, thumbnail_key, duration, views, is_published, created_at, updated_at`

// sortColumns whitelists ORDER BY targets; user input never reaches SQL text.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"views":     "views",
	"duration":  "duration",
	"title":     "title",
}

func scanVideo(row *sql.Row) (*models.Video, error) {
	v := &models.Video{}
	err := row.Scan(&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.VideoKey,
		&v.ThumbnailKey, &v.Duration, &v.Views, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) Create(ctx context.Context, video *models.Video) (*models.Video, error) {
	if video.ID == "" {
		video.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO videos (id, owner_id, title, description, video_key, thumbnail_key, duration, is_published)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING views, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		video.ID, video.OwnerID, video.Title, video.Description, video.VideoKey,
		video.ThumbnailKey, video.Duration, video.IsPublished).
		Scan(&video.Views, &video.CreatedAt, &video.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return video, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`
	return scanVideo(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) List(ctx context.Context, f ListFilter) ([]*models.Video, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + videoColumns + ` FROM videos WHERE 1=1`)

	args := []any{}
	if f.OwnerID != "" {
		args = append(args, f.OwnerID)
		fmt.Fprintf(&sb, " AND owner_id = $%d", len(args))
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		fmt.Fprintf(&sb, " AND title ILIKE $%d", len(args))
	}
	if f.PublishedOnly {
		sb.WriteString(" AND is_published")
	}

	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if f.SortAscending {
		direction = "ASC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s", column, direction)

	args = append(args, f.Limit)
	fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	args = append(args, f.Offset)
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
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

func (r *PostgresRepository) Update(ctx context.Context, id, title, description, thumbnailKey string) (*models.Video, error) {
	query :=
		`UPDATE videos SET title = $2, description = $3, thumbnail_key = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + videoColumns
	return scanVideo(r.db.QueryRowContext(ctx, query, id, title, description, thumbnailKey))
}

func (r *PostgresRepository) SetPublished(ctx context.Context, id string, published bool) (*models.Video, error) {
	query :=
		`UPDATE videos SET is_published = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + videoColumns
	return scanVideo(r.db.QueryRowContext(ctx, query, id, published))
}

func (r *PostgresRepository) IncrementViews(ctx context.Context, id string) error {
	query := `UPDATE videos SET views = views + 1 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM videos WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
