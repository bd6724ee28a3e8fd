package playlists

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

const playlistColumns = `id, owner_id, name, description, created_at, updated_at`

func scanPlaylist(row *sql.Row) (*models.Playlist, error) {
	p := &models.Playlist{}
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) loadVideoIDs(ctx context.Context, playlistID string) ([]string, error) {
	query := `SELECT video_id FROM playlist_videos WHERE playlist_id = $1 ORDER BY added_at`

	rows, err := r.db.QueryContext(ctx, query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}

func (r *PostgresRepository) Create(ctx context.Context, playlist *models.Playlist) (*models.Playlist, error) {
	if playlist.ID == "" {
		playlist.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO playlists (id, owner_id, name, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		playlist.ID, playlist.OwnerID, playlist.Name, playlist.Description).
		Scan(&playlist.CreatedAt, &playlist.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	playlist.VideoIDs = []string{}
	return playlist, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists WHERE id = $1`
	playlist, err := scanPlaylist(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}

	playlist.VideoIDs, err = r.loadVideoIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return playlist, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Playlist, error) {
	query := `SELECT ` + playlistColumns + ` FROM playlists
		 WHERE owner_id = $1
		 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var playlists []*models.Playlist
	for rows.Next() {
		p := &models.Playlist{}
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		playlists = append(playlists, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	for _, p := range playlists {
		if p.VideoIDs, err = r.loadVideoIDs(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return playlists, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id, name, description string) (*models.Playlist, error) {
	query :=
		`UPDATE playlists SET name = $2, description = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + playlistColumns
	playlist, err := scanPlaylist(r.db.QueryRowContext(ctx, query, id, name, description))
	if err != nil {
		return nil, err
	}

	playlist.VideoIDs, err = r.loadVideoIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return playlist, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM playlists WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) AddVideo(ctx context.Context, playlistID, videoID string) error {
	query :=
		`INSERT INTO playlist_videos (playlist_id, video_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, playlistID, videoID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	query := `DELETE FROM playlist_videos WHERE playlist_id = $1 AND video_id = $2`
	if _, err := r.db.ExecContext(ctx, query, playlistID, videoID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
