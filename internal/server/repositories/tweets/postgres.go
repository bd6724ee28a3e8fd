package tweets

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

const tweetColumns = `id, owner_id, content, created_at, updated_at`

func scanTweet(row *sql.Row) (*models.Tweet, error) {
	tweet := &models.Tweet{}
	err := row.Scan(&tweet.ID, &tweet.OwnerID, &tweet.Content, &tweet.CreatedAt, &tweet.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tweet, nil
}

func (r *PostgresRepository) Create(ctx context.Context, tweet *models.Tweet) (*models.Tweet, error) {
	if tweet.ID == "" {
		tweet.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO tweets (id, owner_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, tweet.ID, tweet.OwnerID, tweet.Content).
		Scan(&tweet.CreatedAt, &tweet.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tweet, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Tweet, error) {
	query := `SELECT ` + tweetColumns + ` FROM tweets WHERE id = $1`
	return scanTweet(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Tweet, error) {
	query := `SELECT ` + tweetColumns + ` FROM tweets
		 WHERE owner_id = $1
		 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var tweets []*models.Tweet
	for rows.Next() {
		tweet := &models.Tweet{}
		if err := rows.Scan(&tweet.ID, &tweet.OwnerID, &tweet.Content, &tweet.CreatedAt, &tweet.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		tweets = append(tweets, tweet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tweets, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id, content string) (*models.Tweet, error) {
	query :=
		`UPDATE tweets SET content = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + tweetColumns
	return scanTweet(r.db.QueryRowContext(ctx, query, id, content))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tweets WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
