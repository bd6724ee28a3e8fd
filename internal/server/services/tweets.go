package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mpetrenko/clipstream/internal/common"
	"github.com/mpetrenko/clipstream/internal/server/models"
	"github.com/mpetrenko/clipstream/internal/server/repositories/repomanager"
)

// TweetService manages short text posts.
type TweetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTweetService(db *sql.DB, m repomanager.RepositoryManager) *TweetService {
	return &TweetService{db: db, repomanager: m}
}

// Create posts a tweet.
func (s *TweetService) Create(ctx context.Context, ownerID, content string) (*models.Tweet, error) {
	if content == "" {
		return nil, common.E(common.ErrorValidation, "Tweet content is required")
	}

	tweet, err := s.repomanager.Tweets(s.db).Create(ctx, &models.Tweet{
		OwnerID: ownerID,
		Content: content,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating tweet: %w", err)
	}
	return tweet, nil
}

// ListByOwner returns the user's tweets, newest first.
func (s *TweetService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Tweet, error) {
	list, err := s.repomanager.Tweets(s.db).ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing tweets: %w", err)
	}
	return list, nil
}

// Update rewrites a tweet's content. Only the author may update it.
func (s *TweetService) Update(ctx context.Context, userID, id, content string) (*models.Tweet, error) {
	if content == "" {
		return nil, common.E(common.ErrorValidation, "Tweet content is required")
	}
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return nil, err
	}

	tweet, err := s.repomanager.Tweets(s.db).Update(ctx, id, content)
	if err != nil {
		return nil, fmt.Errorf("error updating tweet: %w", err)
	}
	return tweet, nil
}

// Delete removes a tweet. Only the author may delete it.
func (s *TweetService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repomanager.Tweets(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting tweet: %w", err)
	}
	return nil
}

func (s *TweetService) getOwned(ctx context.Context, userID, id string) (*models.Tweet, error) {
	tweet, err := s.repomanager.Tweets(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.E(common.ErrorNotFound, "Tweet not found")
		}
		return nil, common.ErrorInternal
	}
	if tweet.OwnerID != userID {
		return nil, common.E(common.ErrorForbidden, "You are not allowed to modify this tweet")
	}
	return tweet, nil
}
