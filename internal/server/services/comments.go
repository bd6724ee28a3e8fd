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

// CommentService manages comments under videos.
type CommentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCommentService(db *sql.DB, m repomanager.RepositoryManager) *CommentService {
	return &CommentService{db: db, repomanager: m}
}

// Add creates a comment on a video.
func (s *CommentService) Add(ctx context.Context, ownerID, videoID, content string) (*models.Comment, error) {
	if content == "" {
		return nil, common.E(common.ErrorValidation, "Comment content is required")
	}

	if _, err := s.repomanager.Videos(s.db).GetByID(ctx, videoID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.E(common.ErrorNotFound, "Video not found")
		}
		return nil, common.ErrorInternal
	}

	comment, err := s.repomanager.Comments(s.db).Create(ctx, &models.Comment{
		VideoID: videoID,
		OwnerID: ownerID,
		Content: content,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating comment: %w", err)
	}
	return comment, nil
}

// ListByVideo returns a page of comments for the video, newest first.
func (s *CommentService) ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]*models.Comment, error) {
	list, err := s.repomanager.Comments(s.db).ListByVideo(ctx, videoID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	return list, nil
}

// Update rewrites a comment's content. Only the author may update it.
func (s *CommentService) Update(ctx context.Context, userID, id, content string) (*models.Comment, error) {
	if content == "" {
		return nil, common.E(common.ErrorValidation, "Comment content is required")
	}
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return nil, err
	}

	comment, err := s.repomanager.Comments(s.db).Update(ctx, id, content)
	if err != nil {
		return nil, fmt.Errorf("error updating comment: %w", err)
	}
	return comment, nil
}

// Delete removes a comment. Only the author may delete it.
func (s *CommentService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repomanager.Comments(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting comment: %w", err)
	}
	return nil
}

func (s *CommentService) getOwned(ctx context.Context, userID, id string) (*models.Comment, error) {
	comment, err := s.repomanager.Comments(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.E(common.ErrorNotFound, "Comment not found")
		}
		return nil, common.ErrorInternal
	}
	if comment.OwnerID != userID {
		return nil, common.E(common.ErrorForbidden, "You are not allowed to modify this comment")
	}
	return comment, nil
}
