package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mpetrenko/clipstream/internal/common"
	"github.com/mpetrenko/clipstream/internal/server/models"
	"github.com/mpetrenko/clipstream/internal/server/repositories/likes"
	"github.com/mpetrenko/clipstream/internal/server/repositories/repomanager"
)

// LikeService toggles likes on videos, comments, and tweets, and reads back
// the videos a user has liked.
type LikeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	media       MediaStore
}

func NewLikeService(db *sql.DB, m repomanager.RepositoryManager, store MediaStore) *LikeService {
	return &LikeService{db: db, repomanager: m, media: store}
}

// Toggle likes the target if the owner has not liked it yet, otherwise
// removes the like. Returns whether the target is liked afterwards.
func (s *LikeService) Toggle(ctx context.Context, ownerID string, target likes.Target) (bool, error) {
	if err := s.checkTargetExists(ctx, target); err != nil {
		return false, err
	}

	repo := s.repomanager.Likes(s.db)

	existing, err := repo.Find(ctx, ownerID, target)
	if err == nil {
		if err := repo.Delete(ctx, existing.ID); err != nil {
			return false, fmt.Errorf("error removing like: %w", err)
		}
		return false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return false, common.ErrorInternal
	}

	like := &models.Like{OwnerID: ownerID}
	id := target.ID
	switch target.Kind {
	case likes.TargetVideo:
		like.VideoID = &id
	case likes.TargetComment:
		like.CommentID = &id
	case likes.TargetTweet:
		like.TweetID = &id
	default:
		return false, common.E(common.ErrorValidation, "unknown like target")
	}

	if _, err := repo.Create(ctx, like); err != nil {
		return false, fmt.Errorf("error creating like: %w", err)
	}
	return true, nil
}

// LikedVideos returns the videos the owner has liked, newest like first,
// with presigned URLs attached.
func (s *LikeService) LikedVideos(ctx context.Context, ownerID string) ([]*models.Video, error) {
	list, err := s.repomanager.Likes(s.db).ListLikedVideos(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing liked videos: %w", err)
	}

	for _, v := range list {
		if v.VideoKey != "" {
			url, err := s.media.PresignGet(ctx, v.VideoKey)
			if err != nil {
				return nil, fmt.Errorf("error presigning video: %w", err)
			}
			v.VideoURL = url
		}
		if v.ThumbnailKey != "" {
			url, err := s.media.PresignGet(ctx, v.ThumbnailKey)
			if err != nil {
				return nil, fmt.Errorf("error presigning thumbnail: %w", err)
			}
			v.ThumbnailURL = url
		}
	}

	return list, nil
}

func (s *LikeService) checkTargetExists(ctx context.Context, target likes.Target) error {
	var err error
	switch target.Kind {
	case likes.TargetVideo:
		_, err = s.repomanager.Videos(s.db).GetByID(ctx, target.ID)
	case likes.TargetComment:
		_, err = s.repomanager.Comments(s.db).GetByID(ctx, target.ID)
	case likes.TargetTweet:
		_, err = s.repomanager.Tweets(s.db).GetByID(ctx, target.ID)
	default:
		return common.E(common.ErrorValidation, "unknown like target")
	}
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.E(common.ErrorNotFound, fmt.Sprintf("%s not found", target.Kind))
		}
		return common.ErrorInternal
	}
	return nil
}
