package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mpetrenko/clipstream/internal/common"
	"github.com/mpetrenko/clipstream/internal/dbx"
	sc "github.com/mpetrenko/clipstream/internal/server/config"
	"github.com/mpetrenko/clipstream/internal/server/media"
	"github.com/mpetrenko/clipstream/internal/server/models"
	"github.com/mpetrenko/clipstream/internal/server/repositories/repomanager"
	"github.com/mpetrenko/clipstream/internal/server/repositories/videos"
)

// PublishParams carries a new video and its metadata.
type PublishParams struct {
	Title       string
	Description string
	Duration    float64
	Video       *Upload
	Thumbnail   *Upload
}

// UpdateVideoParams changes video metadata; a nil Thumbnail keeps the
// current one.
type UpdateVideoParams struct {
	Title       string
	Description string
	Thumbnail   *Upload
}

// VideoService manages video metadata and the backing media objects.
type VideoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	media       MediaStore
}

func NewVideoService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, store MediaStore) *VideoService {
	return &VideoService{
		db:          db,
		repomanager: m,
		config:      cfg,
		media:       store,
	}
}

// Publish uploads the video file and thumbnail and creates the metadata
// record, published immediately.
func (s *VideoService) Publish(ctx context.Context, ownerID string, p PublishParams) (*models.Video, error) {
	if p.Title == "" {
		return nil, common.E(common.ErrorValidation, "All fields are required")
	}
	if p.Video == nil || p.Thumbnail == nil {
		return nil, common.E(common.ErrorValidation, "Video file and thumbnail are required")
	}

	videoKey := media.NewStorageKey("videos")
	if err := s.media.Upload(ctx, videoKey, p.Video.ContentType, p.Video.Content); err != nil {
		return nil, fmt.Errorf("error uploading video: %w", err)
	}

	thumbKey := media.NewStorageKey("thumbnails")
	if err := s.media.Upload(ctx, thumbKey, p.Thumbnail.ContentType, p.Thumbnail.Content); err != nil {
		return nil, fmt.Errorf("error uploading thumbnail: %w", err)
	}

	video, err := s.repomanager.Videos(s.db).Create(ctx, &models.Video{
		OwnerID:      ownerID,
		Title:        p.Title,
		Description:  p.Description,
		VideoKey:     videoKey,
		ThumbnailKey: thumbKey,
		Duration:     p.Duration,
		IsPublished:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating video: %w", err)
	}

	return s.withURLs(ctx, video)
}

// Get returns a single video with presigned URLs and counts the view.
// Unpublished videos are visible to their owner only; everyone else sees
// not found.
func (s *VideoService) Get(ctx context.Context, id, viewerID string) (*models.Video, error) {
	repo := s.repomanager.Videos(s.db)

	video, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.E(common.ErrorNotFound, "Video not found")
		}
		return nil, common.ErrorInternal
	}

	if !video.IsPublished && video.OwnerID != viewerID {
		return nil, common.E(common.ErrorNotFound, "Video not found")
	}

	if err := repo.IncrementViews(ctx, id); err != nil {
		return nil, fmt.Errorf("error counting view: %w", err)
	}
	video.Views++

	return s.withURLs(ctx, video)
}

// List returns videos matching the filter with presigned URLs attached.
func (s *VideoService) List(ctx context.Context, f videos.ListFilter) ([]*models.Video, error) {
	list, err := s.repomanager.Videos(s.db).List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("error listing videos: %w", err)
	}
	for _, v := range list {
		if _, err := s.withURLs(ctx, v); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Update changes title, description, and optionally the thumbnail. Only the
// owner may update a video.
func (s *VideoService) Update(ctx context.Context, userID, id string, p UpdateVideoParams) (*models.Video, error) {
	if p.Title == "" || p.Description == "" {
		return nil, common.E(common.ErrorValidation, "All fields are required")
	}

	repo := s.repomanager.Videos(s.db)

	video, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	thumbKey := video.ThumbnailKey
	oldThumbKey := ""
	if p.Thumbnail != nil {
		thumbKey = media.NewStorageKey("thumbnails")
		if err := s.media.Upload(ctx, thumbKey, p.Thumbnail.ContentType, p.Thumbnail.Content); err != nil {
			return nil, fmt.Errorf("error uploading thumbnail: %w", err)
		}
		oldThumbKey = video.ThumbnailKey
	}

	updated, err := repo.Update(ctx, id, p.Title, p.Description, thumbKey)
	if err != nil {
		return nil, fmt.Errorf("error updating video: %w", err)
	}

	if oldThumbKey != "" {
		if err := s.media.Delete(ctx, oldThumbKey); err != nil {
			return nil, fmt.Errorf("error deleting old thumbnail: %w", err)
		}
	}

	return s.withURLs(ctx, updated)
}

// Delete removes the video record, its dependent rows, and the media
// objects. Only the owner may delete a video.
func (s *VideoService) Delete(ctx context.Context, userID, id string) error {
	video, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	// dependent likes, comments, and playlist entries go with the row
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Videos(tx).Delete(ctx, id)
	}); err != nil {
		return fmt.Errorf("error deleting video: %w", err)
	}

	if err := s.media.Delete(ctx, video.VideoKey); err != nil {
		return fmt.Errorf("error deleting video object: %w", err)
	}
	if video.ThumbnailKey != "" {
		if err := s.media.Delete(ctx, video.ThumbnailKey); err != nil {
			return fmt.Errorf("error deleting thumbnail object: %w", err)
		}
	}

	return nil
}

// TogglePublish flips the publish flag. Only the owner may toggle it.
func (s *VideoService) TogglePublish(ctx context.Context, userID, id string) (*models.Video, error) {
	video, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.repomanager.Videos(s.db).SetPublished(ctx, id, !video.IsPublished)
	if err != nil {
		return nil, fmt.Errorf("error toggling publish status: %w", err)
	}

	return s.withURLs(ctx, updated)
}

func (s *VideoService) getOwned(ctx context.Context, userID, id string) (*models.Video, error) {
	video, err := s.repomanager.Videos(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.E(common.ErrorNotFound, "Video not found")
		}
		return nil, common.ErrorInternal
	}
	if video.OwnerID != userID {
		return nil, common.E(common.ErrorForbidden, "You are not allowed to modify this video")
	}
	return video, nil
}

func (s *VideoService) withURLs(ctx context.Context, v *models.Video) (*models.Video, error) {
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
	return v, nil
}
