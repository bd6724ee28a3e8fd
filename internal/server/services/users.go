package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mpetrenko/clipstream/internal/common"
	sc "github.com/mpetrenko/clipstream/internal/server/config"
	"github.com/mpetrenko/clipstream/internal/server/media"
	"github.com/mpetrenko/clipstream/internal/server/models"
	"github.com/mpetrenko/clipstream/internal/server/password"
	"github.com/mpetrenko/clipstream/internal/server/repositories/repomanager"
)

// RegisterParams carries everything needed to create an account. Avatar is
// mandatory, CoverImage optional.
type RegisterParams struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	Avatar     *Upload
	CoverImage *Upload
}

// UserService handles account management: registration, profile reads and
// updates, password changes, and profile imagery.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	media       MediaStore
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, store MediaStore) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		config:      cfg,
		media:       store,
	}
}

// Register creates a new account. The username and email must both be free;
// the password is hashed before it touches the store.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (*models.User, error) {
	if p.Username == "" || p.Email == "" || p.FullName == "" || p.Password == "" {
		return nil, common.E(common.ErrorValidation, "All fields are required")
	}
	if p.Avatar == nil {
		return nil, common.E(common.ErrorValidation, "Avatar file is required")
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByUsernameOrEmail(ctx, p.Username, p.Email); err == nil {
		return nil, common.E(common.ErrorConflict, "User with email or username already exists")
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	avatarKey := media.NewStorageKey("avatars")
	if err := s.media.Upload(ctx, avatarKey, p.Avatar.ContentType, p.Avatar.Content); err != nil {
		return nil, fmt.Errorf("error uploading avatar: %w", err)
	}

	var coverKey string
	if p.CoverImage != nil {
		coverKey = media.NewStorageKey("covers")
		if err := s.media.Upload(ctx, coverKey, p.CoverImage.ContentType, p.CoverImage.Content); err != nil {
			return nil, fmt.Errorf("error uploading cover image: %w", err)
		}
	}

	hash, err := password.Hash(p.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{
		Username:     p.Username,
		Email:        p.Email,
		FullName:     p.FullName,
		Avatar:       avatarKey,
		CoverImage:   coverKey,
		PasswordHash: hash,
	})
	if err != nil {
		// best effort, the objects are orphans otherwise
		_ = s.media.Delete(ctx, avatarKey)
		if coverKey != "" {
			_ = s.media.Delete(ctx, coverKey)
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// GetByID returns the user or common.ErrorNotFound.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.E(common.ErrorNotFound, "User not found")
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// ChangePassword verifies the old password and stores a hash of the new one.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return common.E(common.ErrorValidation, "All fields are required")
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !password.Matches(user.PasswordHash, oldPassword) {
		return common.E(common.ErrorUnauthorized, "Invalid old password")
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.repomanager.Users(s.db).UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}

// UpdateAccount changes the user's full name and email.
func (s *UserService) UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	if fullName == "" || email == "" {
		return nil, common.E(common.ErrorValidation, "All fields are required")
	}

	user, err := s.repomanager.Users(s.db).UpdateAccount(ctx, userID, fullName, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.E(common.ErrorNotFound, "User not found")
		}
		return nil, fmt.Errorf("error updating account: %w", err)
	}
	return user, nil
}

// UpdateAvatar stores the new avatar and removes the previous object.
func (s *UserService) UpdateAvatar(ctx context.Context, userID string, avatar *Upload) (*models.User, error) {
	return s.updateImage(ctx, userID, avatar, "avatars", "Avatar file is required",
		func(u *models.User) string { return u.Avatar },
		s.repomanager.Users(s.db).UpdateAvatar)
}

// UpdateCoverImage stores the new cover image and removes the previous object.
func (s *UserService) UpdateCoverImage(ctx context.Context, userID string, cover *Upload) (*models.User, error) {
	return s.updateImage(ctx, userID, cover, "covers", "Cover image file is required",
		func(u *models.User) string { return u.CoverImage },
		s.repomanager.Users(s.db).UpdateCoverImage)
}

func (s *UserService) updateImage(ctx context.Context, userID string, upload *Upload,
	prefix, missingMsg string, oldKey func(*models.User) string,
	save func(context.Context, string, string) (*models.User, error)) (*models.User, error) {

	if upload == nil {
		return nil, common.E(common.ErrorValidation, missingMsg)
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := media.NewStorageKey(prefix)
	if err := s.media.Upload(ctx, key, upload.ContentType, upload.Content); err != nil {
		return nil, fmt.Errorf("error uploading image: %w", err)
	}

	updated, err := save(ctx, userID, key)
	if err != nil {
		return nil, fmt.Errorf("error saving image: %w", err)
	}

	if old := oldKey(user); old != "" {
		if err := s.media.Delete(ctx, old); err != nil {
			return nil, fmt.Errorf("error deleting old image: %w", err)
		}
	}

	return updated, nil
}

// SafeWithURLs strips credentials and swaps stored object keys for presigned
// URLs so the response can be rendered directly.
func (s *UserService) SafeWithURLs(ctx context.Context, user *models.User) (*models.SafeUser, error) {
	safe := user.Safe()

	if safe.Avatar != "" {
		url, err := s.media.PresignGet(ctx, safe.Avatar)
		if err != nil {
			return nil, fmt.Errorf("error presigning avatar: %w", err)
		}
		safe.Avatar = url
	}
	if safe.CoverImage != "" {
		url, err := s.media.PresignGet(ctx, safe.CoverImage)
		if err != nil {
			return nil, fmt.Errorf("error presigning cover image: %w", err)
		}
		safe.CoverImage = url
	}

	return safe, nil
}
