package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mpetrenko/clipstream/internal/common"
	"github.com/mpetrenko/clipstream/internal/dbx"
	"github.com/mpetrenko/clipstream/internal/server/auth"
	sc "github.com/mpetrenko/clipstream/internal/server/config"
	"github.com/mpetrenko/clipstream/internal/server/models"
	"github.com/mpetrenko/clipstream/internal/server/password"
	"github.com/mpetrenko/clipstream/internal/server/rate"
	"github.com/mpetrenko/clipstream/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService implements the session token lifecycle:
//   - Verify: check a username-or-email plus password against the store
//   - Issue: mint a token pair and persist the refresh token on the user
//   - Rotate: exchange a presented refresh token for a fresh pair
//   - Revoke: clear the stored refresh token on logout
//
// Each user record holds exactly one refresh token slot, so issuing or
// rotating invalidates whatever token was stored before.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	limiter     *rate.Limiter
}

// NewAuthService constructs an AuthService. limiter may be nil, which
// disables login throttling.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, limiter *rate.Limiter) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		config:      cfg,
		limiter:     limiter,
	}
}

// Verify checks the credentials and returns the matching user. At least one
// of username and email must be non-empty. Failures distinguish a missing
// user from a wrong password.
func (s *AuthService) Verify(ctx context.Context, username, email, pw string) (*models.User, error) {
	if username == "" && email == "" {
		return nil, common.E(common.ErrorValidation, "username or email is required")
	}
	if pw == "" {
		return nil, common.E(common.ErrorValidation, "password is required")
	}

	limitKey := username
	if limitKey == "" {
		limitKey = email
	}
	ok, err := s.limiter.Allow(ctx, limitKey)
	if err == nil && !ok {
		return nil, common.E(common.ErrorRateLimited, "too many login attempts, try again later")
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.E(common.ErrorNotFound, "user does not exist")
		}
		return nil, common.ErrorInternal
	}

	if !password.Matches(user.PasswordHash, pw) {
		return nil, common.E(common.ErrorUnauthorized, "password invalid")
	}

	_ = s.limiter.Reset(ctx, limitKey)

	return user, nil
}

// Issue mints a token pair for the user and stores the refresh token in the
// user's session slot, replacing any previous one. Tokens are returned only
// after the refresh token is persisted; if the user row no longer exists the
// update matches nothing and Issue fails with common.ErrorNotFound.
func (s *AuthService) Issue(ctx context.Context, user *models.User) (*TokenPair, error) {
	return s.issue(ctx, user, s.db)
}

func (s *AuthService) issue(ctx context.Context, user *models.User, db dbx.DBTX) (*TokenPair, error) {
	accessToken, err := auth.GenerateAccessToken(user,
		[]byte(s.config.AccessTokenSecret), s.config.AccessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	refreshToken, err := auth.GenerateRefreshToken(user.ID,
		[]byte(s.config.RefreshTokenSecret), s.config.RefreshTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %w", err)
	}

	repo := s.repomanager.Users(db)
	if err := repo.UpdateRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.E(common.ErrorNotFound, "user does not exist")
		}
		return nil, fmt.Errorf("error saving refresh token: %w", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Login verifies the credentials and issues a token pair in one step.
func (s *AuthService) Login(ctx context.Context, username, email, pw string) (*models.User, *TokenPair, error) {
	user, err := s.Verify(ctx, username, email, pw)
	if err != nil {
		return nil, nil, err
	}
	pair, err := s.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Rotate validates a presented refresh token against its signature, expiry,
// and the user's stored slot, then atomically replaces it with a fresh pair.
// A token that verifies but does not match the slot has already been rotated
// or revoked and is rejected.
func (s *AuthService) Rotate(ctx context.Context, presented string) (*TokenPair, error) {
	if presented == "" {
		return nil, common.E(common.ErrorUnauthorized, "unauthorised request")
	}

	claims, err := auth.ParseRefreshToken(presented, []byte(s.config.RefreshTokenSecret))
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, common.E(common.ErrRefreshTokenExpired, "Refresh token is expired or used")
		}
		return nil, common.E(common.ErrorUnauthorized, "Invalid refresh token")
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.E(common.ErrorUnauthorized, "Invalid refresh token")
		}
		return nil, common.ErrorInternal
	}

	if user.RefreshToken == nil || *user.RefreshToken != presented {
		return nil, common.E(common.ErrRefreshTokenUsed, "Refresh token is expired or used")
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var issueErr error
		pair, issueErr = s.issue(ctx, user, tx)
		return issueErr
	}); err != nil {
		return nil, err
	}

	return pair, nil
}

// Revoke clears the user's refresh token slot. Revoking an already empty
// slot succeeds, as does revoking for a user that no longer exists.
func (s *AuthService) Revoke(ctx context.Context, userID string) error {
	repo := s.repomanager.Users(s.db)
	if err := repo.UpdateRefreshToken(ctx, userID, nil); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return fmt.Errorf("error revoking refresh token: %w", err)
	}
	return nil
}

// Authenticate resolves an access token to its user. Used by the request
// middleware; any failure reads as an unauthorized request.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := auth.ParseAccessToken(accessToken, []byte(s.config.AccessTokenSecret))
	if err != nil {
		return nil, common.E(common.ErrorUnauthorized, "Invalid access token")
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.E(common.ErrorUnauthorized, "Invalid access token")
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}
