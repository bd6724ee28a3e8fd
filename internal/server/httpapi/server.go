// Package httpapi exposes the REST surface of the service under /api/v1.
// Handlers hold no business logic; they decode requests, call the services,
// and write the response envelope.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/mpetrenko/clipstream/internal/common"
	"github.com/mpetrenko/clipstream/internal/logging"
	sc "github.com/mpetrenko/clipstream/internal/server/config"
	"github.com/mpetrenko/clipstream/internal/server/models"
	likesrepo "github.com/mpetrenko/clipstream/internal/server/repositories/likes"
	videosrepo "github.com/mpetrenko/clipstream/internal/server/repositories/videos"
	"github.com/mpetrenko/clipstream/internal/server/services"
)

// The handler-facing slices of the service layer. Tests substitute fakes.

type AuthService interface {
	Login(ctx context.Context, username, email, password string) (*models.User, *services.TokenPair, error)
	Rotate(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Revoke(ctx context.Context, userID string) error
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

type UserService interface {
	Register(ctx context.Context, p services.RegisterParams) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error)
	UpdateAvatar(ctx context.Context, userID string, avatar *services.Upload) (*models.User, error)
	UpdateCoverImage(ctx context.Context, userID string, cover *services.Upload) (*models.User, error)
	SafeWithURLs(ctx context.Context, user *models.User) (*models.SafeUser, error)
}

type VideoService interface {
	Publish(ctx context.Context, ownerID string, p services.PublishParams) (*models.Video, error)
	Get(ctx context.Context, id, viewerID string) (*models.Video, error)
	List(ctx context.Context, f videosrepo.ListFilter) ([]*models.Video, error)
	Update(ctx context.Context, userID, id string, p services.UpdateVideoParams) (*models.Video, error)
	Delete(ctx context.Context, userID, id string) error
	TogglePublish(ctx context.Context, userID, id string) (*models.Video, error)
}

type CommentService interface {
	Add(ctx context.Context, ownerID, videoID, content string) (*models.Comment, error)
	ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]*models.Comment, error)
	Update(ctx context.Context, userID, id, content string) (*models.Comment, error)
	Delete(ctx context.Context, userID, id string) error
}

type LikeService interface {
	Toggle(ctx context.Context, ownerID string, target likesrepo.Target) (bool, error)
	LikedVideos(ctx context.Context, ownerID string) ([]*models.Video, error)
}

type PlaylistService interface {
	Create(ctx context.Context, ownerID, name, description string) (*models.Playlist, error)
	Get(ctx context.Context, id string) (*models.Playlist, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Playlist, error)
	Update(ctx context.Context, userID, id, name, description string) (*models.Playlist, error)
	Delete(ctx context.Context, userID, id string) error
	AddVideo(ctx context.Context, userID, playlistID, videoID string) (*models.Playlist, error)
	RemoveVideo(ctx context.Context, userID, playlistID, videoID string) (*models.Playlist, error)
}

type TweetService interface {
	Create(ctx context.Context, ownerID, content string) (*models.Tweet, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Tweet, error)
	Update(ctx context.Context, userID, id, content string) (*models.Tweet, error)
	Delete(ctx context.Context, userID, id string) error
}

type Server struct {
	config    *sc.Config
	logger    logging.Logger
	db        *sql.DB
	auth      AuthService
	users     UserService
	videos    VideoService
	comments  CommentService
	likes     LikeService
	playlists PlaylistService
	tweets    TweetService
}

func NewServer(cfg *sc.Config, logger logging.Logger, db *sql.DB,
	auth AuthService, users UserService, videos VideoService,
	comments CommentService, likes LikeService,
	playlists PlaylistService, tweets TweetService) *Server {

	return &Server{
		config:    cfg,
		logger:    logger.With("module", "http_server"),
		db:        db,
		auth:      auth,
		users:     users,
		videos:    videos,
		comments:  comments,
		likes:     likes,
		playlists: playlists,
		tweets:    tweets,
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/healthz", s.handleHealth)

	mux.HandleFunc("POST /api/v1/users/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/users/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/users/refresh-token", s.handleRefreshToken)
	mux.HandleFunc("POST /api/v1/users/logout", s.requireAuth(s.handleLogout))
	mux.HandleFunc("GET /api/v1/users/current", s.requireAuth(s.handleCurrentUser))
	mux.HandleFunc("POST /api/v1/users/change-password", s.requireAuth(s.handleChangePassword))
	mux.HandleFunc("PATCH /api/v1/users/update-account", s.requireAuth(s.handleUpdateAccount))
	mux.HandleFunc("PATCH /api/v1/users/avatar", s.requireAuth(s.handleUpdateAvatar))
	mux.HandleFunc("PATCH /api/v1/users/cover-image", s.requireAuth(s.handleUpdateCoverImage))

	mux.HandleFunc("GET /api/v1/videos", s.handleListVideos)
	mux.HandleFunc("POST /api/v1/videos", s.requireAuth(s.handlePublishVideo))
	mux.HandleFunc("GET /api/v1/videos/{videoId}", s.optionalAuth(s.handleGetVideo))
	mux.HandleFunc("PATCH /api/v1/videos/{videoId}", s.requireAuth(s.handleUpdateVideo))
	mux.HandleFunc("DELETE /api/v1/videos/{videoId}", s.requireAuth(s.handleDeleteVideo))
	mux.HandleFunc("PATCH /api/v1/videos/toggle/publish/{videoId}", s.requireAuth(s.handleTogglePublish))

	mux.HandleFunc("GET /api/v1/comments/{videoId}", s.handleListComments)
	mux.HandleFunc("POST /api/v1/comments/{videoId}", s.requireAuth(s.handleAddComment))
	mux.HandleFunc("PATCH /api/v1/comments/c/{commentId}", s.requireAuth(s.handleUpdateComment))
	mux.HandleFunc("DELETE /api/v1/comments/c/{commentId}", s.requireAuth(s.handleDeleteComment))

	mux.HandleFunc("POST /api/v1/likes/toggle/v/{videoId}", s.requireAuth(s.handleToggleVideoLike))
	mux.HandleFunc("POST /api/v1/likes/toggle/c/{commentId}", s.requireAuth(s.handleToggleCommentLike))
	mux.HandleFunc("POST /api/v1/likes/toggle/t/{tweetId}", s.requireAuth(s.handleToggleTweetLike))
	mux.HandleFunc("GET /api/v1/likes/videos", s.requireAuth(s.handleLikedVideos))

	mux.HandleFunc("POST /api/v1/playlist", s.requireAuth(s.handleCreatePlaylist))
	mux.HandleFunc("GET /api/v1/playlist/{playlistId}", s.handleGetPlaylist)
	mux.HandleFunc("PATCH /api/v1/playlist/{playlistId}", s.requireAuth(s.handleUpdatePlaylist))
	mux.HandleFunc("DELETE /api/v1/playlist/{playlistId}", s.requireAuth(s.handleDeletePlaylist))
	mux.HandleFunc("PATCH /api/v1/playlist/add/{videoId}/{playlistId}", s.requireAuth(s.handleAddToPlaylist))
	mux.HandleFunc("PATCH /api/v1/playlist/remove/{videoId}/{playlistId}", s.requireAuth(s.handleRemoveFromPlaylist))
	mux.HandleFunc("GET /api/v1/playlist/user/{userId}", s.handleUserPlaylists)

	mux.HandleFunc("POST /api/v1/tweets", s.requireAuth(s.handleCreateTweet))
	mux.HandleFunc("GET /api/v1/tweets/user/{userId}", s.handleUserTweets)
	mux.HandleFunc("PATCH /api/v1/tweets/{tweetId}", s.requireAuth(s.handleUpdateTweet))
	mux.HandleFunc("DELETE /api/v1/tweets/{tweetId}", s.requireAuth(s.handleDeleteTweet))

	return s.recoverPanics(s.logRequests(s.withTimeout(mux)))
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.EndpointAddrHTTP,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.config.EndpointAddrHTTP)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			writeError(w, common.ErrorInternal)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, "OK")
}
