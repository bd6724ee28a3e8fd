package services

import (
	"bytes"
	"context"
	"database/sql"
	"io"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mpetrenko/clipstream/internal/common"
	"github.com/mpetrenko/clipstream/internal/dbx"
	"github.com/mpetrenko/clipstream/internal/server/models"
	commentsrepo "github.com/mpetrenko/clipstream/internal/server/repositories/comments"
	likesrepo "github.com/mpetrenko/clipstream/internal/server/repositories/likes"
	playlistsrepo "github.com/mpetrenko/clipstream/internal/server/repositories/playlists"
	tweetsrepo "github.com/mpetrenko/clipstream/internal/server/repositories/tweets"
	usersrepo "github.com/mpetrenko/clipstream/internal/server/repositories/users"
	videosrepo "github.com/mpetrenko/clipstream/internal/server/repositories/videos"
)

// --- helpers ---

func newSQLMockDB(t interface {
	Helper()
	Fatalf(string, ...any)
}) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byID     map[string]*models.User
	byLogin  *models.User
	loginErr error

	storedRefresh map[string]*string
	refreshErr    error

	updatedPasswordHash string
	accountOut          *models.User
	avatarOut           *models.User
	coverOut            *models.User
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = "new-user-id"
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	if f.byLogin == nil {
		return nil, common.ErrorNotFound
	}
	return f.byLogin, nil
}

func (f *fakeUsersRepo) UpdateRefreshToken(ctx context.Context, userID string, token *string) error {
	if f.refreshErr != nil {
		return f.refreshErr
	}
	if f.storedRefresh == nil {
		f.storedRefresh = map[string]*string{}
	}
	f.storedRefresh[userID] = token
	return nil
}

func (f *fakeUsersRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	f.updatedPasswordHash = passwordHash
	return nil
}

func (f *fakeUsersRepo) UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	return f.accountOut, nil
}

func (f *fakeUsersRepo) UpdateAvatar(ctx context.Context, userID, avatar string) (*models.User, error) {
	return f.avatarOut, nil
}

func (f *fakeUsersRepo) UpdateCoverImage(ctx context.Context, userID, coverImage string) (*models.User, error) {
	return f.coverOut, nil
}

type fakeVideosRepo struct {
	byID    map[string]*models.Video
	created *models.Video
	listOut []*models.Video
	updated *models.Video
	setOut  *models.Video
	views   map[string]int
	deleted []string
}

func (f *fakeVideosRepo) Create(ctx context.Context, v *models.Video) (*models.Video, error) {
	v.ID = "new-video-id"
	f.created = v
	return v, nil
}

func (f *fakeVideosRepo) GetByID(ctx context.Context, id string) (*models.Video, error) {
	if v, ok := f.byID[id]; ok {
		return v, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeVideosRepo) List(ctx context.Context, filter videosrepo.ListFilter) ([]*models.Video, error) {
	return f.listOut, nil
}

func (f *fakeVideosRepo) Update(ctx context.Context, id, title, description, thumbnailKey string) (*models.Video, error) {
	return f.updated, nil
}

func (f *fakeVideosRepo) SetPublished(ctx context.Context, id string, published bool) (*models.Video, error) {
	return f.setOut, nil
}

func (f *fakeVideosRepo) IncrementViews(ctx context.Context, id string) error {
	if f.views == nil {
		f.views = map[string]int{}
	}
	f.views[id]++
	return nil
}

func (f *fakeVideosRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCommentsRepo struct {
	byID    map[string]*models.Comment
	created *models.Comment
	listOut []*models.Comment
	updated *models.Comment
	deleted []string
}

func (f *fakeCommentsRepo) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	c.ID = "new-comment-id"
	f.created = c
	return c, nil
}

func (f *fakeCommentsRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCommentsRepo) ListByVideo(ctx context.Context, videoID string, limit, offset int) ([]*models.Comment, error) {
	return f.listOut, nil
}

func (f *fakeCommentsRepo) Update(ctx context.Context, id, content string) (*models.Comment, error) {
	return f.updated, nil
}

func (f *fakeCommentsRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeLikesRepo struct {
	existing *models.Like
	created  *models.Like
	deleted  []string
	likedOut []*models.Video
}

func (f *fakeLikesRepo) Create(ctx context.Context, l *models.Like) (*models.Like, error) {
	l.ID = "new-like-id"
	f.created = l
	return l, nil
}

func (f *fakeLikesRepo) Find(ctx context.Context, ownerID string, target likesrepo.Target) (*models.Like, error) {
	if f.existing == nil {
		return nil, common.ErrorNotFound
	}
	return f.existing, nil
}

func (f *fakeLikesRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeLikesRepo) ListLikedVideos(ctx context.Context, ownerID string) ([]*models.Video, error) {
	return f.likedOut, nil
}

type fakeTweetsRepo struct {
	byID    map[string]*models.Tweet
	created *models.Tweet
	listOut []*models.Tweet
	updated *models.Tweet
	deleted []string
}

func (f *fakeTweetsRepo) Create(ctx context.Context, tw *models.Tweet) (*models.Tweet, error) {
	tw.ID = "new-tweet-id"
	f.created = tw
	return tw, nil
}

func (f *fakeTweetsRepo) GetByID(ctx context.Context, id string) (*models.Tweet, error) {
	if tw, ok := f.byID[id]; ok {
		return tw, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeTweetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Tweet, error) {
	return f.listOut, nil
}

func (f *fakeTweetsRepo) Update(ctx context.Context, id, content string) (*models.Tweet, error) {
	return f.updated, nil
}

func (f *fakeTweetsRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakePlaylistsRepo struct {
	byID    map[string]*models.Playlist
	created *models.Playlist
	listOut []*models.Playlist
	updated *models.Playlist
	added   [][2]string
	removed [][2]string
	deleted []string
}

func (f *fakePlaylistsRepo) Create(ctx context.Context, p *models.Playlist) (*models.Playlist, error) {
	p.ID = "new-playlist-id"
	f.created = p
	return p, nil
}

func (f *fakePlaylistsRepo) GetByID(ctx context.Context, id string) (*models.Playlist, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakePlaylistsRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Playlist, error) {
	return f.listOut, nil
}

func (f *fakePlaylistsRepo) Update(ctx context.Context, id, name, description string) (*models.Playlist, error) {
	return f.updated, nil
}

func (f *fakePlaylistsRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePlaylistsRepo) AddVideo(ctx context.Context, playlistID, videoID string) error {
	f.added = append(f.added, [2]string{playlistID, videoID})
	return nil
}

func (f *fakePlaylistsRepo) RemoveVideo(ctx context.Context, playlistID, videoID string) error {
	f.removed = append(f.removed, [2]string{playlistID, videoID})
	return nil
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	v  *fakeVideosRepo
	c  *fakeCommentsRepo
	l  *fakeLikesRepo
	p  *fakePlaylistsRepo
	tw *fakeTweetsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error   { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository         { return m.u }
func (m *fakeRepoManager) Videos(db dbx.DBTX) videosrepo.Repository       { return m.v }
func (m *fakeRepoManager) Comments(db dbx.DBTX) commentsrepo.Repository   { return m.c }
func (m *fakeRepoManager) Likes(db dbx.DBTX) likesrepo.Repository         { return m.l }
func (m *fakeRepoManager) Playlists(db dbx.DBTX) playlistsrepo.Repository { return m.p }
func (m *fakeRepoManager) Tweets(db dbx.DBTX) tweetsrepo.Repository       { return m.tw }

// fakeMedia records uploads and deletes and signs keys predictably.
type fakeMedia struct {
	uploads map[string]string // key -> content type
	deletes []string
}

func (f *fakeMedia) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	if f.uploads == nil {
		f.uploads = map[string]string{}
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return err
	}
	f.uploads[key] = contentType
	return nil
}

func (f *fakeMedia) Delete(ctx context.Context, key string) error {
	f.deletes = append(f.deletes, key)
	return nil
}

func (f *fakeMedia) PresignGet(ctx context.Context, key string) (string, error) {
	return "https://signed.example/" + key, nil
}

func imageUpload() *Upload {
	return &Upload{Content: bytes.NewReader([]byte("img")), ContentType: "image/png"}
}
