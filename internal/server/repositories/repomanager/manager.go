package repomanager

import (
	"context"
	"database/sql"

	"github.com/mpetrenko/clipstream/internal/dbx"
	"github.com/mpetrenko/clipstream/internal/server/repositories/comments"
	"github.com/mpetrenko/clipstream/internal/server/repositories/likes"
	"github.com/mpetrenko/clipstream/internal/server/repositories/playlists"
	"github.com/mpetrenko/clipstream/internal/server/repositories/tweets"
	"github.com/mpetrenko/clipstream/internal/server/repositories/users"
	"github.com/mpetrenko/clipstream/internal/server/repositories/videos"
)

// RepositoryManager vends repositories bound to a DBTX, which lets services
// run a group of repository calls inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Videos(db dbx.DBTX) videos.Repository
	Comments(db dbx.DBTX) comments.Repository
	Likes(db dbx.DBTX) likes.Repository
	Playlists(db dbx.DBTX) playlists.Repository
	Tweets(db dbx.DBTX) tweets.Repository
}
