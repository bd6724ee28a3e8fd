package httpapi

import (
	"net/http"

	likesrepo "github.com/mpetrenko/clipstream/internal/server/repositories/likes"
)

func (s *Server) toggleLike(w http.ResponseWriter, r *http.Request, target likesrepo.Target) {
	liked, err := s.likes.Toggle(r.Context(), currentUser(r).ID, target)
	if err != nil {
		writeError(w, err)
		return
	}

	message := "Like removed"
	if liked {
		message = "Liked"
	}
	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked}, message)
}

func (s *Server) handleToggleVideoLike(w http.ResponseWriter, r *http.Request) {
	s.toggleLike(w, r, likesrepo.Target{Kind: likesrepo.TargetVideo, ID: r.PathValue("videoId")})
}

func (s *Server) handleToggleCommentLike(w http.ResponseWriter, r *http.Request) {
	s.toggleLike(w, r, likesrepo.Target{Kind: likesrepo.TargetComment, ID: r.PathValue("commentId")})
}

func (s *Server) handleToggleTweetLike(w http.ResponseWriter, r *http.Request) {
	s.toggleLike(w, r, likesrepo.Target{Kind: likesrepo.TargetTweet, ID: r.PathValue("tweetId")})
}

func (s *Server) handleLikedVideos(w http.ResponseWriter, r *http.Request) {
	list, err := s.likes.LikedVideos(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list, "Liked videos fetched successfully")
}
