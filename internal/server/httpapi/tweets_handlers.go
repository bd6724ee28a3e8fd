package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/mpetrenko/clipstream/internal/common"
)

type tweetRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleCreateTweet(w http.ResponseWriter, r *http.Request) {
	var req tweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.E(common.ErrorValidation, "invalid request body"))
		return
	}

	tweet, err := s.tweets.Create(r.Context(), currentUser(r).ID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tweet, "Tweet created successfully")
}

func (s *Server) handleUserTweets(w http.ResponseWriter, r *http.Request) {
	list, err := s.tweets.ListByOwner(r.Context(), r.PathValue("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list, "Tweets fetched successfully")
}

func (s *Server) handleUpdateTweet(w http.ResponseWriter, r *http.Request) {
	var req tweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.E(common.ErrorValidation, "invalid request body"))
		return
	}

	tweet, err := s.tweets.Update(r.Context(), currentUser(r).ID, r.PathValue("tweetId"), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tweet, "Tweet updated successfully")
}

func (s *Server) handleDeleteTweet(w http.ResponseWriter, r *http.Request) {
	if err := s.tweets.Delete(r.Context(), currentUser(r).ID, r.PathValue("tweetId")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil, "Tweet deleted successfully")
}
