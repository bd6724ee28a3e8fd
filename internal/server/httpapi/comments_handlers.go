package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/mpetrenko/clipstream/internal/common"
)

type commentRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	list, err := s.comments.ListByVideo(r.Context(), r.PathValue("videoId"), limit, (page-1)*limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list, "Comments fetched successfully")
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.E(common.ErrorValidation, "invalid request body"))
		return
	}

	comment, err := s.comments.Add(r.Context(), currentUser(r).ID, r.PathValue("videoId"), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment, "Comment added successfully")
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.E(common.ErrorValidation, "invalid request body"))
		return
	}

	comment, err := s.comments.Update(r.Context(), currentUser(r).ID, r.PathValue("commentId"), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment, "Comment updated successfully")
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := s.comments.Delete(r.Context(), currentUser(r).ID, r.PathValue("commentId")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil, "Comment deleted successfully")
}
