package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/mpetrenko/clipstream/internal/common"
)

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.E(common.ErrorValidation, "invalid request body"))
		return
	}

	playlist, err := s.playlists.Create(r.Context(), currentUser(r).ID, req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, playlist, "Playlist created successfully")
}

func (s *Server) handleGetPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := s.playlists.Get(r.Context(), r.PathValue("playlistId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist, "Playlist fetched successfully")
}

func (s *Server) handleUpdatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req playlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.E(common.ErrorValidation, "invalid request body"))
		return
	}

	playlist, err := s.playlists.Update(r.Context(), currentUser(r).ID, r.PathValue("playlistId"), req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist, "Playlist updated successfully")
}

func (s *Server) handleDeletePlaylist(w http.ResponseWriter, r *http.Request) {
	if err := s.playlists.Delete(r.Context(), currentUser(r).ID, r.PathValue("playlistId")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil, "Playlist deleted successfully")
}

func (s *Server) handleAddToPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := s.playlists.AddVideo(r.Context(), currentUser(r).ID,
		r.PathValue("playlistId"), r.PathValue("videoId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist, "Video added to playlist")
}

func (s *Server) handleRemoveFromPlaylist(w http.ResponseWriter, r *http.Request) {
	playlist, err := s.playlists.RemoveVideo(r.Context(), currentUser(r).ID,
		r.PathValue("playlistId"), r.PathValue("videoId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist, "Video removed from playlist")
}

func (s *Server) handleUserPlaylists(w http.ResponseWriter, r *http.Request) {
	list, err := s.playlists.ListByOwner(r.Context(), r.PathValue("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list, "Playlists fetched successfully")
}
