package httpapi

import (
	"net/http"
	"strconv"

	"github.com/mpetrenko/clipstream/internal/common"
	videosrepo "github.com/mpetrenko/clipstream/internal/server/repositories/videos"
	"github.com/mpetrenko/clipstream/internal/server/services"
)

func queryInt(r *http.Request, name string, fallback int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	filter := videosrepo.ListFilter{
		OwnerID:       q.Get("userId"),
		Query:         q.Get("query"),
		SortBy:        q.Get("sortBy"),
		SortAscending: q.Get("sortType") == "asc",
		PublishedOnly: true,
		Limit:         limit,
		Offset:        (page - 1) * limit,
	}

	list, err := s.videos.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list, "Videos fetched successfully")
}

func (s *Server) handlePublishVideo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, common.E(common.ErrorValidation, "invalid multipart form"))
		return
	}

	videoUpload, closeVideo, err := formUpload(r, "videoFile")
	defer closeVideo()
	if err != nil {
		writeError(w, err)
		return
	}

	thumbUpload, closeThumb, err := formUpload(r, "thumbnail")
	defer closeThumb()
	if err != nil {
		writeError(w, err)
		return
	}

	duration, _ := strconv.ParseFloat(r.FormValue("duration"), 64)

	video, err := s.videos.Publish(r.Context(), currentUser(r).ID, services.PublishParams{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Duration:    duration,
		Video:       videoUpload,
		Thumbnail:   thumbUpload,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, video, "Video published successfully")
}

func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	viewerID := ""
	if user := currentUser(r); user != nil {
		viewerID = user.ID
	}

	video, err := s.videos.Get(r.Context(), r.PathValue("videoId"), viewerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, video, "Video fetched successfully")
}

func (s *Server) handleUpdateVideo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, common.E(common.ErrorValidation, "invalid multipart form"))
		return
	}

	thumbUpload, closeThumb, err := formUpload(r, "thumbnail")
	defer closeThumb()
	if err != nil {
		writeError(w, err)
		return
	}

	video, err := s.videos.Update(r.Context(), currentUser(r).ID, r.PathValue("videoId"), services.UpdateVideoParams{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Thumbnail:   thumbUpload,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, video, "Video updated successfully")
}

func (s *Server) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	if err := s.videos.Delete(r.Context(), currentUser(r).ID, r.PathValue("videoId")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil, "Video deleted successfully")
}

func (s *Server) handleTogglePublish(w http.ResponseWriter, r *http.Request) {
	video, err := s.videos.TogglePublish(r.Context(), currentUser(r).ID, r.PathValue("videoId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, video, "Publish status toggled")
}
