package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mpetrenko/clipstream/internal/common"
	"github.com/mpetrenko/clipstream/internal/server/models"
	"github.com/mpetrenko/clipstream/internal/server/services"
)

// multipart bodies are buffered up to this size before spilling to disk
const maxMultipartMemory = 32 << 20

// formUpload pulls one file out of a parsed multipart form. A missing file
// yields a nil Upload, not an error; the caller decides whether it was
// required. The returned cleanup must always be called.
func formUpload(r *http.Request, field string) (*services.Upload, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, func() {}, nil
		}
		return nil, func() {}, common.E(common.ErrorValidation, "invalid multipart form")
	}
	upload := &services.Upload{
		Content:     file,
		ContentType: header.Header.Get("Content-Type"),
	}
	return upload, func() { _ = file.Close() }, nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, common.E(common.ErrorValidation, "invalid multipart form"))
		return
	}

	avatar, closeAvatar, err := formUpload(r, "avatar")
	defer closeAvatar()
	if err != nil {
		writeError(w, err)
		return
	}

	cover, closeCover, err := formUpload(r, "coverImage")
	defer closeCover()
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := s.users.Register(r.Context(), services.RegisterParams{
		Username:   r.FormValue("username"),
		Email:      r.FormValue("email"),
		FullName:   r.FormValue("fullName"),
		Password:   r.FormValue("password"),
		Avatar:     avatar,
		CoverImage: cover,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	safe, err := s.users.SafeWithURLs(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, safe, "User registered successfully")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.E(common.ErrorValidation, "invalid request body"))
		return
	}

	user, pair, err := s.auth.Login(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	safe, err := s.users.SafeWithURLs(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}

	s.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, map[string]any{
		"user":         safe,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "User logged in successfully")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	var presented string
	if c, err := r.Cookie(refreshTokenCookie); err == nil {
		presented = c.Value
	}
	if presented == "" && r.Body != nil {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	pair, err := s.auth.Rotate(r.Context(), presented)
	if err != nil {
		writeError(w, err)
		return
	}

	s.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, map[string]any{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "Access token refreshed")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	if err := s.auth.Revoke(r.Context(), user.ID); err != nil {
		writeError(w, err)
		return
	}

	s.clearAuthCookies(w)
	writeJSON(w, http.StatusOK, nil, "User logged out")
}

func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	safe, err := s.users.SafeWithURLs(r.Context(), currentUser(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, safe, "Current user fetched successfully")
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.E(common.ErrorValidation, "invalid request body"))
		return
	}

	if err := s.users.ChangePassword(r.Context(), currentUser(r).ID, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil, "Password changed successfully")
}

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req updateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, common.E(common.ErrorValidation, "invalid request body"))
		return
	}

	user, err := s.users.UpdateAccount(r.Context(), currentUser(r).ID, req.FullName, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	safe, err := s.users.SafeWithURLs(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, safe, "Account details updated successfully")
}

func (s *Server) handleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	s.handleImageUpdate(w, r, "avatar", s.users.UpdateAvatar, "Avatar updated successfully")
}

func (s *Server) handleUpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	s.handleImageUpdate(w, r, "coverImage", s.users.UpdateCoverImage, "Cover image updated successfully")
}

func (s *Server) handleImageUpdate(w http.ResponseWriter, r *http.Request, field string,
	update func(ctx context.Context, userID string, upload *services.Upload) (*models.User, error),
	message string) {

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, common.E(common.ErrorValidation, "invalid multipart form"))
		return
	}

	upload, closeUpload, err := formUpload(r, field)
	defer closeUpload()
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := update(r.Context(), currentUser(r).ID, upload)
	if err != nil {
		writeError(w, err)
		return
	}

	safe, err := s.users.SafeWithURLs(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, safe, message)
}
