package rest

import (
	"mime"
	"net/http"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req userCreateRequest
	if err := s.bind(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.svc.Users.Register(r.Context(), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "Registered", "username", user.Username)
	s.writeJSON(w, r, http.StatusCreated, user)
}

// handleLogin accepts the credentials as a form (OAuth2 password flow) or
// as a JSON object.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.bindLogin(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	token, err := s.svc.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, tokenResponse{AccessToken: token, TokenType: common.TokenType})
}

func (s *Server) bindLogin(w http.ResponseWriter, r *http.Request, req *loginRequest) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return s.bind(w, r, req)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := r.ParseForm(); err != nil {
		return common.Validation("Invalid form body", nil)
	}
	req.Username = r.PostForm.Get("username")
	req.Password = r.PostForm.Get("password")
	return s.validate(req)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := s.page(r, s.opts.ListPageSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	users, err := s.svc.Users.List(r.Context(), page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.svc.Users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req userUpdateRequest
	if err := s.bind(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	patch := models.UserPatch{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		IsActive: req.IsActive,
		Password: req.Password,
	}
	user, err := s.svc.Users.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	noContent(w)
}
