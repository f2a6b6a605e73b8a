package rest

import (
	"net/http"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/go-chi/chi/v5"
)

// Categories.

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryCreateRequest
	if err := s.bind(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	category, err := s.svc.Categories.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, category)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	page, err := s.page(r, s.opts.ListPageSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.svc.Categories.List(r.Context(), page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, list)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := s.svc.Categories.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, category)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryUpdateRequest
	if err := s.bind(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	patch := models.CategoryPatch{Name: req.Name, Description: req.Description}
	category, err := s.svc.Categories.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	noContent(w)
}

// Tags.

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req tagCreateRequest
	if err := s.bind(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tag, err := s.svc.Tags.Create(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, tag)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	page, err := s.page(r, s.opts.ListPageSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	list, err := s.svc.Tags.List(r.Context(), page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, list)
}

func (s *Server) handleGetTag(w http.ResponseWriter, r *http.Request) {
	tag, err := s.svc.Tags.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, tag)
}

func (s *Server) handleUpdateTag(w http.ResponseWriter, r *http.Request) {
	var req tagUpdateRequest
	if err := s.bind(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tag, err := s.svc.Tags.Update(r.Context(), chi.URLParam(r, "id"), models.TagPatch{Name: req.Name})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, tag)
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Tags.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	noContent(w)
}
