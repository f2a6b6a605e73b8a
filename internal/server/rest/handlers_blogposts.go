package rest

import (
	"net/http"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCreateBlogPost(w http.ResponseWriter, r *http.Request) {
	var req blogPostCreateRequest
	if err := s.bind(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	post, err := s.svc.BlogPosts.Create(r.Context(), currentUser(r.Context()), services.BlogPostInput{
		Title:       req.Title,
		Content:     req.Content,
		CategoryID:  req.CategoryID,
		Published:   req.Published,
		PublishedAt: req.PublishedAt,
		TagIDs:      req.TagIDs,
		ImageIDs:    req.ImageIDs,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, post)
}

func (s *Server) handleListBlogPosts(w http.ResponseWriter, r *http.Request) {
	page, err := s.page(r, s.opts.ListPageSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	published, err := queryBool(r, "published")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	filter := models.BlogPostFilter{
		AuthorID:   queryString(r, "author_id"),
		CategoryID: queryString(r, "category_id"),
		Published:  published,
	}
	posts, err := s.svc.BlogPosts.List(r.Context(), filter, page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, posts)
}

func (s *Server) handleGetBlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.svc.BlogPosts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, post)
}

func (s *Server) handleUpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	var req blogPostUpdateRequest
	if err := s.bind(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	patch := models.BlogPostPatch{
		Title:         req.Title,
		Content:       req.Content,
		CategoryID:    req.CategoryID.Value,
		ClearCategory: req.CategoryID.Set && req.CategoryID.Value == nil,
		Published:     req.Published,
		PublishedAt:   req.PublishedAt,
		TagIDs:        req.TagIDs,
		ImageIDs:      req.ImageIDs,
	}
	post, err := s.svc.BlogPosts.Update(r.Context(), currentUser(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, post)
}

func (s *Server) handleDeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.BlogPosts.Delete(r.Context(), currentUser(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	noContent(w)
}
