package rest

import (
	"net/http"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemCreateRequest
	if err := s.bind(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	item, err := s.svc.Items.Create(r.Context(), models.Item{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Tax:         req.Tax,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, item)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	page, err := s.page(r, s.opts.ItemsPerPage)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items, err := s.svc.Items.List(r.Context(), models.ItemFilter{Name: queryString(r, "name")}, page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, items)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.svc.Items.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req itemUpdateRequest
	if err := s.bind(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	patch := models.ItemPatch{Name: req.Name, Description: req.Description, Price: req.Price, Tax: req.Tax}
	item, err := s.svc.Items.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Items.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	noContent(w)
}
