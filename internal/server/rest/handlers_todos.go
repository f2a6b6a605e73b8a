package rest

import (
	"net/http"

	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var req todoCreateRequest
	if err := s.bind(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	todo, err := s.svc.Todos.Create(r.Context(), req.Title, req.Description, req.Completed)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, todo)
}

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	page, err := s.page(r, s.opts.ItemsPerPage)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	completed, err := queryBool(r, "completed")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	filter := models.TodoFilter{Title: queryString(r, "title"), Completed: completed}

	todos, err := s.svc.Todos.List(r.Context(), filter, page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, todos)
}

func (s *Server) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	todo, err := s.svc.Todos.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, todo)
}

func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	var req todoUpdateRequest
	if err := s.bind(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	patch := models.TodoPatch{Title: req.Title, Description: req.Description, Completed: req.Completed}
	todo, err := s.svc.Todos.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, todo)
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Todos.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	noContent(w)
}
