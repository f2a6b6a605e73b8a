package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	if s.opts.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, common.Validation("Upload too large", map[string]string{"file": "too large"}))
			return
		}
		s.writeError(w, r, common.Validation("Invalid multipart body", nil))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, common.Validation("Invalid request", map[string]string{"file": "field required"}))
		return
	}
	defer file.Close()

	up := services.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	if alt := r.FormValue("alt_text"); alt != "" {
		up.AltText = &alt
	}

	image, err := s.svc.Images.Upload(r.Context(), up)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, image)
}

func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	page, err := s.page(r, s.opts.ListPageSize)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	images, err := s.svc.Images.List(r.Context(), page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, images)
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	image, err := s.svc.Images.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, image)
}

func (s *Server) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Images.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	noContent(w)
}
