package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (a *API) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categorySvc.List(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": categories})
}

func (a *API) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "categoryName")

	c, err := a.categorySvc.GetByName(r.Context(), name)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
