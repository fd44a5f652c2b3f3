package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	domproduct "example.com/marketplace/app/internal/domain/product"
)

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filter := domproduct.Filter{
		Name:      r.URL.Query().Get("name"),
		SortBy:    r.URL.Query().Get("sortBy"),
		SortOrder: r.URL.Query().Get("sortOrder"),
	}

	if cats := r.URL.Query().Get("categories"); cats != "" {
		for _, c := range strings.Split(cats, ",") {
			if c = strings.TrimSpace(c); c != "" {
				filter.Categories = append(filter.Categories, c)
			}
		}
	}

	if min := r.URL.Query().Get("minPrice"); min != "" {
		filter.MinPrice, _ = strconv.ParseFloat(min, 64)
	}
	if max := r.URL.Query().Get("maxPrice"); max != "" {
		filter.MaxPrice, _ = strconv.ParseFloat(max, 64)
	}
	if page := r.URL.Query().Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil {
			filter.Page = p
		}
	}
	if size := r.URL.Query().Get("pageSize"); size != "" {
		if s, err := strconv.Atoi(size); err == nil {
			filter.PageSize = s
		}
	}

	result, err := a.productSvc.List(r.Context(), filter)
	if err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		handleDomainError(w, err)
		return
	}

	if len(result.Data) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	productId := chi.URLParam(r, "productId")

	p, err := a.productSvc.GetByID(r.Context(), productId)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
