package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domcart "example.com/marketplace/app/internal/domain/cart"
	domcategory "example.com/marketplace/app/internal/domain/category"
	domproduct "example.com/marketplace/app/internal/domain/product"
	cartuc "example.com/marketplace/app/internal/usecase/cart"
	categoryuc "example.com/marketplace/app/internal/usecase/category"
	productuc "example.com/marketplace/app/internal/usecase/product"
)

// SessionService issues and validates guest-session tokens for the cart
// surface.
type SessionService interface {
	IssueToken() (token string, sessionID string, err error)
	ParseToken(token string) (sessionID string, err error)
}

type API struct {
	productSvc  *productuc.Service
	categorySvc *categoryuc.Service
	carts       *cartuc.Sessions
	sessionSvc  SessionService
	validator   *validator.Validate
	log         *zap.SugaredLogger
}

type Dependencies struct {
	ProductService  *productuc.Service
	CategoryService *categoryuc.Service
	CartSessions    *cartuc.Sessions
	SessionService  SessionService
	Logger          *zap.SugaredLogger
}

func NewAPI(deps Dependencies) *API {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &API{
		productSvc:  deps.ProductService,
		categorySvc: deps.CategoryService,
		carts:       deps.CartSessions,
		sessionSvc:  deps.SessionService,
		validator:   validator.New(),
		log:         log,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(a.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.AllowContentType("application/json", "text/plain"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", a.handleListProducts)
		r.Get("/products/{productId}", a.handleGetProduct)
		r.Get("/categories", a.handleListCategories)
		r.Get("/categories/{categoryName}", a.handleGetCategory)
		r.Post("/session", a.handleCreateSession)

		r.Group(func(sr chi.Router) {
			sr.Use(a.sessionMiddleware)
			sr.Get("/me/cart", a.handleGetCart)
			sr.Post("/me/cart/items", a.handleAddCartItem)
			sr.Put("/me/cart/items/{productId}", a.handleUpdateCartItem)
			sr.Delete("/me/cart/items/{productId}", a.handleRemoveCartItem)
			sr.Delete("/me/cart", a.handleClearCart)
		})
	})

	return r
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func mapCartState(state domcart.State) map[string]any {
	lines := make([]map[string]any, 0, len(state.Lines))
	for _, line := range state.Lines {
		lines = append(lines, map[string]any{
			"product":  line.Product,
			"quantity": line.Quantity,
			"subtotal": line.Subtotal(),
		})
	}
	return map[string]any{
		"lines":     lines,
		"itemCount": state.ItemCount,
		"total":     state.Total,
	}
}

func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domproduct.ErrProductNotFound),
		errors.Is(err, domcategory.ErrCategoryNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, domproduct.ErrOutOfStock):
		respondError(w, http.StatusUnprocessableEntity, err)
	default:
		respondError(w, http.StatusInternalServerError, err)
	}
}
