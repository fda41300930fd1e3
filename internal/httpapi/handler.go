package httpapi

import (
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/foodz/foodz-api/internal/ai"
	"github.com/foodz/foodz-api/internal/auth"
	"github.com/foodz/foodz-api/internal/catalog"
	"github.com/foodz/foodz-api/internal/logging"
	"github.com/foodz/foodz-api/internal/orders"
	"github.com/foodz/foodz-api/pkg/ratelimit"
)

type Handler struct {
	catalog catalog.Store
	orders  *orders.Service
	users   auth.Store
	tokens  *auth.TokenManager
	ai      *ai.Service
	limiter *ratelimit.Limiter
	tracer  trace.Tracer
	logger  *zap.Logger
}

func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		catalog: d.Catalog,
		orders:  d.Orders,
		users:   d.Users,
		tokens:  d.Tokens,
		ai:      d.AI,
		limiter: d.Limiter,
		tracer:  d.Tracer,
		logger:  logger,
	}
}

// fail maps domain errors onto HTTP statuses. Anything unrecognised is a
// 500 and is logged.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		catalogInvalid *catalog.ValidationError
		orderInvalid   *orders.ValidationError
	)
	switch {
	case errors.As(err, &catalogInvalid), errors.As(err, &orderInvalid):
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, catalog.ErrBrandNotFound),
		errors.Is(err, catalog.ErrMenuItemNotFound),
		errors.Is(err, orders.ErrMenuItemUnavailable),
		errors.Is(err, orders.ErrOrderNotFound):
		writeDetail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, orders.ErrInvalidStatus):
		writeDetail(w, http.StatusBadRequest, err.Error())
	default:
		logging.FromContext(r.Context(), h.logger).Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.catalog.ListBrands(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, brands)
}

// GetMenu resolves {brand} as an id first and as a slug otherwise, and
// lists the brand's available items.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ref := chi.URLParam(r, "brand")

	var (
		brand *catalog.Brand
		err   = catalog.ErrBrandNotFound
	)
	if id, perr := strconv.ParseInt(ref, 10, 64); perr == nil {
		brand, err = h.catalog.GetBrand(ctx, id)
	}
	if errors.Is(err, catalog.ErrBrandNotFound) {
		brand, err = h.catalog.GetBrandBySlug(ctx, ref)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	items, err := h.catalog.ListMenuItems(ctx, catalog.MenuFilter{BrandID: &brand.ID, AvailableOnly: true})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"brand": brand.Name,
		"slug":  brand.Slug,
		"menu":  items,
	})
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req orders.PlaceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.orders.Place(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	logging.FromContext(r.Context(), h.logger).Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("brand_id", order.BrandID),
		zap.Float64("total", order.Total),
	)
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	order, err := h.orders.Get(r.Context(), id)
	if errors.Is(err, orders.ErrOrderNotFound) {
		writeDetail(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil && !errors.Is(err, auth.ErrUserNotFound) {
		h.fail(w, r, err)
		return
	}
	if user == nil || !auth.VerifyPassword(req.Password, user.HashedPassword) {
		writeDetail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	token, err := h.tokens.Issue(user.Username)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
