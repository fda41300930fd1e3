package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/foodz/foodz-api/internal/ai"
	"github.com/foodz/foodz-api/internal/auth"
	"github.com/foodz/foodz-api/internal/catalog"
	"github.com/foodz/foodz-api/internal/orders"
	"github.com/foodz/foodz-api/internal/requestid"
	"github.com/foodz/foodz-api/pkg/ratelimit"
)

type Deps struct {
	Catalog   catalog.Store
	Orders    *orders.Service
	Users     auth.Store
	UserCache auth.Cache
	Tokens    *auth.TokenManager
	AI        *ai.Service
	Limiter   *ratelimit.Limiter
	Tracer    trace.Tracer
	Logger    *zap.Logger
}

func NewRouter(d Deps) http.Handler {
	if d.Tracer == nil {
		d.Tracer = noop.NewTracerProvider().Tracer("foodz-api")
	}
	h := NewHandler(d)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(requestid.Middleware)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.StripSlashes)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"foodz-api"}`))
	})

	r.Get("/brands", h.ListBrands)
	r.Get("/menu/{brand}", h.GetMenu)
	r.Post("/orders", h.PlaceOrder)
	r.Get("/orders/{id}", h.GetOrder)
	r.Post("/auth/login", h.Login)

	r.Post("/ai/test", h.GenerateReply)
	r.Get("/ai/health", h.AIHealth)

	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAdmin(d.Tokens, d.Users, d.UserCache, h.logger))

		r.Post("/menu", h.CreateMenuItem)
		r.Get("/menu", h.ListAllMenuItems)
		r.Put("/menu/{id}", h.UpdateMenuItem)
		r.Patch("/menu/{id}/toggle", h.ToggleMenuItem)
		r.Delete("/menu/{id}", h.DeleteMenuItem)

		r.Get("/orders", h.ListOrders)
		r.Get("/orders/stats", h.OrderStats)
		r.Patch("/orders/{id}/status", h.UpdateOrderStatus)
		r.Get("/stats", h.OrderStats)
	})

	return r
}
