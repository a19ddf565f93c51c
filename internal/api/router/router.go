package router

import (
	"net/http"

	"github.com/RoyceAzure/lab/eventro/internal/api"
	"github.com/RoyceAzure/lab/eventro/internal/api/handler"
	m "github.com/RoyceAzure/lab/eventro/internal/api/middleware"
	"github.com/RoyceAzure/lab/eventro/internal/pkg/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func middlewareStack(logger zerolog.Logger) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		m.RequestIdMiddleware,
		middleware.RealIP,
		m.LoggerMiddleware(logger),
	}
}

// SetupRouter limiter 只套用在付款
func SetupRouter(server *handler.Server, limiter ratelimit.Limiter, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(middlewareStack(logger)...)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		api.SuccessJSON(w, nil, "ok")
	})

	// API 路由
	r.Route("/api/v1", func(r chi.Router) {
		// 目錄，不需要 session
		r.Group(func(r chi.Router) {
			r.Get("/listings", server.ListingHandler.Search)
			r.Get("/listings/{id}", server.ListingHandler.Get)
			r.Get("/categories", server.ListingHandler.Categories)
			r.Route("/locations", func(r chi.Router) {
				r.Get("/countries", server.LocationHandler.Countries)
				r.Get("/countries/{id}/states", server.LocationHandler.States)
				r.Get("/states/{id}/cities", server.LocationHandler.Cities)
				r.Get("/cities", server.LocationHandler.CityNames)
			})
		})

		// session 狀態
		r.Group(func(r chi.Router) {
			r.Use(m.SessionMiddleware)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", server.CartHandler.Get)
				r.Delete("/", server.CartHandler.Clear)
				r.Post("/items", server.CartHandler.AddItem)
				r.Patch("/items/{itemID}", server.CartHandler.UpdateItem)
				r.Delete("/items/{itemID}", server.CartHandler.RemoveItem)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", server.CheckoutHandler.Begin)
				r.Get("/", server.CheckoutHandler.Quote)
				if limiter != nil {
					r.With(m.NewRateLimitMiddleware(limiter)).Post("/pay", server.CheckoutHandler.Pay)
				} else {
					r.Post("/pay", server.CheckoutHandler.Pay)
				}
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/last", server.CheckoutHandler.LastOrder)
				if server.CheckoutHandler.HasHistory() {
					r.Get("/", server.CheckoutHandler.History)
					r.Get("/{reference}", server.CheckoutHandler.GetOrder)
				}
			})

			r.Route("/threads/{threadID}", func(r chi.Router) {
				r.Get("/", server.MessageHandler.Thread)
				r.Post("/messages", server.MessageHandler.Send)
			})
		})
	})

	// 在設置完所有路由後打印路由樹
	if err := chi.Walk(r, func(method string, route string, h http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		logger.Debug().Str("method", method).Str("route", route).Msg("route registered")
		return nil
	}); err != nil {
		logger.Warn().Err(err).Msg("failed to walk routes")
	}
	return r
}
