package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/samandr77/microservices/swish/docs" // swagger docs
)

func NewRouter(h *Handler, mw *Middleware) http.Handler {
	mux := chi.NewRouter()
	mux.Use(mw.Log, mw.Recover)

	mux.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HealthHandler)
		r.Get("/swagger/*", httpSwagger.Handler())

		r.Route("/paymentrequests", func(r chi.Router) {
			r.Use(mw.BearerAuth)
			r.Post("/", h.CreatePaymentRequest)
			r.Get("/{id}", h.PaymentRequest)
		})
	})

	return mux
}
