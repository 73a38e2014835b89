package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/samandr77/microservices/bills/docs" //nolint:revive,nolintlint
)

func NewRouter(h *Handler, mw *Middleware) http.Handler {
	router := chi.NewRouter()

	router.Use(mw.Log, mw.Recover, mw.Cors, mw.WithIP)

	router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Get("/health", h.Health)
			r.Get("/swagger/*", httpSwagger.WrapHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth, mw.RequireEmployee)

			r.Get("/bills", h.Bills)
			r.Post("/bills/new", h.NewBill)
			r.Get("/bills/{id}/preview", h.Preview)
			r.Get("/bills/{id}/receipt", h.Receipt)

			r.Get("/newbill", h.OpenForm)
			r.Post("/newbill/file", h.SelectFile)
			r.Post("/newbill", h.Submit)
		})
	})

	return router
}
