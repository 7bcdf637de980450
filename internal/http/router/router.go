package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	_ "github.com/rogerio-castellano/medicine-tracker/docs"
	"github.com/rogerio-castellano/medicine-tracker/internal/http/handlers"
	mw "github.com/rogerio-castellano/medicine-tracker/internal/http/middleware"
	rl "github.com/rogerio-castellano/medicine-tracker/internal/http/rate_limiter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Post("/register", handlers.RegisterHandler)
	r.With(rl.Limit).Post("/login", handlers.LoginHandler)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware)

		r.Get("/medicines", handlers.GetMedicinesHandler)
		r.Post("/medicines", handlers.CreateMedicineHandler)
		r.Get("/medicines/new", handlers.NewMedicineFormHandler)
		r.Post("/medicines/import", handlers.ImportMedicinesHandler)
		r.Get("/medicines/{id}", handlers.GetMedicineByIDHandler)
		r.Put("/medicines/{id}", handlers.UpdateMedicineHandler)
		r.Delete("/medicines/{id}", handlers.DeleteMedicineHandler)
		r.Post("/medicines/{id}/adjust", handlers.AdjustStockHandler)
		r.Get("/medicines/{id}/qr", handlers.GetMedicineQRHandler)

		r.With(rl.Limit).Post("/scan", handlers.ScanHandler)
		r.Get("/scans", handlers.GetScanLogsHandler)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole("admin"))
			r.Post("/admin/users", handlers.RegisterAsAdminHandler)
			r.Post("/admin/users/federated", handlers.FederatedUserHandler)
			r.Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)
		})
	})

	return r
}
