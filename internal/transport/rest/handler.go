// Package rest provides the HTTP API of the storefront.
package rest

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/storefront/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Services groups the business services exposed over HTTP.
type Services struct {
	Products   service.ProductService
	Categories service.CategoryService
	Clients    service.ClientService
	Providers  service.ProviderService
	Users      service.UserService
	Sales      service.SaleService
}

// TokenIssuer creates the bearer token returned by a successful login.
type TokenIssuer interface {
	Issue(subject, role string) (string, error)
}

type Handler struct {
	services Services
	tokens   TokenIssuer
	logger   *slog.Logger
}

// NewHandler creates the API handler. tokens may be nil, in which case login succeeds without a token.
func NewHandler(services Services, tokens TokenIssuer, logger *slog.Logger) *Handler {
	return &Handler{
		services: services,
		tokens:   tokens,
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes mounts the API on r. When authenticate is not nil it guards every /api route except login.
func (h *Handler) RegisterRoutes(r chi.Router, authenticate func(http.Handler) http.Handler) {
	r.Get("/", h.Banner)
	r.Post("/api/login", h.Login)

	r.Group(func(r chi.Router) {
		if authenticate != nil {
			r.Use(authenticate)
		}
		r.Route("/api/products", newRecordHandler(h.services.Products, "Product", h.logger).routes)
		r.Route("/api/categories", newRecordHandler(h.services.Categories, "Category", h.logger).routes)
		r.Route("/api/clients", newRecordHandler(h.services.Clients, "Client", h.logger).routes)
		r.Route("/api/providers", newRecordHandler(h.services.Providers, "Provider", h.logger).routes)

		r.Route("/api/users_management", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetUser)
				r.Put("/", h.UpdateUser)
				r.Delete("/", h.DeleteUser)
			})
		})

		r.Route("/api/sales", func(r chi.Router) {
			r.Get("/", h.ListSales)
			r.Post("/", h.RecordSale)
			r.Get("/{id}", h.GetSale)
		})
	})
}

// Banner answers the root path so a browser hitting the port sees the service is up.
func (h *Handler) Banner(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Storefront API is running"))
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	return requestLogger(h.logger, r)
}

func requestLogger(logger *slog.Logger, r *http.Request) *slog.Logger {
	return logger.With("request_id", middleware.GetReqID(r.Context()))
}
