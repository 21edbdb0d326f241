package router

import (
	"net/http"

	"github.com/glanzwerk/crm/internal/auth"
	"github.com/glanzwerk/crm/internal/config"
	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/http/handler"
	"github.com/glanzwerk/crm/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/glanzwerk/crm/docs" // generated swagger docs
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Health        *handler.HealthHandler
	Auth          *handler.AuthHandler
	Customer      *handler.CustomerHandler
	Order         *handler.OrderHandler
	Quote         *handler.QuoteHandler
	Invoice       *handler.InvoiceHandler
	Communication *handler.CommunicationHandler
	Inventory     *handler.InventoryHandler
	QualityCheck  *handler.QualityCheckHandler
	TimeEntry     *handler.TimeEntryHandler
	Portal        *handler.PortalHandler
	Export        *handler.ExportHandler
	// Events serves the websocket change feed
	Events http.Handler
}

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	h              Handlers
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	handlers Handlers,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		h:              handlers,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware. Logging runs first so a recovered panic is logged with its request id.
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security, rt.cfg.App.Environment, rt.logger))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	r.Get("/health", rt.h.Health.Live)
	r.Get("/health/db", rt.h.Health.Database)
	r.Get("/health/ready", rt.h.Health.Ready)

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", rt.h.Auth.Login)
		r.Post("/portal/login", rt.h.Portal.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(middleware.TagUser)
			r.Use(rt.rateLimiter.Limit)

			r.Get("/auth/me", rt.h.Auth.Me)

			r.Group(func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireStaff)
				rt.staffRoutes(r)
			})

			r.Route("/portal", func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireCustomer)
				r.Get("/orders", rt.h.Portal.Orders)
				r.Get("/invoices", rt.h.Portal.Invoices)
				r.Get("/profile", rt.h.Portal.Profile)
				r.Put("/profile", rt.h.Portal.UpdateProfile)
				r.Get("/messages", rt.h.Portal.Messages)
				r.Post("/messages", rt.h.Portal.SendMessage)
			})
		})
	})

	return r
}

// staffRoutes mounts the back office resources
func (rt *Router) staffRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/", rt.h.Auth.ListUsers)
		r.With(rt.authMiddleware.RequireRole(domain.RoleAdmin, domain.RoleSystem)).Post("/", rt.h.Auth.CreateUser)
	})

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", rt.h.Customer.List)
		r.Post("/", rt.h.Customer.Create)
		r.Get("/{id}", rt.h.Customer.GetByID)
		r.Put("/{id}", rt.h.Customer.Update)
		r.Delete("/{id}", rt.h.Customer.Delete)
		r.Put("/{id}/portal-access", rt.h.Customer.SetPortalAccess)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", rt.h.Order.List)
		r.Post("/", rt.h.Order.Create)
		r.Get("/dashboard", rt.h.Order.Dashboard)
		r.Get("/{id}", rt.h.Order.GetByID)
		r.Put("/{id}", rt.h.Order.Update)
		r.Delete("/{id}", rt.h.Order.Delete)
		r.Put("/{id}/status", rt.h.Order.UpdateStatus)
	})

	r.Route("/quotes", func(r chi.Router) {
		r.Get("/", rt.h.Quote.List)
		r.Post("/", rt.h.Quote.Create)
		r.Get("/{id}", rt.h.Quote.GetByID)
		r.Put("/{id}", rt.h.Quote.Update)
		r.Delete("/{id}", rt.h.Quote.Delete)
		r.Put("/{id}/status", rt.h.Quote.UpdateStatus)
	})

	r.Route("/quote-templates", func(r chi.Router) {
		r.Get("/", rt.h.Quote.ListTemplates)
		r.Get("/{id}", rt.h.Quote.GetTemplate)
		r.Post("/{id}/generate", rt.h.Quote.GenerateFromTemplate)
	})

	r.Route("/invoices", func(r chi.Router) {
		r.Get("/", rt.h.Invoice.List)
		r.Post("/", rt.h.Invoice.Create)
		r.Get("/statistics", rt.h.Invoice.Statistics)
		r.Get("/{id}", rt.h.Invoice.GetByID)
		r.Put("/{id}", rt.h.Invoice.Update)
		r.Delete("/{id}", rt.h.Invoice.Delete)
		r.Put("/{id}/status", rt.h.Invoice.UpdateStatus)
		r.Post("/{id}/send", rt.h.Invoice.Send)
	})

	r.Route("/communications", func(r chi.Router) {
		r.Get("/", rt.h.Communication.List)
		r.Post("/", rt.h.Communication.Create)
		r.Get("/{id}", rt.h.Communication.GetByID)
		r.Put("/{id}", rt.h.Communication.Update)
		r.Delete("/{id}", rt.h.Communication.Delete)
	})

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", rt.h.Inventory.List)
		r.Post("/", rt.h.Inventory.Create)
		r.Get("/categories", rt.h.Inventory.Categories)
		r.Get("/statistics", rt.h.Inventory.Statistics)
		r.Get("/transactions", rt.h.Inventory.ListTransactions)
		r.Get("/{id}", rt.h.Inventory.GetByID)
		r.Put("/{id}", rt.h.Inventory.Update)
		r.Delete("/{id}", rt.h.Inventory.Delete)
		r.Post("/{id}/adjust", rt.h.Inventory.Adjust)
	})

	r.Route("/quality-checks", func(r chi.Router) {
		r.Get("/", rt.h.QualityCheck.List)
		r.Post("/", rt.h.QualityCheck.Create)
		r.Get("/statistics", rt.h.QualityCheck.Statistics)
		r.Get("/standards", rt.h.QualityCheck.Standards)
		r.Get("/{id}", rt.h.QualityCheck.GetByID)
		r.Put("/{id}", rt.h.QualityCheck.Update)
		r.Delete("/{id}", rt.h.QualityCheck.Delete)
		r.Put("/{id}/status", rt.h.QualityCheck.UpdateStatus)
		r.Post("/{id}/photos", rt.h.QualityCheck.UploadPhoto)
		r.Get("/{id}/photos/{photoId}", rt.h.QualityCheck.DownloadPhoto)
	})

	r.Route("/time-entries", func(r chi.Router) {
		r.Get("/", rt.h.TimeEntry.List)
		r.Post("/", rt.h.TimeEntry.Create)
		r.Post("/start", rt.h.TimeEntry.Start)
		r.Get("/statistics", rt.h.TimeEntry.Statistics)
		r.Get("/report", rt.h.TimeEntry.Report)
		r.Get("/{id}", rt.h.TimeEntry.GetByID)
		r.Put("/{id}", rt.h.TimeEntry.Update)
		r.Delete("/{id}", rt.h.TimeEntry.Delete)
		r.Post("/{id}/stop", rt.h.TimeEntry.Stop)
	})

	r.Get("/export/{resource}", rt.h.Export.Export)
	r.Handle("/events", rt.h.Events)
}
