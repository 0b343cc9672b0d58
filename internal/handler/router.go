package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cmmsmind/backend/internal/correlation"
	"github.com/cmmsmind/backend/internal/repository"
)

// Deps are the collaborators the API is built from. Archive and Jobs may be nil.
type Deps struct {
	Store          repository.Store
	Publisher      Publisher
	Reports        Reporter
	Archive        ArchiveChecker
	Jobs           JobRunner
	Limiter        *RateLimiter
	Logger         *slog.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
	Now            func() time.Time
}

// NewRouter mounts /health and the /api/v1 routes.
func NewRouter(d Deps) http.Handler {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 60 * time.Second
	}
	b := base{logger: d.Logger}
	store := d.Store

	assets := NewAssetHandler(store.Assets(), store.WorkOrders(), d.Now, b)
	fleet := NewFleetHandler(store.Fleet(), d.Now, b)
	workOrders := NewWorkOrderHandler(store.WorkOrders(), d.Publisher, d.Now, b)
	inventory := NewInventoryHandler(store.Parts(), store.Movements(), b)
	plans := NewPlanHandler(store.Plans(), d.Now, b)
	warehouses := NewWarehouseHandler(store.Warehouses(), b)
	notifications := NewNotificationHandler(store.Notifications(), b)
	settings := NewSettingsHandler(store.Settings(), b)
	imports := NewImportHandler(store.Assets(), b)
	reports := NewReportHandler(d.Reports, b)
	health := NewHealthHandler(store, d.Archive, b)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(d.RequestTimeout))
	r.Use(correlation.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", correlation.HeaderName},
		ExposedHeaders:   []string{"Content-Disposition", correlation.HeaderName},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", health.Check)

	r.Route("/api/v1", func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(d.Limiter.Middleware)
		}

		r.Get("/dashboard", reports.Dashboard)
		r.Get("/reports/{kind}", reports.Report)

		r.Route("/assets", func(r chi.Router) {
			r.Get("/", assets.List)
			r.Post("/", assets.Create)
			r.Get("/categories", assets.Categories)
			r.Get("/code/{code}", assets.GetByCode)
			r.Get("/{id}", assets.GetByID)
			r.Put("/{id}", assets.Update)
			r.Delete("/{id}", assets.Delete)
			r.Get("/{id}/depreciation", assets.Depreciation)
		})

		r.Route("/fleet", func(r chi.Router) {
			r.Get("/", fleet.List)
			r.Post("/", fleet.Create)
			r.Get("/{id}", fleet.GetByID)
			r.Put("/{id}", fleet.Update)
			r.Delete("/{id}", fleet.Delete)
			r.Patch("/{id}/odometer", fleet.UpdateOdometer)
			r.Patch("/{id}/location", fleet.UpdateLocation)
		})

		r.Route("/work-orders", func(r chi.Router) {
			r.Get("/", workOrders.List)
			r.Post("/", workOrders.Create)
			r.Get("/overdue", workOrders.Overdue)
			r.Get("/upcoming", workOrders.Upcoming)
			r.Get("/{id}", workOrders.GetByID)
			r.Put("/{id}", workOrders.Update)
			r.Delete("/{id}", workOrders.Delete)
			r.Patch("/{id}/status", workOrders.UpdateStatus)
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/parts", inventory.ListParts)
			r.Post("/parts", inventory.CreatePart)
			r.Get("/parts/low-stock", inventory.LowStock)
			r.Get("/parts/categories", inventory.Categories)
			r.Get("/parts/{id}", inventory.GetPart)
			r.Put("/parts/{id}", inventory.UpdatePart)
			r.Delete("/parts/{id}", inventory.DeletePart)
			r.Post("/parts/{id}/adjust", inventory.AdjustStock)
			r.Get("/movements", inventory.ListMovements)
			r.Post("/movements", inventory.CreateMovement)
			r.Get("/movements/{id}", inventory.GetMovement)
		})

		r.Route("/maintenance-plans", func(r chi.Router) {
			r.Get("/", plans.List)
			r.Post("/", plans.Create)
			r.Get("/upcoming", plans.Upcoming)
			r.Get("/{id}", plans.GetByID)
			r.Put("/{id}", plans.Update)
			r.Delete("/{id}", plans.Delete)
		})

		r.Route("/warehouses", func(r chi.Router) {
			r.Get("/", warehouses.List)
			r.Post("/", warehouses.Create)
			r.Get("/regions", warehouses.Regions)
			r.Get("/factories", warehouses.Factories)
			r.Get("/{id}", warehouses.GetByID)
			r.Put("/{id}", warehouses.Update)
			r.Delete("/{id}", warehouses.Delete)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", notifications.List)
			r.Delete("/", notifications.DeleteAll)
			r.Get("/unread-count", notifications.UnreadCount)
			r.Post("/read-all", notifications.MarkAllAsRead)
			r.Post("/{id}/read", notifications.MarkAsRead)
			r.Delete("/{id}", notifications.Delete)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/company", settings.GetCompany)
			r.Put("/company", settings.UpdateCompany)
			r.Get("/policies", settings.ListPolicies)
			r.Post("/policies", settings.CreatePolicy)
			r.Get("/policies/{id}", settings.GetPolicy)
			r.Put("/policies/{id}", settings.UpdatePolicy)
			r.Delete("/policies/{id}", settings.DeletePolicy)
			r.Post("/import/assets", imports.ImportAssets)
		})

		if d.Jobs != nil {
			jobs := NewJobHandler(d.Jobs, b)
			r.Get("/jobs", jobs.List)
			r.Post("/jobs/{name}/run", jobs.Run)
		}
	})

	return r
}
