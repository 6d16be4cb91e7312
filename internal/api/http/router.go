package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/enquiry-service/internal/api/http/handlers"
	"github.com/spec-kit/enquiry-service/internal/auth"
	"github.com/spec-kit/enquiry-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Enquiries      *handlers.EnquiriesHandler
	Billing        *handlers.BillingHandler
	Logs           *handlers.LogsHandler
	Catalog        *handlers.CatalogHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Users.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole())
	authProtected.Get("/validate-token", cfg.Users.ValidateToken)
	authProtected.Post("/password/change", cfg.Users.ChangePassword)

	// Intake is public: the enquiry form is filled by prospects, not staff.
	app.Post("/enquiries", cfg.Enquiries.CreateEnquiry)

	staff := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole())

	staff.Get("/enquiries", cfg.Enquiries.ListEnquiries)
	staff.Get("/enquiries/:id", cfg.Enquiries.GetEnquiry)
	staff.Put("/enquiries/:id", cfg.Enquiries.UpdateEnquiry)
	staff.Post("/enquiries/change-status", cfg.Enquiries.ChangeStatus)
	staff.Get("/enquiries/:id/stage-history", cfg.Enquiries.ListStageHistory)

	// Billing access is enforced again inside the service layer so the
	// 403 holds even if a route guard is misconfigured.
	billingGuard := auth.RequireRole(domain.RoleAdmin, domain.RoleAccounts)
	staff.Get("/enquiries/:id/billing", billingGuard, cfg.Billing.GetBilling)
	staff.Post("/enquiries/:id/billing", billingGuard, cfg.Billing.CreateBilling)
	staff.Put("/enquiries/:id/billing", billingGuard, cfg.Billing.UpdateBilling)

	staff.Get("/logs/:enquiryId", cfg.Logs.ListLogs)
	staff.Post("/logs", cfg.Logs.CreateLog)
	staff.Put("/logs/:id", cfg.Logs.UpdateLog)

	staff.Get("/packages", cfg.Catalog.ListPackages)
	staff.Get("/subjects", cfg.Catalog.ListSubjects)

	admin := staff.Group("", auth.RequireRole(domain.RoleAdmin))
	admin.Post("/packages", cfg.Catalog.CreatePackage)
	admin.Put("/packages/:id", cfg.Catalog.UpdatePackage)
	admin.Delete("/packages/:id", cfg.Catalog.DeletePackage)
	admin.Post("/subjects", cfg.Catalog.CreateSubject)
	admin.Put("/subjects/:id", cfg.Catalog.UpdateSubject)
	admin.Delete("/subjects/:id", cfg.Catalog.DeleteSubject)

	admin.Get("/users", cfg.Users.ListUsers)
	admin.Post("/users", cfg.Users.CreateUser)
	admin.Put("/users/:id", cfg.Users.UpdateUser)
	admin.Delete("/users/:id", cfg.Users.DeleteUser)
}
