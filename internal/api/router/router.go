package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hcastells/fincas/internal/api/handlers"
	"github.com/hcastells/fincas/internal/config"
	"github.com/hcastells/fincas/internal/middleware"
	"github.com/hcastells/fincas/internal/models"
)

type Router struct {
	app             *fiber.App
	authHandler     *handlers.AuthHandler
	userHandler     *handlers.UserHandler
	tenantHandler   *handlers.TenantHandler
	propertyHandler *handlers.PropertyHandler
	paymentHandler  *handlers.PaymentHandler
	authMiddleware  *middleware.AuthMiddleware
	rateLimiter     *middleware.RateLimiter
}

func NewRouter(
	app *fiber.App,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	tenantHandler *handlers.TenantHandler,
	propertyHandler *handlers.PropertyHandler,
	paymentHandler *handlers.PaymentHandler,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		app:             app,
		authHandler:     authHandler,
		userHandler:     userHandler,
		tenantHandler:   tenantHandler,
		propertyHandler: propertyHandler,
		paymentHandler:  paymentHandler,
		authMiddleware:  authMiddleware,
		rateLimiter:     rateLimiter,
	}
}

// SetupRoutes wires the route table. The table doubles as the access
// policy: login is public, registration and user management are
// admin-only, everything else needs any authenticated identity.
func (r *Router) SetupRoutes() {
	// Public: login never passes through the token filter.
	r.app.Post("/acceso/login", r.rateLimiter.RateLimit(config.RateLimitConfig{
		Enabled: true,
		Limit:   5,
		Window:  time.Minute,
	}), r.authHandler.Login)

	authenticated := r.app.Use(r.authMiddleware.Authenticate())

	authenticated.Post("/acceso/register",
		r.authMiddleware.RequireRole(models.RoleAdmin), r.authHandler.Register)

	// Admin-only user management.
	users := authenticated.Group("/usuarios", r.authMiddleware.RequireRole(models.RoleAdmin))
	users.Get("/listado", r.userHandler.List)
	users.Get("/listado/:id", r.userHandler.Get)
	users.Post("/listado/nuevo", r.userHandler.Create)
	users.Put("/listado/:id", r.userHandler.Update)
	users.Delete("/listado/:id", r.userHandler.Delete)

	// Any authenticated identity.
	tenants := authenticated.Group("/inquilinos", r.authMiddleware.RequireAuthenticated())
	tenants.Get("/listado", r.tenantHandler.List)
	tenants.Get("/listado/:id", r.tenantHandler.Get)
	tenants.Post("/listado/nuevo", r.tenantHandler.Create)
	tenants.Put("/listado/:id", r.tenantHandler.Update)
	tenants.Delete("/listado/:id", r.tenantHandler.Delete)

	properties := authenticated.Group("/inmuebles", r.authMiddleware.RequireAuthenticated())
	properties.Get("/listado", r.propertyHandler.List)
	properties.Get("/listado/:id", r.propertyHandler.Get)
	properties.Post("/listado/nuevo", r.propertyHandler.Create)
	properties.Put("/listado/:id", r.propertyHandler.Update)
	properties.Delete("/listado/:id", r.propertyHandler.Delete)

	payments := authenticated.Group("/pagos", r.authMiddleware.RequireAuthenticated())
	payments.Get("/listado", r.paymentHandler.List)
	payments.Get("/listado/impagos", r.paymentHandler.Unpaid)
	payments.Get("/listado/porInmueble/:idInmueble", r.paymentHandler.ByProperty)
	payments.Get("/listado/porFecha/:anio/:mes", r.paymentHandler.ByDate)
	payments.Get("/listado/:id", r.paymentHandler.Get)
	payments.Post("/listado/nuevo", r.paymentHandler.Create)
	payments.Put("/listado/:id", r.paymentHandler.Update)
	payments.Delete("/listado/:id", r.paymentHandler.Delete)
}
