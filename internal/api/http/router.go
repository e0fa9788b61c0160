package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mento-services/marketplace-api/internal/api/http/handlers"
	"github.com/mento-services/marketplace-api/internal/auth"
	"github.com/mento-services/marketplace-api/internal/repository"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Kyc            *handlers.KycHandler
	Subscriptions  *handlers.SubscriptionsHandler
	Workers        *handlers.WorkersHandler
	JobSeekers     *handlers.JobSeekersHandler
	Reviews        *handlers.ReviewsHandler
	Jobs           *handlers.JobsHandler
	Categories     *handlers.CategoriesHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.Middleware
	UserRepo       repository.UserRepository
}

// RegisterRoutes wires HTTP routes. Reads are public; anything that
// mutates marketplace state sits behind authentication and the identity
// verification gate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/send-otp", cfg.Auth.SendOtp)
	authGroup.Post("/resend-otp", cfg.Auth.ResendOtp)
	authGroup.Post("/verify-otp", cfg.Auth.VerifyOtp)
	authGroup.Post("/refresh", cfg.Auth.Refresh)

	authed := api.Group("", cfg.AuthMiddleware.Handle)
	verified := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireKycApproved(cfg.UserRepo))

	users := authed.Group("/users")
	users.Get("/me", cfg.Users.Me)
	users.Put("/me", cfg.Users.UpdateMe)
	users.Put("/me/fcm-token", cfg.Users.UpdateFCMToken)
	users.Delete("/me", cfg.Users.DeactivateMe)

	kyc := authed.Group("/kyc")
	kyc.Post("", cfg.Kyc.Submit)
	kyc.Get("", cfg.Kyc.Status)

	subs := verified.Group("/subscriptions")
	subs.Post("", cfg.Subscriptions.Create)
	subs.Post("/verify", cfg.Subscriptions.VerifyPayment)
	subs.Get("/status", cfg.Subscriptions.Status)
	subs.Get("/plans", cfg.Subscriptions.Plans)
	subs.Post("/:id/cancel", cfg.Subscriptions.Cancel)

	api.Get("/workers", cfg.Workers.List)
	api.Get("/workers/nearby", cfg.Workers.Nearby)
	verified.Post("/workers", cfg.Workers.Create)
	verified.Get("/workers/me", cfg.Workers.Me)
	verified.Put("/workers/me", cfg.Workers.Update)
	api.Get("/workers/:id", cfg.Workers.Get)

	api.Get("/workers/:id/reviews", cfg.Reviews.ListForWorker)
	authed.Post("/workers/:id/reviews", cfg.Reviews.Create)
	authed.Delete("/reviews/:id", cfg.Reviews.Delete)

	api.Get("/jobseekers", cfg.JobSeekers.List)
	verified.Post("/jobseekers", cfg.JobSeekers.Create)
	verified.Get("/jobseekers/me", cfg.JobSeekers.Me)
	verified.Put("/jobseekers/me", cfg.JobSeekers.Update)
	api.Get("/jobseekers/:id", cfg.JobSeekers.Get)

	api.Get("/jobs", cfg.Jobs.List)
	verified.Post("/jobs", cfg.Jobs.Create)
	verified.Get("/jobs/mine", cfg.Jobs.Mine)
	api.Get("/jobs/:id", cfg.Jobs.Get)
	verified.Put("/jobs/:id/status", cfg.Jobs.UpdateStatus)
	verified.Post("/jobs/:id/apply", cfg.Jobs.Apply)
	verified.Delete("/jobs/:id", cfg.Jobs.Delete)

	api.Get("/categories", cfg.Categories.List)

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/kyc/pending", cfg.Admin.ListPendingKyc)
	admin.Post("/kyc/:id/review", cfg.Admin.ReviewKyc)
	admin.Put("/workers/:id/verify", cfg.Admin.VerifyWorker)
	admin.Put("/jobseekers/:id/verify", cfg.Admin.VerifyJobSeeker)
	admin.Post("/categories", cfg.Admin.CreateCategory)
	admin.Put("/categories/:id", cfg.Admin.UpdateCategory)
	admin.Delete("/categories/:id", cfg.Admin.DeleteCategory)
	admin.Post("/jobs/:id/cancel", cfg.Admin.CancelJob)
}
