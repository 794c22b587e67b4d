package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"mycabinet-backend/internal/handlers"
	"mycabinet-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	pantryHandler *handlers.PantryHandler,
	assistantHandler *handlers.AssistantHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/verify-email", authHandler.VerifyEmail)
			r.Post("/login", authHandler.Login)
			r.Post("/login/code/request", authHandler.RequestLoginCode)
			r.Post("/login/code", authHandler.LoginWithCode)
			r.Post("/password/reset/request", authHandler.RequestPasswordReset)
			r.Post("/password/reset", authHandler.ResetPassword)
			r.Post("/refresh", authHandler.Refresh)

			// Logout and deletion require auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
				r.Post("/delete/request", authHandler.RequestAccountDeletion)
				r.Post("/delete/confirm", authHandler.ConfirmAccountDeletion)
			})
		})

		// ──── Profile Routes ────
		r.Route("/profile", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/me", profileHandler.GetMe)
			r.Put("/me", profileHandler.UpdateMe)
			r.Get("/onboarding-status", profileHandler.OnboardingStatus)
			r.Post("/setup", profileHandler.Setup)
			r.Post("/skip-onboarding", profileHandler.SkipOnboarding)
		})

		// ──── Pantry Routes ────
		r.Route("/pantry", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", pantryHandler.List)
			r.Post("/", pantryHandler.Add)
			r.Delete("/{ingredientID}", pantryHandler.Remove)
		})

		// ──── Assistant Routes ────
		r.Route("/assistant", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/chat", assistantHandler.Chat)
		})
	})

	return r
}
