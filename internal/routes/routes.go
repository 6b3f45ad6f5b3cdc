package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/Rafajb7/NutricionistWebPage/internal/auth"
	"github.com/Rafajb7/NutricionistWebPage/internal/handlers"
	"github.com/Rafajb7/NutricionistWebPage/internal/middleware"
)

func SetupRoutes(r *chi.Mux, tokens *auth.TokenIssuer) {
	// Public auth routes
	r.Post("/api/login", handlers.Login)
	r.Post("/api/password/forgot", handlers.ForgotPassword)
	r.Post("/api/password/reset", handlers.ResetPassword)

	// Admin routes (gated by X-Admin-Token, not a session)
	r.Post("/api/admin/migrate-passwords", handlers.MigratePasswords)

	// Everything below requires a session cookie. While a password
	// change is pending the middleware only lets /api/session and
	// /api/password/change through.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(tokens))

		r.Post("/api/logout", handlers.Logout)
		r.Get("/api/session", handlers.Session)
		r.Post("/api/password/change", handlers.ChangePassword)

		// Revision routes
		r.Get("/api/revisions", handlers.ListRevisions)
		r.Post("/api/revisions", handlers.SubmitRevision)
		r.Delete("/api/revisions", handlers.DeleteRevision)
		r.Get("/api/questions", handlers.ListQuestions)

		// Routine log routes
		r.Get("/api/routines", handlers.ListRoutineLogs)
		r.Post("/api/routines", handlers.CreateRoutineSession)
		r.Patch("/api/routines", handlers.ReplaceRoutineSession)
		r.Delete("/api/routines", handlers.DeleteRoutineSession)
		r.Get("/api/exercises", handlers.ListExercises)

		// Strength marks and goals
		r.Get("/api/achievements", handlers.ListAchievements)
		r.Post("/api/achievements/marks", handlers.CreateMark)
		r.Put("/api/achievements/goals", handlers.UpsertGoal)

		// Competition calendar
		r.Get("/api/competitions", handlers.ListCompetitions)
		r.Post("/api/competitions", handlers.CreateCompetition)

		// Nutrition plan files
		r.Get("/api/nutrition-plans", handlers.ListNutritionPlans)
		r.Get("/api/nutrition-plans/{id}/download", handlers.DownloadNutritionPlan)
		r.Get("/api/nutrition-plans/{id}/thumbnail", handlers.NutritionPlanThumbnail)

		// Progress photos
		r.Post("/api/photos", handlers.UploadPhotos)
		r.Get("/api/photos/view/{id}", handlers.ViewPhoto)
	})
}
