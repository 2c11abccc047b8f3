package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sandaclub/hub/internal/handlers"
)

func Router(logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	// Public
	r.Get("/healthz", handlers.Health)
	r.Post("/api/register", handlers.Register(logger))
	r.Post("/api/login", handlers.Login(logger))
	r.Post("/api/logout", handlers.Logout)
	r.Get("/api/verify", handlers.VerifyMember)
	r.Get("/api/schedule", handlers.ListScheduleSlots)

	// Membership card QR image
	r.Get("/qr/{code}.png", handlers.MemberQR)

	// --- Athlete self-service ---
	r.Route("/api/me", func(me chi.Router) {
		me.Use(handlers.RequireAthlete)
		me.Get("/", handlers.MyProfile)
		me.Put("/", handlers.UpdateMyProfile)
		me.Get("/dashboard", handlers.MyDashboard)
		me.Get("/documents", handlers.MyDocuments)
		me.Post("/documents", handlers.CreateDocument(logger))
		me.Get("/payments", handlers.MyPayments)
		me.Get("/trainings", handlers.MyTrainingHistory)
	})

	// --- Staff (admin + coach): sessions and attendance ---
	r.Route("/api/trainings", func(tr chi.Router) {
		tr.Use(handlers.RequireStaff)
		tr.Get("/", handlers.ListTrainingSessions)
		tr.Get("/upcoming", handlers.UpcomingTrainingSessions)
		tr.Post("/", handlers.CreateTrainingSession)
		tr.Put("/{id}", handlers.UpdateTrainingSession)
		tr.Delete("/{id}", handlers.DeleteTrainingSession)
		tr.Get("/{id}/attendance", handlers.SessionAttendance)
		tr.Post("/{id}/attendance", handlers.MarkAttendance)
	})

	// --- Admin routes ---
	r.Route("/api/admin", func(ar chi.Router) {
		ar.Use(handlers.RequireAdmin)

		ar.Get("/dashboard", handlers.AdminOverview)

		// Athletes and membership decisions
		ar.Get("/athletes", handlers.AdminListAthletes)
		ar.Get("/athletes/{id}", handlers.AdminGetAthlete)
		ar.Put("/athletes/{id}", handlers.AdminUpdateAthlete)
		ar.Post("/athletes/{id}/approve", handlers.AdminApproveAthlete(logger))
		ar.Get("/athletes/{id}/dashboard", handlers.AdminAthleteDashboard)
		ar.Get("/athletes/{id}/documents", handlers.AthleteDocuments)
		ar.Get("/athletes/{id}/payments", handlers.AthletePayments)

		// Document validation queue and lifecycle
		ar.Get("/documents", handlers.SearchDocuments)
		ar.Post("/documents", handlers.CreateDocument(logger))
		ar.Get("/documents/pending", handlers.PendingDocuments)
		ar.Get("/documents/expiring", handlers.ExpiringDocuments)
		ar.Get("/documents/expired", handlers.ExpiredDocuments)
		ar.Post("/documents/{id}/validate", handlers.ValidateDocument(logger))
		ar.Post("/documents/{id}/reject", handlers.RejectDocument(logger))
		ar.Delete("/documents/{id}", handlers.DeleteDocument)
		ar.Get("/documents/{id}/versions", handlers.DocumentVersions)
		ar.Post("/documents/{id}/versions", handlers.AddDocumentVersion)
		ar.Get("/documents/{id}/shares", handlers.DocumentShares)
		ar.Post("/documents/{id}/shares", handlers.ShareDocument)
		ar.Delete("/documents/{id}/shares", handlers.UnshareDocument)
		ar.Get("/shares", handlers.SharesForGrantee)
		ar.Get("/categories", handlers.DocumentCategories)
		ar.Get("/tags", handlers.DocumentTags)

		// Payments
		ar.Post("/payments", handlers.AdminRecordPayment(logger))
		ar.Put("/payments/{id}", handlers.AdminUpdatePayment)
		ar.Delete("/payments/{id}", handlers.AdminDeletePayment)
		ar.Get("/payments/recent", handlers.AdminRecentPayments)

		// Weekly schedule
		ar.Post("/schedule", handlers.CreateScheduleSlot)
		ar.Put("/schedule/{id}", handlers.UpdateScheduleSlot)
		ar.Delete("/schedule/{id}", handlers.DeleteScheduleSlot)
		ar.Post("/schedule/check", handlers.CheckScheduleConflict)
	})

	return r
}

// requestLogger is a thin chi middleware over zap.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("http",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("took", time.Since(start)))
		})
	}
}
