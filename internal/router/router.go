package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/parisxmas/partnerhub/internal/auth"
	"github.com/parisxmas/partnerhub/internal/handler"
	mw "github.com/parisxmas/partnerhub/internal/middleware"
)

func New(
	jwtSecret string,
	authH *handler.AuthHandler,
	partnerH *handler.PartnerHandler,
	subH *handler.SubmissionHandler,
	configH *handler.ConfigHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", authH.Login)
		r.Post("/auth/register", authH.Register)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(jwtSecret))

			r.Get("/auth/me", authH.Me)

			// Partners
			r.Get("/partners", partnerH.List)
			r.Post("/partners", partnerH.Create)
			r.Get("/partners/{partnerId}", partnerH.Get)
			r.Put("/partners/{partnerId}", partnerH.Update)
			r.Delete("/partners/{partnerId}", partnerH.Delete)
			r.Get("/partners/{partnerId}/submissions", subH.ListByPartner)

			// Submissions
			r.Get("/submissions", subH.List)
			r.Post("/submissions", subH.Create)
			r.Get("/submissions/{submissionId}", subH.Get)
			r.Put("/submissions/{submissionId}", subH.Update)
			r.Delete("/submissions/{submissionId}", subH.Delete)

			// Config
			r.Get("/config/mapping/{questionnaireId}", configH.Mapping)
			r.Get("/config/*", configH.Get)
			r.Delete("/config/*", configH.Invalidate)
		})
	})

	return r
}
