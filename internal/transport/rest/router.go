package rest

import (
	"net/http"
	"time"

	"github.com/carelink/clinic-service/internal/pkg/metrics"
	"github.com/carelink/clinic-service/internal/security"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	Cache     RateLimiter
	Handler   *Handler
	Verifier  security.AccessTokenVerifier
	JWTIssuer string
	Metrics   *metrics.Metrics

	RateLimitEnabled bool
	RateLimit        int
	RateLimitWindow  time.Duration
}

func NewRouter(d RouterDeps) http.Handler {
	if d.Handler == nil {
		panic("rest.NewRouter: nil handler")
	}
	if d.Verifier == nil {
		panic("rest.NewRouter: nil verifier")
	}

	r := chi.NewRouter()

	// Request ID + structured access log
	r.Use(RequestID)
	r.Use(HTTPLogger(d.Metrics))

	// Panic recovery
	r.Use(middleware.Recoverer)

	// Cross-cutting
	if d.RateLimitEnabled && d.Cache != nil {
		r.Use(RateLimitMiddleware(d.Cache, d.RateLimit, d.RateLimitWindow))
	}
	r.Use(SecurityHeaders)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", d.Handler.Register)
		r.Post("/auth/login", d.Handler.Login)
		r.Post("/institutions", d.Handler.AddInstitution)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(d.Verifier, AuthOptions{ExpectedIssuer: d.JWTIssuer}))

			r.Get("/institutions", d.Handler.ListInstitutions)

			r.Get("/providers/{institutionID}", d.Handler.ProvidersByInstitution)
			r.Get("/providers/general/{institutionID}", d.Handler.GeneralistsByInstitution)
			r.Get("/providers/specialization/{institutionID}/{specialization}", d.Handler.ProvidersBySpecialization)

			r.Patch("/providers/profile", d.Handler.EditProfile)
			r.Patch("/providers/{providerID}/capacity", d.Handler.IncrementCapacity)
		})
	})

	return r
}
