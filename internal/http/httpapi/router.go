package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/planfor/planner-api/internal/http/handlers"
	"github.com/planfor/planner-api/internal/infra"
	"github.com/planfor/planner-api/internal/middleware"
)

// RouterOptions carries everything the router needs besides the handlers.
type RouterOptions struct {
	App             *handlers.App
	Logger          infra.Logger
	JWTSecret       string
	AllowedOrigins  []string
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	RateLimitPerMin int
}

func NewRouter(opts RouterOptions) stdhttp.Handler {
	app := opts.App

	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP)
	r.Use(middleware.Logger(opts.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(middleware.I18N(opts.DefaultLocale, opts.CountryLookup))
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/openapi.json", app.OpenAPIJSON)
		r.Get("/docs", app.OpenAPIDocs)

		r.Post("/auth/register", app.Register)
		r.Post("/auth/login", app.Login)

		// Public blog reads.
		r.Get("/blogs", app.BlogList)
		r.Get("/blogs/{slug}", app.BlogGet)
		r.Get("/blogs/{slug}/comments", app.BlogComments)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(opts.JWTSecret))

			r.Get("/me", app.Me)

			r.Route("/integrations/google", func(r chi.Router) {
				r.Post("/link", app.GoogleLink)
				r.Delete("/link", app.GoogleUnlink)
				r.Get("/status", app.GoogleStatus)
			})

			r.Route("/roadmaps", func(r chi.Router) {
				r.Post("/", app.RoadmapCreate)
				r.Get("/", app.RoadmapList)
				r.Get("/{id}", app.RoadmapGet)
				r.Delete("/{id}", app.RoadmapDelete)
				r.Get("/{id}/export", app.RoadmapExport)
			})

			r.Post("/blogs/{slug}/comments", app.BlogCommentCreate)
			r.Post("/blogs/{slug}/like", app.BlogLikeToggle)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Post("/blogs", app.BlogCreate)
				r.Put("/blogs/{slug}", app.BlogUpdate)
				r.Delete("/blogs/{slug}", app.BlogDelete)

				r.Route("/admin", func(r chi.Router) {
					r.Get("/stats", app.StatsSummary)
					r.Get("/users", app.AdminUsers)
					r.Get("/roadmaps", app.AdminRoadmaps)
				})
			})
		})
	})

	return r
}
