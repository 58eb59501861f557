package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "posconsole/docs" // registra a especificação OpenAPI
	"posconsole/internal/api/draft"
	"posconsole/internal/api/history"
	"posconsole/internal/api/pointofsale"
	"posconsole/internal/domain"
	"posconsole/internal/pkg/cache"
	"posconsole/internal/pkg/logger"
	"posconsole/internal/pkg/metrics"
	"posconsole/internal/pkg/middleware"
)

// Dependencies são os Handlers e a infraestrutura já inicializados pelo main.
type Dependencies struct {
	Drafts       *draft.Handler
	History      *history.Handler
	PointsOfSale *pointofsale.Handler

	TokenService middleware.TokenService
	RateLimiter  cache.Client
	RateLimit    int
	RatePeriod   time.Duration

	Metrics *metrics.Metrics
	Logger  logger.Logger
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Instrument(deps.Logger, deps.Metrics),
	)

	// --- 1. Rotas públicas ---
	r.Get("/ping", PingHandler)
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// --- 2. Rotas autenticadas (v1) ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenService))
		if deps.RateLimiter != nil && deps.RateLimit > 0 {
			r.Use(middleware.RateLimiter(deps.RateLimiter, deps.Logger, deps.RateLimit, deps.RatePeriod))
		}

		r.Get("/points-of-sale", deps.PointsOfSale.ListPointsOfSaleHandler)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", deps.History.ListTransactionsHandler)
			r.Get("/summary", deps.History.SummaryHandler)
			r.Get("/export", deps.History.ExportHandler)
		})

		r.Get("/submissions", deps.Drafts.SubmissionsHandler)

		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", deps.Drafts.CreateDraftHandler)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", deps.Drafts.GetDraftHandler)
				r.Patch("/", deps.Drafts.UpdateDraftHandler)
				r.Delete("/", deps.Drafts.DiscardDraftHandler)
				r.Put("/query", deps.Drafts.QueryHandler)
				r.Get("/candidates", deps.Drafts.CandidatesHandler)
				r.Post("/items", deps.Drafts.AddItemHandler)
				r.Put("/items/{key}", deps.Drafts.UpdateItemHandler)
				r.Delete("/items/{key}", deps.Drafts.RemoveItemHandler)
				r.Get("/payload", deps.Drafts.PayloadHandler)

				// Visualizadores montam rascunhos mas não enviam.
				r.With(middleware.PermissionMiddleware(domain.RoleAdmin, domain.RoleSeller)).
					Post("/submit", deps.Drafts.SubmitHandler)
			})
		})
	})

	return r
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}
