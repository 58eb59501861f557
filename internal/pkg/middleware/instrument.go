package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"posconsole/internal/pkg/logger"
	"posconsole/internal/pkg/metrics"
)

// Instrument registra log e métricas de cada requisição, rotulando pela rota do chi.
func Instrument(log logger.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)

			m.ObserveHTTP(r.Method, route, status, elapsed)
			log.Info("Requisição atendida", map[string]interface{}{
				"method":     r.Method,
				"route":      route,
				"status":     status,
				"elapsed_ms": elapsed.Milliseconds(),
				"request_id": chimw.GetReqID(r.Context()),
			})
		})
	}
}
