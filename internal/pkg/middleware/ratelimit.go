package middleware

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"posconsole/internal/domain"
	"posconsole/internal/pkg/cache"
	"posconsole/internal/pkg/logger"
)

// RateLimiter limita requisições por operador autenticado (ou por IP, sem claims)
// numa janela fixa, com contadores no cache. Falhas do cache não bloqueiam o tráfego.
func RateLimiter(client cache.Client, log logger.Logger, limit int, duration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := rateLimitKey(r)

			count, err := client.GetInt(ctx, key)
			if errors.Is(err, cache.ErrCacheMiss) {
				if setErr := client.Set(ctx, key, 1, duration); setErr != nil {
					log.Warn("Falha ao iniciar contador de rate limit", map[string]interface{}{"key": key, "error": setErr.Error()})
				}
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-1))
				next.ServeHTTP(w, r)
				return
			} else if err != nil {
				log.Warn("Cache indisponível no rate limit", map[string]interface{}{"key": key, "error": err.Error()})
				next.ServeHTTP(w, r)
				return
			}

			if count >= limit {
				writeJSON(w, http.StatusTooManyRequests, domain.ErrorResponse{
					Code:     http.StatusTooManyRequests,
					Category: "RATE_LIMITED",
					Message:  "Limite de requisições excedido.",
				})
				return
			}

			n, err := client.Incr(ctx, key)
			if err != nil {
				log.Warn("Falha ao incrementar contador de rate limit", map[string]interface{}{"key": key, "error": err.Error()})
				n = int64(count + 1)
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-int(n)))
			next.ServeHTTP(w, r)
		})
	}
}

func rateLimitKey(r *http.Request) string {
	if claims, ok := GetUserClaimsFromContext(r.Context()); ok {
		return "rate-limit:user:" + strconv.FormatInt(claims.UserID, 10)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "rate-limit:ip:" + ip
}
