package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/infrastructure/auth"
	"github.com/iho/treasury/internal/infrastructure/metrics"
)

// Authenticate verifies the bearer token and puts its actor on the
// context. Handlers then prefer that actor over identity fields in the
// request body.
func Authenticate(jwtManager *auth.JWTManager, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				authFailed(w, m, "missing_token", domain.ErrUnauthenticated)
				return
			}

			claims, err := jwtManager.Verify(token)
			if err != nil {
				authFailed(w, m, domain.CodeOf(err), err)
				return
			}

			actor := claims.Actor()
			ctx := domain.ContextWithActor(r.Context(), actor)
			log := zerolog.Ctx(ctx).With().
				Str("actor_id", actor.ID).
				Str("actor_role", string(actor.Role)).
				Logger()
			ctx = log.WithContext(ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects callers whose role does not satisfy allowed, e.g.
// domain.Role.CanManageFunds.
func RequireRole(allowed func(domain.Role) bool, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := domain.ActorFromContext(r.Context())
			if !ok {
				authFailed(w, m, "missing_actor", domain.ErrUnauthenticated)
				return
			}

			if !allowed(actor.Role) {
				if m != nil {
					m.AuthFailures.WithLabelValues("insufficient_role").Inc()
				}
				writeError(w, http.StatusForbidden, domain.ErrInsufficientRole)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func authFailed(w http.ResponseWriter, m *metrics.Metrics, reason string, err error) {
	if m != nil {
		m.AuthFailures.WithLabelValues(reason).Inc()
	}
	writeError(w, http.StatusUnauthorized, err)
}
