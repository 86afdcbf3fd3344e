package middleware

import (
	"context"
	"net/http"
	"strings"

	"get-a-pet/internal/platform/logger"
	"get-a-pet/internal/ports/auth"
)

type ctxKey struct{}

// DebugUserHeader solo se lee en modo dev (sin verifier).
const DebugUserHeader = "X-Debug-User-ID"

// identityResolver saca la identidad del request; ok=false => anónimo.
type identityResolver func(r *http.Request) (auth.Claims, bool)

// AuthContext deja las claims en el context cuando el request trae identidad.
// Nunca corta: los handlers deciden si la exigen (401).
func AuthContext(verifier auth.AuthVerifier, log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	resolve := debugIdentity
	if verifier != nil {
		resolve = bearerIdentity(verifier, log)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, ok := resolve(r); ok {
				r = r.WithContext(WithClaims(r.Context(), c))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func debugIdentity(r *http.Request) (auth.Claims, bool) {
	uid := strings.TrimSpace(r.Header.Get(DebugUserHeader))
	return auth.Claims{UserID: uid}, uid != ""
}

func bearerIdentity(v auth.AuthVerifier, log logger.Logger) identityResolver {
	return func(r *http.Request) (auth.Claims, bool) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			return auth.Claims{}, false
		}
		c, err := v.Verify(r.Context(), token)
		if err != nil {
			log.Debug("token rejected", map[string]any{"error": err.Error()})
			return auth.Claims{}, false
		}
		return c, strings.TrimSpace(c.UserID) != ""
	}
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(auth.Claims)
	return c, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
