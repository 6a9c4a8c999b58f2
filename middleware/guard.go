package middleware

import (
	"context"
	"net/http"
	"strings"

	goCoherence "github.com/MrEthical07/goCoherence"
)

type sessionContextKey struct{}

// SessionFromContext returns the live session the guard attached to the
// request context.
func SessionFromContext(ctx context.Context) (*goCoherence.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(*goCoherence.Session)
	return sess, ok
}

// Guard rejects requests whose bearer token does not resolve to a live
// session.
func Guard(engine *goCoherence.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			sess, err := engine.Authorize(r.Context(), token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
