package httpx

import (
	"context"
	"net/http"
	"strings"

	domainauth "github.com/festivo/notify-api/internal/domain/auth"
)

// SessionStore is the session lookup interface the middleware needs.
type SessionStore interface {
	Get(ctx context.Context, id string) (domainauth.Session, error)
}

type sessionContextKey struct{}

// SetSessionInContext stores the session in the request context.
func SetSessionInContext(ctx context.Context, sess *domainauth.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext retrieves the session placed by RequireSession, or nil.
func SessionFromContext(ctx context.Context) *domainauth.Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*domainauth.Session)
	return sess
}

// sessionIDFromRequest extracts the session ID from a bearer token or the
// session cookie, in that order.
func sessionIDFromRequest(r *http.Request, cookieName string) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return cookie.Value
	}
	return ""
}
