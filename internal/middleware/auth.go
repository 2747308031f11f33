package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stayhaven/guidebook-server-go/internal/model"
	"github.com/stayhaven/guidebook-server-go/internal/service"
)

type contextKey string

const HostContextKey contextKey = "host"

const HostSessionCookie = "gb_session"

// GetHost returns the authenticated host from the request context, or nil.
func GetHost(ctx context.Context) *model.Host {
	if host, ok := ctx.Value(HostContextKey).(*model.Host); ok {
		return host
	}
	return nil
}

// HostSessionMiddleware authenticates dashboard requests via the session
// cookie and injects the host into the context.
type HostSessionMiddleware struct {
	authService *service.AuthService
}

func NewHostSessionMiddleware(authService *service.AuthService) *HostSessionMiddleware {
	return &HostSessionMiddleware{authService: authService}
}

func (m *HostSessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(HostSessionCookie)
		if err != nil || cookie.Value == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Not authenticated",
			})
			return
		}

		host, err := m.authService.ValidateSession(r.Context(), cookie.Value)
		if err != nil {
			log.Error().Err(err).Msg("session middleware: database error")
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "Authentication failed",
			})
			return
		}

		if host == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Session expired or invalid",
			})
			return
		}

		ctx := context.WithValue(r.Context(), HostContextKey, host)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SetSessionCookie writes the dashboard session cookie.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration, isProduction bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     HostSessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the dashboard session cookie.
func ClearSessionCookie(w http.ResponseWriter, isProduction bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     HostSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}
