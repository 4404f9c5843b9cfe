package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Yousuf-177/TaskFlow/apperrors"
	"github.com/Yousuf-177/TaskFlow/logging"
	"github.com/Yousuf-177/TaskFlow/models"
	"github.com/Yousuf-177/TaskFlow/utils"
)

// TokenParser verifies a bearer token and returns its subject.
type TokenParser interface {
	ParseAuthToken(token string) (string, error)
}

// UserResolver loads the user a token was issued to.
type UserResolver interface {
	Resolve(ctx context.Context, userID string) (*models.User, error)
}

type contextKey string

const userKey contextKey = "user"

// WithUser attaches the caller to ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the caller attached by Authenticate.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// Authenticate requires a valid "Bearer <token>" header and attaches the
// resolved user to the request context.
func Authenticate(tokens TokenParser, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_HEADER, Description: Authorization header missing for request to %s %s", r.Method, r.URL.Path)
				utils.WriteError(w, apperrors.Unauthorized("Not authorized, no token"))
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenStr == authHeader || strings.TrimSpace(tokenStr) == "" {
				logging.Logger.Warnf("Event ID: JWT_AUTH_BEARER_PREFIX_MISSING, Description: Bearer prefix missing in Authorization header for request to %s %s", r.Method, r.URL.Path)
				utils.WriteError(w, apperrors.Unauthorized("Not authorized, no token"))
				return
			}

			userID, err := tokens.ParseAuthToken(strings.TrimSpace(tokenStr))
			if err != nil {
				logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token provided for request to %s %s: %v", r.Method, r.URL.Path, err)
				utils.WriteError(w, apperrors.Unauthorized("Not authorized, token failed"))
				return
			}

			user, err := users.Resolve(r.Context(), userID)
			if err != nil {
				logging.Logger.Warnf("Event ID: JWT_AUTH_UNKNOWN_USER, Description: Token subject %s could not be resolved: %v", userID, err)
				utils.WriteError(w, err)
				return
			}
			user.Password = ""

			logging.Logger.Debugf("Event ID: JWT_AUTH_SUCCESS, Description: User %s authenticated for %s %s", userID, r.Method, r.URL.Path)
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// AdminOnly rejects callers without the admin role. It must run after
// Authenticate.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			utils.WriteError(w, apperrors.Unauthorized("Not authorized, no token"))
			return
		}
		if !user.IsAdmin() {
			logging.Logger.Warnf("Event ID: ADMIN_ACCESS_DENIED, Description: User %s attempted %s %s", user.ID.Hex(), r.Method, r.URL.Path)
			utils.WriteError(w, apperrors.Denied("Access denied, admin only"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogging logs one line per request with the response status.
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		logging.Logger.Infof("Event ID: HTTP_REQUEST, Description: %s %s from %s -> %d in %s",
			r.Method, r.URL.Path, r.RemoteAddr, rw.statusCode, time.Since(start))
	})
}

// responseWriter captures the status code written by the handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
