package api

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/anovak/pharmstock/internal/auth"
	"github.com/anovak/pharmstock/internal/model"
	"github.com/anovak/pharmstock/internal/stock"
	"github.com/anovak/pharmstock/internal/store"
)

type contextKey string

const (
	claimsKey contextKey = "claims"
	callerKey contextKey = "caller"
)

// AuthMiddleware validates the JWT from the Authorization header, rejects
// revoked tokens, and loads the user's business and outlet assignment into
// the request context as a stock.Caller.
func AuthMiddleware(secret string, db *sql.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				jsonError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}

			tokenStr := strings.TrimPrefix(header, "Bearer ")
			claims, err := auth.ValidateToken(secret, tokenStr)
			if err != nil {
				jsonError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			revoked, err := store.IsTokenRevoked(r.Context(), db, claims.ID)
			if err != nil {
				jsonError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if revoked {
				jsonError(w, http.StatusUnauthorized, "token revoked")
				return
			}

			// Role and assignment come from the current user row, not the
			// token, so role changes take effect without re-login.
			user, err := store.GetUser(r.Context(), db, claims.UserID)
			if err != nil {
				jsonError(w, http.StatusInternalServerError, "internal error")
				return
			}
			if user == nil || user.DeletedAt != nil {
				jsonError(w, http.StatusUnauthorized, "user no longer exists")
				return
			}

			caller := stock.Caller{
				UserID:   user.ID,
				Username: user.Username,
				Role:     user.Role,
			}
			if user.BusinessID != nil {
				caller.BusinessID = *user.BusinessID
			}
			if user.DefaultOutletID != nil {
				caller.OutletID = *user.DefaultOutletID
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			ctx = context.WithValue(ctx, callerKey, &caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns middleware that checks if the user has at least the given role.
func RequireRole(minimum string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := GetCaller(r.Context())
			if caller == nil {
				jsonError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			if !model.RoleAtLeast(caller.Role, minimum) {
				jsonError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireOutlet returns middleware that rejects callers without a business
// and outlet assignment. Transfer and batch endpoints need both to scope
// their work.
func RequireOutlet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := GetCaller(r.Context())
		if caller == nil {
			jsonError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		if caller.BusinessID == 0 || caller.OutletID == 0 {
			jsonError(w, http.StatusForbidden, "no outlet assigned")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClaims retrieves the JWT claims from the context.
func GetClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// GetCaller retrieves the authenticated caller from the context.
func GetCaller(ctx context.Context) *stock.Caller {
	caller, _ := ctx.Value(callerKey).(*stock.Caller)
	return caller
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs HTTP requests with method, path, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.RequestURI(), rec.status, time.Since(start).Round(time.Millisecond))
	})
}
