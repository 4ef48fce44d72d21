package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/umerjamal2011-design/leominster-fish-bar/internal/auth"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	sessionIDKey
	operatorKey
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderSessionID = "X-Session-ID"

	maxSessionIDLen = 64
)

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = "req-" + uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set(HeaderRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionMiddleware binds the request to a cart session. A client without
// one is issued a fresh id in the response header and must echo it back.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := strings.TrimSpace(r.Header.Get(HeaderSessionID))
		if sessionID == "" || len(sessionID) > maxSessionIDLen {
			sessionID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		w.Header().Set(HeaderSessionID, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type TokenVerifier interface {
	User(ctx context.Context, accessToken string) (*auth.User, error)
}

// RequireOperator rejects requests without a bearer token the auth service
// accepts.
func RequireOperator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				respondError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
				return
			}

			user, err := verifier.User(r.Context(), token)
			if err != nil {
				handleError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), operatorKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func getSessionID(ctx context.Context) string {
	if sessionID, ok := ctx.Value(sessionIDKey).(string); ok {
		return sessionID
	}
	return ""
}

func getOperator(ctx context.Context) *auth.User {
	if user, ok := ctx.Value(operatorKey).(*auth.User); ok {
		return user
	}
	return nil
}
