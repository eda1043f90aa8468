package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"studio-booking/internal/service"
	"studio-booking/pkg/jwt"
	"studio-booking/pkg/response"
)

// SessionCookieName is the cookie carrying the admin session token.
const SessionCookieName = "admin-auth"

type contextKey string

const (
	AdminUsernameKey contextKey = "admin_username"
	TokenIDKey       contextKey = "token_id"
	RequestIDKey     contextKey = "request_id"
)

var (
	errNoSession      = errors.New("no session")
	errInvalidSession = errors.New("invalid session")
	errRevokedSession = errors.New("revoked session")
)

type AuthMiddleware struct {
	jwtService     *jwt.JWTService
	sessionService *service.SessionService
}

func NewAuthMiddleware(jwtService *jwt.JWTService, sessionService *service.SessionService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:     jwtService,
		sessionService: sessionService,
	}
}

// Authenticate requires a valid admin session from the admin-auth cookie or
// an "Authorization: Bearer" header.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.resolve(r)
		if err != nil {
			switch err {
			case errNoSession:
				response.Unauthorized(w, "Admin session is required")
			case errInvalidSession:
				response.Unauthorized(w, "Invalid or expired session")
			case errRevokedSession:
				response.Unauthorized(w, "Session has been revoked")
			default:
				response.InternalServerError(w, "Failed to validate session")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// Identify attaches the admin session when one is present but lets anonymous
// requests through.
func (m *AuthMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, err := m.resolve(r); err == nil {
			r = r.WithContext(withClaims(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) resolve(r *http.Request) (*jwt.Claims, error) {
	tokenString := TokenFromRequest(r)
	if tokenString == "" {
		return nil, errNoSession
	}

	claims, err := m.jwtService.ValidateToken(tokenString)
	if err != nil {
		return nil, errInvalidSession
	}

	active, err := m.sessionService.IsActive(r.Context(), claims.TokenID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, errRevokedSession
	}
	return claims, nil
}

func withClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, AdminUsernameKey, claims.Username)
	return context.WithValue(ctx, TokenIDKey, claims.TokenID)
}

// TokenFromRequest returns the session token from the cookie, falling back
// to a bearer header.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// GetAdminFromContext extracts the admin username from context
func GetAdminFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(AdminUsernameKey).(string)
	return username, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

// ActorFromContext names who performed a change, "public" for visitors.
func ActorFromContext(ctx context.Context) string {
	if username, ok := GetAdminFromContext(ctx); ok && username != "" {
		return username
	}
	return "public"
}
