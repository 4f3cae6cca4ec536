package middleware

import (
	"context"
	"net/http"
	"strings"

	"go-appointment-booking/pkg/jwt"
	"go-appointment-booking/pkg/response"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the caller as asserted by a valid, unrevoked access token.
// Tokens are issued by the account service; this service only verifies them.
type Identity struct {
	UserID  uuid.UUID
	Email   string
	RoleID  int
	TokenID string
}

type AuthMiddleware struct {
	jwtService  *jwt.JWTService
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, redisClient *redis.Client, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		redisClient: redisClient,
		log:         log,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" || strings.Contains(tokenString, " ") {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil || claims.TokenType != jwt.AccessToken {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		live, err := m.isLive(r.Context(), claims)
		if err != nil {
			m.log.Warnf("Failed to check access token %s: %+v", claims.TokenID, err)
			response.InternalServerError(w, "Failed to validate token")
			return
		}
		if !live {
			response.Unauthorized(w, "Token has been revoked")
			return
		}

		trace.SpanFromContext(r.Context()).SetAttributes(
			attribute.String("enduser.id", claims.UserID.String()),
			attribute.Int("enduser.role_id", claims.RoleID),
		)

		ctx := WithIdentity(r.Context(), Identity{
			UserID:  claims.UserID,
			Email:   claims.Email,
			RoleID:  claims.RoleID,
			TokenID: claims.TokenID,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isLive reports whether the token is still registered; the account service deletes the key on logout
func (m *AuthMiddleware) isLive(ctx context.Context, claims *jwt.Claims) (bool, error) {
	exists, err := m.redisClient.Exists(ctx, jwt.AccessTokenKey(claims.UserID, claims.TokenID)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	identity, ok := IdentityFromContext(ctx)
	return identity.UserID, ok
}

// GetRoleIDFromContext extracts role ID from context
func GetRoleIDFromContext(ctx context.Context) (int, bool) {
	identity, ok := IdentityFromContext(ctx)
	return identity.RoleID, ok
}
