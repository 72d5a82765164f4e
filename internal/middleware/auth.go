package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AppClaims are the claims of the access tokens issued by the identity provider.
type AppClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

var errNoToken = errors.New("authorization header required")

// parseBearer extracts and validates the bearer token of the request.
func parseBearer(c *gin.Context, jwtSecret string) (*AppClaims, string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, "Authorization header required", errNoToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, "Authorization header format must be Bearer {token}", errors.New("malformed authorization header")
	}

	// Parse and validate the token
	claims := &AppClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		// Check the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		msg := "Invalid token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "Token has expired"
		} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
			msg = "Token not valid yet"
		}
		return nil, msg, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, "Invalid token claims", errors.New("token without subject")
	}
	return claims, "", nil
}

// authenticate stores the user and the enriched logger in the request context.
func authenticate(c *gin.Context, claims *AppClaims) {
	logger := GetLoggerFromCtx(c.Request.Context())
	ctx := context.WithValue(c.Request.Context(), userIDKey, claims.Subject)
	ctx = context.WithValue(ctx, userRoleKey, claims.Role)
	ctx = WithLogger(ctx, logger.With(slog.String("user_id", claims.Subject)))
	c.Request = c.Request.WithContext(ctx)
	c.Set(string(userIDKey), claims.Subject)
}

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())
		claims, msg, err := parseBearer(c, jwtSecret)
		if err != nil {
			logger.Warn("Authentication failed", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}
		authenticate(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware authenticates the request when a valid token is present and
// lets anonymous requests through. Invalid tokens are still rejected.
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, msg, err := parseBearer(c, jwtSecret)
		switch {
		case errors.Is(err, errNoToken):
			c.Next()
		case err != nil:
			GetLoggerFromCtx(c.Request.Context()).Warn("Optional authentication failed", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
		default:
			authenticate(c, claims)
			c.Next()
		}
	}
}

// RequireRole rejects authenticated users whose role claim differs from role.
// It must run after AuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserRoleFromContext(c) != role {
			GetLoggerFromCtx(c.Request.Context()).Warn("Role check failed", slog.String("required_role", role))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}
