package jwtmw

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// ContextUserID is the gin context key holding the authenticated user's ID.
	ContextUserID = "userID"
	// ContextSessionID is the gin context key holding the authenticated session's ID.
	ContextSessionID = "sessionID"
)

// SessionVerifier checks whether a session is still live.
// The auth usecase implements it; a nil verifier skips the check.
type SessionVerifier interface {
	VerifySession(ctx context.Context, sessionID string) error
}

// identity is the result of a successfully verified bearer token.
type identity struct {
	userID    uint
	sessionID string
}

var errUnauthenticated = errors.New("unauthenticated")

// authenticate parses and verifies the bearer token of the request and
// checks the embedded session against the verifier.
func authenticate(c *gin.Context, sessions SessionVerifier) (*identity, error) {
	// 1. Get Authorization header
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return nil, errUnauthenticated
	}
	tokenStr := strings.TrimPrefix(auth, "Bearer ")

	// 2. Load secret key from environment variable
	secret := os.Getenv(EnvKeyJWTSecret)
	if secret == "" {
		// Server misconfiguration (JWT_SECRET not set)
		return nil, errors.New("server misconfigured")
	}

	// 3. Parse and verify JWT signature
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Check signing algorithm (only HMAC allowed)
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errUnauthenticated
	}

	// 4. Extract claims (payload)
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errUnauthenticated
	}
	sub, ok := claims["sub"].(float64) // JWT numbers are decoded as float64
	if !ok {
		return nil, errUnauthenticated
	}
	id := &identity{userID: uint(sub)}
	if sid, ok := claims["sid"].(string); ok {
		id.sessionID = sid
	}

	// 5. Reject tokens whose server-side session was revoked (logout).
	// A token without a session claim cannot be revoked, so it is rejected outright.
	if sessions != nil {
		if id.sessionID == "" {
			return nil, errUnauthenticated
		}
		if err := sessions.VerifySession(c.Request.Context(), id.sessionID); err != nil {
			return nil, errUnauthenticated
		}
	}
	return id, nil
}

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only.
func AuthRequired(sessions SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := authenticate(c, sessions)
		if err != nil {
			if errors.Is(err, errUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "server misconfigured"})
			return
		}
		c.Set(ContextUserID, id.userID)
		c.Set(ContextSessionID, id.sessionID)
		c.Next()
	}
}

// AuthOptional returns a Gin middleware that sets the identity when a valid
// token is present and passes the request through anonymously otherwise.
// Used by endpoints like /auth/validate that answer for both cases.
func AuthOptional(sessions SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := authenticate(c, sessions); err == nil {
			c.Set(ContextUserID, id.userID)
			c.Set(ContextSessionID, id.sessionID)
		}
		c.Next()
	}
}
