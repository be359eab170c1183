package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"rupeeready/internal/config"
	apperrors "rupeeready/internal/errors"
	"rupeeready/internal/models"
)

// getJWTKey returns the JWT key from configuration
func getJWTKey() []byte {
	return []byte(config.Get().JWTSecret)
}

// JWTClaims represents the claims in the JWT
type JWTClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// GenerateToken generates a JWT bound to a server-side session. The token
// itself outlives the session timeout; the session row is what enforces the
// sliding 24-hour inactivity window.
func GenerateToken(user *models.User, sessionID string) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID:    user.ID,
		Email:     user.Email,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(30 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "rupeeready-api",
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTKey())
}

// SessionToucher validates a session and extends its sliding expiry window.
type SessionToucher interface {
	ValidateAndTouch(sessionID string) error
}

// AuthMiddleware verifies the JWT, then validates and touches the server-side
// session so every authenticated request extends the inactivity window. An
// expired session is reported distinctly from a bad token so clients can show
// the session-expired message.
func AuthMiddleware(sessions SessionToucher) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return getJWTKey(), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		if err := sessions.ValidateAndTouch(claims.SessionID); err != nil {
			status := apperrors.ErrSessionExpired.StatusCode
			message := apperrors.ErrSessionExpired.Message
			if !apperrors.Is(err, apperrors.ErrSessionExpired) {
				status = http.StatusUnauthorized
				message = "Invalid session"
			}
			c.JSON(status, gin.H{"error": message})
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("sessionID", claims.SessionID)
		c.Set("email", claims.Email)
		c.Next()
	}
}
