package app

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthConfig holds the accepted bearer credentials: an HMAC secret for JWTs
// and a set of static tokens for service-to-service callers. Either may be
// empty.
type AuthConfig struct {
	JWTSecret    string
	StaticTokens []string
}

// AuthConfigFromEnv reads JWT_HMAC_SECRET and the comma-separated
// STATIC_TOKENS list.
func AuthConfigFromEnv() AuthConfig {
	var tokens []string
	for _, t := range strings.Split(os.Getenv("STATIC_TOKENS"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tokens = append(tokens, t)
		}
	}
	return AuthConfig{
		JWTSecret:    strings.TrimSpace(os.Getenv("JWT_HMAC_SECRET")),
		StaticTokens: tokens,
	}
}

// AuthMiddleware rejects requests without a valid bearer credential.
func AuthMiddleware(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed authorization"})
			return
		}
		if !cfg.accepts(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func (cfg AuthConfig) accepts(token string) bool {
	if cfg.JWTSecret != "" {
		_, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		}, jwt.WithLeeway(5*time.Second))
		if err == nil {
			return true
		}
	}
	for _, t := range cfg.StaticTokens {
		if token == t {
			return true
		}
	}
	return false
}
