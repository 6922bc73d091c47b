package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/zhaolong57/mood-diary/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var jwtSecret = []byte("mood-diary-secret-2026")

const tokenTTL = 7 * 24 * time.Hour

// SetSecret replaces the signing secret. Call once at startup, before the
// router starts serving.
func SetSecret(s string) {
	if s != "" {
		jwtSecret = []byte(s)
	}
}

// IssueToken signs a bearer token carrying the user's identity. The user id
// is always derived from this token server-side, never from request headers.
func IssueToken(uid, name string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  uid,
		"name": name,
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}).SignedString(jwtSecret)
}

func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		token, err := jwt.Parse(auth[7:], func(t *jwt.Token) (interface{}, error) {
			return jwtSecret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		uid, _ := claims["uid"].(string)
		name, _ := claims["name"].(string)
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("user_id", uid)
		c.Set("user_name", name)

		// Older clients assert their id in a header. Identity comes from
		// the token; a disagreement is worth noticing.
		if hdr := c.GetHeader("X-User-Id"); hdr != "" && hdr != uid {
			logger.Warn("X-User-Id header disagrees with token", "header", hdr, "uid", uid)
		}

		// 剩余不到1天时自动续期
		if exp, ok := claims["exp"].(float64); ok {
			if time.Until(time.Unix(int64(exp), 0)) < 24*time.Hour {
				if newToken, err := IssueToken(uid, name); err == nil {
					c.Header("X-New-Token", newToken)
				}
			}
		}

		c.Next()
	}
}
