package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"inkwell/models"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "inkwell_session"

const viewerKey = "viewer"

const sessionTTL = time.Hour * 24 * 7

// NewSessionToken signs a session token for a user.
func NewSessionToken(userID, secret string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(sessionTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// CurrentUser resolves the session cookie to a user and stores it on the
// request context. Requests without a valid session continue as anonymous;
// gating happens in LoginRequired.
func CurrentUser(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err != nil || raw == "" {
			c.Next()
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.Next()
			return
		}
		userID, _ := claims["user_id"].(string)
		if userID == "" {
			c.Next()
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.Next()
			return
		}

		c.Set(viewerKey, &user)
		c.Next()
	}
}

// Viewer returns the authenticated user for the request, or nil for
// anonymous visitors.
func Viewer(c *gin.Context) *models.User {
	v, ok := c.Get(viewerKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// LoginRequired redirects anonymous requests to the login page.
func LoginRequired(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Viewer(c) == nil {
			c.Redirect(http.StatusFound, loginURL)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestLogger middleware for detailed request logging
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		clientIP := c.ClientIP()
		method := c.Request.Method

		if raw != "" {
			path = path + "?" + raw
		}

		fmt.Printf("[%s] %s %s %d %v\n",
			clientIP,
			method,
			path,
			status,
			latency,
		)
	}
}

// SecurityHeaders middleware adds security headers
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}
