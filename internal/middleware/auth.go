package middleware

import (
	"errors"
	"net/http"
	"strings"

	"blogr/internal/models"
	"blogr/internal/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LoginPath is where anonymous callers of protected routes are sent.
const LoginPath = "/auth/login"

const currentUserKey = "currentUser"

// CurrentUser resolves the request's session token to a user and, when
// one exists, stores it in the gin context for downstream handlers.
// Runs on every route; anonymous requests pass through untouched.
func CurrentUser(store *session.Store, db *gorm.DB, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		// 1) Header: Authorization: Bearer xxx
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				token = parts[1]
			}
		}

		// 2) session cookie
		if token == "" {
			if cookie, err := c.Cookie(cookieName); err == nil {
				token = cookie
			}
		}

		userID, ok := store.Resolve(token)
		if !ok {
			c.Next()
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			// a session pointing at a deleted user resolves to anonymous
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				_ = c.Error(err)
			}
			c.Next()
			return
		}

		c.Set(currentUserKey, &user)
		c.Next()
	}
}

// LoginRequired redirects anonymous requests to the login page and
// aborts. Apply after CurrentUser on protected routes.
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserFrom(c) == nil {
			c.Redirect(http.StatusSeeOther, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserFrom returns the identity resolved by CurrentUser, or nil for an
// anonymous request.
func UserFrom(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
