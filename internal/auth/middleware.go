package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"anistream/pkg/models"
)

const CtxUserKey = "auth_user"

// RequireAuth rejects anonymous callers with 401.
func RequireAuth(repo *Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := CurrentUser(c, repo)
		if err != nil {
			logrus.WithError(err).Error("load session user")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load user"})
			c.Abort()
			return
		}
		if u == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
			c.Abort()
			return
		}
		c.Set(CtxUserKey, u)
		c.Next()
	}
}

// RequireAdmin gates a whole route group: 401 for anonymous callers,
// 403 for authenticated non-admins. It must wrap the group so entity
// handlers (and their validation errors) are never reached by
// unauthorized callers.
func RequireAdmin(repo *Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := CurrentUser(c, repo)
		if err != nil {
			logrus.WithError(err).Error("load session user")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load user"})
			c.Abort()
			return
		}
		if u == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
			c.Abort()
			return
		}
		if !u.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized"})
			c.Abort()
			return
		}
		c.Set(CtxUserKey, u)
		c.Next()
	}
}

func MustGetUser(c *gin.Context) *models.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}
