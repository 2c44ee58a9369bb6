package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"anistream/internal/pagecache"
)

type Handler struct {
	Repo  *Repo
	Cache *pagecache.Cache
}

func NewHandler(repo *Repo, cache *pagecache.Cache) *Handler {
	return &Handler{Repo: repo, Cache: cache}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
	rg.POST("/logout", h.logout)
	rg.GET("/user", h.currentUser)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", h.listUsers)
}

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// register creates a regular account. Admin accounts are provisioned
// out-of-band by the seed-admin tool, never through this endpoint.
func (h *Handler) register(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if len(req.Username) < 3 || len(req.Username) > 30 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username must be 3-30 characters"})
		return
	}
	if len(req.Password) < 8 || len(req.Password) > 72 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be 8-72 characters"})
		return
	}

	if existing, err := h.Repo.GetByUsername(c.Request.Context(), req.Username); err != nil {
		logrus.WithError(err).Error("registration lookup")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	} else if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}

	u, err := h.Repo.Create(c.Request.Context(), req.Username, string(hash), false)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Username already exists"})
			return
		}
		logrus.WithError(err).Error("create user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}

	if err := SignIn(c, u); err != nil {
		logrus.WithError(err).Error("sign in after registration")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Registration failed"})
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
		return
	}

	u, err := Authenticate(c.Request.Context(), h.Repo, req.Username, req.Password)
	if err != nil {
		logrus.WithError(err).Error("login lookup")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
		return
	}

	if err := SignIn(c, u); err != nil {
		logrus.WithError(err).Error("save session")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) logout(c *gin.Context) {
	if err := SignOut(c); err != nil {
		logrus.WithError(err).Error("clear session")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Logout failed"})
		return
	}
	// Cached page data may include signed-in views; drop all of it.
	h.Cache.Clear()
	c.Status(http.StatusOK)
}

func (h *Handler) currentUser(c *gin.Context) {
	u, err := CurrentUser(c, h.Repo)
	if err != nil {
		logrus.WithError(err).Error("load session user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load user"})
		return
	}
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.Repo.List(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("list users")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, users)
}
