package servers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"anistream/internal/pagecache"
	"anistream/internal/validate"
	"anistream/pkg/models"
)

type Handler struct {
	Repo  *Repo
	Cache *pagecache.Cache
}

func NewHandler(repo *Repo, cache *pagecache.Cache) *Handler {
	return &Handler{Repo: repo, Cache: cache}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/servers", h.list)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/servers", h.create)
	rg.PUT("/servers/:id", h.update)
	rg.DELETE("/servers/:id", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Repo.List(c.Request.Context())
	if err != nil {
		logrus.WithError(err).Error("list servers")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch servers"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) create(c *gin.Context) {
	var in models.ServerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
		return
	}
	if errs := validate.Server(&in, false); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data", "errors": errs})
		return
	}

	s, err := h.Repo.Create(c.Request.Context(), &in)
	if err != nil {
		logrus.WithError(err).Error("create server")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create server"})
		return
	}

	h.Cache.InvalidatePrefix("/api/servers")
	c.JSON(http.StatusCreated, s)
}

func (h *Handler) update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Server not found"})
		return
	}

	var in models.ServerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
		return
	}
	if errs := validate.Server(&in, true); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data", "errors": errs})
		return
	}

	s, err := h.Repo.Update(c.Request.Context(), id, &in)
	if err != nil {
		logrus.WithError(err).Error("update server")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update server"})
		return
	}
	if s == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Server not found"})
		return
	}

	h.Cache.InvalidatePrefix("/api/servers")
	c.JSON(http.StatusOK, s)
}

func (h *Handler) remove(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Server not found"})
		return
	}

	ok, err := h.Repo.Delete(c.Request.Context(), id)
	if err != nil {
		logrus.WithError(err).Error("delete server")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete server"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Server not found"})
		return
	}

	h.Cache.InvalidatePrefix("/api/servers")
	c.JSON(http.StatusOK, gin.H{"message": "Server deleted successfully"})
}
