package source

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
	rg.GET("/episodes/:id/sources", h.listByEpisode)
	rg.GET("/movies/:id/sources", h.listByMovie)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/sources", h.create)
	rg.PUT("/sources/:id", h.update)
	rg.DELETE("/sources/:id", h.remove)
}

func (h *Handler) listByEpisode(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Episode not found"})
		return
	}

	items, err := h.Repo.ByEpisodeID(c.Request.Context(), id)
	if err != nil {
		logrus.WithError(err).Error("list episode sources")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch video sources"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) listByMovie(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Movie not found"})
		return
	}

	items, err := h.Repo.ByMovieID(c.Request.Context(), id)
	if err != nil {
		logrus.WithError(err).Error("list movie sources")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch video sources"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) create(c *gin.Context) {
	var in models.VideoSourceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
		return
	}
	if errs := validate.VideoSource(&in, false); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data", "errors": errs})
		return
	}

	s, err := h.Repo.Create(c.Request.Context(), &in)
	if err != nil {
		logrus.WithError(err).Error("create video source")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create video source"})
		return
	}

	h.invalidate()
	c.JSON(http.StatusCreated, s)
}

func (h *Handler) update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Video source not found"})
		return
	}

	var in models.VideoSourceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
		return
	}
	if errs := validate.VideoSource(&in, true); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data", "errors": errs})
		return
	}

	s, err := h.Repo.Update(c.Request.Context(), id, &in)
	if err != nil {
		logrus.WithError(err).Error("update video source")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update video source"})
		return
	}
	if s == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Video source not found"})
		return
	}

	h.invalidate()
	c.JSON(http.StatusOK, s)
}

func (h *Handler) remove(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Video source not found"})
		return
	}

	ok, err := h.Repo.Delete(c.Request.Context(), id)
	if err != nil {
		logrus.WithError(err).Error("delete video source")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete video source"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Video source not found"})
		return
	}

	h.invalidate()
	c.JSON(http.StatusOK, gin.H{"message": "Video source deleted successfully"})
}

// Source lists are cached under their parent episode/movie paths.
func (h *Handler) invalidate() {
	h.Cache.InvalidatePrefix("/api/episodes")
	h.Cache.InvalidatePrefix("/api/movies")
}
