package episode

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"anistream/internal/anime"
	"anistream/internal/pagecache"
	"anistream/internal/validate"
	"anistream/pkg/models"
)

type Handler struct {
	Repo  *Repo
	Anime *anime.Repo
	Cache *pagecache.Cache
}

func NewHandler(repo *Repo, animeRepo *anime.Repo, cache *pagecache.Cache) *Handler {
	return &Handler{Repo: repo, Anime: animeRepo, Cache: cache}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/anime/:id/episodes", h.listByAnime)
	rg.GET("/episodes/:id", h.get)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/episodes", h.create)
	rg.PUT("/episodes/:id", h.update)
	rg.DELETE("/episodes/:id", h.remove)
}

func (h *Handler) listByAnime(c *gin.Context) {
	animeID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Anime not found"})
		return
	}

	a, err := h.Anime.Get(c.Request.Context(), animeID)
	if err != nil {
		logrus.WithError(err).Error("get anime for episodes")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch episodes"})
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Anime not found"})
		return
	}

	items, err := h.Repo.ByAnimeID(c.Request.Context(), animeID)
	if err != nil {
		logrus.WithError(err).Error("list episodes")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch episodes"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Episode not found"})
		return
	}

	e, err := h.Repo.Get(c.Request.Context(), id)
	if err != nil {
		logrus.WithError(err).Error("get episode")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch episode"})
		return
	}
	if e == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Episode not found"})
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) create(c *gin.Context) {
	var in models.EpisodeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
		return
	}
	if errs := validate.Episode(&in, false); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data", "errors": errs})
		return
	}

	e, err := h.Repo.Create(c.Request.Context(), &in)
	if err != nil {
		logrus.WithError(err).Error("create episode")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create episode"})
		return
	}

	h.invalidate()
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Episode not found"})
		return
	}

	var in models.EpisodeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
		return
	}
	if errs := validate.Episode(&in, true); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data", "errors": errs})
		return
	}

	e, err := h.Repo.Update(c.Request.Context(), id, &in)
	if err != nil {
		logrus.WithError(err).Error("update episode")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update episode"})
		return
	}
	if e == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Episode not found"})
		return
	}

	h.invalidate()
	c.JSON(http.StatusOK, e)
}

func (h *Handler) remove(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Episode not found"})
		return
	}

	ok, err := h.Repo.Delete(c.Request.Context(), id)
	if err != nil {
		logrus.WithError(err).Error("delete episode")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete episode"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Episode not found"})
		return
	}

	h.invalidate()
	c.JSON(http.StatusOK, gin.H{"message": "Episode deleted successfully"})
}

// Episode lookups are cached both per-episode and under the parent
// anime, so both prefixes are dropped.
func (h *Handler) invalidate() {
	h.Cache.InvalidatePrefix("/api/episodes")
	h.Cache.InvalidatePrefix("/api/anime")
}
