package anime

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
	rg.GET("/anime", h.list)       // GET /api/anime?search=
	rg.GET("/anime/:id", h.get)    // GET /api/anime/:id
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/anime", h.create)
	rg.PUT("/anime/:id", h.update)
	rg.DELETE("/anime/:id", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	query := c.Query("search")

	var (
		items []models.AnimeSeries
		err   error
	)
	if query != "" {
		items, err = h.Repo.Search(c.Request.Context(), query)
	} else {
		items, err = h.Repo.List(c.Request.Context())
	}
	if err != nil {
		logrus.WithError(err).Error("list anime")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch anime"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Anime not found"})
		return
	}

	a, err := h.Repo.Get(c.Request.Context(), id)
	if err != nil {
		logrus.WithError(err).Error("get anime")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch anime"})
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Anime not found"})
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) create(c *gin.Context) {
	var in models.AnimeSeriesInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
		return
	}
	if errs := validate.AnimeSeries(&in, false); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data", "errors": errs})
		return
	}

	a, err := h.Repo.Create(c.Request.Context(), &in)
	if err != nil {
		logrus.WithError(err).Error("create anime")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create anime"})
		return
	}

	h.Cache.InvalidatePrefix("/api/anime")
	c.JSON(http.StatusCreated, a)
}

func (h *Handler) update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Anime not found"})
		return
	}

	var in models.AnimeSeriesInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
		return
	}
	if errs := validate.AnimeSeries(&in, true); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data", "errors": errs})
		return
	}

	a, err := h.Repo.Update(c.Request.Context(), id, &in)
	if err != nil {
		logrus.WithError(err).Error("update anime")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update anime"})
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Anime not found"})
		return
	}

	h.Cache.InvalidatePrefix("/api/anime")
	c.JSON(http.StatusOK, a)
}

func (h *Handler) remove(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Anime not found"})
		return
	}

	ok, err := h.Repo.Delete(c.Request.Context(), id)
	if err != nil {
		logrus.WithError(err).Error("delete anime")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete anime"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Anime not found"})
		return
	}

	// Children go with the parent, so their keys go too.
	h.Cache.InvalidatePrefix("/api/anime")
	h.Cache.InvalidatePrefix("/api/episodes")
	c.JSON(http.StatusOK, gin.H{"message": "Anime deleted successfully"})
}
