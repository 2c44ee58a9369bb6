package movie

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
	rg.GET("/movies", h.list)
	rg.GET("/movies/:id", h.get)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/movies", h.create)
	rg.PUT("/movies/:id", h.update)
	rg.DELETE("/movies/:id", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	query := c.Query("search")

	var (
		items []models.Movie
		err   error
	)
	if query != "" {
		items, err = h.Repo.Search(c.Request.Context(), query)
	} else {
		items, err = h.Repo.List(c.Request.Context())
	}
	if err != nil {
		logrus.WithError(err).Error("list movies")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch movies"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Movie not found"})
		return
	}

	m, err := h.Repo.Get(c.Request.Context(), id)
	if err != nil {
		logrus.WithError(err).Error("get movie")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch movie"})
		return
	}
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Movie not found"})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) create(c *gin.Context) {
	var in models.MovieInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
		return
	}
	if errs := validate.Movie(&in, false); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data", "errors": errs})
		return
	}

	m, err := h.Repo.Create(c.Request.Context(), &in)
	if err != nil {
		logrus.WithError(err).Error("create movie")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create movie"})
		return
	}

	h.Cache.InvalidatePrefix("/api/movies")
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Movie not found"})
		return
	}

	var in models.MovieInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data"})
		return
	}
	if errs := validate.Movie(&in, true); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid data", "errors": errs})
		return
	}

	m, err := h.Repo.Update(c.Request.Context(), id, &in)
	if err != nil {
		logrus.WithError(err).Error("update movie")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update movie"})
		return
	}
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Movie not found"})
		return
	}

	h.Cache.InvalidatePrefix("/api/movies")
	c.JSON(http.StatusOK, m)
}

func (h *Handler) remove(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Movie not found"})
		return
	}

	ok, err := h.Repo.Delete(c.Request.Context(), id)
	if err != nil {
		logrus.WithError(err).Error("delete movie")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete movie"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Movie not found"})
		return
	}

	h.Cache.InvalidatePrefix("/api/movies")
	c.JSON(http.StatusOK, gin.H{"message": "Movie deleted successfully"})
}
