package web

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"anistream/internal/anime"
	"anistream/internal/auth"
	"anistream/internal/episode"
	"anistream/internal/listing"
	"anistream/internal/movie"
	"anistream/internal/pagecache"
	"anistream/internal/servers"
	"anistream/internal/source"
	"anistream/pkg/models"
)

// Page sizes per page type.
const (
	animePerPage  = 15
	moviePerPage  = 12
	searchPerPage = 20
)

type Handler struct {
	Anime    *anime.Repo
	Movies   *movie.Repo
	Episodes *episode.Repo
	Sources  *source.Repo
	Servers  *servers.Repo
	Users    *auth.Repo
	Cache    *pagecache.Cache

	tpl *template.Template
}

func NewHandler(animeRepo *anime.Repo, movieRepo *movie.Repo, episodeRepo *episode.Repo,
	sourceRepo *source.Repo, serverRepo *servers.Repo, userRepo *auth.Repo, cache *pagecache.Cache) *Handler {
	return &Handler{
		Anime:    animeRepo,
		Movies:   movieRepo,
		Episodes: episodeRepo,
		Sources:  sourceRepo,
		Servers:  serverRepo,
		Users:    userRepo,
		Cache:    cache,
		tpl:      newTemplates(),
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.home)
	r.GET("/anime", h.animeList)
	r.GET("/anime/:id", h.animeDetail)
	r.GET("/movies", h.movieList)
	r.GET("/search", h.search)
	r.GET("/watch/episode/:id", h.watchEpisode)
	r.GET("/watch/movie/:id", h.watchMovie)
	r.GET("/login", h.loginForm)
	r.POST("/login", h.loginSubmit)
	r.GET("/admin", h.dashboard)
}

func (h *Handler) render(c *gin.Context, code int, name string, data any) {
	c.Status(code)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := h.tpl.ExecuteTemplate(c.Writer, name, data); err != nil {
		logrus.WithError(err).WithField("template", name).Error("render page")
	}
}

func (h *Handler) renderError(c *gin.Context) {
	h.render(c, http.StatusInternalServerError, "message", messageData{
		Title: "Something went wrong", Body: "Please try again.",
	})
}

func (h *Handler) notFound(c *gin.Context, what string) {
	h.render(c, http.StatusNotFound, "message", messageData{
		Title: what + " not found", Body: "The page you are looking for does not exist.",
	})
}

// Cached fetches, keyed by the resource path the JSON API serves the
// same data under.

func (h *Handler) allAnime(c *gin.Context) ([]models.AnimeSeries, error) {
	return pagecache.Through(h.Cache, "/api/anime", func() ([]models.AnimeSeries, error) {
		return h.Anime.List(c.Request.Context())
	})
}

func (h *Handler) allMovies(c *gin.Context) ([]models.Movie, error) {
	return pagecache.Through(h.Cache, "/api/movies", func() ([]models.Movie, error) {
		return h.Movies.List(c.Request.Context())
	})
}

func (h *Handler) animeEpisodes(c *gin.Context, animeID int) ([]models.Episode, error) {
	key := fmt.Sprintf("/api/anime/%d/episodes", animeID)
	return pagecache.Through(h.Cache, key, func() ([]models.Episode, error) {
		return h.Episodes.ByAnimeID(c.Request.Context(), animeID)
	})
}

type homeData struct {
	Featured *models.AnimeSeries
	Trending []models.AnimeSeries
	Popular  []models.Movie
	Latest   []models.Episode
}

func (h *Handler) home(c *gin.Context) {
	animeAll, err := h.allAnime(c)
	if err != nil {
		logrus.WithError(err).Error("home anime")
		h.renderError(c)
		return
	}
	moviesAll, err := h.allMovies(c)
	if err != nil {
		logrus.WithError(err).Error("home movies")
		h.renderError(c)
		return
	}
	episodesAll, err := pagecache.Through(h.Cache, "/api/episodes", func() ([]models.Episode, error) {
		return h.Episodes.List(c.Request.Context())
	})
	if err != nil {
		logrus.WithError(err).Error("home episodes")
		h.renderError(c)
		return
	}

	data := homeData{
		Trending: head(animeAll, 5),
		Popular:  head(moviesAll, 4),
		Latest:   head(episodesAll, 3),
	}
	if len(animeAll) > 0 {
		data.Featured = &animeAll[0]
	}
	h.render(c, http.StatusOK, "home", data)
}

type listPageData[T any] struct {
	Title   string
	Base    string
	Query   string
	Sort    string
	Page    listing.Page[T]
	PrevURL string
	NextURL string
}

func listParams(c *gin.Context, perPage int) listing.Params {
	page, _ := strconv.Atoi(c.Query("page"))
	return listing.Params{
		Query:   c.Query("q"),
		Sort:    c.Query("sort"),
		Page:    page,
		PerPage: perPage,
	}
}

func pageURL(base string, p listing.Params, page int) string {
	v := url.Values{}
	if p.Query != "" {
		v.Set("q", p.Query)
	}
	if p.Sort != "" {
		v.Set("sort", p.Sort)
	}
	v.Set("page", strconv.Itoa(page))
	return base + "?" + v.Encode()
}

var animeFields = listing.Fields[models.AnimeSeries]{
	Title:     func(a models.AnimeSeries) string { return a.Title },
	Haystack:  func(a models.AnimeSeries) []string { return append([]string{a.Title, a.Description}, a.Genres...) },
	CreatedAt: func(a models.AnimeSeries) time.Time { return a.CreatedAt },
	Year:      func(a models.AnimeSeries) int { return a.Year },
}

func (h *Handler) animeList(c *gin.Context) {
	all, err := h.allAnime(c)
	if err != nil {
		logrus.WithError(err).Error("anime page")
		h.renderError(c)
		return
	}

	p := listParams(c, animePerPage)
	page := listing.Apply(all, p, animeFields)

	data := listPageData[models.AnimeSeries]{
		Title: "Anime", Base: "/anime", Query: p.Query, Sort: p.Sort, Page: page,
	}
	if page.Number > 1 {
		data.PrevURL = pageURL("/anime", p, page.Number-1)
	}
	if page.Number < page.TotalPages {
		data.NextURL = pageURL("/anime", p, page.Number+1)
	}
	h.render(c, http.StatusOK, "anime", data)
}

var movieFields = listing.Fields[models.Movie]{
	Title:     func(m models.Movie) string { return m.Title },
	Haystack:  func(m models.Movie) []string { return append([]string{m.Title, m.Description}, m.Genres...) },
	CreatedAt: func(m models.Movie) time.Time { return m.CreatedAt },
	Year:      func(m models.Movie) int { return m.Year },
}

func (h *Handler) movieList(c *gin.Context) {
	all, err := h.allMovies(c)
	if err != nil {
		logrus.WithError(err).Error("movies page")
		h.renderError(c)
		return
	}

	p := listParams(c, moviePerPage)
	page := listing.Apply(all, p, movieFields)

	data := listPageData[models.Movie]{
		Title: "Movies", Base: "/movies", Query: p.Query, Sort: p.Sort, Page: page,
	}
	if page.Number > 1 {
		data.PrevURL = pageURL("/movies", p, page.Number-1)
	}
	if page.Number < page.TotalPages {
		data.NextURL = pageURL("/movies", p, page.Number+1)
	}
	h.render(c, http.StatusOK, "movies", data)
}

type searchData struct {
	Query  string
	Anime  listing.Page[models.AnimeSeries]
	Movies listing.Page[models.Movie]
}

func (h *Handler) search(c *gin.Context) {
	animeAll, err := h.allAnime(c)
	if err != nil {
		logrus.WithError(err).Error("search anime")
		h.renderError(c)
		return
	}
	moviesAll, err := h.allMovies(c)
	if err != nil {
		logrus.WithError(err).Error("search movies")
		h.renderError(c)
		return
	}

	p := listParams(c, searchPerPage)
	h.render(c, http.StatusOK, "search", searchData{
		Query:  p.Query,
		Anime:  listing.Apply(animeAll, p, animeFields),
		Movies: listing.Apply(moviesAll, p, movieFields),
	})
}

type detailData struct {
	Anime    *models.AnimeSeries
	Episodes []models.Episode
}

func (h *Handler) animeDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.notFound(c, "Anime")
		return
	}

	a, err := h.Anime.Get(c.Request.Context(), id)
	if err != nil {
		logrus.WithError(err).Error("anime detail")
		h.renderError(c)
		return
	}
	if a == nil {
		h.notFound(c, "Anime")
		return
	}

	eps, err := h.animeEpisodes(c, id)
	if err != nil {
		logrus.WithError(err).Error("anime detail episodes")
		h.renderError(c)
		return
	}
	h.render(c, http.StatusOK, "anime_detail", detailData{Anime: a, Episodes: eps})
}

type watchData struct {
	Title    string
	Subtitle string
	BackURL  string
	Sources  []models.VideoSource
	Selected *models.VideoSource
	SrcBase  string
}

// pickSource selects by ?src= source id, defaulting to the first
// (lowest server number) entry.
func pickSource(c *gin.Context, sources []models.VideoSource) *models.VideoSource {
	if len(sources) == 0 {
		return nil
	}
	if want, err := strconv.Atoi(c.Query("src")); err == nil {
		for i := range sources {
			if sources[i].ID == want {
				return &sources[i]
			}
		}
	}
	return &sources[0]
}

func (h *Handler) watchEpisode(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.notFound(c, "Episode")
		return
	}

	e, err := h.Episodes.Get(c.Request.Context(), id)
	if err != nil {
		logrus.WithError(err).Error("watch episode")
		h.renderError(c)
		return
	}
	if e == nil {
		h.notFound(c, "Episode")
		return
	}

	key := fmt.Sprintf("/api/episodes/%d/sources", id)
	srcs, err := pagecache.Through(h.Cache, key, func() ([]models.VideoSource, error) {
		return h.Sources.ByEpisodeID(c.Request.Context(), id)
	})
	if err != nil {
		logrus.WithError(err).Error("watch episode sources")
		h.renderError(c)
		return
	}

	h.render(c, http.StatusOK, "watch", watchData{
		Title:    e.Title,
		Subtitle: fmt.Sprintf("Episode %d", e.EpisodeNumber),
		BackURL:  fmt.Sprintf("/anime/%d", e.AnimeID),
		Sources:  srcs,
		Selected: pickSource(c, srcs),
		SrcBase:  fmt.Sprintf("/watch/episode/%d", id),
	})
}

func (h *Handler) watchMovie(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.notFound(c, "Movie")
		return
	}

	m, err := h.Movies.Get(c.Request.Context(), id)
	if err != nil {
		logrus.WithError(err).Error("watch movie")
		h.renderError(c)
		return
	}
	if m == nil {
		h.notFound(c, "Movie")
		return
	}

	key := fmt.Sprintf("/api/movies/%d/sources", id)
	srcs, err := pagecache.Through(h.Cache, key, func() ([]models.VideoSource, error) {
		return h.Sources.ByMovieID(c.Request.Context(), id)
	})
	if err != nil {
		logrus.WithError(err).Error("watch movie sources")
		h.renderError(c)
		return
	}

	subtitle := ""
	if m.Duration > 0 {
		subtitle = fmt.Sprintf("%d min", m.Duration)
	}
	h.render(c, http.StatusOK, "watch", watchData{
		Title:    m.Title,
		Subtitle: subtitle,
		BackURL:  "/movies",
		Sources:  srcs,
		Selected: pickSource(c, srcs),
		SrcBase:  fmt.Sprintf("/watch/movie/%d", id),
	})
}

type loginData struct {
	Error string
}

func (h *Handler) loginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login", loginData{})
}

func (h *Handler) loginSubmit(c *gin.Context) {
	u, err := auth.Authenticate(c.Request.Context(), h.Users, c.PostForm("username"), c.PostForm("password"))
	if err != nil {
		logrus.WithError(err).Error("web login")
		h.renderError(c)
		return
	}
	if u == nil {
		h.render(c, http.StatusUnauthorized, "login", loginData{Error: "Invalid username or password"})
		return
	}
	if err := auth.SignIn(c, u); err != nil {
		logrus.WithError(err).Error("web login session")
		h.renderError(c)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin")
}

type dashboardData struct {
	User         *models.User
	AnimeCount   int
	MovieCount   int
	EpisodeCount int
	ServerCount  int
	Servers      []models.Server
}

func (h *Handler) dashboard(c *gin.Context) {
	u, err := auth.CurrentUser(c, h.Users)
	if err != nil {
		logrus.WithError(err).Error("dashboard user")
		h.renderError(c)
		return
	}
	if u == nil {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	if !u.IsAdmin {
		h.render(c, http.StatusForbidden, "message", messageData{
			Title: "Access denied", Body: "This area is restricted to administrators.",
		})
		return
	}

	ctx := c.Request.Context()
	data := dashboardData{User: u}
	if data.AnimeCount, err = h.Anime.Count(ctx); err == nil {
		if data.MovieCount, err = h.Movies.Count(ctx); err == nil {
			if data.EpisodeCount, err = h.Episodes.Count(ctx); err == nil {
				data.Servers, err = h.Servers.List(ctx)
			}
		}
	}
	if err != nil {
		logrus.WithError(err).Error("dashboard stats")
		h.renderError(c)
		return
	}
	data.ServerCount = len(data.Servers)
	h.render(c, http.StatusOK, "dashboard", data)
}

type messageData struct {
	Title string
	Body  string
}

func head[T any](items []T, n int) []T {
	if len(items) < n {
		n = len(items)
	}
	return items[:n]
}
