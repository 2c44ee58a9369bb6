package anime

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"anistream/internal/pagecache"
	"anistream/pkg/models"
)

func newTestRouter(t *testing.T) (*gin.Engine, *Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewRepo(newTestDB(t))
	h := NewHandler(repo, pagecache.New())

	r := gin.New()
	api := r.Group("/api")
	h.RegisterRoutes(api)
	h.RegisterAdminRoutes(api.Group("/admin"))
	return r, repo
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListEndpoint(t *testing.T) {
	r, repo := newTestRouter(t)
	seedAnime(t, repo, "Berserk")
	seedAnime(t, repo, "Monster")

	w := doJSON(r, http.MethodGet, "/api/anime", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []models.AnimeSeries
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 2)
}

func TestListEndpointSearch(t *testing.T) {
	r, repo := newTestRouter(t)
	seedAnime(t, repo, "Berserk")
	seedAnime(t, repo, "Monster")

	w := doJSON(r, http.MethodGet, "/api/anime?search=berserk", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []models.AnimeSeries
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	require.Equal(t, "Berserk", items[0].Title)
}

func TestGetEndpoint(t *testing.T) {
	r, repo := newTestRouter(t)
	a := seedAnime(t, repo, "Berserk")

	w := doJSON(r, http.MethodGet, "/api/anime/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got models.AnimeSeries
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, a.ID, got.ID)
	require.Equal(t, "Berserk", got.Title)
	require.False(t, got.CreatedAt.IsZero(), "createdAt is serialized")
}

func TestGetEndpointNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/api/anime/999", "/api/anime/abc"} {
		w := doJSON(r, http.MethodGet, path, nil)
		require.Equal(t, http.StatusNotFound, w.Code, path)
		require.JSONEq(t, `{"message": "Anime not found"}`, w.Body.String())
	}
}

func TestCreateEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/admin/anime", gin.H{
		"title":       "Berserk",
		"description": "A dark fantasy epic",
		"genres":      []string{"Action"},
		"year":        "1997",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var got models.AnimeSeries
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.NotZero(t, got.ID)
	require.Equal(t, 1997, got.Year, "string year is coerced")
}

func TestCreateEndpointValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/admin/anime", gin.H{
		"description": "short",
		"year":        "abc",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Message string `json:"message"`
		Errors  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Invalid data", resp.Message)

	fields := make([]string, len(resp.Errors))
	for i, e := range resp.Errors {
		fields[i] = e.Field
	}
	require.Contains(t, fields, "title")
	require.Contains(t, fields, "description")
	require.Contains(t, fields, "year")
}

func TestUpdateEndpoint(t *testing.T) {
	r, repo := newTestRouter(t)
	seedAnime(t, repo, "Berserk")

	w := doJSON(r, http.MethodPut, "/api/admin/anime/1", gin.H{"year": 2021})
	require.Equal(t, http.StatusOK, w.Code)

	var got models.AnimeSeries
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, 2021, got.Year)
	require.Equal(t, "Berserk", got.Title)
}

func TestUpdateEndpointNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPut, "/api/admin/anime/999", gin.H{"year": 2021})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"message": "Anime not found"}`, w.Body.String())
}

func TestDeleteEndpoint(t *testing.T) {
	r, repo := newTestRouter(t)
	seedAnime(t, repo, "Berserk")

	w := doJSON(r, http.MethodDelete, "/api/admin/anime/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"message": "Anime deleted successfully"}`, w.Body.String())

	w = doJSON(r, http.MethodDelete, "/api/admin/anime/1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
