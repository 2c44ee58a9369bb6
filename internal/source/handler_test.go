package source

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

func TestListByEpisodeEndpoint(t *testing.T) {
	r, repo := newTestRouter(t)
	episodeSource(t, repo, 2)
	episodeSource(t, repo, 1)

	w := doJSON(r, http.MethodGet, "/api/episodes/1/sources", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []models.VideoSource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 2)
	require.Equal(t, 1, items[0].ServerNumber)
	require.Equal(t, 2, items[1].ServerNumber)
}

func TestListByMovieEndpointEmpty(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/movies/1/sources", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())
}

func TestCreateEndpointOwnershipValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/admin/sources", gin.H{
		"episodeId":    1,
		"movieId":      1,
		"serverName":   "Main",
		"serverNumber": 1,
		"videoUrl":     "https://cdn.example/v",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Message string `json:"message"`
		Errors  []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Invalid data", resp.Message)
	require.Equal(t, "only one of episodeId or movieId may be set", resp.Errors[0].Message)
}

func TestCreateEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/admin/sources", gin.H{
		"episodeId":    "1",
		"serverName":   "Main",
		"serverNumber": "1",
		"videoUrl":     "https://cdn.example/v",
		"quality":      "1080p",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var got models.VideoSource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, 1, got.EpisodeID, "string ids are coerced")
	require.Zero(t, got.MovieID)
}

func TestDeleteEndpoint(t *testing.T) {
	r, repo := newTestRouter(t)
	episodeSource(t, repo, 1)

	w := doJSON(r, http.MethodDelete, "/api/admin/sources/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"message": "Video source deleted successfully"}`, w.Body.String())

	w = doJSON(r, http.MethodDelete, "/api/admin/sources/1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"message": "Video source not found"}`, w.Body.String())
}
