package servers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"anistream/internal/pagecache"
	"anistream/pkg/database"
	"anistream/pkg/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

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

func TestSeedDefaults(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.SeedDefaults(ctx))

	fleet, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, fleet, 7)
	require.Equal(t, "Main Server", fleet[0].Name)
	require.Equal(t, 1, fleet[0].Number)
	require.Equal(t, "Archive Server", fleet[6].Name)

	// Seeding again leaves an already-populated table alone.
	require.NoError(t, repo.SeedDefaults(ctx))
	again, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, again, 7)
}

func TestListOrderedByNumber(t *testing.T) {
	r, repo := newTestRouter(t)
	ctx := context.Background()

	for _, n := range []int{3, 1, 2} {
		_, err := repo.Create(ctx, &models.ServerInput{
			Name:   strPtr("Server"),
			Number: models.Int(n),
		})
		require.NoError(t, err)
	}

	w := doJSON(r, http.MethodGet, "/api/servers", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var fleet []models.Server
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fleet))
	require.Len(t, fleet, 3)
	for i, s := range fleet {
		require.Equal(t, i+1, s.Number)
	}
}

func TestCreateEndpointDefaults(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/admin/servers", gin.H{
		"name":   "New Server",
		"number": "8",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var got models.Server
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, 8, got.Number, "string number is coerced")
	require.Equal(t, "online", got.Status)
	require.Zero(t, got.StorageUsed)
	require.Equal(t, 100, got.TotalStorage)
}

func TestCreateEndpointValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/admin/servers", gin.H{
		"name":   "Bad Server",
		"number": 1,
		"status": "rebooting",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Message string `json:"message"`
		Errors  []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Invalid data", resp.Message)
	require.Equal(t, "status", resp.Errors[0].Field)
}

func TestUpdateEndpoint(t *testing.T) {
	r, repo := newTestRouter(t)
	_, err := repo.Create(context.Background(), &models.ServerInput{
		Name:   strPtr("Main Server"),
		Number: models.Int(1),
	})
	require.NoError(t, err)

	w := doJSON(r, http.MethodPut, "/api/admin/servers/1", gin.H{"status": "maintenance"})
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Server
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "maintenance", got.Status)
	require.Equal(t, "Main Server", got.Name)
}

func TestDeleteEndpointUnknownID(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodDelete, "/api/admin/servers/9999", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.JSONEq(t, `{"message": "Server not found"}`, w.Body.String())
}

func strPtr(s string) *string { return &s }
