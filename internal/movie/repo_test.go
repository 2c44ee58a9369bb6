package movie

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

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

func str(s string) *string { return &s }

func seedMovie(t *testing.T, repo *Repo, title string) *models.Movie {
	t.Helper()
	m, err := repo.Create(context.Background(), &models.MovieInput{
		Title:       str(title),
		Description: str("description of " + title),
	})
	require.NoError(t, err)
	require.NotNil(t, m)
	return m
}

func TestCreateAndGet(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, &models.MovieInput{
		Title:       str("Akira"),
		Description: str("Neo-Tokyo is about to explode"),
		Duration:    models.Int(124),
		Year:        models.Int(1988),
	})
	require.NoError(t, err)
	require.Equal(t, 124, created.Duration)
	require.Equal(t, 1988, created.Year)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)
}

func TestGetMissing(t *testing.T) {
	repo := NewRepo(newTestDB(t))

	m, err := repo.Get(context.Background(), 999)
	require.NoError(t, err)
	require.Nil(t, m)
}

func TestListNewestFirst(t *testing.T) {
	repo := NewRepo(newTestDB(t))

	first := seedMovie(t, repo, "First")
	second := seedMovie(t, repo, "Second")

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, second.ID, items[0].ID)
	require.Equal(t, first.ID, items[1].ID)
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	repo := NewRepo(newTestDB(t))

	seedMovie(t, repo, "One")
	seedMovie(t, repo, "Two")

	items, err := repo.Search(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestUpdatePartial(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	m := seedMovie(t, repo, "Akira")

	updated, err := repo.Update(ctx, m.ID, &models.MovieInput{Duration: models.Int(124)})
	require.NoError(t, err)
	require.Equal(t, 124, updated.Duration)
	require.Equal(t, "Akira", updated.Title)

	missing, err := repo.Update(ctx, 999, &models.MovieInput{Duration: models.Int(124)})
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestDeleteCascadesSources(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepo(db)

	m := seedMovie(t, repo, "Doomed")
	_, err := db.Exec(`INSERT INTO video_sources (movie_id, server_name, server_number, video_url)
		VALUES (?, 'Main', 1, 'https://cdn.example/v')`, m.ID)
	require.NoError(t, err)

	ok, err := repo.Delete(context.Background(), m.ID)
	require.NoError(t, err)
	require.True(t, ok)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM video_sources`).Scan(&n))
	require.Zero(t, n)

	ok, err = repo.Delete(context.Background(), m.ID)
	require.NoError(t, err)
	require.False(t, ok)
}
