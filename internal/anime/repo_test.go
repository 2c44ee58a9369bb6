package anime

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

func seedAnime(t *testing.T, repo *Repo, title string) *models.AnimeSeries {
	t.Helper()
	a, err := repo.Create(context.Background(), &models.AnimeSeriesInput{
		Title:       str(title),
		Description: str("description of " + title),
	})
	require.NoError(t, err)
	require.NotNil(t, a)
	return a
}

func TestCreateAndGet(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	genres := []string{"Action", "Drama"}
	created, err := repo.Create(ctx, &models.AnimeSeriesInput{
		Title:       str("Berserk"),
		Description: str("A dark fantasy epic"),
		Genres:      &genres,
		Status:      str("completed"),
		Year:        models.Int(1997),
		Rating:      str("9.1"),
	})
	require.NoError(t, err)
	require.Equal(t, "Berserk", created.Title)
	require.Equal(t, []string{"Action", "Drama"}, created.Genres)
	require.Equal(t, "completed", created.Status)
	require.Equal(t, 1997, created.Year)
	require.False(t, created.CreatedAt.IsZero())

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)
}

func TestCreateDefaults(t *testing.T) {
	repo := NewRepo(newTestDB(t))

	a := seedAnime(t, repo, "Minimal")
	require.Equal(t, "ongoing", a.Status)
	require.Equal(t, []string{}, a.Genres)
	require.Zero(t, a.Year)
}

func TestGetMissing(t *testing.T) {
	repo := NewRepo(newTestDB(t))

	a, err := repo.Get(context.Background(), 999)
	require.NoError(t, err)
	require.Nil(t, a)
}

func TestListNewestFirst(t *testing.T) {
	repo := NewRepo(newTestDB(t))

	first := seedAnime(t, repo, "First")
	second := seedAnime(t, repo, "Second")

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, second.ID, items[0].ID)
	require.Equal(t, first.ID, items[1].ID)
}

func TestSearch(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	genres := []string{"Mecha"}
	_, err := repo.Create(ctx, &models.AnimeSeriesInput{
		Title:       str("Evangelion"),
		Description: str("Angels attack Tokyo-3"),
		Genres:      &genres,
	})
	require.NoError(t, err)
	seedAnime(t, repo, "Unrelated")

	byTitle, err := repo.Search(ctx, "EVANGELION")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)

	byGenre, err := repo.Search(ctx, "mecha")
	require.NoError(t, err)
	require.Len(t, byGenre, 1)

	none, err := repo.Search(ctx, "no such thing")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestSearchEmptyQueryReturnsAll(t *testing.T) {
	repo := NewRepo(newTestDB(t))

	seedAnime(t, repo, "One")
	seedAnime(t, repo, "Two")

	items, err := repo.Search(context.Background(), "   ")
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestUpdatePartial(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	a := seedAnime(t, repo, "Original")

	updated, err := repo.Update(ctx, a.ID, &models.AnimeSeriesInput{Year: models.Int(2021)})
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, 2021, updated.Year)
	require.Equal(t, "Original", updated.Title, "untouched fields survive")

	// Explicit empty year clears the column.
	cleared, err := repo.Update(ctx, a.ID, &models.AnimeSeriesInput{Year: models.IntField{Set: true}})
	require.NoError(t, err)
	require.Zero(t, cleared.Year)
}

func TestUpdateMissing(t *testing.T) {
	repo := NewRepo(newTestDB(t))

	a, err := repo.Update(context.Background(), 999, &models.AnimeSeriesInput{Title: str("X")})
	require.NoError(t, err)
	require.Nil(t, a)
}

func TestDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepo(db)
	ctx := context.Background()

	a := seedAnime(t, repo, "Doomed")
	_, err := db.Exec(`INSERT INTO episodes (anime_id, title, episode_number) VALUES (?, 'Ep 1', 1)`, a.ID)
	require.NoError(t, err)
	var epID int
	require.NoError(t, db.QueryRow(`SELECT id FROM episodes WHERE anime_id = ?`, a.ID).Scan(&epID))
	_, err = db.Exec(`INSERT INTO video_sources (episode_id, server_name, server_number, video_url)
		VALUES (?, 'Main', 1, 'https://cdn.example/v')`, epID)
	require.NoError(t, err)

	ok, err := repo.Delete(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, ok)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM episodes`).Scan(&n))
	require.Zero(t, n, "episodes go with the series")
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM video_sources`).Scan(&n))
	require.Zero(t, n, "sources go with the episodes")
}

func TestDeleteMissing(t *testing.T) {
	repo := NewRepo(newTestDB(t))

	ok, err := repo.Delete(context.Background(), 999)
	require.NoError(t, err)
	require.False(t, ok)
}
