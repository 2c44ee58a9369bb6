package anime

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"anistream/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const animeColumns = `id, title, description, cover_image, banner_image, genres, status, year, rating, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnime(row rowScanner) (*models.AnimeSeries, error) {
	var (
		a          models.AnimeSeries
		cover      sql.NullString
		banner     sql.NullString
		genresJSON string
		year       sql.NullInt64
		rating     sql.NullString
	)
	if err := row.Scan(
		&a.ID, &a.Title, &a.Description, &cover, &banner, &genresJSON, &a.Status, &year, &rating, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	a.CoverImage = cover.String
	a.BannerImage = banner.String
	if year.Valid {
		a.Year = int(year.Int64)
	}
	a.Rating = rating.String
	_ = json.Unmarshal([]byte(genresJSON), &a.Genres)
	return &a, nil
}

func (r *Repo) Get(ctx context.Context, id int) (*models.AnimeSeries, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+animeColumns+`
		FROM anime_series
		WHERE id = ?
	`, id)

	a, err := scanAnime(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan anime: %w", err)
	}
	return a, nil
}

// List returns all series newest-first.
func (r *Repo) List(ctx context.Context) ([]models.AnimeSeries, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+animeColumns+`
		FROM anime_series
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list anime: %w", err)
	}
	defer rows.Close()

	out := make([]models.AnimeSeries, 0)
	for rows.Next() {
		a, err := scanAnime(rows)
		if err != nil {
			return nil, fmt.Errorf("scan anime row: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM anime_series`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count anime: %w", err)
	}
	return total, nil
}

// Search matches case-insensitively against title, description and genre
// membership. An empty query returns the full unfiltered list.
func (r *Repo) Search(ctx context.Context, query string) ([]models.AnimeSeries, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.List(ctx)
	}

	kw := "%" + strings.ToLower(query) + "%"
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+animeColumns+`
		FROM anime_series
		WHERE LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(genres) LIKE ?
		ORDER BY created_at DESC, id DESC
	`, kw, kw, kw)
	if err != nil {
		return nil, fmt.Errorf("search anime: %w", err)
	}
	defer rows.Close()

	out := make([]models.AnimeSeries, 0)
	for rows.Next() {
		a, err := scanAnime(rows)
		if err != nil {
			return nil, fmt.Errorf("scan anime row: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Create(ctx context.Context, in *models.AnimeSeriesInput) (*models.AnimeSeries, error) {
	genres := []string{}
	if in.Genres != nil {
		genres = *in.Genres
	}
	genresJSON, _ := json.Marshal(genres)

	status := "ongoing"
	if in.Status != nil && *in.Status != "" {
		status = *in.Status
	}

	var year any
	if in.Year.Valid {
		year = in.Year.Value
	}

	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO anime_series (title, description, cover_image, banner_image, genres, status, year, rating)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, text(in.Title), text(in.Description), nullText(in.CoverImage), nullText(in.BannerImage),
		string(genresJSON), status, year, nullText(in.Rating))
	if err != nil {
		return nil, fmt.Errorf("insert anime: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert anime id: %w", err)
	}
	return r.Get(ctx, int(id))
}

// Update merges only the provided fields. Returns (nil, nil) when the id
// does not resolve.
func (r *Repo) Update(ctx context.Context, id int, in *models.AnimeSeriesInput) (*models.AnimeSeries, error) {
	var sets []string
	var args []any

	if in.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *in.Title)
	}
	if in.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *in.Description)
	}
	if in.CoverImage != nil {
		sets = append(sets, "cover_image = ?")
		args = append(args, nullText(in.CoverImage))
	}
	if in.BannerImage != nil {
		sets = append(sets, "banner_image = ?")
		args = append(args, nullText(in.BannerImage))
	}
	if in.Genres != nil {
		genresJSON, _ := json.Marshal(*in.Genres)
		sets = append(sets, "genres = ?")
		args = append(args, string(genresJSON))
	}
	if in.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *in.Status)
	}
	if in.Year.Set {
		sets = append(sets, "year = ?")
		if in.Year.Valid {
			args = append(args, in.Year.Value)
		} else {
			args = append(args, nil)
		}
	}
	if in.Rating != nil {
		sets = append(sets, "rating = ?")
		args = append(args, nullText(in.Rating))
	}

	if len(sets) == 0 {
		return r.Get(ctx, id)
	}

	args = append(args, id)
	res, err := r.DB.ExecContext(ctx, `
		UPDATE anime_series SET `+strings.Join(sets, ", ")+` WHERE id = ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("update anime: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update anime rows: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return r.Get(ctx, id)
}

// Delete removes the series, its episodes and their video sources in one
// transaction.
func (r *Repo) Delete(ctx context.Context, id int) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete anime: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		DELETE FROM video_sources
		WHERE episode_id IN (SELECT id FROM episodes WHERE anime_id = ?)
	`, id); err != nil {
		return false, fmt.Errorf("delete anime sources: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM episodes WHERE anime_id = ?`, id); err != nil {
		return false, fmt.Errorf("delete anime episodes: %w", err)
	}

	res, execErr := tx.ExecContext(ctx, `DELETE FROM anime_series WHERE id = ?`, id)
	if execErr != nil {
		err = execErr
		return false, fmt.Errorf("delete anime: %w", err)
	}
	n, _ := res.RowsAffected()

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete anime: %w", err)
	}
	return n > 0, nil
}

func text(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// nullText maps nil or empty strings to NULL for optional columns.
func nullText(p *string) any {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	return *p
}
