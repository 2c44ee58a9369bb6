package movie

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

const movieColumns = `id, title, description, cover_image, banner_image, genres, duration, year, rating, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (*models.Movie, error) {
	var (
		m          models.Movie
		cover      sql.NullString
		banner     sql.NullString
		genresJSON string
		duration   sql.NullInt64
		year       sql.NullInt64
		rating     sql.NullString
	)
	if err := row.Scan(
		&m.ID, &m.Title, &m.Description, &cover, &banner, &genresJSON, &duration, &year, &rating, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	m.CoverImage = cover.String
	m.BannerImage = banner.String
	if duration.Valid {
		m.Duration = int(duration.Int64)
	}
	if year.Valid {
		m.Year = int(year.Int64)
	}
	m.Rating = rating.String
	_ = json.Unmarshal([]byte(genresJSON), &m.Genres)
	return &m, nil
}

func (r *Repo) Get(ctx context.Context, id int) (*models.Movie, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+movieColumns+`
		FROM movies
		WHERE id = ?
	`, id)

	m, err := scanMovie(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan movie: %w", err)
	}
	return m, nil
}

func (r *Repo) List(ctx context.Context) ([]models.Movie, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+movieColumns+`
		FROM movies
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	out := make([]models.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie row: %w", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return total, nil
}

// Search matches case-insensitively against title, description and genre
// membership. An empty query returns the full unfiltered list.
func (r *Repo) Search(ctx context.Context, query string) ([]models.Movie, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.List(ctx)
	}

	kw := "%" + strings.ToLower(query) + "%"
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+movieColumns+`
		FROM movies
		WHERE LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(genres) LIKE ?
		ORDER BY created_at DESC, id DESC
	`, kw, kw, kw)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	defer rows.Close()

	out := make([]models.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie row: %w", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Create(ctx context.Context, in *models.MovieInput) (*models.Movie, error) {
	genres := []string{}
	if in.Genres != nil {
		genres = *in.Genres
	}
	genresJSON, _ := json.Marshal(genres)

	var duration, year any
	if in.Duration.Valid {
		duration = in.Duration.Value
	}
	if in.Year.Valid {
		year = in.Year.Value
	}

	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO movies (title, description, cover_image, banner_image, genres, duration, year, rating)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, text(in.Title), text(in.Description), nullText(in.CoverImage), nullText(in.BannerImage),
		string(genresJSON), duration, year, nullText(in.Rating))
	if err != nil {
		return nil, fmt.Errorf("insert movie: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert movie id: %w", err)
	}
	return r.Get(ctx, int(id))
}

func (r *Repo) Update(ctx context.Context, id int, in *models.MovieInput) (*models.Movie, error) {
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
	if in.Duration.Set {
		sets = append(sets, "duration = ?")
		if in.Duration.Valid {
			args = append(args, in.Duration.Value)
		} else {
			args = append(args, nil)
		}
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
		UPDATE movies SET `+strings.Join(sets, ", ")+` WHERE id = ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("update movie: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update movie rows: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return r.Get(ctx, id)
}

// Delete removes the movie and its video sources in one transaction.
func (r *Repo) Delete(ctx context.Context, id int) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete movie: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM video_sources WHERE movie_id = ?`, id); err != nil {
		return false, fmt.Errorf("delete movie sources: %w", err)
	}

	res, execErr := tx.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if execErr != nil {
		err = execErr
		return false, fmt.Errorf("delete movie: %w", err)
	}
	n, _ := res.RowsAffected()

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete movie: %w", err)
	}
	return n > 0, nil
}

func text(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func nullText(p *string) any {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	return *p
}
