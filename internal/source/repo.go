package source

import (
	"context"
	"database/sql"
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

const sourceColumns = `id, episode_id, movie_id, server_name, server_number, video_url, quality`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (*models.VideoSource, error) {
	var (
		s         models.VideoSource
		episodeID sql.NullInt64
		movieID   sql.NullInt64
		quality   sql.NullString
	)
	if err := row.Scan(
		&s.ID, &episodeID, &movieID, &s.ServerName, &s.ServerNumber, &s.VideoURL, &quality,
	); err != nil {
		return nil, err
	}
	if episodeID.Valid {
		s.EpisodeID = int(episodeID.Int64)
	}
	if movieID.Valid {
		s.MovieID = int(movieID.Int64)
	}
	s.Quality = quality.String
	return &s, nil
}

func (r *Repo) Get(ctx context.Context, id int) (*models.VideoSource, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+sourceColumns+`
		FROM video_sources
		WHERE id = ?
	`, id)

	s, err := scanSource(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan video source: %w", err)
	}
	return s, nil
}

// ByEpisodeID returns an episode's sources ordered by server number.
// Unknown episode ids yield an empty list, not an error.
func (r *Repo) ByEpisodeID(ctx context.Context, episodeID int) ([]models.VideoSource, error) {
	return r.query(ctx, `
		SELECT `+sourceColumns+`
		FROM video_sources
		WHERE episode_id = ?
		ORDER BY server_number ASC, id ASC
	`, episodeID)
}

func (r *Repo) ByMovieID(ctx context.Context, movieID int) ([]models.VideoSource, error) {
	return r.query(ctx, `
		SELECT `+sourceColumns+`
		FROM video_sources
		WHERE movie_id = ?
		ORDER BY server_number ASC, id ASC
	`, movieID)
}

func (r *Repo) query(ctx context.Context, sqlStr string, args ...any) ([]models.VideoSource, error) {
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query video sources: %w", err)
	}
	defer rows.Close()

	out := make([]models.VideoSource, 0)
	for rows.Next() {
		s, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video source row: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Create(ctx context.Context, in *models.VideoSourceInput) (*models.VideoSource, error) {
	var episodeID, movieID any
	if in.EpisodeID.Valid {
		episodeID = in.EpisodeID.Value
	}
	if in.MovieID.Valid {
		movieID = in.MovieID.Value
	}

	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO video_sources (episode_id, movie_id, server_name, server_number, video_url, quality)
		VALUES (?, ?, ?, ?, ?, ?)
	`, episodeID, movieID, text(in.ServerName), in.ServerNumber.Value, text(in.VideoURL), nullText(in.Quality))
	if err != nil {
		return nil, fmt.Errorf("insert video source: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert video source id: %w", err)
	}
	return r.Get(ctx, int(id))
}

func (r *Repo) Update(ctx context.Context, id int, in *models.VideoSourceInput) (*models.VideoSource, error) {
	var sets []string
	var args []any

	// Moving a source between owners clears the other side so the
	// exactly-one-of constraint holds.
	if in.EpisodeID.Valid {
		sets = append(sets, "episode_id = ?", "movie_id = NULL")
		args = append(args, in.EpisodeID.Value)
	} else if in.MovieID.Valid {
		sets = append(sets, "movie_id = ?", "episode_id = NULL")
		args = append(args, in.MovieID.Value)
	}
	if in.ServerName != nil {
		sets = append(sets, "server_name = ?")
		args = append(args, *in.ServerName)
	}
	if in.ServerNumber.Valid {
		sets = append(sets, "server_number = ?")
		args = append(args, in.ServerNumber.Value)
	}
	if in.VideoURL != nil {
		sets = append(sets, "video_url = ?")
		args = append(args, *in.VideoURL)
	}
	if in.Quality != nil {
		sets = append(sets, "quality = ?")
		args = append(args, nullText(in.Quality))
	}

	if len(sets) == 0 {
		return r.Get(ctx, id)
	}

	args = append(args, id)
	res, err := r.DB.ExecContext(ctx, `
		UPDATE video_sources SET `+strings.Join(sets, ", ")+` WHERE id = ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("update video source: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update video source rows: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return r.Get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM video_sources WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete video source: %w", err)
	}
	n, _ := res.RowsAffected()
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
