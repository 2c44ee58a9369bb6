package episode

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

const episodeColumns = `id, anime_id, title, episode_number, description, thumbnail, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEpisode(row rowScanner) (*models.Episode, error) {
	var (
		e           models.Episode
		description sql.NullString
		thumbnail   sql.NullString
	)
	if err := row.Scan(
		&e.ID, &e.AnimeID, &e.Title, &e.EpisodeNumber, &description, &thumbnail, &e.CreatedAt,
	); err != nil {
		return nil, err
	}
	e.Description = description.String
	e.Thumbnail = thumbnail.String
	return &e, nil
}

func (r *Repo) Get(ctx context.Context, id int) (*models.Episode, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+episodeColumns+`
		FROM episodes
		WHERE id = ?
	`, id)

	e, err := scanEpisode(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan episode: %w", err)
	}
	return e, nil
}

func (r *Repo) List(ctx context.Context) ([]models.Episode, error) {
	return r.query(ctx, `
		SELECT `+episodeColumns+`
		FROM episodes
		ORDER BY created_at DESC, id DESC
	`)
}

// ByAnimeID returns a series' episodes sorted ascending by episode
// number, regardless of insertion order.
func (r *Repo) ByAnimeID(ctx context.Context, animeID int) ([]models.Episode, error) {
	return r.query(ctx, `
		SELECT `+episodeColumns+`
		FROM episodes
		WHERE anime_id = ?
		ORDER BY episode_number ASC, id ASC
	`, animeID)
}

func (r *Repo) query(ctx context.Context, sqlStr string, args ...any) ([]models.Episode, error) {
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query episodes: %w", err)
	}
	defer rows.Close()

	out := make([]models.Episode, 0)
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan episode row: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM episodes`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count episodes: %w", err)
	}
	return total, nil
}

func (r *Repo) Create(ctx context.Context, in *models.EpisodeInput) (*models.Episode, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO episodes (anime_id, title, episode_number, description, thumbnail)
		VALUES (?, ?, ?, ?, ?)
	`, in.AnimeID.Value, text(in.Title), in.EpisodeNumber.Value, nullText(in.Description), nullText(in.Thumbnail))
	if err != nil {
		return nil, fmt.Errorf("insert episode: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert episode id: %w", err)
	}
	return r.Get(ctx, int(id))
}

func (r *Repo) Update(ctx context.Context, id int, in *models.EpisodeInput) (*models.Episode, error) {
	var sets []string
	var args []any

	if in.AnimeID.Valid {
		sets = append(sets, "anime_id = ?")
		args = append(args, in.AnimeID.Value)
	}
	if in.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *in.Title)
	}
	if in.EpisodeNumber.Valid {
		sets = append(sets, "episode_number = ?")
		args = append(args, in.EpisodeNumber.Value)
	}
	if in.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, nullText(in.Description))
	}
	if in.Thumbnail != nil {
		sets = append(sets, "thumbnail = ?")
		args = append(args, nullText(in.Thumbnail))
	}

	if len(sets) == 0 {
		return r.Get(ctx, id)
	}

	args = append(args, id)
	res, err := r.DB.ExecContext(ctx, `
		UPDATE episodes SET `+strings.Join(sets, ", ")+` WHERE id = ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("update episode: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update episode rows: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return r.Get(ctx, id)
}

// Delete removes the episode and its video sources in one transaction.
func (r *Repo) Delete(ctx context.Context, id int) (bool, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete episode: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM video_sources WHERE episode_id = ?`, id); err != nil {
		return false, fmt.Errorf("delete episode sources: %w", err)
	}

	res, execErr := tx.ExecContext(ctx, `DELETE FROM episodes WHERE id = ?`, id)
	if execErr != nil {
		err = execErr
		return false, fmt.Errorf("delete episode: %w", err)
	}
	n, _ := res.RowsAffected()

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete episode: %w", err)
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
