package servers

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

const serverColumns = `id, name, number, region, status, storage_used, total_storage`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanServer(row rowScanner) (*models.Server, error) {
	var (
		s      models.Server
		region sql.NullString
	)
	if err := row.Scan(
		&s.ID, &s.Name, &s.Number, &region, &s.Status, &s.StorageUsed, &s.TotalStorage,
	); err != nil {
		return nil, err
	}
	s.Region = region.String
	return &s, nil
}

func (r *Repo) Get(ctx context.Context, id int) (*models.Server, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+serverColumns+`
		FROM servers
		WHERE id = ?
	`, id)

	s, err := scanServer(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan server: %w", err)
	}
	return s, nil
}

// List returns the fleet ordered by server number.
func (r *Repo) List(ctx context.Context) ([]models.Server, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+serverColumns+`
		FROM servers
		ORDER BY number ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list servers: %w", err)
	}
	defer rows.Close()

	out := make([]models.Server, 0)
	for rows.Next() {
		s, err := scanServer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan server row: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM servers`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count servers: %w", err)
	}
	return total, nil
}

func (r *Repo) Create(ctx context.Context, in *models.ServerInput) (*models.Server, error) {
	status := "online"
	if in.Status != nil && *in.Status != "" {
		status = *in.Status
	}

	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO servers (name, number, region, status, storage_used, total_storage)
		VALUES (?, ?, ?, ?, ?, ?)
	`, text(in.Name), in.Number.Value, nullText(in.Region), status,
		in.StorageUsed.Or(0), in.TotalStorage.Or(100))
	if err != nil {
		return nil, fmt.Errorf("insert server: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert server id: %w", err)
	}
	return r.Get(ctx, int(id))
}

func (r *Repo) Update(ctx context.Context, id int, in *models.ServerInput) (*models.Server, error) {
	var sets []string
	var args []any

	if in.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *in.Name)
	}
	if in.Number.Valid {
		sets = append(sets, "number = ?")
		args = append(args, in.Number.Value)
	}
	if in.Region != nil {
		sets = append(sets, "region = ?")
		args = append(args, nullText(in.Region))
	}
	if in.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *in.Status)
	}
	if in.StorageUsed.Set {
		sets = append(sets, "storage_used = ?")
		args = append(args, in.StorageUsed.Or(0))
	}
	if in.TotalStorage.Set {
		sets = append(sets, "total_storage = ?")
		args = append(args, in.TotalStorage.Or(100))
	}

	if len(sets) == 0 {
		return r.Get(ctx, id)
	}

	args = append(args, id)
	res, err := r.DB.ExecContext(ctx, `
		UPDATE servers SET `+strings.Join(sets, ", ")+` WHERE id = ?
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("update server: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update server rows: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return r.Get(ctx, id)
}

func (r *Repo) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM servers WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete server: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SeedDefaults inserts the stock fleet on first run. A non-empty servers
// table is left untouched.
func (r *Repo) SeedDefaults(ctx context.Context) error {
	total, err := r.Count(ctx)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}

	defaults := []models.Server{
		{Name: "Main Server", Number: 1, Region: "US East", Status: "online", StorageUsed: 92, TotalStorage: 100},
		{Name: "Backup Server", Number: 2, Region: "EU Central", Status: "online", StorageUsed: 85, TotalStorage: 100},
		{Name: "CDN Server", Number: 3, Region: "Asia Pacific", Status: "maintenance", StorageUsed: 68, TotalStorage: 100},
		{Name: "Stream Server", Number: 4, Region: "US West", Status: "online", StorageUsed: 55, TotalStorage: 100},
		{Name: "Mirror Server", Number: 5, Region: "South America", Status: "online", StorageUsed: 42, TotalStorage: 100},
		{Name: "Backup Mirror", Number: 6, Region: "Australia", Status: "offline", StorageUsed: 30, TotalStorage: 100},
		{Name: "Archive Server", Number: 7, Region: "Africa", Status: "online", StorageUsed: 78, TotalStorage: 100},
	}
	for _, s := range defaults {
		if _, err := r.DB.ExecContext(ctx, `
			INSERT INTO servers (name, number, region, status, storage_used, total_storage)
			VALUES (?, ?, ?, ?, ?, ?)
		`, s.Name, s.Number, s.Region, s.Status, s.StorageUsed, s.TotalStorage); err != nil {
			return fmt.Errorf("seed server %q: %w", s.Name, err)
		}
	}
	return nil
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
