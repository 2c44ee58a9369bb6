package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"anistream/pkg/models"
)

// ErrUsernameTaken reports a duplicate username. Uniqueness is enforced
// by the store's UNIQUE constraint, so concurrent registrations cannot
// race past a pre-check.
var ErrUsernameTaken = errors.New("username already exists")

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Get(ctx context.Context, id int) (*models.User, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, username, password, is_admin
		FROM users
		WHERE id = ?
	`, id)

	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.IsAdmin); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// GetByUsername matches case-insensitively (the column collates NOCASE).
func (r *Repo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, username, password, is_admin
		FROM users
		WHERE username = ?
	`, username)

	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.IsAdmin); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &u, nil
}

func (r *Repo) Create(ctx context.Context, username, passwordHash string, isAdmin bool) (*models.User, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (username, password, is_admin)
		VALUES (?, ?, ?)
	`, strings.TrimSpace(username), passwordHash, isAdmin)
	if err != nil {
		var sqlErr sqlite3.Error
		if errors.As(err, &sqlErr) && sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create user id: %w", err)
	}
	return r.Get(ctx, int(id))
}

func (r *Repo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, username, password, is_admin
		FROM users
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Password, &u.IsAdmin); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// Promote grants admin to an existing user.
func (r *Repo) Promote(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET is_admin = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("promote user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("promote user rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("promote user: user not found")
	}
	return nil
}
