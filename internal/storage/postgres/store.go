package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/codetrellis/userbase/internal/models"
	"github.com/codetrellis/userbase/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.UserStore interface at compile time.
var _ storage.UserStore = (*Store)(nil)

const userColumns = "firstname, lastname, email, password, role, created_by, updated_by, lastactivity"

// Store provides Postgres-backed persistence for users.
type Store struct {
	pool *pgxpool.Pool
}

// NewUserStore connects with a bounded pool and runs migrations.
// connectionLimit caps concurrent connections; store calls queue when the
// pool is exhausted.
func NewUserStore(ctx context.Context, databaseURL string, connectionLimit int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if connectionLimit > 0 {
		cfg.MaxConns = connectionLimit
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS users (
		firstname TEXT NOT NULL,
		lastname TEXT NOT NULL,
		email TEXT PRIMARY KEY,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL DEFAULT '',
		updated_by TEXT NOT NULL DEFAULT '',
		lastactivity TIMESTAMPTZ
	);`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Create inserts a new user row. The email primary key turns a lost
// check-then-insert race into storage.ErrAlreadyExists instead of a
// duplicate row.
func (s *Store) Create(ctx context.Context, user models.User) error {
	const query = `
	INSERT INTO users (firstname, lastname, email, password, role, created_by, updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7);`
	_, err := s.pool.Exec(ctx, query,
		user.Firstname, user.Lastname, user.Email, user.Password,
		user.Role, user.CreatedBy, user.UpdatedBy)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return storage.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByEmail fetches a user by email.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

// List returns a window of users ordered by email.
func (s *Store) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY email LIMIT $1 OFFSET $2;`
	rows, err := s.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

// UpdateFields applies the non-nil fields of update to the matching row and
// returns the affected row count.
func (s *Store) UpdateFields(ctx context.Context, email string, update storage.UserUpdate) (int64, error) {
	var sets []string
	var args []any

	add := func(column string, value *string) {
		if value != nil {
			args = append(args, *value)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	add("firstname", update.Firstname)
	add("lastname", update.Lastname)
	add("password", update.Password)
	add("role", update.Role)
	add("updated_by", update.UpdatedBy)

	if len(sets) == 0 {
		return 0, nil
	}

	args = append(args, email)
	query := fmt.Sprintf("UPDATE users SET %s WHERE email = $%d;", strings.Join(sets, ", "), len(args))
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// TouchActivity stamps the row's lastactivity column.
func (s *Store) TouchActivity(ctx context.Context, email string, at time.Time) (bool, error) {
	const query = `UPDATE users SET lastactivity = $1 WHERE email = $2;`
	tag, err := s.pool.Exec(ctx, query, at, email)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteByEmail removes one row by exact email match.
func (s *Store) DeleteByEmail(ctx context.Context, email string) (bool, error) {
	const query = `DELETE FROM users WHERE email = $1;`
	tag, err := s.pool.Exec(ctx, query, email)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteAll removes every row.
func (s *Store) DeleteAll(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM users;`)
	return err
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(&user.Firstname, &user.Lastname, &user.Email, &user.Password,
		&user.Role, &user.CreatedBy, &user.UpdatedBy, &user.LastActivity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
