package postgres

import (
	"context"
	"errors"

	"github.com/nmorales89/accounthub/internal/domain/user"
	"github.com/nmorales89/accounthub/internal/repo"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UsersRepo is the pgx-backed credential store, selected with
// STORE_DRIVER=postgres.
type UsersRepo struct {
	pool *pgxpool.Pool
}

func NewUsersRepo(pool *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{pool: pool}
}

const userColumns = `id, first_name, last_name, email, password, level, created_at, updated_at, COALESCE(last_token, '')`

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.getWhere(ctx, `id = $1`, id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getWhere(ctx, `email = $1`, user.NormalizeEmail(email))
}

func (r *UsersRepo) getWhere(ctx context.Context, cond string, arg any) (user.User, error) {
	var u user.User

	err := r.pool.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE `+cond,
		arg,
	).Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Password,
		&u.Level,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.LastToken,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, repo.ErrUserNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, first_name, last_name, email, password, level, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		u.ID, u.FirstName, u.LastName, u.Email, u.Password, u.Level, u.CreatedAt, u.UpdatedAt,
	)

	return err
}

func (r *UsersRepo) Update(ctx context.Context, u user.User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET first_name = $2, last_name = $3, email = $4, password = $5, updated_at = $6
		 WHERE id = $1`,
		u.ID, u.FirstName, u.LastName, u.Email, u.Password, u.UpdatedAt,
	)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return repo.ErrUserNotFound
	}

	return nil
}

func (r *UsersRepo) SetLastToken(ctx context.Context, id, token string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET last_token = $2 WHERE id = $1`,
		id, token,
	)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return repo.ErrUserNotFound
	}

	return nil
}

func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return repo.ErrUserNotFound
	}

	return nil
}

func (r *UsersRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
