package postgres

import (
	"context"
	"errors"

	"github.com/danolu/userhub/internal/domain/user"
	"github.com/danolu/userhub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

// constructor function; prom may be nil (tests)

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	var out []user.User

	err := r.observe("users_list", func() error {
		rows, err := r.pool.Query(ctx, `SELECT id, name, email FROM users`)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]user.User, 0)

		for rows.Next() {
			var u user.User

			err = rows.Scan(&u.ID, &u.Name, &u.Email)

			if err != nil {
				return err
			}

			out = append(out, u)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	var u user.User

	err := r.observe("users_get", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, name, email FROM users WHERE id = $1`,
			id,
		).Scan(&u.ID, &u.Name, &u.Email)
	})

	if err != nil {
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) Insert(ctx context.Context, name, email, passwordHash string) error {
	return r.observe("users_insert", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (name, email, password) VALUES ($1, $2, $3)`,
			name, email, passwordHash,
		)

		return err
	})
}

func (r *UsersRepo) Update(ctx context.Context, id int64, name, email string) error {
	return r.observe("users_update", func() error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE users SET name = $2, email = $3 WHERE id = $1`,
			id, name, email,
		)

		if err != nil {
			return err
		}

		// if no rows matched the id return a not found error
		if tag.RowsAffected() == 0 {
			return user.ErrNotFound
		}

		return nil
	})
}

func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	return r.observe("users_delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)

		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return user.ErrNotFound
		}

		return nil
	})
}

func (r *UsersRepo) SearchByName(ctx context.Context, name string) ([]user.User, error) {
	var out []user.User

	err := r.observe("users_search", func() error {
		// ILIKE keeps the substring match case-insensitive like the
		// collation the table grew up with
		rows, err := r.pool.Query(ctx,
			`SELECT id, name, email FROM users WHERE name ILIKE $1`,
			"%"+name+"%",
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]user.User, 0)

		for rows.Next() {
			var u user.User

			err = rows.Scan(&u.ID, &u.Name, &u.Email)

			if err != nil {
				return err
			}

			out = append(out, u)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users_get_by_email", func() error {
		// email carries no unique constraint; oldest row wins on duplicates
		return r.pool.QueryRow(
			ctx,
			`SELECT id, name, email, password FROM users WHERE email = $1 ORDER BY id ASC LIMIT 1`,
			email,
		).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	})

	if err != nil {
		return user.User{}, err
	}

	return u, nil
}

// observe reports latency and failures for a logical op. A missing row is an
// answer, not a store failure, so not-found outcomes skip the error counter
// and come back normalized to user.ErrNotFound.
func (r *UsersRepo) observe(op string, fn func() error) error {
	run := func() error {
		err := fn()

		if errors.Is(err, pgx.ErrNoRows) {
			return user.ErrNotFound
		}

		return err
	}

	if r.prom == nil {
		return run()
	}

	var notFound bool

	err := r.prom.ObserveDB(op, func() error {
		err := run()

		if errors.Is(err, user.ErrNotFound) {
			notFound = true
			return nil
		}

		return err
	})

	if notFound {
		return user.ErrNotFound
	}

	return err
}
