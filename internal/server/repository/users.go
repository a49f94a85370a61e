package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/models"
)

const userColumns = `id, name, email, created_at`

// UsersRepository — таблица users.
type UsersRepository struct {
	db *sql.DB
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create добавляет пользователя. passwordHash == nil — пользователь без пароля (POST /users).
//
// Занятый email: ErrAlreadyExists.
func (r *UsersRepository) Create(ctx context.Context, name, email string, passwordHash *string) (models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, email, password_hash)
		 VALUES ($1,$2,$3)
		 RETURNING `+userColumns,
		name, email, passwordHash,
	).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if err != nil {
		return models.User{}, mapError(err)
	}
	if passwordHash != nil {
		u.PasswordHash = *passwordHash
	}
	return u, nil
}

// GetByEmail возвращает пользователя вместе с хэшем пароля (для логина).
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var (
		u    models.User
		hash sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+`, password_hash FROM users WHERE email=$1`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt, &hash)
	if err != nil {
		return models.User{}, mapError(err)
	}
	u.PasswordHash = hash.String
	return u, nil
}

func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=$1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return u, nil
}

// List возвращает страницу пользователей (новые первыми) и общее их число.
func (r *UsersRepository) List(ctx context.Context, page models.PageRequest) ([]models.User, int, error) {
	var (
		users []models.User
		total int
	)

	err := withTx(ctx, r.db, readSnapshot, func(ctx context.Context, tx dbtx) error {
		if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
			return err
		}
		// страница за концом списка: второй запрос не нужен
		if page.Offset() >= total {
			return nil
		}

		rows, err := tx.QueryContext(ctx,
			`SELECT `+userColumns+` FROM users
			 ORDER BY created_at DESC, id
			 LIMIT $1 OFFSET $2`,
			page.PageSize, page.Offset(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u models.User
			if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt); err != nil {
				return err
			}
			users = append(users, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, mapError(err)
	}
	return users, total, nil
}

// Update меняет только переданные поля одним условным UPDATE.
//
// Нет такого id: ErrNotFound. Занятый email: ErrAlreadyExists.
func (r *UsersRepository) Update(ctx context.Context, id uuid.UUID, patch models.UserPatch) (models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx,
		`UPDATE users
		 SET name = COALESCE($2, name),
		     email = COALESCE($3, email)
		 WHERE id=$1
		 RETURNING `+userColumns,
		id, patch.Name, patch.Email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.CreatedAt)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return u, nil
}

// Delete удаляет пользователя (задачи удаляются каскадом). Нет такого id: ErrNotFound.
func (r *UsersRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if n == 0 {
		return mapError(sql.ErrNoRows)
	}
	return nil
}
