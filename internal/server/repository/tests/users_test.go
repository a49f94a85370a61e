package tests

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/models"
	"github.com/IvanChernomyrdin/go-taskboard/internal/server/repository"
	serr "github.com/IvanChernomyrdin/go-taskboard/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-taskboard/internal/shared/utils"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

var userCols = []string{"id", "name", "email", "created_at"}

// Успех
func TestUsersRepository_Create_OK(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUsersRepository(db)

	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Alice", "alice@mail.com", "hash").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(id.String(), "Alice", "alice@mail.com", now))

	got, err := repo.Create(context.Background(), "Alice", "alice@mail.com", utils.StrPtr("hash"))
	require.NoError(t, err)
	require.Equal(t, id, got.ID)
	require.Equal(t, "Alice", got.Name)
	require.Equal(t, "hash", got.PasswordHash)
	require.Equal(t, now, got.CreatedAt)
}

// Без пароля уходит NULL
func TestUsersRepository_Create_NoPassword(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUsersRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Alice", "alice@mail.com", nil).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(uuid.NewString(), "Alice", "alice@mail.com", time.Now()))

	got, err := repo.Create(context.Background(), "Alice", "alice@mail.com", nil)
	require.NoError(t, err)
	require.Empty(t, got.PasswordHash)
}

// Такой пользователь уже есть
func TestUsersRepository_Create_AlreadyExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUsersRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), "Alice", "alice@mail.com", nil)
	require.ErrorIs(t, err, serr.ErrAlreadyExists)
}

// Ошибка сервера
func TestUsersRepository_Create_InternalError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUsersRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(sql.ErrConnDone)

	_, err := repo.Create(context.Background(), "Alice", "alice@mail.com", nil)
	require.ErrorIs(t, err, serr.ErrInternal)
}

// поиск по email
func TestUsersRepository_GetByEmail_OK(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUsersRepository(db)

	id := uuid.New()
	mock.ExpectQuery(`SELECT id, name, email, created_at, password_hash FROM users WHERE email`).
		WithArgs("test@mail.com").
		WillReturnRows(sqlmock.NewRows(append(userCols, "password_hash")).
			AddRow(id.String(), "Tester", "test@mail.com", time.Now(), "hash"))

	u, err := repo.GetByEmail(context.Background(), "test@mail.com")
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.Equal(t, "hash", u.PasswordHash)
}

// у пользователя из POST /users хэша нет
func TestUsersRepository_GetByEmail_NullHash(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUsersRepository(db)

	mock.ExpectQuery(`SELECT .* FROM users WHERE email`).
		WithArgs("test@mail.com").
		WillReturnRows(sqlmock.NewRows(append(userCols, "password_hash")).
			AddRow(uuid.NewString(), "Tester", "test@mail.com", time.Now(), nil))

	u, err := repo.GetByEmail(context.Background(), "test@mail.com")
	require.NoError(t, err)
	require.Empty(t, u.PasswordHash)
}

// не найден по email
func TestUsersRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUsersRepository(db)

	mock.ExpectQuery(`SELECT .* FROM users WHERE email`).
		WithArgs("test@mail.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "test@mail.com")
	require.ErrorIs(t, err, serr.ErrNotFound)
}

func TestUsersRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUsersRepository(db)

	id := uuid.New()
	mock.ExpectQuery(`SELECT id, name, email, created_at FROM users WHERE id`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(id.String(), "Tester", "t@mail.com", time.Now()))
	mock.ExpectQuery(`SELECT id, name, email, created_at FROM users WHERE id`).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	u, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "Tester", u.Name)

	_, err = repo.GetByID(context.Background(), id)
	require.ErrorIs(t, err, serr.ErrNotFound)
}

func TestUsersRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUsersRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM users`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT id, name, email, created_at FROM users\s+ORDER BY created_at DESC, id\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 10).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(uuid.NewString(), "Bob", "b@mail.com", time.Now()).
			AddRow(uuid.NewString(), "Ann", "a@mail.com", time.Now()))
	mock.ExpectCommit()

	users, total, err := repo.List(context.Background(), models.PageRequest{Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 12, total)
	require.Len(t, users, 2)
	require.Equal(t, "Bob", users[0].Name)
}

func TestUsersRepository_List_PastLastPage(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUsersRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM users`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectCommit()

	users, total, err := repo.List(context.Background(), models.PageRequest{Page: 5, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 12, total)
	require.Empty(t, users)
}

// ошибка внутри транзакции откатывает её
func TestUsersRepository_List_RollbackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUsersRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM users`)).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, _, err := repo.List(context.Background(), models.PageRequest{Page: 1, PageSize: 10})
	require.ErrorIs(t, err, serr.ErrInternal)
}

func TestUsersRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUsersRepository(db)

	id := uuid.New()
	mock.ExpectQuery(`UPDATE users\s+SET name = COALESCE\(\$2, name\)`).
		WithArgs(id, "New Name", nil).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(id.String(), "New Name", "old@mail.com", time.Now()))

	u, err := repo.Update(context.Background(), id, models.UserPatch{Name: utils.StrPtr("New Name")})
	require.NoError(t, err)
	require.Equal(t, "New Name", u.Name)
	require.Equal(t, "old@mail.com", u.Email)
}

func TestUsersRepository_Update_Errors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUsersRepository(db)

	id := uuid.New()
	mock.ExpectQuery(`UPDATE users`).WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(`UPDATE users`).WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Update(context.Background(), id, models.UserPatch{Name: utils.StrPtr("Name")})
	require.ErrorIs(t, err, serr.ErrNotFound)

	_, err = repo.Update(context.Background(), id, models.UserPatch{Email: utils.StrPtr("taken@mail.com")})
	require.ErrorIs(t, err, serr.ErrAlreadyExists)
}

func TestUsersRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewUsersRepository(db)

	id := uuid.New()
	mock.ExpectExec(`DELETE FROM users WHERE id`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM users WHERE id`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), id))
	require.ErrorIs(t, repo.Delete(context.Background(), id), serr.ErrNotFound)
}

func TestHealthRepository_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectPing()
	require.NoError(t, repository.NewHealthRepository(db).Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
