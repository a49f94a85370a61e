// Package repository содержит реализации слоя доступа к данным (Repository layer).
//
// Репозитории инкапсулируют работу с БД и не содержат бизнес-логики.
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"

	serr "github.com/IvanChernomyrdin/go-taskboard/internal/shared/errors"
)

// Коды ошибок PostgreSQL, которые имеют доменный смысл.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// dbtx — общее подмножество *sql.DB и *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// readSnapshot — read-only транзакция с repeatable read: count и страница видят один снимок.
var readSnapshot = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// withTx выполняет fn в транзакции: commit при успехе, rollback при ошибке или панике.
func withTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx dbtx) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}

// mapError переводит ошибку драйвера в доменную.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return serr.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return serr.ErrAlreadyExists
		case pgForeignKeyViolation:
			return serr.ErrNotFound
		}
	}

	return fmt.Errorf("%w: %v", serr.ErrInternal, err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern строит шаблон ILIKE "подстрока где угодно", экранируя % _ и \.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// HealthRepository проверяет доступность БД для /healthz.
type HealthRepository struct {
	db *sql.DB
}

func NewHealthRepository(db *sql.DB) *HealthRepository {
	return &HealthRepository{db: db}
}

func (r *HealthRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
