package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/borrow/internal/errs"
	"github.com/Astemirdum/library-borrow/borrow/internal/model"
)

type Repository interface {
	Borrow(ctx context.Context, rec model.BorrowRecord, limit int) error
	Return(ctx context.Context, studentID, bookID string) error
	ListBorrows(ctx context.Context, studentID string) ([]model.BorrowRecord, error)
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	borrowsTableName = `borrows`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Borrow inserts rec unless the student already holds limit books.
// Borrows of one student are serialized by a transaction-scoped advisory lock on
// the student id, so the count and the insert see the same ledger state.
// Returns errs.ErrConflict if the pair is already held and
// errs.ErrCapacityExceeded if the limit is reached.
func (r *repository) Borrow(ctx context.Context, rec model.BorrowRecord, limit int) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "db.Begin")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, `select pg_advisory_xact_lock(hashtext($1))`, rec.StudentID); err != nil {
		return errors.Wrap(err, "advisory lock")
	}

	var held, count int
	q := `
select count(*) filter (where bookid = $2), count(*)
from borrows
where studentid = $1`
	if err = tx.QueryRow(ctx, q, rec.StudentID, rec.BookID).Scan(&held, &count); err != nil {
		return errors.Wrap(err, "count borrows")
	}
	if held > 0 {
		err = errs.ErrConflict
		return err
	}
	if count >= limit {
		err = errs.ErrCapacityExceeded
		return err
	}

	query, args, err := qb.Insert(borrowsTableName).
		Columns("studentid", "bookid", "borrow_date").
		Values(rec.StudentID, rec.BookID, rec.BorrowedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			err = errs.ErrConflict
			return err
		}
		r.log.Error("Borrow", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return errors.Wrap(err, "insert borrow")
	}

	if err = tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "tx.Commit")
	}
	return nil
}

func (r *repository) Return(ctx context.Context, studentID, bookID string) error {
	query, args, err := qb.Delete(borrowsTableName).
		Where(sq.Eq{"studentid": studentID}).
		Where(sq.Eq{"bookid": bookID}).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "delete borrow")
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) ListBorrows(ctx context.Context, studentID string) ([]model.BorrowRecord, error) {
	query, args, err := qb.Select("studentid", "bookid", "borrow_date").
		From(borrowsTableName).
		Where(sq.Eq{"studentid": studentID}).
		OrderBy("borrow_date", "bookid").
		ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("ListBorrows", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.BorrowRecord])
	if err != nil {
		return nil, errors.Wrap(err, "pgx.CollectRows")
	}
	if items == nil {
		items = []model.BorrowRecord{}
	}
	return items, nil
}
