package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/Astemirdum/library-borrow/borrow/internal/errs"
	"github.com/Astemirdum/library-borrow/borrow/internal/model"
)

type StatusRepository interface {
	SaveStatus(ctx context.Context, st model.BorrowStatus) error
	GetStatus(ctx context.Context, requestID string) (model.BorrowStatus, error)
	DeleteStatus(ctx context.Context, requestID string) error
}

type statusRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewStatusRepository(rdb redis.Cmdable, ttl time.Duration) *statusRepository {
	return &statusRepository{
		rdb: rdb,
		ttl: ttl,
	}
}

const statusKeyPrefix = "borrow:status:"

func statusKey(requestID string) string {
	return statusKeyPrefix + requestID
}

func (r *statusRepository) SaveStatus(ctx context.Context, st model.BorrowStatus) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, statusKey(st.RequestID), data, r.ttl).Err()
}

func (r *statusRepository) GetStatus(ctx context.Context, requestID string) (model.BorrowStatus, error) {
	data, err := r.rdb.Get(ctx, statusKey(requestID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.BorrowStatus{}, errs.ErrNotFound
		}
		return model.BorrowStatus{}, err
	}
	var st model.BorrowStatus
	if err := json.Unmarshal(data, &st); err != nil {
		return model.BorrowStatus{}, errors.Wrap(err, "decode status")
	}
	return st, nil
}

func (r *statusRepository) DeleteStatus(ctx context.Context, requestID string) error {
	return r.rdb.Del(ctx, statusKey(requestID)).Err()
}

// nopStatusRepository is used when status tracking is disabled.
type nopStatusRepository struct{}

func NewNopStatusRepository() StatusRepository {
	return nopStatusRepository{}
}

func (nopStatusRepository) SaveStatus(context.Context, model.BorrowStatus) error { return nil }

func (nopStatusRepository) GetStatus(context.Context, string) (model.BorrowStatus, error) {
	return model.BorrowStatus{}, errs.ErrNotFound
}

func (nopStatusRepository) DeleteStatus(context.Context, string) error { return nil }
