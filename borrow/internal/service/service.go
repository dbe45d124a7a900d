package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-borrow/borrow/internal/errs"
	"github.com/Astemirdum/library-borrow/borrow/internal/model"
	"github.com/Astemirdum/library-borrow/borrow/internal/repository"
	"github.com/Astemirdum/library-borrow/pkg/validate"
)

const acceptedMessage = "Borrow request successfully posted!"

// RecordStore answers whether a student or a book is known to its owning service.
type RecordStore interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type Records struct {
	Students RecordStore
	Books    RecordStore
}

type Enqueuer interface {
	Enqueue(key, requestID string, v any) error
}

type Service struct {
	log      *zap.Logger
	repo     repository.Repository
	status   repository.StatusRepository
	records  Records
	queue    Enqueuer
	validate *validate.CustomValidator
	limit    int
	now      func() time.Time
}

func NewService(
	repo repository.Repository,
	status repository.StatusRepository,
	records Records,
	queue Enqueuer,
	limit int,
	log *zap.Logger,
) *Service {
	if status == nil {
		status = repository.NewNopStatusRepository()
	}
	return &Service{
		log:      log,
		repo:     repo,
		status:   status,
		records:  records,
		queue:    queue,
		validate: validate.NewCustomValidator(),
		limit:    limit,
		now:      time.Now,
	}
}

// Submit enqueues req for asynchronous processing. The returned acknowledgment
// means accepted, not borrowed.
func (s *Service) Submit(ctx context.Context, req model.BorrowRequest) (model.BorrowAccepted, error) {
	if err := s.validate.Validate(req); err != nil {
		return model.BorrowAccepted{}, errs.ErrValidation
	}
	requestID := uuid.NewString()
	s.saveStatus(ctx, requestID, req, model.StatusQueued)

	if err := s.queue.Enqueue(req.StudentID, requestID, req); err != nil {
		if derr := s.status.DeleteStatus(ctx, requestID); derr != nil {
			s.log.Warn("status.DeleteStatus", zap.String("requestId", requestID), zap.Error(derr))
		}
		return model.BorrowAccepted{}, errors.Wrap(err, "queue.Enqueue")
	}
	return model.BorrowAccepted{
		Message:   acceptedMessage,
		RequestID: requestID,
		Request:   req,
	}, nil
}

// Borrow processes one delivered borrow request.
//
// Unknown students or books, invalid requests and a reached borrow limit are
// returned as errors for which errs.IsDrop is true. A pair that is already in the
// ledger is success. Every other error is transient and the message must be
// delivered again.
func (s *Service) Borrow(ctx context.Context, requestID string, req model.BorrowRequest) error {
	log := s.log.With(
		zap.String("requestId", requestID),
		zap.String("studentid", req.StudentID),
		zap.String("bookid", req.BookID),
	)
	if err := s.validate.Validate(req); err != nil {
		s.drop(ctx, log, requestID, req, model.StatusInvalid, err)
		return errs.ErrValidation
	}

	studentOK, bookOK, err := s.lookup(ctx, req)
	if err != nil {
		return err
	}
	if !studentOK {
		s.drop(ctx, log, requestID, req, model.StatusStudentNotFound, errs.ErrStudentNotFound)
		return errs.ErrStudentNotFound
	}
	if !bookOK {
		s.drop(ctx, log, requestID, req, model.StatusBookNotFound, errs.ErrBookNotFound)
		return errs.ErrBookNotFound
	}

	rec := model.BorrowRecord{
		StudentID:  req.StudentID,
		BookID:     req.BookID,
		BorrowedAt: s.now().UTC(),
	}
	err = s.repo.Borrow(ctx, rec, s.limit)
	switch {
	case errors.Is(err, errs.ErrConflict):
		log.Info("borrow already recorded")
	case errors.Is(err, errs.ErrCapacityExceeded):
		s.drop(ctx, log, requestID, req, model.StatusLimitExceeded, err)
		return err
	case err != nil:
		return errors.Wrap(err, "repo.Borrow")
	default:
		log.Info("borrow recorded")
	}
	s.saveStatus(ctx, requestID, req, model.StatusBorrowed)
	return nil
}

// lookup queries both record stores concurrently. No ledger lock is held here.
func (s *Service) lookup(ctx context.Context, req model.BorrowRequest) (studentOK, bookOK bool, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		studentOK, err = s.records.Students.Exists(gctx, req.StudentID)
		return errors.Wrap(err, "students.Exists")
	})
	g.Go(func() error {
		var err error
		bookOK, err = s.records.Books.Exists(gctx, req.BookID)
		return errors.Wrap(err, "books.Exists")
	})
	if err := g.Wait(); err != nil {
		return false, false, err
	}
	return studentOK, bookOK, nil
}

// drop records a soft rejection. The submitter is not notified.
func (s *Service) drop(ctx context.Context, log *zap.Logger, requestID string, req model.BorrowRequest, status model.Status, err error) {
	log.Warn("borrow dropped",
		zap.String("event", "borrow_dropped"),
		zap.String("reason", strings.ToLower(string(status))),
		zap.Error(err),
	)
	s.saveStatus(ctx, requestID, req, status)
}

func (s *Service) saveStatus(ctx context.Context, requestID string, req model.BorrowRequest, status model.Status) {
	if requestID == "" {
		return
	}
	st := model.BorrowStatus{
		RequestID: requestID,
		StudentID: req.StudentID,
		BookID:    req.BookID,
		Status:    status,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.status.SaveStatus(ctx, st); err != nil {
		s.log.Warn("status.SaveStatus", zap.String("requestId", requestID), zap.Error(err))
	}
}

func (s *Service) Return(ctx context.Context, studentID, bookID string) error {
	if err := s.validate.Validate(model.BorrowRequest{StudentID: studentID, BookID: bookID}); err != nil {
		return errs.ErrValidation
	}
	if err := s.repo.Return(ctx, studentID, bookID); err != nil {
		return err
	}
	s.log.Info("book returned", zap.String("studentid", studentID), zap.String("bookid", bookID))
	return nil
}

func (s *Service) ListBorrows(ctx context.Context, studentID string) ([]model.BorrowRecord, error) {
	return s.repo.ListBorrows(ctx, studentID)
}

func (s *Service) GetStatus(ctx context.Context, requestID string) (model.BorrowStatus, error) {
	return s.status.GetStatus(ctx, requestID)
}
