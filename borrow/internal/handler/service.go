package handler

import (
	"context"

	"github.com/Astemirdum/library-borrow/borrow/internal/model"
	"github.com/Astemirdum/library-borrow/borrow/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type BorrowService interface {
	Submit(ctx context.Context, req model.BorrowRequest) (model.BorrowAccepted, error)
	Return(ctx context.Context, studentID, bookID string) error
	ListBorrows(ctx context.Context, studentID string) ([]model.BorrowRecord, error)
	GetStatus(ctx context.Context, requestID string) (model.BorrowStatus, error)
}

var _ BorrowService = (*service.Service)(nil)
