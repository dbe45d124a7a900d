package model

import (
	"time"
)

type BorrowRequest struct {
	StudentID string `json:"studentid" validate:"required,max=64"`
	BookID    string `json:"bookid" validate:"required,max=64"`
}

type BorrowRecord struct {
	StudentID  string    `json:"studentid" db:"studentid"`
	BookID     string    `json:"bookid" db:"bookid"`
	BorrowedAt time.Time `json:"borrow_date" db:"borrow_date"`
}

type BorrowAccepted struct {
	Message   string        `json:"message"`
	RequestID string        `json:"requestId"`
	Request   BorrowRequest `json:"request"`
}

type ReturnResponse struct {
	Message string `json:"message"`
}

type Status string

const (
	StatusQueued          Status = "QUEUED"
	StatusBorrowed        Status = "BORROWED"
	StatusStudentNotFound Status = "STUDENT_NOT_FOUND"
	StatusBookNotFound    Status = "BOOK_NOT_FOUND"
	StatusLimitExceeded   Status = "LIMIT_EXCEEDED"
	StatusInvalid         Status = "INVALID"
)

type BorrowStatus struct {
	RequestID string    `json:"requestId"`
	StudentID string    `json:"studentid"`
	BookID    string    `json:"bookid"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}
