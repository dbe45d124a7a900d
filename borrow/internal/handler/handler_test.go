package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/borrow/internal/errs"
	"github.com/Astemirdum/library-borrow/borrow/internal/handler"
	"github.com/Astemirdum/library-borrow/borrow/internal/model"

	service_mocks "github.com/Astemirdum/library-borrow/borrow/internal/handler/mocks"
)

type response struct {
	expectedCode int
	expectedBody string
}

func serve(t *testing.T, svc *service_mocks.MockBorrowService, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := handler.New(svc, zap.NewExample().Named("test"))
	e := h.NewRouter()

	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, http.NoBody)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	return w
}

func TestHandler_Borrow(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockBorrowService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"studentid":"S1","bookid":"B1"}`,
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				req := model.BorrowRequest{StudentID: "S1", BookID: "B1"}
				r.EXPECT().
					Submit(gomock.Any(), req).
					Return(model.BorrowAccepted{
						Message:   "Borrow request successfully posted!",
						RequestID: "0b8f8c4e-3b7a-4c11-9d3e-4f9a2b6c1d20",
						Request:   req,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"message":"Borrow request successfully posted!","requestId":"0b8f8c4e-3b7a-4c11-9d3e-4f9a2b6c1d20","request":{"studentid":"S1","bookid":"B1"}}`,
			},
		},
		{
			name: "err. validation",
			body: `{"studentid":"S1"}`,
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().
					Submit(gomock.Any(), model.BorrowRequest{StudentID: "S1"}).
					Return(model.BorrowAccepted{}, errs.ErrValidation)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"studentid and bookid are required, at most 64 characters"}`,
			},
		},
		{
			name:         "err. malformed body",
			body:         `{"studentid":`,
			mockBehavior: func(r *service_mocks.MockBorrowService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
		{
			name: "err. queue down",
			body: `{"studentid":"S1","bookid":"B1"}`,
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().
					Submit(gomock.Any(), gomock.Any()).
					Return(model.BorrowAccepted{}, errors.New("queue.Enqueue: kafka down"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"queue.Enqueue: kafka down"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBorrowService(c)
			tt.mockBehavior(svc)

			w := serve(t, svc, http.MethodPost, "/borrow", tt.body)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_Return(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockBorrowService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"studentid":"S1","bookid":"B1"}`,
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().Return(gomock.Any(), "S1", "B1").Return(nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"message":"Book B1 successfully returned by student S1."}`,
			},
		},
		{
			name: "err. not found",
			body: `{"studentid":"S1","bookid":"B9"}`,
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().Return(gomock.Any(), "S1", "B9").Return(errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"No borrow record found for student S1 and book B9."}`,
			},
		},
		{
			name: "err. validation",
			body: `{"bookid":"B1"}`,
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().Return(gomock.Any(), "", "B1").Return(errs.ErrValidation)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"studentid and bookid are required, at most 64 characters"}`,
			},
		},
		{
			name: "err. internal",
			body: `{"studentid":"S1","bookid":"B1"}`,
			mockBehavior: func(r *service_mocks.MockBorrowService) {
				r.EXPECT().Return(gomock.Any(), "S1", "B1").Return(errors.New("db internal"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBorrowService(c)
			tt.mockBehavior(svc)

			w := serve(t, svc, http.MethodDelete, "/return", tt.body)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_ListBorrows(t *testing.T) {
	t.Parallel()
	borrowedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	var tests = []struct {
		name         string
		studentID    string
		mockBehavior func(r *service_mocks.MockBorrowService, studentID string)
		response     response
	}{
		{
			name:      "ok",
			studentID: "S1",
			mockBehavior: func(r *service_mocks.MockBorrowService, studentID string) {
				r.EXPECT().ListBorrows(gomock.Any(), studentID).Return([]model.BorrowRecord{
					{StudentID: studentID, BookID: "B1", BorrowedAt: borrowedAt},
				}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `[{"studentid":"S1","bookid":"B1","borrow_date":"2024-03-01T10:00:00Z"}]`,
			},
		},
		{
			name:      "empty",
			studentID: "S2",
			mockBehavior: func(r *service_mocks.MockBorrowService, studentID string) {
				r.EXPECT().ListBorrows(gomock.Any(), studentID).Return(nil, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `[]`,
			},
		},
		{
			name:      "err. internal",
			studentID: "S1",
			mockBehavior: func(r *service_mocks.MockBorrowService, studentID string) {
				r.EXPECT().ListBorrows(gomock.Any(), studentID).Return(nil, errors.New("db internal"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBorrowService(c)
			tt.mockBehavior(svc, tt.studentID)

			w := serve(t, svc, http.MethodGet, "/borrows/"+tt.studentID, "")

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_GetStatus(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockBorrowService(c)

	updatedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.EXPECT().GetStatus(gomock.Any(), "r1").Return(model.BorrowStatus{
		RequestID: "r1",
		StudentID: "S1",
		BookID:    "B6",
		Status:    model.StatusLimitExceeded,
		UpdatedAt: updatedAt,
	}, nil)
	svc.EXPECT().GetStatus(gomock.Any(), "r2").Return(model.BorrowStatus{}, errs.ErrNotFound)

	w := serve(t, svc, http.MethodGet, "/borrow/r1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t,
		`{"requestId":"r1","studentid":"S1","bookid":"B6","status":"LIMIT_EXCEEDED","updatedAt":"2024-03-01T10:00:00Z"}`,
		strings.Trim(w.Body.String(), "\n"))

	w = serve(t, svc, http.MethodGet, "/borrow/r2", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, `{"message":"No borrow request r2."}`, strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()

	w := serve(t, service_mocks.NewMockBorrowService(c), http.MethodGet, "/manage/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())
}
