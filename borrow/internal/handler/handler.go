package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "github.com/Astemirdum/library-borrow/swagger"

	"github.com/Astemirdum/library-borrow/borrow/internal/errs"
	"github.com/Astemirdum/library-borrow/borrow/internal/model"
	md "github.com/Astemirdum/library-borrow/pkg/middleware"
	"github.com/Astemirdum/library-borrow/pkg/validate"
)

type Handler struct {
	borrowSvc BorrowService
	log       *zap.Logger
}

func New(borrowSvc BorrowService, log *zap.Logger) *Handler {
	return &Handler{
		borrowSvc: borrowSvc,
		log:       log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/borrow", h.Borrow)
	api.GET("/borrow/:requestId", h.GetStatus)
	api.GET("/borrows/:studentid", h.ListBorrows)
	api.DELETE("/return", h.Return)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Borrow godoc
// @Summary      Submit a borrow request
// @Description  Accepted means queued. A request rejected later is dropped without notifying the caller.
// @Tags         borrow
// @Accept       json
// @Produce      json
// @Param        request  body      model.BorrowRequest  true  "borrow request"
// @Success      200      {object}  model.BorrowAccepted
// @Failure      400      {object}  echo.HTTPError
// @Failure      500      {object}  echo.HTTPError
// @Router       /borrow [post]
func (h *Handler) Borrow(c echo.Context) error {
	var req model.BorrowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	accepted, err := h.borrowSvc.Submit(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, accepted)
}

// GetStatus godoc
// @Summary  Borrow request status
// @Tags     borrow
// @Produce  json
// @Param    requestId  path      string  true  "request id"
// @Success  200        {object}  model.BorrowStatus
// @Failure  404        {object}  echo.HTTPError
// @Router   /borrow/{requestId} [get]
func (h *Handler) GetStatus(c echo.Context) error {
	requestID := c.Param("requestId")
	st, err := h.borrowSvc.GetStatus(c.Request().Context(), requestID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("No borrow request %s.", requestID))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, st)
}

// ListBorrows godoc
// @Summary  Books currently borrowed by a student
// @Tags     borrow
// @Produce  json
// @Param    studentid  path   string  true  "student id"
// @Success  200        {array}  model.BorrowRecord
// @Router   /borrows/{studentid} [get]
func (h *Handler) ListBorrows(c echo.Context) error {
	items, err := h.borrowSvc.ListBorrows(c.Request().Context(), c.Param("studentid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []model.BorrowRecord{}
	}
	return c.JSON(http.StatusOK, items)
}

// Return godoc
// @Summary  Return a borrowed book
// @Tags     borrow
// @Accept   json
// @Produce  json
// @Param    request  body      model.BorrowRequest  true  "returned pair"
// @Success  200      {object}  model.ReturnResponse
// @Failure  400      {object}  echo.HTTPError
// @Failure  404      {object}  echo.HTTPError
// @Router   /return [delete]
func (h *Handler) Return(c echo.Context) error {
	var req model.BorrowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.borrowSvc.Return(c.Request().Context(), req.StudentID, req.BookID); err != nil {
		switch {
		case errors.Is(err, errs.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, errs.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound,
				fmt.Sprintf("No borrow record found for student %s and book %s.", req.StudentID, req.BookID))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, model.ReturnResponse{
		Message: fmt.Sprintf("Book %s successfully returned by student %s.", req.BookID, req.StudentID),
	})
}
