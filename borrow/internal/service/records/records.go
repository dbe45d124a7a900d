// Package records checks student and book existence against the users and books services.
package records

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/borrow/config"
	"github.com/Astemirdum/library-borrow/pkg/circuit_breaker"
)

const (
	usersPath = "/users/%s"
	booksPath = "/books/%s"
)

type Service struct {
	log    *zap.Logger
	client *http.Client
	addr   string
	path   string
	cb     circuit_breaker.CircuitBreaker
}

func NewService(log *zap.Logger, cfg config.RecordHTTPServer, path string) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		log:    log,
		client: &http.Client{Timeout: timeout},
		addr:   net.JoinHostPort(cfg.Host, cfg.Port),
		path:   path,
		cb:     circuit_breaker.New(100, time.Second, 0.2, 2),
	}
}

func NewUsers(log *zap.Logger, cfg config.RecordHTTPServer) *Service {
	return NewService(log.Named("users"), cfg, usersPath)
}

func NewBooks(log *zap.Logger, cfg config.RecordHTTPServer) *Service {
	return NewService(log.Named("books"), cfg, booksPath)
}

func (s *Service) CB() circuit_breaker.CircuitBreaker {
	return s.cb
}

// Exists reports whether the record with id is known. Any answer other than
// 200 or 404 is returned as an error.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	var found bool
	err := s.cb.Call(func() error {
		var err error
		found, err = s.exists(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func (s *Service) exists(ctx context.Context, id string) (bool, error) {
	u := fmt.Sprintf("http://%s"+s.path, s.addr, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return false, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return false, errors.Wrap(err, "record lookup")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		s.log.Warn("unexpected lookup status", zap.String("url", u), zap.Int("status", resp.StatusCode))
		return false, errors.Errorf("record lookup %s: status %d", u, resp.StatusCode)
	}
}
