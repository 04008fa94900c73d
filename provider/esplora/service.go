// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package esplora

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/complex-gh/seedscan"
	"github.com/complex-gh/seedscan/internal/circuitbreaker"
	"github.com/complex-gh/seedscan/scan"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	maxResponseSize    = 1 << 20
)

var _ scan.BalanceProvider = (*Service)(nil)

// ErrNoEndpoints is returned by NewService when no endpoint is given.
var ErrNoEndpoints = errors.New("at least one esplora endpoint is required")

// Option configures a Service.
type Option func(*Service)

// WithHTTPClient replaces the default client, which times out after 10s.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.client = client
	}
}

// WithRateLimit caps outgoing requests per second across all endpoints.
// Zero or less disables throttling.
func WithRateLimit(perSecond int) Option {
	return func(s *Service) {
		if perSecond <= 0 {
			s.limiter = ratelimit.NewUnlimited()
			return
		}
		s.limiter = ratelimit.New(perSecond)
	}
}

// WithLogger sets the logger used for rotation and breaker events.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		s.log = logger
	}
}

type endpoint struct {
	url     string
	breaker *gobreaker.CircuitBreaker
}

// Service is a scan.BalanceProvider backed by one or more Esplora HTTP APIs,
// such as mempool.space or blockstream.info. Requests go to the current
// endpoint; rate limiting, 5xx responses, transport errors and open breakers
// move the service on to the next endpoint.
type Service struct {
	endpoints []*endpoint
	client    *http.Client
	limiter   ratelimit.Limiter
	log       logrus.FieldLogger

	mu      sync.Mutex
	current int
}

// NewService returns a Service for the given API base URLs, e.g.
// "https://mempool.space/api". URLs must be absolute http(s) URLs.
func NewService(endpoints []string, opts ...Option) (*Service, error) {
	if len(endpoints) == 0 {
		return nil, ErrNoEndpoints
	}

	s := &Service{
		client:  &http.Client{Timeout: defaultHTTPTimeout},
		limiter: ratelimit.NewUnlimited(),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, raw := range endpoints {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid endpoint %q: %w", raw, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("invalid endpoint %q: must be an absolute http(s) url", raw)
		}
		apiURL := strings.TrimRight(u.String(), "/")
		s.endpoints = append(s.endpoints, &endpoint{
			url:     apiURL,
			breaker: circuitbreaker.NewCircuitBreaker(apiURL, s.log),
		})
	}
	return s, nil
}

// Balance returns the confirmed plus unconfirmed balance of address. Errors
// match seedscan.ErrProvider.
func (s *Service) Balance(ctx context.Context, address string) (scan.Balance, error) {
	var stats addressStats
	err := s.get(ctx, "/address/"+url.PathEscape(address), func(body []byte) error {
		return stats.unmarshal(body)
	})
	if err != nil {
		return scan.Balance{}, seedscan.WrapError(seedscan.ErrProvider, "esplora balance", err)
	}
	return stats.balance(), nil
}

// TipHeight returns the height of the best block known to the current
// endpoint.
func (s *Service) TipHeight(ctx context.Context) (int64, error) {
	var height int64
	err := s.get(ctx, "/blocks/tip/height", func(body []byte) error {
		h, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid tip height %q", body)
		}
		height = h
		return nil
	})
	if err != nil {
		return 0, seedscan.WrapError(seedscan.ErrProvider, "esplora tip height", err)
	}
	return height, nil
}

// HealthCheck fetches the chain tip from the current endpoint.
func (s *Service) HealthCheck(ctx context.Context) error {
	if _, err := s.TipHeight(ctx); err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	return nil
}

// Endpoint returns the base URL requests currently go to.
func (s *Service) Endpoint() string {
	return s.currentEndpoint().url
}

func (s *Service) currentEndpoint() *endpoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endpoints[s.current]
}

// rotate moves on from ep unless another request already did.
func (s *Service) rotate(ep *endpoint, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.endpoints) < 2 || s.endpoints[s.current] != ep {
		return
	}
	s.current = (s.current + 1) % len(s.endpoints)
	s.log.WithError(cause).WithFields(logrus.Fields{
		"from": ep.url,
		"to":   s.endpoints[s.current].url,
	}).Warn("rotating esplora endpoint")
}

func (s *Service) get(ctx context.Context, path string, decode func([]byte) error) error {
	s.limiter.Take()
	// the limiter may have held the request past the caller's deadline
	if err := ctx.Err(); err != nil {
		return err
	}

	ep := s.currentEndpoint()
	// Client errors are answered by a healthy endpoint, so they are returned
	// outside the breaker and do not count as failures.
	var clientErr *StatusError
	body, err := ep.breaker.Execute(func() (interface{}, error) {
		body, err := s.do(ctx, ep.url+path)
		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.serverSide() {
			clientErr = statusErr
			return nil, nil
		}
		return body, err
	})
	if err != nil {
		if shouldRotate(err) {
			s.rotate(ep, err)
		}
		return err
	}
	if clientErr != nil {
		return clientErr
	}
	return decode(body.([]byte))
}

func (s *Service) do(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return body, nil
}

// StatusError is returned for non 200 responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// serverSide reports whether the status points at the endpoint rather than
// the request: rate limiting or a 5xx.
func (e *StatusError) serverSide() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= http.StatusInternalServerError
}

func shouldRotate(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.serverSide()
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
