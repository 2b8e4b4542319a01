// Package httpclient holds the resty transport shared by the HTTP-based
// model backends and maps transport failures onto the domain errors.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"emailgen/internal/domain"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds a whole generation call. Local models on CPU are slow,
// so this is far above what a listing or health check needs.
const DefaultTimeout = 5 * time.Minute

// New returns a resty client with the given timeout (DefaultTimeout when zero).
// Responses are decoded as JSON whatever Content-Type the server sends.
func New(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return resty.New().SetTimeout(timeout).ForceContentType("application/json")
}

// Classify turns the outcome of a resty call into an error, or nil when the
// call succeeded. op prefixes the message, e.g. "ollama generate".
func Classify(op string, rr *resty.Response, err error) error {
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%s: %w: %v", op, domain.ErrModelTimeout, err)
		}
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return fmt.Errorf("%s: %w: %v", op, domain.ErrModelUnavailable, err)
	}
	if rr == nil || !rr.IsError() {
		return nil
	}
	switch rr.StatusCode() {
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return fmt.Errorf("%s: %w: %s; body: %s", op, domain.ErrModelTimeout, rr.Status(), Abbreviate(rr.String(), 500))
	default:
		return fmt.Errorf("%s: %w: %s; body: %s", op, domain.ErrModelUnavailable, rr.Status(), Abbreviate(rr.String(), 500))
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "Client.Timeout exceeded")
}

// JoinURL appends path to base, tolerating a trailing slash on base.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

func Abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
