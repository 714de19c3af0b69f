// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package layer

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/z5labs/stratum/internal/try"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// HTTPOption represents options for configuring an HTTPSource.
type HTTPOption func(*HTTPSource)

// HTTPFormat sets the layer format instead of sniffing it from the URL
// path extension.
func HTTPFormat(format Format) HTTPOption {
	return func(src *HTTPSource) {
		src.format = format
		src.formatSet = true
	}
}

// HTTPMaxAttempts sets the maximum number of retries after a failed
// fetch.
//
// Default: 2
func HTTPMaxAttempts(n int) HTTPOption {
	return func(src *HTTPSource) {
		src.maxRetries = n
	}
}

// HTTPWaitDurations sets the minimum and maximum backoff between retry
// attempts.
func HTTPWaitDurations(min, max time.Duration) HTTPOption {
	return func(src *HTTPSource) {
		src.waitMin = min
		src.waitMax = max
	}
}

// HTTPLogger sets the logger used to report retry attempts and circuit
// state changes.
func HTTPLogger(logger *zap.Logger) HTTPOption {
	return func(src *HTTPSource) {
		src.logger = logger
	}
}

// HTTPTransport sets the underlying http.RoundTripper.
func HTTPTransport(rt http.RoundTripper) HTTPOption {
	return func(src *HTTPSource) {
		src.transport = rt
	}
}

// HTTPCircuitTripCount enables a circuit breaker around the fetch which
// trips after n consecutive failures. Pipelines that rebuild their layer
// stack periodically use this to stop hammering a down config server.
func HTTPCircuitTripCount(n uint32) HTTPOption {
	return func(src *HTTPSource) {
		src.tripCount = n
	}
}

// HTTPSource loads a layer over HTTP from a shared location, e.g. a
// project file published on an artifact server. Fetches are retried
// with backoff.
type HTTPSource struct {
	url       string
	format    Format
	formatSet bool

	transport  http.RoundTripper
	maxRetries int
	waitMin    time.Duration
	waitMax    time.Duration
	logger     *zap.Logger
	tripCount  uint32
	cb         *gobreaker.CircuitBreaker
}

// NewHTTP returns a Source which fetches the layer from the given URL.
func NewHTTP(rawURL string, opts ...HTTPOption) *HTTPSource {
	src := &HTTPSource{
		url:        rawURL,
		transport:  http.DefaultTransport,
		maxRetries: 2,
		waitMin:    100 * time.Millisecond,
		waitMax:    5 * time.Second,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(src)
	}
	if src.tripCount > 0 {
		log := src.logger
		src.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: src.url,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= src.tripCount
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				switch to {
				case gobreaker.StateOpen:
					log.Error("circuit has been opened", zap.String("url", name))
				case gobreaker.StateHalfOpen:
					log.Warn("circuit is now half open", zap.String("url", name))
				case gobreaker.StateClosed:
					log.Info("circuit has been closed", zap.String("url", name))
				}
			},
		})
	}
	return src
}

// Load implements the Source interface.
func (src *HTTPSource) Load() (Layer, error) {
	format := src.format
	if !src.formatSet {
		u, err := url.Parse(src.url)
		if err != nil {
			return Layer{}, SourceUnavailableError{Source: src.url, Cause: err}
		}
		// Remote layers default to INI since that is what pipelines
		// publish; an extension still wins if the path carries one.
		format, _ = sniffFormat(u.Path)
	}

	if src.cb == nil {
		return src.fetch(format)
	}
	l, err := src.cb.Execute(func() (any, error) {
		return src.fetch(format)
	})
	if err != nil {
		return Layer{}, err
	}
	return l.(Layer), nil
}

func (src *HTTPSource) fetch(format Format) (_ Layer, err error) {
	log := src.logger
	rc := retryablehttp.Client{
		HTTPClient:   &http.Client{Transport: src.transport},
		Logger:       nil,
		RetryWaitMin: src.waitMin,
		RetryWaitMax: src.waitMax,
		RetryMax:     src.maxRetries,
		RequestLogHook: func(l retryablehttp.Logger, req *http.Request, i int) {
			log.Info("fetching config layer", zap.String("url", req.URL.String()), zap.Int("request_attempt_count", i))
		},
		ResponseLogHook: func(l retryablehttp.Logger, resp *http.Response) {
			log.Info("received config layer response", zap.String("url", resp.Request.URL.String()), zap.Int("http_status_code", resp.StatusCode))
		},
		CheckRetry:   retryablehttp.DefaultRetryPolicy,
		Backoff:      retryablehttp.DefaultBackoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
	}

	resp, err := rc.StandardClient().Get(src.url)
	if err != nil {
		return Layer{}, SourceUnavailableError{Source: src.url, Cause: err}
	}
	defer try.Close(&err, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return Layer{}, SourceUnavailableError{
			Source: src.url,
			Cause:  fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}
	return parse(src.url, format, resp.Body)
}
