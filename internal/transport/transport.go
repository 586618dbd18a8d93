// Package transport provides the RoundTripper every product API request goes through.
package transport

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ThrottledTransport is an http.RoundTripper that applies the request pipeline:
// UserAgent → RateLimiter → Send → Log
type ThrottledTransport struct {
	Base        http.RoundTripper
	RateLimiter *rate.Limiter
	UserAgent   string
	Logger      logrus.FieldLogger
}

func (t *ThrottledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// 1. Identify ourselves unless the caller already did
	if t.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.UserAgent)
	}

	// 2. Wait for rate limiter token
	if t.RateLimiter != nil {
		if err := t.RateLimiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	// 3. Send
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	start := time.Now()
	resp, err := base.RoundTrip(req)

	// 4. Log
	if t.Logger != nil {
		entry := t.Logger.WithFields(logrus.Fields{
			"method":   req.Method,
			"url":      req.URL.String(),
			"duration": time.Since(start).Round(time.Millisecond).String(),
		})
		if err != nil {
			entry.WithError(err).Debug("upstream request failed")
		} else {
			entry.WithField("status", resp.StatusCode).Debug("upstream request")
		}
	}
	return resp, err
}

// NewBase builds the pooled base transport. A non-empty proxyURL routes every request
// through that proxy.
func NewBase(proxyURL string) (*http.Transport, error) {
	base := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("parse proxy url: %q has no scheme or host", proxyURL)
		}
		base.Proxy = http.ProxyURL(u)
	}
	return base, nil
}
