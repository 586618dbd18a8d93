package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestThrottledTransport_SetsUserAgentAndLogs(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	client := &http.Client{Transport: &ThrottledTransport{
		RateLimiter: rate.NewLimiter(rate.Inf, 1),
		UserAgent:   "vitrine-test",
		Logger:      logger,
	}}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "vitrine-test", gotUA)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, http.StatusTeapot, hook.LastEntry().Data["status"])
}

func TestThrottledTransport_RateLimiterHonoursContext(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	limiter.Allow() // drain the only token

	tr := &ThrottledTransport{RateLimiter: limiter}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "http://example.invalid", nil)
	_, err := tr.RoundTrip(req)
	assert.ErrorContains(t, err, "rate limiter")
}

func TestNewBase(t *testing.T) {
	base, err := NewBase("")
	require.NoError(t, err)
	assert.NotNil(t, base.Proxy)

	base, err = NewBase("http://proxy.local:3128")
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodGet, "https://fakestoreapi.com/products", nil)
	u, err := base.Proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "proxy.local:3128", u.Host)

	_, err = NewBase("not-a-proxy")
	assert.Error(t, err)
}
