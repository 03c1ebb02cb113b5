package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSetsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("user-agent")
	}))
	defer srv.Close()

	c := New(Options{Timeout: time.Second})
	resp, err := c.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, defaultUserAgent, got)
	assert.Equal(t, time.Second, c.Timeout)
}

func TestNewKeepsExplicitUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("user-agent")
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("user-agent", "custom/2")

	resp, err := New(Options{UserAgent: "ignored"}).Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "custom/2", got)
}
