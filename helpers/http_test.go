package helpers

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchSimply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	data, err := FetchSimply(server.URL)
	assert.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestFetchSimplyNonOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := FetchSimply(server.URL)
	assert.Error(t, err)
}

func TestFetchWithBrowserHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	body, err := FetchWithBrowserHeaders(server.URL)
	assert.NoError(t, err)

	data, err := io.ReadAll(body)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "<body>ok</body>")
}

func TestFetchWithBrowserHeadersRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := FetchWithBrowserHeaders(server.URL)
	assert.True(t, errors.Is(err, ErrRateLimited))
}

func TestFetchWithBrowserHeadersNonOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := FetchWithBrowserHeaders(server.URL)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrRateLimited))
}
