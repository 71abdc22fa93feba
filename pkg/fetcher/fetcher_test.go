package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBytes(t *testing.T) {
	var gotAgent, gotCookie string
	mux := http.NewServeMux()
	mux.HandleFunc("/seed", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "NID", Value: "abc", Path: "/"})
	})
	mux.HandleFunc("/data", func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.UserAgent()
		if c, err := r.Cookie("NID"); err == nil {
			gotCookie = c.Value
		}
		_, _ = w.Write([]byte("ok"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := NewFetcher(5 * time.Second)
	_, err := f.GetBytes(context.Background(), srv.URL+"/seed")
	require.NoError(t, err)

	body, err := f.GetBytes(context.Background(), srv.URL+"/data")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, DefaultUserAgent, gotAgent)
	assert.Equal(t, "abc", gotCookie, "cookies from earlier responses are replayed")
}

func TestGetBytes_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewFetcherWithClient(srv.Client()).GetBytes(context.Background(), srv.URL)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "429")
}

func TestGetBytes_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFetcherWithClient(srv.Client()).GetBytes(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}
