package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "emojiart-be/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	data, err := New(Config{}).Fetch(context.Background(), srv.URL+"/bg.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)
}

func TestFetchFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/empty":
			w.WriteHeader(http.StatusOK)
		case "/large":
			w.Write([]byte(strings.Repeat("x", 64)))
		}
	}))
	defer srv.Close()

	f := New(Config{MaxBytes: 32})
	tests := []struct {
		name    string
		url     string
		wantErr error
	}{
		{name: "not found", url: srv.URL + "/missing"},
		{name: "empty body", url: srv.URL + "/empty", wantErr: ErrEmptyBody},
		{name: "too large", url: srv.URL + "/large", wantErr: ErrTooLarge},
		{name: "file scheme", url: "file:///etc/passwd", wantErr: ErrUnsupportedScheme},
		{name: "malformed", url: "http://[::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), tt.url)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestFetchStopsReadingPastLimit(t *testing.T) {
	var written atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunk := []byte(strings.Repeat("x", 32*1024))
		for i := 0; i < 2048; i++ {
			n, err := w.Write(chunk)
			written.Add(int64(n))
			if err != nil {
				return
			}
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}))
	defer srv.Close()

	_, err := New(Config{MaxBytes: 1024}).Fetch(context.Background(), srv.URL+"/stream")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooLarge)

	// 2048 chunks of 32KiB is 64MiB; the client hangs up long before that.
	assert.Less(t, written.Load(), int64(2048*32*1024))
}

func TestFetchHonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(Config{}).Fetch(ctx, srv.URL)
	assert.Error(t, err)
}
