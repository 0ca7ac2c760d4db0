package cdn

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestClient(url string, maxBytes int64) *Client {
	c := NewClient(Config{UploadURL: url, UploadPreset: "unsigned", MaxBytes: maxBytes, MaxRetries: 2})
	c.backoff = func() retry.Backoff {
		return retry.WithMaxRetries(c.cfg.MaxRetries, retry.NewConstant(time.Millisecond))
	}

	return c
}

func TestClient_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "unsigned", r.FormValue("upload_preset"))
		assert.Equal(t, "properties", r.FormValue("folder"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()

		body, _ := io.ReadAll(f)
		assert.Equal(t, "front.png", hdr.Filename)
		assert.Equal(t, pngHeader, body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url":"https://cdn.example.com/front.png","bytes":16,"width":800,"height":600,"format":"png"}`))
	}))
	defer srv.Close()

	asset, err := newTestClient(srv.URL, 0).Upload(context.Background(), "properties", "front.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/front.png", asset.URL)
	assert.Equal(t, int64(16), asset.Bytes)
	assert.Equal(t, 800, asset.Width)
	assert.Equal(t, 600, asset.Height)
	assert.Equal(t, "image/png", asset.MimeType)
}

func TestClient_Upload_TooLargeMakesNoRequest(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 10).Upload(context.Background(), "", "big.pdf", strings.NewReader(strings.Repeat("x", 11)))
	require.ErrorIs(t, err, ErrTooLarge)
	assert.Zero(t, calls.Load())
}

func TestClient_Upload_Rejected(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 0).Upload(context.Background(), "", "a.txt", strings.NewReader("hello"))
	require.ErrorIs(t, err, ErrUploadRejected)
	assert.Contains(t, err.Error(), "Upload preset not found")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Upload_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		_, _ = w.Write([]byte(`{"secure_url":"https://cdn.example.com/a.txt"}`))
	}))
	defer srv.Close()

	asset, err := newTestClient(srv.URL, 0).Upload(context.Background(), "", "a.txt", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, int64(5), asset.Bytes)
	assert.True(t, strings.HasPrefix(asset.MimeType, "text/plain"))
}

func TestClient_Upload_NoRetriesByDefault(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(Config{UploadURL: srv.URL}).Upload(context.Background(), "", "a.txt", strings.NewReader("hello"))
	require.ErrorIs(t, err, ErrUploadRejected)
	assert.Contains(t, err.Error(), "status 503")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Upload_NotConfigured(t *testing.T) {
	_, err := NewClient(Config{}).Upload(context.Background(), "", "a.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNotConfigured)
}
