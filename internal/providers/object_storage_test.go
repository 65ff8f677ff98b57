package providers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T, endpoint string) *S3Storage {
	t.Helper()
	storage, err := NewS3Storage(context.Background(), S3Options{
		Bucket:       "gabber",
		Region:       "eu-west-1",
		BaseEndpoint: endpoint,
		AccessKey:    "minio",
		SecretKey:    "minio-secret",
	})
	require.NoError(t, err)
	return storage
}

func TestS3Storage_Upload(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	storage := newTestStorage(t, server.URL)
	audio := []byte("RIFF....WAVEfmt ")
	err := storage.Upload(context.Background(), "3/session-1", "audio/mp4", bytes.NewReader(audio), int64(len(audio)))

	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/gabber/3/session-1", gotPath)
	assert.Contains(t, string(gotBody), "RIFF")
}

func TestS3Storage_UploadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	storage := newTestStorage(t, server.URL)
	err := storage.Upload(context.Background(), "3/session-1", "audio/mp4", bytes.NewReader([]byte("x")), 1)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, ErrCodeStorage, perr.Code)
}

func TestS3Storage_Delete(t *testing.T) {
	var gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	storage := newTestStorage(t, server.URL)
	require.NoError(t, storage.Delete(context.Background(), "3/session-1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/gabber/3/session-1", gotPath)
}

func TestS3Storage_SignedURL(t *testing.T) {
	storage := newTestStorage(t, "http://storage.local:9000")

	url, err := storage.SignedURL(context.Background(), "3/session-1", 15*time.Minute)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://storage.local:9000/gabber/3/session-1?"), url)
	assert.Contains(t, url, "X-Amz-Expires=900")
	assert.Contains(t, url, "X-Amz-Signature=")
}
