package s3_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/bills/internal/httpclients/s3"
)

type bucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (b *bucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		b.objects[r.URL.Path] = data

		w.WriteHeader(http.StatusCreated)
	case http.MethodGet:
		data, ok := b.objects[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		_, _ = w.Write(data)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestClient_UploadAndDownload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(&bucket{objects: make(map[string][]byte)})
	t.Cleanup(srv.Close)

	client := s3.NewClient(srv.URL+"/receipts/", 1<<10)

	objectURL, err := client.UploadObject(context.Background(), "1.png", "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	require.Equal(t, srv.URL+"/receipts/1.png", objectURL)

	data, err := client.DownloadDocument(context.Background(), objectURL)
	require.NoError(t, err)
	require.Equal(t, []byte("png-bytes"), data)

	_, err = client.DownloadDocument(context.Background(), srv.URL+"/receipts/2.png")
	require.ErrorContains(t, err, "unexpected code 404")
}

func TestClient_DownloadTooLarge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "declared length",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write(bytes.Repeat([]byte("x"), 17))
			},
		},
		{
			name: "chunked",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				for i := 0; i < 17; i++ {
					_, _ = w.Write([]byte("x"))
					w.(http.Flusher).Flush()
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(tt.handler)
			t.Cleanup(srv.Close)

			client := s3.NewClient(srv.URL, 16)

			_, err := client.DownloadDocument(context.Background(), srv.URL+"/big.png")
			require.ErrorIs(t, err, s3.ErrObjectTooLarge)
		})
	}
}

func TestClient_DownloadAtLimit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte("x"), 16))
	}))
	t.Cleanup(srv.Close)

	data, err := s3.NewClient(srv.URL, 16).DownloadDocument(context.Background(), srv.URL+"/ok.png")
	require.NoError(t, err)
	require.Len(t, data, 16)
}
