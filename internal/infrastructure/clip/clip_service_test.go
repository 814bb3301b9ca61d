package clip

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/reroom-ai/go-backend/internal/cfg"
	"github.com/reroom-ai/go-backend/internal/domain"
	"github.com/reroom-ai/go-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any)            {}
func (nopLogger) Infof(format string, args ...any)             {}
func (nopLogger) Warnf(format string, args ...any)             {}
func (nopLogger) Errorf(err error, format string, args ...any) {}

func newTestService(t *testing.T, url string) *ClipService {
	t.Helper()

	service, err := NewClipService(&cfg.ClipCfg{
		URL:          url,
		Timeout:      5 * time.Second,
		WarmInterval: 20 * time.Second,
	}, nopLogger{})
	require.NoError(t, err)

	return service
}

func vectorOfSize(n int) []float32 {
	vector := make([]float32, n)
	for i := range vector {
		vector[i] = float32(i) / float32(n)
	}
	return vector
}

func embeddingServer(t *testing.T, payload any) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"embedding": payload})
	}))
}

func TestGetEmbedding_FlatVector(t *testing.T) {
	srv := embeddingServer(t, vectorOfSize(domain.EmbeddingSize))
	defer srv.Close()

	service := newTestService(t, srv.URL)
	vector, err := service.GetEmbedding(context.Background(), []byte("jpeg-bytes"))
	require.NoError(t, err)
	assert.Len(t, vector, domain.EmbeddingSize)
}

func TestGetEmbedding_UnwrapsSingleElementBatch(t *testing.T) {
	srv := embeddingServer(t, [][]float32{vectorOfSize(domain.EmbeddingSize)})
	defer srv.Close()

	service := newTestService(t, srv.URL)
	vector, err := service.GetEmbedding(context.Background(), []byte("jpeg-bytes"))
	require.NoError(t, err)
	assert.Len(t, vector, domain.EmbeddingSize)
}

func TestGetEmbedding_WrongShape(t *testing.T) {
	srv := embeddingServer(t, vectorOfSize(256))
	defer srv.Close()

	service := newTestService(t, srv.URL)
	_, err := service.GetEmbedding(context.Background(), []byte("jpeg-bytes"))
	assert.ErrorIs(t, err, e.ErrEmbeddingShape)
}

func TestGetEmbedding_MultiElementBatchRejected(t *testing.T) {
	srv := embeddingServer(t, [][]float32{vectorOfSize(domain.EmbeddingSize), vectorOfSize(domain.EmbeddingSize)})
	defer srv.Close()

	service := newTestService(t, srv.URL)
	_, err := service.GetEmbedding(context.Background(), []byte("jpeg-bytes"))
	assert.ErrorIs(t, err, e.ErrEmbeddingShape)
}

func TestGetEmbedding_NotConfigured(t *testing.T) {
	service := newTestService(t, "")

	_, err := service.GetEmbedding(context.Background(), []byte("jpeg-bytes"))
	assert.ErrorIs(t, err, e.ErrEmbedderNotConfigured)
}

func TestGetEmbedding_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	service := newTestService(t, srv.URL)
	_, err := service.GetEmbedding(context.Background(), []byte("jpeg-bytes"))
	assert.Error(t, err)
}

func TestWarmAsync_Throttled(t *testing.T) {
	warmed := make(chan struct{}, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		warmed <- struct{}{}
		json.NewEncoder(w).Encode(map[string]any{"embedding": vectorOfSize(domain.EmbeddingSize)})
	}))
	defer srv.Close()

	service := newTestService(t, srv.URL)

	assert.True(t, service.WarmAsync(false))
	// Повторный вызов внутри интервала пропускается
	assert.False(t, service.WarmAsync(false))
	// force снимает троттлинг
	assert.True(t, service.WarmAsync(true))

	for i := 0; i < 2; i++ {
		select {
		case <-warmed:
		case <-time.After(3 * time.Second):
			t.Fatal("warm ping did not reach the endpoint")
		}
	}
}

func TestWarmAsync_NotConfigured(t *testing.T) {
	service := newTestService(t, "")
	assert.False(t, service.WarmAsync(true))
}
