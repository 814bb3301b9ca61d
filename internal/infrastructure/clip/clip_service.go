package clip

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/reroom-ai/go-backend/internal/cfg"
	"github.com/reroom-ai/go-backend/internal/domain"
	"github.com/reroom-ai/go-backend/internal/imaging"
	"github.com/reroom-ai/go-backend/pkg/e"
	"github.com/reroom-ai/go-backend/pkg/logger"
)

// minTimeout — нижняя граница таймаута запроса: эндпоинт на Lambda
// после простоя стартует несколько секунд.
const minTimeout = 5 * time.Second

// ClipService — HTTP-клиент эндпоинта векторизации изображений (CLIP).
// Эндпоинт принимает сырые байты JPEG и возвращает 512-мерный вектор.
type ClipService struct {
	cfg    *cfg.ClipCfg
	client *http.Client
	logger logger.Logger

	lastWarm atomic.Int64 // unix nano последнего warm-запроса
	warmBody []byte       // 1x1 белый JPEG для прогрева
}

// embeddingResponse — тело ответа эндпоинта. Поле embedding может быть
// как плоским вектором, так и батчем из одного вектора.
type embeddingResponse struct {
	Embedding json.RawMessage `json:"embedding"`
}

func NewClipService(cfg *cfg.ClipCfg, logger logger.Logger) (*ClipService, error) {
	const op = "NewClipService"

	timeout := cfg.Timeout
	if timeout < minTimeout {
		timeout = minTimeout
	}

	warmBody, err := warmPayload()
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &ClipService{
		cfg:      cfg,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
		warmBody: warmBody,
	}, nil
}

// GetEmbedding отправляет JPEG на векторизацию и возвращает вектор.
// Запрос выполняется ровно один раз: решение о повторе остаётся за вызывающим.
func (c *ClipService) GetEmbedding(ctx context.Context, imageJPEG []byte) ([]float32, error) {
	const op = "ClipService.GetEmbedding"

	if c.cfg.URL == "" {
		return nil, e.Wrap(op, e.ErrEmbedderNotConfigured)
	}

	vector, err := c.requestEmbedding(ctx, imageJPEG)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return vector, nil
}

// requestEmbedding выполняет один запрос к эндпоинту и разбирает ответ.
func (c *ClipService) requestEmbedding(ctx context.Context, body []byte) ([]float32, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("embedding endpoint returned %d: %s", res.StatusCode, payload)
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	return parseVector(parsed.Embedding)
}

// parseVector разворачивает поле embedding: сначала как плоский вектор,
// затем как батч [[...]] из одного элемента.
func parseVector(raw json.RawMessage) ([]float32, error) {
	if len(raw) == 0 {
		return nil, e.ErrVectorEmbeddingEmpty
	}

	var flat []float32
	if err := json.Unmarshal(raw, &flat); err == nil {
		return checkShape(flat)
	}

	var batch [][]float32
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, fmt.Errorf("unexpected embedding payload: %w", err)
	}
	if len(batch) != 1 {
		return nil, e.ErrEmbeddingShape
	}

	return checkShape(batch[0])
}

func checkShape(vector []float32) ([]float32, error) {
	if len(vector) != domain.EmbeddingSize {
		return nil, fmt.Errorf("%w: got %d, want %d", e.ErrEmbeddingShape, len(vector), domain.EmbeddingSize)
	}

	return vector, nil
}

// WarmAsync планирует фоновый прогревающий запрос к эндпоинту.
// Повторные вызовы внутри WarmInterval пропускаются, force снимает троттлинг.
// Возвращает true, если запрос был запланирован.
func (c *ClipService) WarmAsync(force bool) bool {
	if c.cfg.URL == "" {
		return false
	}

	now := time.Now().UnixNano()
	if !force {
		last := c.lastWarm.Load()
		if now-last < int64(c.cfg.WarmInterval) {
			return false
		}
		if !c.lastWarm.CompareAndSwap(last, now) {
			return false // прогрев уже запланирован конкурентным вызовом
		}
	} else {
		c.lastWarm.Store(now)
	}

	go func() {
		// Прогрев живёт независимо от запроса, который его инициировал
		ctx, cancel := context.WithTimeout(context.Background(), minTimeout)
		defer cancel()

		if _, err := c.requestEmbedding(ctx, c.warmBody); err != nil {
			c.logger.Debugf("embedding warm-up ping failed: %v", err)
			return
		}

		c.logger.Debugf("embedding endpoint warmed up")
	}()

	return true
}

// warmPayload кодирует 1x1 белый JPEG для прогревающего запроса.
func warmPayload() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)

	return imaging.EncodeJPEG(img)
}
