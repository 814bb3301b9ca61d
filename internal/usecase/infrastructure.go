package usecase

import "context"

// ImageGenInfra — клиент генеративной модели изображений.
// Generate возвращает ok=false, если модель не вернула изображение
// или вызов завершился ошибкой: для вызывающего это один и тот же исход.
type ImageGenInfra interface {
	Generate(ctx context.Context, imageBytes []byte, prompt string) ([]byte, bool)
}

// EmbeddingInfra — клиент внешнего сервиса векторизации изображений.
type EmbeddingInfra interface {
	// GetEmbedding возвращает 512-мерный вектор для JPEG-изображения.
	GetEmbedding(ctx context.Context, imageJPEG []byte) ([]float32, error)

	// WarmAsync планирует фоновый прогревающий запрос к эндпоинту.
	// Возвращает false, если запрос пропущен из-за интервала троттлинга.
	WarmAsync(force bool) bool
}

type ImagesInfra interface {
	UploadImage(ctx context.Context, req *UploadImageReq) (string, error)
	CleanupImages(keys []string)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
