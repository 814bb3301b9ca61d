package usecase

import (
	"context"
	"fmt"

	"github.com/reroom-ai/go-backend/internal/domain"
	"github.com/reroom-ai/go-backend/internal/imaging"
	"github.com/reroom-ai/go-backend/pkg/e"
	"github.com/reroom-ai/go-backend/pkg/logger"
)

// DefaultTopK — количество результатов поиска по умолчанию.
const DefaultTopK = 4

// SearchUseCase реализует поиск позиций каталога, визуально похожих
// на выделенный фрагмент изображения.
type SearchUseCase struct {
	clip       EmbeddingInfra   // nil, если поиск не сконфигурирован
	vectorRepo VectorRepository // nil, если поиск не сконфигурирован
	logger     logger.Logger
}

func NewSearchUC(clip EmbeddingInfra, vectorRepo VectorRepository, logger logger.Logger) *SearchUseCase {
	return &SearchUseCase{
		clip:       clip,
		vectorRepo: vectorRepo,
		logger:     logger,
	}
}

// SearchFurniture ищет top_k ближайших позиций каталога по фрагменту изображения.
//
// Контракт ошибок намеренно несимметричен: неинициализированный поиск —
// это явная ошибка ErrSearchUnavailable, а сбой векторизации или запроса
// к хранилищу на этапе вызова даёт пустой список без ошибки.
func (s *SearchUseCase) SearchFurniture(ctx context.Context, req *SearchFurnitureReq) ([]SearchResult, error) {
	const op = "SearchUseCase.SearchFurniture"

	// Валидация входа идёт раньше проверки инициализации: некорректный
	// запрос — это 400 независимо от состояния поиска.
	if err := req.Box.Validate(); err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(req.ImageData) == 0 {
		return nil, e.Wrap(op, e.ErrMissingImageData)
	}

	if s.clip == nil || s.vectorRepo == nil {
		return nil, e.ErrSearchUnavailable
	}

	img, err := imaging.Decode(req.ImageData)
	if err != nil {
		return nil, e.Wrap(op, e.ErrInvalidImageData)
	}

	cropped, err := imaging.Crop(img, req.Box)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	prepared, err := imaging.EncodeJPEG(imaging.Letterbox(cropped, imaging.LetterboxSize))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	topK := req.TopK
	if topK == 0 {
		topK = DefaultTopK
	}

	vector, err := s.clip.GetEmbedding(ctx, prepared)
	if err != nil {
		s.logger.Warnf("furniture search: embedding failed: %v", e.Wrap(op, err))
		return []SearchResult{}, nil
	}

	points, err := s.vectorRepo.Search(ctx, domain.NormalizeVector(vector), topK)
	if err != nil {
		s.logger.Warnf("furniture search: vector query failed: %v", e.Wrap(op, err))
		return []SearchResult{}, nil
	}

	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		result, err := mapHit(point)
		if err != nil {
			// Битая запись не должна ронять всю выдачу
			s.logger.Warnf("furniture search: skipping hit: %v", e.Wrap(op, err))
			continue
		}
		results = append(results, result)
	}

	return results, nil
}

// mapHit собирает SearchResult из payload найденной точки.
func mapHit(point domain.ScoredPoint) (SearchResult, error) {
	if point.Payload == nil {
		return SearchResult{}, fmt.Errorf("hit without payload")
	}

	title := payloadString(point.Payload, "title")
	if title == "" {
		title = payloadString(point.Payload, "name")
	}
	if title == "" {
		title = "Unknown Item"
	}

	price := payloadString(point.Payload, "price")
	if price == "" {
		price = "N/A"
	}

	source := payloadString(point.Payload, "source")

	return SearchResult{
		Score:       point.Score,
		Title:       title,
		Price:       price,
		Source:      source,
		ImageURL:    payloadString(point.Payload, "image_url"),
		SearchQuery: title + " " + source,
	}, nil
}

// payloadString возвращает строковое значение из payload или пустую строку.
func payloadString(payload domain.Payload, key string) string {
	value, ok := payload[key]
	if !ok {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", value)
	}
}
