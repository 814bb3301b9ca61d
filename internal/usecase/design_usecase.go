package usecase

import (
	"context"
	"strings"

	"github.com/reroom-ai/go-backend/internal/imaging"
	"github.com/reroom-ai/go-backend/pkg/e"
	"github.com/reroom-ai/go-backend/pkg/logger"
)

// DesignUseCase реализует бизнес-логику редизайна и доработки изображений комнат.
type DesignUseCase struct {
	generator ImageGenInfra
	clip      EmbeddingInfra // может быть nil, если поиск не сконфигурирован
	logger    logger.Logger
}

func NewDesignUC(generator ImageGenInfra, clip EmbeddingInfra, logger logger.Logger) *DesignUseCase {
	return &DesignUseCase{
		generator: generator,
		clip:      clip,
		logger:    logger,
	}
}

// Redesign генерирует новый интерьер по фотографии комнаты.
// В режиме EmptyFirst комната сначала очищается от мебели, и "до" в ответе —
// это очищенная комната; иначе выполняется один вызов, и "до" — оригинал.
// Отказ любого шага фатален для всего workflow, с указанием упавшего шага.
func (d *DesignUseCase) Redesign(ctx context.Context, req *RedesignReq) (*RedesignRes, error) {
	const op = "DesignUseCase.Redesign"

	if err := validateUpload(req.Image); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Прогреваем эндпоинт векторизации заранее: после редизайна пользователь
	// обычно переходит к поиску мебели по фрагменту результата.
	d.warmSearch()

	designPrompt := DesignPrompt(req.Style, req.RoomType, req.AdditionalInstructions)

	if !req.EmptyFirst {
		finalBytes, ok := d.generator.Generate(ctx, req.Image.Data, designPrompt)
		if !ok {
			return nil, e.Wrap(op, e.ErrDesignFailed)
		}

		original := imaging.DataURI(req.Image.Data)
		return NewRedesignRes(original, original, imaging.DataURI(finalBytes)), nil
	}

	emptyBytes, ok := d.generator.Generate(ctx, req.Image.Data, EmptyRoomPrompt())
	if !ok {
		return nil, e.Wrap(op, e.ErrEmptyRoomFailed)
	}

	finalBytes, ok := d.generator.Generate(ctx, emptyBytes, designPrompt)
	if !ok {
		return nil, e.Wrap(op, e.ErrDesignFailed)
	}

	return NewRedesignRes(
		imaging.DataURI(req.Image.Data),
		imaging.DataURI(emptyBytes),
		imaging.DataURI(finalBytes),
	), nil
}

// Refine применяет одно свободное текстовое изменение к существующему
// изображению, сохраняя перспективу, свет и не затронутые элементы.
func (d *DesignUseCase) Refine(ctx context.Context, req *RefineReq) (*RefineRes, error) {
	const op = "DesignUseCase.Refine"

	if len(req.ImageData) == 0 {
		return nil, e.Wrap(op, e.ErrMissingImageData)
	}

	instruction := strings.TrimSpace(req.Prompt)
	if instruction == "" {
		return nil, e.Wrap(op, e.ErrMissingPrompt)
	}

	// После доработки пользователь часто переходит к поиску мебели,
	// поэтому прогреваем эндпоинт векторизации заранее.
	d.warmSearch()

	refined, ok := d.generator.Generate(ctx, req.ImageData, RefinePrompt(instruction))
	if !ok {
		return nil, e.Wrap(op, e.ErrRefineFailed)
	}

	return &RefineRes{RefinedImage: imaging.DataURI(refined)}, nil
}

// warmSearch запускает фоновый прогрев эндпоинта векторизации, если поиск включён.
func (d *DesignUseCase) warmSearch() {
	if d.clip == nil {
		return
	}
	if d.clip.WarmAsync(false) {
		d.logger.Debugf("scheduled clip warm ping")
	}
}

// validateUpload проверяет, что загрузка не пуста и имеет поддерживаемый формат.
func validateUpload(image ImageUpload) error {
	if len(image.Data) == 0 {
		return e.ErrEmptyFile
	}

	switch image.MimeType {
	case "image/jpeg", "image/png", "image/webp":
		return nil
	default:
		return e.ErrUnsupportedMediaType
	}
}
