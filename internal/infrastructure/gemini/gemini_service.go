package gemini

import (
	"context"

	"github.com/reroom-ai/go-backend/internal/cfg"
	"github.com/reroom-ai/go-backend/internal/imaging"
	"github.com/reroom-ai/go-backend/pkg/e"
	"github.com/reroom-ai/go-backend/pkg/logger"
	"google.golang.org/genai"
)

// GeminiService — клиент генеративной модели изображений Gemini.
type GeminiService struct {
	client *genai.Client
	cfg    *cfg.GeminiCfg
	logger logger.Logger
}

func NewGeminiService(ctx context.Context, cfg *cfg.GeminiCfg, logger logger.Logger) (*GeminiService, error) {
	const op = "NewGeminiService"

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.ApiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &GeminiService{
		client: client,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Generate отправляет изображение и текстовый промпт модели
// и возвращает байты сгенерированного изображения.
// Любой сбой — ошибка вызова, пустой ответ, ответ без изображения —
// для вызывающего выглядит одинаково: ok=false.
func (g *GeminiService) Generate(ctx context.Context, imageBytes []byte, prompt string) ([]byte, bool) {
	const op = "GeminiService.Generate"

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	contents := []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{Text: prompt},
				{InlineData: &genai.Blob{
					MIMEType: imaging.DetectImageMIME(imageBytes),
					Data:     imageBytes,
				}},
			},
		},
	}

	result, err := g.client.Models.GenerateContent(
		ctx,
		g.cfg.Model,
		contents,
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"IMAGE"},
		},
	)
	if err != nil {
		g.logger.Warnf("%s: generation failed: %v", op, err)
		return nil, false
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, true
			}
		}
	}

	g.logger.Warnf("%s: model returned no image parts", op)

	return nil, false
}
