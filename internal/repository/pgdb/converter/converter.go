package converter

import (
	"github.com/reroom-ai/go-backend/internal/domain"
	"github.com/reroom-ai/go-backend/internal/usecase"
)

// CatalogItemConverter преобразует сущности CatalogItem между domain и моделью PostgreSQL.
type CatalogItemConverter interface {
	ToModel(entity *domain.CatalogItem) *CatalogItemModel
	ToEntity(model *CatalogItemModel) *domain.CatalogItem
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter interface {
	ToModel(entity *usecase.OutboxEvent) *OutboxEventModel
	ToEntity(model *OutboxEventModel) *usecase.OutboxEvent
	ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent
}

type CatalogItemConverterImpl struct{}

func NewCatalogItemConverter() *CatalogItemConverterImpl {
	return &CatalogItemConverterImpl{}
}

func (c *CatalogItemConverterImpl) ToModel(entity *domain.CatalogItem) *CatalogItemModel {
	if entity == nil {
		return nil
	}

	return &CatalogItemModel{
		ID:         entity.ID,
		Title:      entity.Title,
		Price:      entity.Price,
		Source:     entity.Source,
		ImageURL:   entity.ImageURL,
		ImageKey:   entity.ImageKey,
		CreatedAt:  entity.CreatedAt,
		UpdatedAt:  entity.UpdatedAt,
		IsArchived: entity.IsArchived,
	}
}

func (c *CatalogItemConverterImpl) ToEntity(model *CatalogItemModel) *domain.CatalogItem {
	if model == nil {
		return nil
	}

	return &domain.CatalogItem{
		ID:         model.ID,
		Title:      model.Title,
		Price:      model.Price,
		Source:     model.Source,
		ImageURL:   model.ImageURL,
		ImageKey:   model.ImageKey,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
		IsArchived: model.IsArchived,
	}
}

type OutboxEventConverterImpl struct{}

func NewOutboxEventConverter() *OutboxEventConverterImpl {
	return &OutboxEventConverterImpl{}
}

func (c *OutboxEventConverterImpl) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	if entity == nil {
		return nil
	}

	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		ItemID:      entity.ItemID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (c *OutboxEventConverterImpl) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	if model == nil {
		return nil
	}

	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		ItemID:      model.ItemID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c *OutboxEventConverterImpl) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, model := range models {
		result = append(result, c.ToEntity(model))
	}

	return result
}
