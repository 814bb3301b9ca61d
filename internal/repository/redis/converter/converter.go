package converter

import (
	"github.com/reroom-ai/go-backend/internal/usecase"
)

// CatalogItemConverter преобразует DTO позиций каталога между usecase и Redis-моделью.
type CatalogItemConverter interface {
	ToRedisModel(entity *usecase.CatalogItemInfo) *CatalogItemRedisModel
	ToUseCase(model *CatalogItemRedisModel) *usecase.CatalogItemInfo
	ToArrRedisModel(entities []usecase.CatalogItemInfo) []CatalogItemRedisModel
	ToArrUseCase(models []CatalogItemRedisModel) []usecase.CatalogItemInfo
}

type CatalogItemConverterImpl struct{}

func NewCatalogItemConverter() *CatalogItemConverterImpl {
	return &CatalogItemConverterImpl{}
}

func (c *CatalogItemConverterImpl) ToRedisModel(entity *usecase.CatalogItemInfo) *CatalogItemRedisModel {
	if entity == nil {
		return nil
	}

	return &CatalogItemRedisModel{
		ID:       entity.ID,
		Title:    entity.Title,
		Price:    entity.Price,
		Source:   entity.Source,
		ImageURL: entity.ImageURL,
	}
}

func (c *CatalogItemConverterImpl) ToUseCase(model *CatalogItemRedisModel) *usecase.CatalogItemInfo {
	if model == nil {
		return nil
	}

	return &usecase.CatalogItemInfo{
		ID:       model.ID,
		Title:    model.Title,
		Price:    model.Price,
		Source:   model.Source,
		ImageURL: model.ImageURL,
	}
}

func (c *CatalogItemConverterImpl) ToArrRedisModel(entities []usecase.CatalogItemInfo) []CatalogItemRedisModel {
	result := make([]CatalogItemRedisModel, 0, len(entities))
	for i := range entities {
		result = append(result, *c.ToRedisModel(&entities[i]))
	}

	return result
}

func (c *CatalogItemConverterImpl) ToArrUseCase(models []CatalogItemRedisModel) []usecase.CatalogItemInfo {
	result := make([]usecase.CatalogItemInfo, 0, len(models))
	for i := range models {
		result = append(result, *c.ToUseCase(&models[i]))
	}

	return result
}
