package usecase

import (
	"context"

	"github.com/reroom-ai/go-backend/internal/domain"
)

type VectorRepository interface {
	Upsert(ctx context.Context, vectors []domain.Embedding) error
	Search(ctx context.Context, vector []float32, limit uint64) ([]domain.ScoredPoint, error)
}

type CatalogRepository interface {
	Upsert(ctx context.Context, item *domain.CatalogItem) (*domain.CatalogItem, error)
	GetItemsInfo(ctx context.Context, ids []int64) ([]CatalogItemInfo, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type CacheRepository interface {
	GetItems(ctx context.Context, ids []int64) (map[int64]CatalogItemInfo, error)
	SetItems(ctx context.Context, items []CatalogItemInfo) error
	DeleteItems(ctx context.Context, ids []int64) error
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.StoredImage) (string, error)
	Delete(ctx context.Context, key string) error
}
