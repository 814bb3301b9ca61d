package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/reroom-ai/go-backend/internal/domain"
	"github.com/reroom-ai/go-backend/internal/imaging"
	"github.com/reroom-ai/go-backend/pkg/e"
	"github.com/reroom-ai/go-backend/pkg/logger"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CatalogUseCase реализует бизнес-логику управления позициями каталога мебели.
type CatalogUseCase struct {
	catalogRepo CatalogRepository
	outboxRepo  OutboxRepository
	dbPool      transaction.Transactional
	clip        EmbeddingInfra
	imagesInfra ImagesInfra
	vectorRepo  VectorRepository
	cacheRepo   CacheRepository
	logger      logger.Logger
}

func NewCatalogUC(
	catalogRepo CatalogRepository,
	outboxRepo OutboxRepository,
	dbPool transaction.Transactional,
	clip EmbeddingInfra,
	imagesInfra ImagesInfra,
	vectorRepo VectorRepository,
	cacheRepo CacheRepository,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		catalogRepo: catalogRepo,
		outboxRepo:  outboxRepo,
		dbPool:      dbPool,
		clip:        clip,
		imagesInfra: imagesInfra,
		vectorRepo:  vectorRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
	}
}

// AddItem обрабатывает добавление позиции каталога: запись в БД,
// загрузка референсного изображения, векторизация и сохранение в Qdrant,
// событие в outbox — всё в одной транзакции.
func (c *CatalogUseCase) AddItem(ctx context.Context, req *AddCatalogItemReq) (*AddCatalogItemRes, error) {
	const op = "CatalogUseCase.AddItem"

	// Валидация данных
	var err error
	err = c.validateItem(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var (
		imageKey string
		uploaded bool
	)

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, c.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	// Если произошла ошибка, происходит Rollback транзакции и очистка загруженного изображения
	defer func() {
		if err != nil {
			if tx.IsActive() {
				tx.Rollback(ctx)
			}

			if uploaded {
				c.logger.Warnf(
					"Cleaning up orphaned image after transaction failure. item_title: %s, error: %v",
					req.Title,
					e.Wrap(op, err),
				)

				c.imagesInfra.CleanupImages([]string{imageKey})
			}
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	// Векторизация референсного изображения
	vector, err := c.getVector(ctx, req.Image)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Сохранение изображения в MinIO
	imageKey, err = c.imagesInfra.UploadImage(ctx, NewUploadImageReq(req.Title, req.Image))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	uploaded = true

	// Идемпотентное создание позиции
	item, err := c.upsertItem(ctx, req, imageKey)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Сохранение вектора с дополнительной информацией (метаданные позиции, S3 key)
	embeddingID := uuid.NewString()
	err = c.upsertEmbedding(ctx, embeddingID, item, vector)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Событие в outbox: публикация в Kafka после коммита
	event, err := c.createOutboxEvent(ctx, item, embeddingID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Коммит изменений в бд
	err = tx.Commit(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Удаление из кэша старых данных позиции
	if err := c.cacheRepo.DeleteItems(ctx, []int64{item.ID}); err != nil {
		c.logger.Warnf("Failed to invalidate item cache: %v", e.Wrap(op, err))
	}

	return &AddCatalogItemRes{ItemID: item.ID, EventID: event.EventID}, nil
}

// GetItemsInfo возвращает информацию о позициях каталога по их идентификаторам.
func (c *CatalogUseCase) GetItemsInfo(ctx context.Context, req *GetItemsReq) (*GetItemsRes, error) {
	const op = "CatalogUseCase.GetItemsInfo"

	// Валидация
	if len(req.IDs) == 0 {
		return nil, e.Wrap(op, e.ErrNoIDs)
	}

	// Поиск позиций в кэше
	cacheItemsMap, err := c.cacheRepo.GetItems(ctx, req.IDs)
	var nonCacheable []int64
	if err != nil {
		nonCacheable = append(nonCacheable, req.IDs...)
	} else {
		for _, itemID := range req.IDs {
			if _, ok := cacheItemsMap[itemID]; !ok {
				nonCacheable = append(nonCacheable, itemID)
			}
		}
	}

	// Получение позиций из БД
	var itemsFromDB []CatalogItemInfo
	if len(nonCacheable) > 0 {
		itemsFromDB, err = c.catalogRepo.GetItemsInfo(ctx, nonCacheable)
		if err != nil {
			return nil, e.Wrap(op, err)
		}

		// Фоновое добавление позиций в кэш
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			if err := c.cacheRepo.SetItems(bgCtx, itemsFromDB); err != nil {
				c.logger.Warnf("Failed to cache items in background: %v", e.Wrap(op, err))
			}
		}()
	}

	dbItemsMap := make(map[int64]CatalogItemInfo, len(itemsFromDB))
	for _, itemInfo := range itemsFromDB {
		dbItemsMap[itemInfo.ID] = itemInfo
	}

	// Формирование результата в порядке запрошенных идентификаторов
	result := make([]CatalogItemInfo, 0, len(req.IDs))
	notFoundItems := make([]int64, 0)
	for _, id := range req.IDs {
		if item, ok := cacheItemsMap[id]; ok {
			result = append(result, item)
		} else if item, ok := dbItemsMap[id]; ok {
			result = append(result, item)
		} else {
			notFoundItems = append(notFoundItems, id)
		}
	}

	return NewGetItemsRes(result, notFoundItems), nil
}

// getVector прогоняет референсное изображение через тот же пайплайн
// подготовки, что и поисковые фрагменты: letterbox 224x224 на белом фоне.
func (c *CatalogUseCase) getVector(ctx context.Context, image ImageUpload) ([]float32, error) {
	img, err := imaging.Decode(image.Data)
	if err != nil {
		return nil, e.ErrInvalidImageData
	}

	prepared, err := imaging.EncodeJPEG(imaging.Letterbox(img, imaging.LetterboxSize))
	if err != nil {
		return nil, err
	}

	vector, err := c.clip.GetEmbedding(ctx, prepared)
	if err != nil {
		return nil, err
	}

	if len(vector) == 0 {
		return nil, e.ErrVectorEmbeddingEmpty
	}

	return domain.NormalizeVector(vector), nil
}

// upsertItem идемпотентно создаёт или обновляет позицию каталога.
func (c *CatalogUseCase) upsertItem(ctx context.Context, req *AddCatalogItemReq, imageKey string) (*domain.CatalogItem, error) {
	item := domain.NewCatalogItem(req.Title, req.Price, req.Source, req.ImageURL)
	item.ImageKey = imageKey

	return c.catalogRepo.Upsert(ctx, item)
}

// upsertEmbedding сохраняет вектор позиции в Qdrant с метаданными для поисковой выдачи.
func (c *CatalogUseCase) upsertEmbedding(ctx context.Context, embeddingID string, item *domain.CatalogItem, vector []float32) error {
	payload := domain.NewItemPayload(
		item.ID,
		item.Title,
		formatPrice(item.Price),
		item.Source,
		item.ImageURL,
		item.ImageKey,
	)

	return c.vectorRepo.Upsert(ctx, []domain.Embedding{
		*domain.NewEmbedding(embeddingID, vector, payload),
	})
}

// createOutboxEvent пишет событие обновления позиции в таблицу outbox.
func (c *CatalogUseCase) createOutboxEvent(ctx context.Context, item *domain.CatalogItem, embeddingID string) (*OutboxEvent, error) {
	eventID := uuid.NewString()

	payload, err := json.Marshal(ItemUpsertedPayload{
		EventID:     eventID,
		EventType:   string(ItemUpserted),
		ItemID:      item.ID,
		EmbeddingID: embeddingID,
		ImageKey:    item.ImageKey,
		Timestamp:   time.Now().UTC().Unix(),
	})
	if err != nil {
		return nil, err
	}

	return c.outboxRepo.Create(ctx, &OutboxEvent{
		EventID:   eventID,
		EventType: ItemUpserted,
		ItemID:    item.ID,
		Payload:   payload,
		Status:    Pending,
	})
}

// validateItem проверяет корректность входных данных запроса на добавление позиции.
func (c *CatalogUseCase) validateItem(req *AddCatalogItemReq) error {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Source) == "" {
		return e.ErrMissingFields
	}

	if req.Price <= 0 {
		return e.ErrInvalidPrice
	}

	if len(req.Image.Data) == 0 {
		return e.ErrNoFile
	}

	return nil
}

// formatPrice переводит цену из центов в строку вида "$129.99".
func formatPrice(cents int64) string {
	return "$" + decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
