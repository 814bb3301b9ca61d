package usecase

import (
	"time"

	"github.com/reroom-ai/go-backend/internal/domain"
)

// DESIGN USECASE

// ImageUpload представляет изображение, загруженное через multipart/form-data.
type ImageUpload struct {
	Data     []byte // байты изображения
	MimeType string // MIME, определённый по содержимому
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// RedesignReq — запрос на редизайн комнаты.
type RedesignReq struct {
	Image                  ImageUpload
	Style                  string
	RoomType               string
	AdditionalInstructions string
	EmptyFirst             bool // сначала очистить комнату, затем обставить
}

// RedesignRes — результат редизайна: три изображения в виде data URI.
// EmptyImage в одношаговом режиме совпадает с OriginalImage.
type RedesignRes struct {
	OriginalImage string
	EmptyImage    string
	FinalImage    string
}

// RefineReq — запрос на точечную доработку существующего изображения.
type RefineReq struct {
	ImageData []byte
	Prompt    string
}

type RefineRes struct {
	RefinedImage string
}

// SEARCH USECASE

// SearchFurnitureReq — запрос поиска мебели по выделенному фрагменту изображения.
type SearchFurnitureReq struct {
	ImageData []byte
	Box       domain.CropBox
	TopK      uint64
}

// SearchResult — одна позиция поисковой выдачи.
type SearchResult struct {
	Score       float32
	Title       string
	Price       string
	Source      string
	ImageURL    string
	SearchQuery string
}

// CATALOG USECASE

// AddCatalogItemReq — запрос на добавление позиции каталога с референсным изображением.
type AddCatalogItemReq struct {
	Title    string
	Price    int64 // в центах
	Source   string
	ImageURL string
	Image    ImageUpload
}

type AddCatalogItemRes struct {
	ItemID  int64
	EventID string
}

// GetItemsReq запрос информации о позициях каталога по их идентификаторам.
type GetItemsReq struct {
	IDs []int64
}

// GetItemsRes — ответ с данными запрошенных позиций.
type GetItemsRes struct {
	Items         []CatalogItemInfo
	NotFoundItems []int64
}

// CatalogItemInfo — DTO с информацией о позиции каталога для внешнего использования.
type CatalogItemInfo struct {
	ID       int64
	Title    string
	Price    int64
	Source   string
	ImageURL string
}

// INFRASTRUCTURE

// UploadImageReq — запрос на загрузку референсного изображения позиции.
type UploadImageReq struct {
	Title string
	Image ImageUpload
}

type WriteRawMessageReq struct {
	ItemID  int64
	Payload []byte
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const ItemUpserted OutboxEventType = "catalog_item_upserted"

// OutboxEvent — запись transactional outbox для публикации в Kafka.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	ItemID      int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// ItemUpsertedPayload — JSON-тело события обновления позиции каталога.
type ItemUpsertedPayload struct {
	EventID     string `json:"event_id"`
	EventType   string `json:"event_type"`
	ItemID      int64  `json:"item_id"`
	EmbeddingID string `json:"embedding_id"`
	ImageKey    string `json:"image_key"`
	Timestamp   int64  `json:"ts"`
}

// MAPPERS

func NewImageUpload(data []byte, mimeType string, size int64, name string) *ImageUpload {
	return &ImageUpload{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewRedesignReq(image ImageUpload, style, roomType, additional string, emptyFirst bool) *RedesignReq {
	return &RedesignReq{
		Image:                  image,
		Style:                  style,
		RoomType:               roomType,
		AdditionalInstructions: additional,
		EmptyFirst:             emptyFirst,
	}
}

func NewRedesignRes(original, empty, final string) *RedesignRes {
	return &RedesignRes{
		OriginalImage: original,
		EmptyImage:    empty,
		FinalImage:    final,
	}
}

func NewRefineReq(imageData []byte, prompt string) *RefineReq {
	return &RefineReq{
		ImageData: imageData,
		Prompt:    prompt,
	}
}

func NewSearchFurnitureReq(imageData []byte, box domain.CropBox, topK uint64) *SearchFurnitureReq {
	return &SearchFurnitureReq{
		ImageData: imageData,
		Box:       box,
		TopK:      topK,
	}
}

func NewAddCatalogItemReq(title string, price int64, source, imageURL string, image ImageUpload) *AddCatalogItemReq {
	return &AddCatalogItemReq{
		Title:    title,
		Price:    price,
		Source:   source,
		ImageURL: imageURL,
		Image:    image,
	}
}

func NewCatalogItemInfo(id int64, title string, price int64, source, imageURL string) CatalogItemInfo {
	return CatalogItemInfo{
		ID:       id,
		Title:    title,
		Price:    price,
		Source:   source,
		ImageURL: imageURL,
	}
}

func NewGetItemsReq(ids []int64) *GetItemsReq {
	return &GetItemsReq{ids}
}

func NewGetItemsRes(items []CatalogItemInfo, notFound []int64) *GetItemsRes {
	return &GetItemsRes{
		Items:         items,
		NotFoundItems: notFound,
	}
}

func NewUploadImageReq(title string, image ImageUpload) *UploadImageReq {
	return &UploadImageReq{
		Title: title,
		Image: image,
	}
}

func NewWriteRawMessageReq(itemID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		ItemID:  itemID,
		Payload: payload,
	}
}
