package domain

import "time"

// CatalogItem описывает позицию каталога мебели
type CatalogItem struct {
	ID         int64
	Title      string
	Price      int64 // Цена хранится в центах
	Source     string
	ImageURL   string
	ImageKey   string // ключ референсного изображения в MinIO
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	IsArchived bool
}

func NewCatalogItem(title string, price int64, source, imageURL string) *CatalogItem {
	return &CatalogItem{
		Title:    title,
		Price:    price,
		Source:   source,
		ImageURL: imageURL,
	}
}
