package converter

import "time"

// CatalogItemModel представляет запись таблицы catalog_items в PostgreSQL.
type CatalogItemModel struct {
	ID         int64      `db:"id"`
	Title      string     `db:"title"`
	Price      int64      `db:"price"`
	Source     string     `db:"source"`
	ImageURL   string     `db:"image_url"`
	ImageKey   string     `db:"image_key"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at"`
	IsArchived bool       `db:"is_archived"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	ItemID      int64      `db:"item_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
