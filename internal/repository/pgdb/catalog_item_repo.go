package pgdb

import (
	"context"
	"errors"

	"github.com/reroom-ai/go-backend/internal/domain"
	"github.com/reroom-ai/go-backend/internal/repository/pgdb/converter"
	"github.com/reroom-ai/go-backend/internal/usecase"
	"github.com/reroom-ai/go-backend/pkg/e"
	"github.com/reroom-ai/go-backend/pkg/tr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// CatalogItemRepo реализует репозиторий позиций каталога поверх PostgreSQL.
type CatalogItemRepo struct {
	pool *pgxpool.Pool
	conv converter.CatalogItemConverter
}

func NewCatalogItemRepo(pool *pgxpool.Pool, conv converter.CatalogItemConverter) *CatalogItemRepo {
	return &CatalogItemRepo{
		pool: pool,
		conv: conv,
	}
}

// Upsert идемпотентно создаёт или обновляет позицию по уникальной паре (title, source).
// Запись обновляется только при изменении цены, ссылки или ключа изображения.
func (c *CatalogItemRepo) Upsert(ctx context.Context, item *domain.CatalogItem) (*domain.CatalogItem, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	// VALUES ($1, $2, $3, $4, $5) title, price, source, image_url, image_key
	query := `
		WITH upsert AS (
		INSERT INTO catalog_items (title, price, source, image_url, image_key)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (title, source)
		DO UPDATE SET
			price = EXCLUDED.price,
			image_url = EXCLUDED.image_url,
			image_key = EXCLUDED.image_key,
			updated_at = NOW()
		WHERE
			catalog_items.price IS DISTINCT FROM EXCLUDED.price OR
			catalog_items.image_url IS DISTINCT FROM EXCLUDED.image_url OR
			catalog_items.image_key IS DISTINCT FROM EXCLUDED.image_key
		RETURNING
			id, title, price, source, image_url, image_key, created_at, updated_at, is_archived
		)
		SELECT
			id, title, price, source, image_url, image_key, created_at, updated_at, is_archived
		FROM upsert

		UNION ALL

		SELECT
			id, title, price, source, image_url, image_key, created_at, updated_at, is_archived
		FROM catalog_items
		WHERE title = $1 AND source = $3
		  AND NOT EXISTS (SELECT 1 FROM upsert);
	`

	var model converter.CatalogItemModel
	err = tx.QueryRow(ctx, query, item.Title, item.Price, item.Source, item.ImageURL, item.ImageKey).
		Scan(
			&model.ID, &model.Title, &model.Price, &model.Source,
			&model.ImageURL, &model.ImageKey,
			&model.CreatedAt, &model.UpdatedAt, &model.IsArchived,
		)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return c.conv.ToEntity(&model), nil
}

// GetItemsInfo возвращает информацию о позициях каталога по их идентификаторам.
func (c *CatalogItemRepo) GetItemsInfo(ctx context.Context, ids []int64) ([]usecase.CatalogItemInfo, error) {
	query := `
		SELECT id, title, price, source, image_url
		FROM catalog_items
		WHERE id = ANY($1) AND NOT is_archived
	`

	rows, err := c.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.CatalogItemInfo, 0)
	for rows.Next() {
		var item usecase.CatalogItemInfo
		if err := rows.Scan(&item.ID, &item.Title, &item.Price, &item.Source, &item.ImageURL); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}

// postgresDuplicate определяет нарушение уникального ограничения (SQLSTATE 23505).
func postgresDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
