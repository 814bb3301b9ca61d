package domain

import (
	"math"
	"time"
)

// EmbeddingSize — размерность векторов, которые отдаёт эндпоинт векторизации
// и которые хранятся в коллекции Qdrant.
const EmbeddingSize = 512

// Payload описывает дополнительную информацию вектора
type Payload map[string]any

// Embedding представляет эмбеддинг одного изображения
type Embedding struct {
	ID      string
	Vector  []float32
	Payload Payload
}

func NewEmbedding(id string, vector []float32, payload Payload) *Embedding {
	return &Embedding{
		ID:      id,
		Vector:  vector,
		Payload: payload,
	}
}

// NewItemPayload собирает payload точки каталога: метаданные,
// которые поисковая выдача возвращает пользователю как есть.
func NewItemPayload(itemID int64, title, price, source, imageURL, imageKey string) Payload {
	return Payload{
		"item_id":    itemID,
		"title":      title,
		"price":      price,
		"source":     source,
		"image_url":  imageURL,
		"image_key":  imageKey,
		"created_at": time.Now().UTC().UnixNano(),
	}
}

// ScoredPoint — результат поиска ближайших соседей в векторном хранилище.
type ScoredPoint struct {
	Score   float32
	Payload Payload
}

// NormalizeVector приводит вектор к единичной длине (L2).
// Малое эпсилон в знаменателе защищает от деления на ноль.
func NormalizeVector(vector []float32) []float32 {
	const epsilon = 1e-8

	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum) + epsilon

	normalized := make([]float32, len(vector))
	for i, v := range vector {
		normalized[i] = float32(float64(v) / norm)
	}

	return normalized
}
