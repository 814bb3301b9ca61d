package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Внутренние ошибки с векторами
	ErrEmbedderNotConfigured = fmt.Errorf("embedding endpoint is not configured")
	ErrEmbeddingShape        = fmt.Errorf("embedding shape unexpected")
	ErrVectorEmbeddingEmpty  = fmt.Errorf("vector embedding is empty")

	// Ошибки генерации: какой именно шаг workflow упал
	ErrEmptyRoomFailed = fmt.Errorf("failed to empty room")
	ErrDesignFailed    = fmt.Errorf("failed to design room")
	ErrRefineFailed    = fmt.Errorf("failed to refine")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrNoFile               = fmt.Errorf("no file uploaded")
	ErrEmptyFile            = fmt.Errorf("empty file")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrMissingImageData     = fmt.Errorf("missing image data")
	ErrInvalidImageData     = fmt.Errorf("invalid image")
	ErrMissingPrompt        = fmt.Errorf("missing prompt")
	ErrInvalidCropBox       = fmt.Errorf("invalid crop box")
	ErrCropNotPositive      = fmt.Errorf("crop dimensions must be positive")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrNoIDs                = fmt.Errorf("no item ids provided")

	// 503 Service Unavailable
	ErrSearchUnavailable  = fmt.Errorf("search service not initialized")
	ErrCatalogUnavailable = fmt.Errorf("catalog service not initialized")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")

	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
