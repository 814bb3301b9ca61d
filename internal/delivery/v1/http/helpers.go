package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/reroom-ai/go-backend/internal/imaging"
	"github.com/reroom-ai/go-backend/internal/usecase"
	"github.com/reroom-ai/go-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrNoFile):
		return http.StatusBadRequest, e.ErrNoFile.Error()
	case errors.Is(err, e.ErrEmptyFile):
		return http.StatusBadRequest, e.ErrEmptyFile.Error()
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusBadRequest, e.ErrFileTooLarge.Error()
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusBadRequest, e.ErrUnsupportedMediaType.Error()
	case errors.Is(err, e.ErrMissingImageData):
		return http.StatusBadRequest, e.ErrMissingImageData.Error()
	case errors.Is(err, e.ErrInvalidImageData):
		return http.StatusBadRequest, e.ErrInvalidImageData.Error()
	case errors.Is(err, e.ErrMissingPrompt):
		return http.StatusBadRequest, e.ErrMissingPrompt.Error()
	case errors.Is(err, e.ErrInvalidCropBox):
		return http.StatusBadRequest, e.ErrInvalidCropBox.Error()
	case errors.Is(err, e.ErrCropNotPositive):
		return http.StatusBadRequest, e.ErrCropNotPositive.Error()
	case errors.Is(err, e.ErrMissingFields):
		return http.StatusBadRequest, e.ErrMissingFields.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrPricePrecision):
		return http.StatusBadRequest, e.ErrPricePrecision.Error()
	case errors.Is(err, e.ErrNoIDs):
		return http.StatusBadRequest, e.ErrNoIDs.Error()
	case errors.Is(err, e.ErrSearchUnavailable):
		return http.StatusServiceUnavailable, e.ErrSearchUnavailable.Error()
	case errors.Is(err, e.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable, e.ErrCatalogUnavailable.Error()
	// Сбой конкретного шага генерации: клиент видит какой шаг упал, но не детали
	case errors.Is(err, e.ErrEmptyRoomFailed):
		return http.StatusInternalServerError, e.ErrEmptyRoomFailed.Error()
	case errors.Is(err, e.ErrDesignFailed):
		return http.StatusInternalServerError, e.ErrDesignFailed.Error()
	case errors.Is(err, e.ErrRefineFailed):
		return http.StatusInternalServerError, e.ErrRefineFailed.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parseBoolFlag распознаёт флаг формы: "true", "1" и "yes" без учёта регистра.
func parseBoolFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// parsePriceToCents конвертирует строку вида "599.99" или "600" в центы (int64).
// Отклоняет отрицательные значения, более двух знаков после запятой
// и цены свыше миллиарда.
func parsePriceToCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, errors.New("price is empty")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidPrice
	}

	maxPrice := decimal.NewFromInt(1_000_000_000).Mul(decimal.NewFromInt(100))
	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 {
		return 0, e.ErrPricePrecision
	}

	cents := d.Mul(decimal.NewFromInt(100)).Round(0)

	return cents.IntPart(), nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

// parseImageFile читает загруженный файл и определяет его фактический формат
// по содержимому, а не по заявленному клиентом content-type.
func parseImageFile(files []*multipart.FileHeader) (*usecase.ImageUpload, error) {
	const maxFileSize = 15 << 20

	if len(files) == 0 {
		return nil, e.ErrNoFile
	}

	fh := files[0]
	data, err := readFile(fh, maxFileSize)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, e.ErrEmptyFile
	}

	mimeType := imaging.DetectImageMIME(data)

	return usecase.NewImageUpload(data, mimeType, int64(len(data)), fh.Filename), nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	return data, nil
}
