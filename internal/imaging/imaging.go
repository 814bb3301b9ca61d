// Package imaging содержит преобразования изображений для обмена с фронтендом
// и подготовки входа модели векторизации: определение формата, data URI,
// кадрирование и letterbox-нормализацию.
package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png" // регистрация PNG-декодера для image.Decode
	"net/http"
	"strings"

	"github.com/jimlawless/whereami"
	"github.com/reroom-ai/go-backend/internal/domain"
	"github.com/reroom-ai/go-backend/pkg/e"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// LetterboxSize — размер квадрата, который ожидает модель векторизации.
const LetterboxSize = 224

// DetectImageMIME определяет MIME-тип изображения по содержимому.
// Для нераспознанных и пустых данных возвращает безопасный fallback image/png;
// заявленному клиентом Content-Type доверять нельзя.
func DetectImageMIME(data []byte) string {
	const fallback = "image/png"

	if len(data) == 0 {
		return fallback
	}

	sniffed := http.DetectContentType(data[:min(len(data), 512)])
	switch sniffed {
	case "image/jpeg", "image/png", "image/webp", "image/gif":
		return sniffed
	default:
		return fallback
	}
}

// DataURI кодирует изображение в base64 data URI с MIME-типом,
// определённым по фактическому содержимому.
func DataURI(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	mimeType := DetectImageMIME(data)
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI возвращает исходные байты из data URI, пришедшего с фронтенда.
// Строка без префикса data: трактуется как чистый base64.
func DecodeDataURI(uri string) ([]byte, error) {
	if uri == "" {
		return nil, e.ErrMissingImageData
	}

	payload := uri
	if strings.HasPrefix(uri, "data:") {
		idx := strings.Index(uri, ";base64,")
		if idx < 0 {
			return nil, e.ErrInvalidImageData
		}
		payload = uri[idx+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrInvalidImageData)
	}

	return data, nil
}

// Decode декодирует JPEG/PNG/WebP в image.Image.
func Decode(data []byte) (image.Image, error) {
	switch DetectImageMIME(data) {
	case "image/webp":
		return webp.Decode(bytes.NewReader(data))
	default:
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		return img, nil
	}
}

// EncodeJPEG пере-кодирует изображение в JPEG (RGB) для передачи по сети.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return buf.Bytes(), nil
}

// Crop вырезает прямоугольник box из изображения, обрезая его по границам источника.
func Crop(img image.Image, box domain.CropBox) (image.Image, error) {
	if err := box.Validate(); err != nil {
		return nil, err
	}

	rect := image.Rect(box.X, box.Y, box.X+box.Width, box.Y+box.Height)
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return nil, e.ErrInvalidCropBox
	}

	cropped := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(cropped, cropped.Bounds(), img, rect.Min, draw.Src)

	return cropped, nil
}

// Letterbox вписывает изображение в квадрат size x size с сохранением
// пропорций, заполняя остаток белым.
func Letterbox(img image.Image, size int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	srcW := img.Bounds().Dx()
	srcH := img.Bounds().Dy()
	if srcW == 0 || srcH == 0 {
		return dst
	}

	scale := float64(size) / float64(srcW)
	if h := float64(size) / float64(srcH); h < scale {
		scale = h
	}

	dstW := int(float64(srcW) * scale)
	dstH := int(float64(srcH) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	offsetX := (size - dstW) / 2
	offsetY := (size - dstH) / 2
	target := image.Rect(offsetX, offsetY, offsetX+dstW, offsetY+dstH)

	draw.ApproxBiLinear.Scale(dst, target, img, img.Bounds(), draw.Over, nil)

	return dst
}
