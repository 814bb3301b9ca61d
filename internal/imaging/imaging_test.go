package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/reroom-ai/go-backend/internal/domain"
	"github.com/reroom-ai/go-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleJPEG кодирует одноцветное изображение заданного размера.
func sampleJPEG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}

	data, err := EncodeJPEG(img)
	require.NoError(t, err)
	return data
}

func TestDetectImageMIME_KnownFormats(t *testing.T) {
	jpegData := sampleJPEG(t, 8, 8)
	assert.Equal(t, "image/jpeg", DetectImageMIME(jpegData))

	pngHeader := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	assert.Equal(t, "image/png", DetectImageMIME(pngHeader))

	webpHeader := append([]byte("RIFF"), 0x24, 0x00, 0x00, 0x00)
	webpHeader = append(webpHeader, []byte("WEBPVP8 ")...)
	assert.Equal(t, "image/webp", DetectImageMIME(webpHeader))

	assert.Equal(t, "image/gif", DetectImageMIME([]byte("GIF87a\x01\x00\x01\x00")))
}

func TestDetectImageMIME_FallbackOnGarbage(t *testing.T) {
	assert.Equal(t, "image/png", DetectImageMIME(nil))
	assert.Equal(t, "image/png", DetectImageMIME([]byte{}))
	assert.Equal(t, "image/png", DetectImageMIME([]byte{0x00, 0x01, 0x02, 0x03}))
}

func TestDataURI_RoundTrip(t *testing.T) {
	payloads := [][]byte{
		sampleJPEG(t, 4, 4),
		{0xDE, 0xAD, 0xBE, 0xEF},
		[]byte("not an image at all"),
	}

	for _, payload := range payloads {
		uri := DataURI(payload)
		decoded, err := DecodeDataURI(uri)
		require.NoError(t, err)
		assert.Equal(t, payload, decoded)
	}
}

func TestDataURI_MIMEMatchesContent(t *testing.T) {
	jpegData := sampleJPEG(t, 4, 4)
	assert.Contains(t, DataURI(jpegData), "data:image/jpeg;base64,")

	// Нераспознанные байты получают fallback, а не жёстко зашитый тип
	assert.Contains(t, DataURI([]byte{0x01, 0x02}), "data:image/png;base64,")
}

func TestDecodeDataURI_BareBase64(t *testing.T) {
	decoded, err := DecodeDataURI("aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), decoded)
}

func TestDecodeDataURI_Invalid(t *testing.T) {
	_, err := DecodeDataURI("")
	assert.ErrorIs(t, err, e.ErrMissingImageData)

	_, err = DecodeDataURI("data:image/png,no-base64-marker")
	assert.ErrorIs(t, err, e.ErrInvalidImageData)

	_, err = DecodeDataURI("data:image/png;base64,%%%")
	assert.ErrorIs(t, err, e.ErrInvalidImageData)
}

func TestCrop_ClampsToBounds(t *testing.T) {
	data := sampleJPEG(t, 50, 40)
	img, err := Decode(data)
	require.NoError(t, err)

	// Рамка частично выходит за границы: обрезается молча
	cropped, err := Crop(img, domain.NewCropBox(30, 20, 100, 100))
	require.NoError(t, err)
	assert.Equal(t, 20, cropped.Bounds().Dx())
	assert.Equal(t, 20, cropped.Bounds().Dy())
}

func TestCrop_RejectsInvalidBoxes(t *testing.T) {
	data := sampleJPEG(t, 50, 40)
	img, err := Decode(data)
	require.NoError(t, err)

	_, err = Crop(img, domain.NewCropBox(0, 0, 0, 10))
	assert.ErrorIs(t, err, e.ErrCropNotPositive)

	_, err = Crop(img, domain.NewCropBox(10, 10, -5, 5))
	assert.ErrorIs(t, err, e.ErrCropNotPositive)

	// Рамка целиком вне изображения
	_, err = Crop(img, domain.NewCropBox(500, 500, 10, 10))
	assert.ErrorIs(t, err, e.ErrInvalidCropBox)
}

func TestLetterbox_AlwaysSquare(t *testing.T) {
	wide := image.NewRGBA(image.Rect(0, 0, 100, 20))
	tall := image.NewRGBA(image.Rect(0, 0, 20, 100))

	for _, src := range []image.Image{wide, tall} {
		dst := Letterbox(src, LetterboxSize)
		assert.Equal(t, LetterboxSize, dst.Bounds().Dx())
		assert.Equal(t, LetterboxSize, dst.Bounds().Dy())
	}
}

func TestLetterbox_PadsWithWhite(t *testing.T) {
	// Широкое чёрное изображение: сверху и снизу должны остаться белые поля
	src := image.NewRGBA(image.Rect(0, 0, 100, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 100; x++ {
			src.Set(x, y, color.Black)
		}
	}

	dst := Letterbox(src, LetterboxSize)
	r, g, b, _ := dst.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xFFFF), r)
	assert.Equal(t, uint32(0xFFFF), g)
	assert.Equal(t, uint32(0xFFFF), b)
}

func TestDecode_JPEGRoundTrip(t *testing.T) {
	data := sampleJPEG(t, 16, 16)
	img, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode([]byte("definitely not an image"))
	assert.Error(t, err)
}
