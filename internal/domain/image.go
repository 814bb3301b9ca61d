package domain

// ImageBlob описывает бинарное изображение с определённым по содержимому MIME-типом.
// Живет только в рамках одного запроса и нигде не сохраняется.
type ImageBlob struct {
	Data     []byte
	MimeType string
}

func NewImageBlob(data []byte, mimeType string) *ImageBlob {
	return &ImageBlob{
		Data:     data,
		MimeType: mimeType,
	}
}
