package domain

import "github.com/reroom-ai/go-backend/pkg/e"

// CropBox — прямоугольник выделения в пиксельных координатах исходного изображения.
type CropBox struct {
	X      int
	Y      int
	Width  int
	Height int
}

func NewCropBox(x, y, width, height int) CropBox {
	return CropBox{X: x, Y: y, Width: width, Height: height}
}

// Validate проверяет, что выделение имеет положительные размеры.
// Выход за границы изображения не считается ошибкой: прямоугольник
// будет обрезан по границам при самом кадрировании.
func (c CropBox) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return e.ErrCropNotPositive
	}
	return nil
}
