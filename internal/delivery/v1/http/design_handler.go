package http

import (
	"encoding/json"
	"net/http"

	"github.com/reroom-ai/go-backend/internal/imaging"
	"github.com/reroom-ai/go-backend/internal/usecase"
	"github.com/reroom-ai/go-backend/pkg/e"
	"github.com/reroom-ai/go-backend/pkg/logger"
)

const (
	defaultStyle    = "Nordic"
	defaultRoomType = "Living Room"
)

type DesignHandler struct {
	designUsecase usecase.DesignUC
	logger        logger.Logger
}

func NewDesignHandler(designUsecase usecase.DesignUC, logger logger.Logger) *DesignHandler {
	return &DesignHandler{designUsecase: designUsecase, logger: logger}
}

type redesignResponse struct {
	OriginalImage string `json:"original_image"`
	EmptyImage    string `json:"empty_image"`
	FinalImage    string `json:"final_image"`
}

type refineRequest struct {
	ImageData string `json:"image_data"`
	Prompt    string `json:"prompt"`
}

type refineResponse struct {
	RefinedImage string `json:"refined_image"`
}

// redesign
//
//	@Summary		Редизайн комнаты
//	@Description	Генерирует новый интерьер по фотографии комнаты
//	@Tags			design
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image					formData	file	true	"Фото комнаты (JPEG/PNG/WebP)"
//	@Param			style					formData	string	false	"Стиль интерьера (по умолчанию Nordic)"
//	@Param			room_type				formData	string	false	"Тип комнаты (по умолчанию Living Room)"
//	@Param			additional_instructions	formData	string	false	"Свободные пожелания"
//	@Param			empty_then_generate		formData	string	false	"Сначала очистить комнату: true/1/yes"
//	@Success		200						{object}	redesignResponse
//	@Failure		400						{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/redesign [post]
func (d *DesignHandler) redesign(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 50 << 20
		maxMemory           = 32 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		d.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	image, err := parseImageFile(r.MultipartForm.File["image"])
	if err != nil {
		d.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	style := r.FormValue("style")
	if style == "" {
		style = defaultStyle
	}
	roomType := r.FormValue("room_type")
	if roomType == "" {
		roomType = defaultRoomType
	}

	req := usecase.NewRedesignReq(
		*image,
		style,
		roomType,
		r.FormValue("additional_instructions"),
		parseBoolFlag(r.FormValue("empty_then_generate")),
	)

	res, err := d.designUsecase.Redesign(r.Context(), req)
	if err != nil {
		d.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, redesignResponse{
		OriginalImage: res.OriginalImage,
		EmptyImage:    res.EmptyImage,
		FinalImage:    res.FinalImage,
	})
}

// refine
//
//	@Summary		Доработка изображения
//	@Description	Применяет одно текстовое изменение к существующему изображению
//	@Tags			design
//	@Accept			json
//	@Produce		json
//	@Param			request	body		refineRequest	true	"Изображение (data URI) и инструкция"
//	@Success		200		{object}	refineResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/refine [post]
func (d *DesignHandler) refine(w http.ResponseWriter, r *http.Request) {
	var body refineRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		d.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	if body.ImageData == "" {
		WriteError(w, e.ErrMissingImageData)
		return
	}

	imageData, err := imaging.DecodeDataURI(body.ImageData)
	if err != nil {
		d.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrInvalidImageData)
		return
	}

	res, err := d.designUsecase.Refine(r.Context(), usecase.NewRefineReq(imageData, body.Prompt))
	if err != nil {
		d.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, refineResponse{RefinedImage: res.RefinedImage})
}
