package http

import (
	"encoding/json"
	"net/http"

	"github.com/reroom-ai/go-backend/internal/domain"
	"github.com/reroom-ai/go-backend/internal/imaging"
	"github.com/reroom-ai/go-backend/internal/usecase"
	"github.com/reroom-ai/go-backend/pkg/e"
	"github.com/reroom-ai/go-backend/pkg/logger"
)

type SearchHandler struct {
	searchUsecase usecase.SearchUC
	logger        logger.Logger
}

func NewSearchHandler(searchUsecase usecase.SearchUC, logger logger.Logger) *SearchHandler {
	return &SearchHandler{searchUsecase: searchUsecase, logger: logger}
}

type cropBoxRequest struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type searchFurnitureRequest struct {
	ImageData string         `json:"image_data"`
	Box       cropBoxRequest `json:"box"`
	TopK      uint64         `json:"top_k"`
}

type searchResultResponse struct {
	Score       float32 `json:"score"`
	Title       string  `json:"title"`
	Price       string  `json:"price"`
	Source      string  `json:"source"`
	ImageURL    string  `json:"image_url"`
	SearchQuery string  `json:"search_query"`
}

type searchFurnitureResponse struct {
	Results []searchResultResponse `json:"results"`
}

// searchFurniture
//
//	@Summary		Поиск похожей мебели
//	@Description	Ищет позиции каталога, визуально похожие на фрагмент изображения
//	@Tags			search
//	@Accept			json
//	@Produce		json
//	@Param			request	body		searchFurnitureRequest	true	"Изображение (data URI), рамка и top_k"
//	@Success		200		{object}	searchFurnitureResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		503		{object}	ErrorResponse	"Поиск не сконфигурирован"
//	@Router			/search-furniture [post]
func (s *SearchHandler) searchFurniture(w http.ResponseWriter, r *http.Request) {
	var body searchFurnitureRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrStatusBadRequest)
		return
	}

	if body.ImageData == "" {
		WriteError(w, e.ErrMissingImageData)
		return
	}

	imageData, err := imaging.DecodeDataURI(body.ImageData)
	if err != nil {
		s.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, e.ErrInvalidImageData)
		return
	}

	box := domain.CropBox{
		X:      body.Box.X,
		Y:      body.Box.Y,
		Width:  body.Box.Width,
		Height: body.Box.Height,
	}

	results, err := s.searchUsecase.SearchFurniture(r.Context(), usecase.NewSearchFurnitureReq(imageData, box, body.TopK))
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	response := searchFurnitureResponse{Results: make([]searchResultResponse, 0, len(results))}
	for _, result := range results {
		response.Results = append(response.Results, searchResultResponse{
			Score:       result.Score,
			Title:       result.Title,
			Price:       result.Price,
			Source:      result.Source,
			ImageURL:    result.ImageURL,
			SearchQuery: result.SearchQuery,
		})
	}

	WriteSuccess(w, http.StatusOK, response)
}
