package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/reroom-ai/go-backend/internal/usecase"
	"github.com/reroom-ai/go-backend/pkg/e"
	"github.com/reroom-ai/go-backend/pkg/logger"
)

// CatalogHandler обслуживает административный ингест каталога.
// catalogUsecase может быть nil, если подсистема каталога выключена.
type CatalogHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase, logger: logger}
}

type addItemResponse struct {
	ItemID  int64  `json:"item_id"`
	EventID string `json:"event_id"`
}

type catalogItemResponse struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Price    int64  `json:"price"`
	Source   string `json:"source"`
	ImageURL string `json:"image_url"`
}

type getItemsResponse struct {
	Items         []catalogItemResponse `json:"items"`
	NotFoundItems []int64               `json:"not_found_items"`
}

// addItem
//
//	@Summary		Добавление позиции каталога
//	@Description	Создаёт позицию каталога с референсным изображением и вектором
//	@Tags			catalog
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			title		formData	string	true	"Название позиции"
//	@Param			price		formData	number	true	"Цена"
//	@Param			source		formData	string	true	"Источник (магазин)"
//	@Param			image_url	formData	string	false	"Публичная ссылка на изображение"
//	@Param			image		formData	file	true	"Референсное изображение"
//	@Success		201			{object}	addItemResponse
//	@Failure		400			{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		503			{object}	ErrorResponse	"Каталог не сконфигурирован"
//	@Router			/catalog/items [post]
func (c *CatalogHandler) addItem(w http.ResponseWriter, r *http.Request) {
	const (
		maxTotalRequestSize = 50 << 20
		maxMemory           = 32 << 20
	)

	if c.catalogUsecase == nil {
		WriteError(w, e.ErrCatalogUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTotalRequestSize)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		c.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), r.Header.Get("Content-Type"))
		WriteError(w, err)
		return
	}

	title := r.FormValue("title")
	source := r.FormValue("source")
	priceStr := r.FormValue("price")
	if title == "" || source == "" || priceStr == "" {
		WriteError(w, e.ErrMissingFields)
		return
	}

	price, err := parsePriceToCents(priceStr)
	if err != nil {
		c.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	image, err := parseImageFile(r.MultipartForm.File["image"])
	if err != nil {
		c.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	req := usecase.NewAddCatalogItemReq(title, price, source, r.FormValue("image_url"), *image)

	res, err := c.catalogUsecase.AddItem(r.Context(), req)
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, addItemResponse{
		ItemID:  res.ItemID,
		EventID: res.EventID,
	})
}

// getItemsInfo
//
//	@Summary		Информация о позициях каталога
//	@Description	Возвращает данные позиций по списку идентификаторов
//	@Tags			catalog
//	@Produce		json
//	@Param			ids	query		string	true	"Идентификаторы через запятую"
//	@Success		200	{object}	getItemsResponse
//	@Failure		400	{object}	ErrorResponse	"Ошибка валидации"
//	@Failure		503	{object}	ErrorResponse	"Каталог не сконфигурирован"
//	@Router			/catalog/items [get]
func (c *CatalogHandler) getItemsInfo(w http.ResponseWriter, r *http.Request) {
	if c.catalogUsecase == nil {
		WriteError(w, e.ErrCatalogUnavailable)
		return
	}

	ids, err := parseIDs(r.URL.Query().Get("ids"))
	if err != nil {
		c.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	res, err := c.catalogUsecase.GetItemsInfo(r.Context(), usecase.NewGetItemsReq(ids))
	if err != nil {
		c.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	response := getItemsResponse{
		Items:         make([]catalogItemResponse, 0, len(res.Items)),
		NotFoundItems: res.NotFoundItems,
	}
	for _, item := range res.Items {
		response.Items = append(response.Items, catalogItemResponse{
			ID:       item.ID,
			Title:    item.Title,
			Price:    item.Price,
			Source:   item.Source,
			ImageURL: item.ImageURL,
		})
	}

	WriteSuccess(w, http.StatusOK, response)
}

// parseIDs разбирает список идентификаторов из query-параметра "1,2,3".
func parseIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, e.ErrNoIDs
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, e.Wrap(part, e.ErrStatusBadRequest)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
