package http

import (
	_ "github.com/reroom-ai/go-backend/docs" // Импорт сгенерированных файлов
	"github.com/reroom-ai/go-backend/internal/usecase"
	"github.com/reroom-ai/go-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// Init регистрирует маршруты API. catalogUC может быть nil —
// тогда маршруты каталога отвечают 503.
func (r *Router) Init(designUC usecase.DesignUC, searchUC usecase.SearchUC, catalogUC usecase.CatalogUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		designHandler := NewDesignHandler(designUC, r.logger)
		registerDesignRoutes(v1, designHandler)

		searchHandler := NewSearchHandler(searchUC, r.logger)
		registerSearchRoutes(v1, searchHandler)

		catalogHandler := NewCatalogHandler(catalogUC, r.logger)
		registerCatalogRoutes(v1, catalogHandler)
	})
}

func registerDesignRoutes(router chi.Router, designHandler *DesignHandler) {
	router.Post("/redesign", designHandler.redesign)
	router.Post("/refine", designHandler.refine)
}

func registerSearchRoutes(router chi.Router, searchHandler *SearchHandler) {
	router.Post("/search-furniture", searchHandler.searchFurniture)
}

func registerCatalogRoutes(router chi.Router, catalogHandler *CatalogHandler) {
	router.Route("/catalog/items", func(ci chi.Router) {
		ci.Post("/", catalogHandler.addItem)
		ci.Get("/", catalogHandler.getItemsInfo)
	})
}
