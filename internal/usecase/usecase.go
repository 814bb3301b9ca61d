package usecase

import "context"

type DesignUC interface {
	Redesign(ctx context.Context, req *RedesignReq) (*RedesignRes, error)
	Refine(ctx context.Context, req *RefineReq) (*RefineRes, error)
}

type SearchUC interface {
	SearchFurniture(ctx context.Context, req *SearchFurnitureReq) ([]SearchResult, error)
}

type CatalogUC interface {
	AddItem(ctx context.Context, req *AddCatalogItemReq) (*AddCatalogItemRes, error)
	GetItemsInfo(ctx context.Context, req *GetItemsReq) (*GetItemsRes, error)
}
