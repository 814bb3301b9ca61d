package converter

type CatalogItemRedisModel struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Price    int64  `json:"price"`
	Source   string `json:"source"`
	ImageURL string `json:"image_url"`
}
