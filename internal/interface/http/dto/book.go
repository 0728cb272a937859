package dto

// 图书模块的HTTP请求DTO。
// 响应结构直接复用应用层DTO(appbook.BookDetail等),它们已带json tag,
// 没必要在这里维护一份同构的结构体。

// RegisterBookRequest HTTP图书登记请求
// validator tag说明:
// - required: 必填字段
// - min/max: 数值范围校验
// - omitempty: 可选字段,填了才校验
type RegisterBookRequest struct {
	ISBN        string  `json:"isbn" binding:"required" example:"9787115428028"`
	Title       string  `json:"title" binding:"required,max=200" example:"百年孤独"`
	Subtitle    string  `json:"subtitle" binding:"max=200" example:""`
	AuthorID    uint    `json:"author_id" binding:"required" example:"1"`
	CategoryID  *uint   `json:"category_id" binding:"omitempty" example:"2"`
	Publisher   string  `json:"publisher" binding:"max=100" example:"南海出版公司"`
	PublishedAt string  `json:"published_at" binding:"omitempty" example:"2011-06-01"`
	PageCount   int     `json:"page_count" binding:"min=0" example:"360"`
	Language    string  `json:"language" binding:"max=20" example:"zh"`
	Price       int64   `json:"price" binding:"required,min=1,max=999999" example:"3950"` // 价格(分),39.50元
	Rating      float64 `json:"rating" binding:"min=0,max=5" example:"4.8"`
	Stock       int     `json:"stock" binding:"min=0" example:"10"`
	CoverURL    string  `json:"cover_url" binding:"omitempty,url,max=500" example:"https://example.com/cover.jpg"`
	Description string  `json:"description" binding:"max=5000" example:"魔幻现实主义文学代表作"`
}

// UpdateBookRequest HTTP图书更新请求
// 零值字段不更新;价格和评分用指针区分"不改"和"改成0"
type UpdateBookRequest struct {
	Title       string   `json:"title" binding:"omitempty,max=200" example:"百年孤独"`
	Subtitle    string   `json:"subtitle" binding:"omitempty,max=200" example:""`
	Publisher   string   `json:"publisher" binding:"omitempty,max=100" example:"南海出版公司"`
	Language    string   `json:"language" binding:"omitempty,max=20" example:"zh"`
	Description string   `json:"description" binding:"omitempty,max=5000" example:""`
	CoverURL    string   `json:"cover_url" binding:"omitempty,url,max=500" example:""`
	Price       *int64   `json:"price" binding:"omitempty,min=1,max=999999" example:"3950"`
	Rating      *float64 `json:"rating" binding:"omitempty,min=0,max=5" example:"4.8"`
	Active      *bool    `json:"active" binding:"omitempty" example:"true"` // 上架/下架
}

// ListBooksRequest HTTP图书列表请求(query参数)
type ListBooksRequest struct {
	Page            int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize        int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword         string `form:"keyword" binding:"omitempty,max=100" example:"孤独"`
	CategoryID      *uint  `form:"category_id" binding:"omitempty" example:"2"`
	AuthorID        *uint  `form:"author_id" binding:"omitempty" example:"1"`
	Status          string `form:"status" binding:"omitempty,oneof=available loaned maintenance lost" example:"available"`
	Available       bool   `form:"available" binding:"omitempty" example:"true"`         // 只看可借(有库存且available)
	IncludeInactive bool   `form:"include_inactive" binding:"omitempty" example:"false"` // 包含已下架(仅管理员生效)
	SortBy          string `form:"sort_by" binding:"omitempty,oneof=title_asc price_asc price_desc rating_desc published_at_asc published_at_desc created_at_desc" example:"created_at_desc"`
}

// AdjustStockRequest HTTP库存调整请求
// delta为正表示入库,为负表示出库/盘亏;status可同时设置图书状态
type AdjustStockRequest struct {
	Delta  int     `json:"delta" binding:"omitempty" example:"5"` // 0表示仅改状态
	Status *string `json:"status" binding:"omitempty,oneof=available maintenance lost" example:"maintenance"`
}

// ImportBookRequest HTTP按ISBN导入请求
// 元数据来自Google Books,价格和库存由管理员补齐
type ImportBookRequest struct {
	ISBN       string `json:"isbn" binding:"required" example:"9780307474728"`
	CategoryID *uint  `json:"category_id" binding:"omitempty" example:"2"`
	Price      int64  `json:"price" binding:"required,min=1,max=999999" example:"5200"`
	Stock      int    `json:"stock" binding:"min=0" example:"3"`
}
