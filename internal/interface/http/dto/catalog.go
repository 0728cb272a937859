package dto

// 分类与作者模块的HTTP请求DTO。

// CategoryRequest HTTP分类创建/更新请求
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=50" example:"文学"`
	Description string `json:"description" binding:"max=500" example:"小说、诗歌、散文"`
	Active      *bool  `json:"active" binding:"omitempty" example:"true"` // 仅更新时有意义
}

// AuthorRequest HTTP作者创建/更新请求
// birthdate格式为YYYY-MM-DD,空字符串表示未知
type AuthorRequest struct {
	FirstName string `json:"first_name" binding:"required,max=50" example:"Gabriel"`
	LastName  string `json:"last_name" binding:"required,max=50" example:"García Márquez"`
	Birthdate string `json:"birthdate" binding:"omitempty" example:"1927-03-06"`
	Country   string `json:"country" binding:"max=50" example:"Colombia"`
	Biography string `json:"biography" binding:"max=5000" example:""`
	PhotoURL  string `json:"photo_url" binding:"omitempty,url" example:""`
}

// ListCatalogRequest 分类/作者列表的通用query参数
type ListCatalogRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"García"`
}
