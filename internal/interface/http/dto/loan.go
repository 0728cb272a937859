package dto

// 借阅模块的HTTP请求DTO。

// CreateLoanRequest HTTP借阅请求
// due_at不填时默认借期14天;格式为"2006-01-02 15:04:05"
type CreateLoanRequest struct {
	BookID uint   `json:"book_id" binding:"required" example:"1"`
	DueAt  string `json:"due_at" binding:"omitempty" example:"2026-09-12 18:00:00"`
	Notes  string `json:"notes" binding:"max=500" example:"馆际互借"`
}

// ListLoansRequest HTTP借阅列表请求(query参数)
// status=overdue是查询视图:逾期不是存储状态,由due_at和当前时间推导
type ListLoansRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	UserID   *uint  `form:"user_id" binding:"omitempty" example:"1"`
	BookID   *uint  `form:"book_id" binding:"omitempty" example:"1"`
	Status   string `form:"status" binding:"omitempty,oneof=active returned lost overdue" example:"active"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=loaned_at_desc due_at_asc" example:"loaned_at_desc"`
}
