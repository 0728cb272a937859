package loan

import (
	"context"
	"time"

	"github.com/xiebiao/biblioteca/internal/domain/loan"
)

// ListLoansUseCase 借阅列表查询用例
// 设计说明:
// 1. 读者只能查自己的借阅(handler层强制UserID);管理员可按任意条件查
// 2. status=overdue是查询视图,不是落库状态:按active+due_at过滤
// 3. 每条记录附带is_overdue字段,实时推导
type ListLoansUseCase struct {
	loanRepo loan.Repository
}

// NewListLoansUseCase 创建借阅列表用例
func NewListLoansUseCase(loanRepo loan.Repository) *ListLoansUseCase {
	return &ListLoansUseCase{loanRepo: loanRepo}
}

// ListLoansRequest 借阅列表请求DTO
type ListLoansRequest struct {
	Page     int
	PageSize int
	UserID   *uint  // 按借阅人过滤
	BookID   *uint  // 按图书过滤
	Status   string // active | returned | lost | overdue(查询视图)
	SortBy   string // loaned_at_desc | due_at_asc
}

// LoanListItem 借阅列表项DTO
type LoanListItem struct {
	ID         uint   `json:"id"`
	UserID     uint   `json:"user_id"`
	BookID     uint   `json:"book_id"`
	LoanedAt   string `json:"loaned_at"`
	DueAt      string `json:"due_at"`
	ReturnedAt string `json:"returned_at,omitempty"`
	Status     string `json:"status"`
	IsOverdue  bool   `json:"is_overdue"`
	Notes      string `json:"notes,omitempty"`
}

// ListLoansResponse 借阅列表响应DTO
type ListLoansResponse struct {
	List     []LoanListItem `json:"list"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// Execute 执行借阅列表查询
func (uc *ListLoansUseCase) Execute(ctx context.Context, req ListLoansRequest) (*ListLoansResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	params := loan.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		UserID:   req.UserID,
		BookID:   req.BookID,
		SortBy:   req.SortBy,
	}

	// status解析:overdue是查询视图,映射为active+逾期过滤
	switch req.Status {
	case "":
		// 不过滤
	case "overdue":
		params.OverdueOnly = true
		if params.SortBy == "" {
			params.SortBy = "due_at_asc" // 逾期最久的在前
		}
	default:
		status := loan.Status(req.Status)
		if !status.IsValid() {
			return nil, loan.ErrInvalidStatusFilter
		}
		params.Status = &status
	}

	loans, total, err := uc.loanRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	list := make([]LoanListItem, len(loans))
	for i, l := range loans {
		item := LoanListItem{
			ID:        l.ID,
			UserID:    l.UserID,
			BookID:    l.BookID,
			LoanedAt:  l.LoanedAt.Format("2006-01-02 15:04:05"),
			DueAt:     l.DueAt.Format("2006-01-02 15:04:05"),
			Status:    string(l.Status),
			IsOverdue: l.IsOverdue(now),
			Notes:     l.Notes,
		}
		if l.ReturnedAt != nil {
			item.ReturnedAt = l.ReturnedAt.Format("2006-01-02 15:04:05")
		}
		list[i] = item
	}

	return &ListLoansResponse{
		List:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}
