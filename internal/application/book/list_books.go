package book

import (
	"context"

	"github.com/xiebiao/biblioteca/internal/domain/author"
	"github.com/xiebiao/biblioteca/internal/domain/book"
)

// ListBooksUseCase 图书列表查询用例
// 设计说明:
// 1. 支持分页、关键词搜索(标题/ISBN/描述)、分类/作者/状态过滤、排序
// 2. 列表查询不返回description字段(减少数据传输量)
// 3. available=true时只返回当前可借的图书(读者端书架视图)
type ListBooksUseCase struct {
	bookService   book.Service
	authorService author.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service, authorService author.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService:   bookService,
		authorService: authorService,
	}
}

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	Page            int    // 页码(从1开始)
	PageSize        int    // 每页数量
	Keyword         string // 搜索关键词(标题、ISBN、描述)
	CategoryID      *uint  // 按分类过滤
	AuthorID        *uint  // 按作者过滤
	Status          string // 按状态过滤(available/loaned/maintenance/lost)
	Available       bool   // 只看可借
	IncludeInactive bool   // 包含已下架图书(仅管理员视图)
	SortBy          string // 排序方式(title_asc, price_asc, price_desc, rating_desc, published_at_asc, published_at_desc, created_at_desc)
}

// BookListItem 列表项DTO(不含description)
type BookListItem struct {
	ID        uint    `json:"id"`
	ISBN      string  `json:"isbn"`
	Title     string  `json:"title"`
	AuthorID  uint    `json:"author_id"`
	Author    string  `json:"author"`
	Publisher string  `json:"publisher"`
	Price     int64   `json:"price"` // 价格(分)
	Rating    float64 `json:"rating"`
	Stock     int     `json:"stock"`
	Status    string  `json:"status"`
	CoverURL  string  `json:"cover_url"`
	CreatedAt string  `json:"created_at"`
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	List       []BookListItem `json:"list"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// Execute 执行列表查询用例
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	// 1. 参数默认值与范围限制
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20 // 默认每页20条
	}
	if req.PageSize > 100 {
		req.PageSize = 100 // 最大每页100条
	}

	// 2. 构建查询参数
	params := book.ListParams{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Keyword:    req.Keyword,
		CategoryID: req.CategoryID,
		AuthorID:   req.AuthorID,
		Available:  req.Available,
		ActiveOnly: !req.IncludeInactive,
		SortBy:     req.SortBy,
	}
	if req.Status != "" {
		status := book.Status(req.Status)
		if !status.IsValid() {
			return nil, book.ErrInvalidStatus
		}
		params.Status = &status
	}

	// 3. 查询
	books, total, err := uc.bookService.ListBooks(ctx, params)
	if err != nil {
		return nil, err
	}

	// 4. 转换为列表DTO(作者名用memo避免重复查询)
	authorNames := make(map[uint]string)
	list := make([]BookListItem, len(books))
	for i, b := range books {
		name, ok := authorNames[b.AuthorID]
		if !ok {
			if a, err := uc.authorService.GetAuthorByID(ctx, b.AuthorID); err == nil {
				name = a.FullName()
			}
			authorNames[b.AuthorID] = name
		}

		list[i] = BookListItem{
			ID:        b.ID,
			ISBN:      b.ISBN,
			Title:     b.Title,
			AuthorID:  b.AuthorID,
			Author:    name,
			Publisher: b.Publisher,
			Price:     b.Price,
			Rating:    b.Rating,
			Stock:     b.Stock,
			Status:    string(b.Status),
			CoverURL:  b.CoverURL,
			CreatedAt: b.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	// 5. 计算总页数
	totalPages := int((total + int64(req.PageSize) - 1) / int64(req.PageSize))

	return &ListBooksResponse{
		List:       list,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}
