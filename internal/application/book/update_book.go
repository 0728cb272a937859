package book

import (
	"context"

	"github.com/xiebiao/biblioteca/internal/domain/book"
)

// UpdateBookUseCase 图书信息更新用例(管理端)
// 设计说明:
// 1. 基本信息、价格、评分分别走不同的领域服务方法(空值表示不更新)
// 2. 库存调整不在此用例:走AdjustStockUseCase(需要行锁)
type UpdateBookUseCase struct {
	bookService book.Service
}

// NewUpdateBookUseCase 创建更新用例
func NewUpdateBookUseCase(bookService book.Service) *UpdateBookUseCase {
	return &UpdateBookUseCase{
		bookService: bookService,
	}
}

// UpdateBookRequest 更新请求DTO
// 指针字段为nil表示不更新该项
type UpdateBookRequest struct {
	Title       string
	Subtitle    string
	Publisher   string
	Language    string
	Description string
	CoverURL    string
	Price       *int64
	Rating      *float64
	Active      *bool // 上架/下架开关
}

// Execute 执行更新用例
func (uc *UpdateBookUseCase) Execute(ctx context.Context, id uint, req UpdateBookRequest) (*BookDetail, error) {
	// 1. 价格更新(有校验:必须>0)
	if req.Price != nil {
		if err := uc.bookService.UpdateBookPrice(ctx, id, *req.Price); err != nil {
			return nil, err
		}
	}

	// 2. 评分更新(有校验:0-5)
	if req.Rating != nil {
		if err := uc.bookService.UpdateBookRating(ctx, id, *req.Rating); err != nil {
			return nil, err
		}
	}

	// 3. 上架/下架开关
	if req.Active != nil {
		if _, err := uc.bookService.SetBookActive(ctx, id, *req.Active); err != nil {
			return nil, err
		}
	}

	// 4. 基本信息更新(空串表示不更新,实体UpdateInfo内部处理)
	b, err := uc.bookService.UpdateBookInfo(ctx, id, req.Title, req.Subtitle, req.Publisher, req.Language, req.Description, req.CoverURL)
	if err != nil {
		return nil, err
	}

	return toBookDetail(b, ""), nil
}
