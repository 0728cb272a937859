package book

import (
	"context"

	"github.com/xiebiao/biblioteca/internal/domain/book"
	"github.com/xiebiao/biblioteca/internal/domain/loan"
)

// DeleteBookUseCase 图书删除用例(管理端)
// 设计说明:删除保护——仍有未归还借阅的图书不允许删除,
// 否则归还时找不到对应图书,库存无法恢复
type DeleteBookUseCase struct {
	bookRepo book.Repository
	loanRepo loan.Repository
}

// NewDeleteBookUseCase 创建删除用例
func NewDeleteBookUseCase(bookRepo book.Repository, loanRepo loan.Repository) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		bookRepo: bookRepo,
		loanRepo: loanRepo,
	}
}

// Execute 执行删除用例
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) error {
	// 1. 图书必须存在
	if _, err := uc.bookRepo.FindByID(ctx, id); err != nil {
		return err
	}

	// 2. 检查是否有未归还的借阅
	open, err := uc.loanRepo.CountOpenByBook(ctx, id)
	if err != nil {
		return err
	}
	if open > 0 {
		return book.ErrBookOnLoan
	}

	// 3. 软删除
	return uc.bookRepo.Delete(ctx, id)
}
