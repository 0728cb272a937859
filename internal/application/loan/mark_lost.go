package loan

import (
	"context"

	"github.com/xiebiao/biblioteca/internal/domain/book"
	"github.com/xiebiao/biblioteca/internal/domain/loan"
)

// MarkLostUseCase 标记图书丢失用例(管理端)
// 设计说明:
// 1. 丢失的副本不会回到书架,库存不恢复(借出时已扣减)
// 2. 借阅状态active→lost;已归还/已丢失的借阅不允许再标记
// 3. 图书状态同步置为lost(手工编辑路径,之后需管理员改回)
type MarkLostUseCase struct {
	loanRepo  loan.Repository
	bookRepo  book.Repository
	txManager Transactor
	publisher EventPublisher
}

// NewMarkLostUseCase 创建标记丢失用例
func NewMarkLostUseCase(
	loanRepo loan.Repository,
	bookRepo book.Repository,
	txManager Transactor,
	publisher EventPublisher,
) *MarkLostUseCase {
	return &MarkLostUseCase{
		loanRepo:  loanRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
		publisher: publisher,
	}
}

// MarkLostResponse 标记丢失响应DTO
type MarkLostResponse struct {
	LoanID uint   `json:"loan_id"`
	BookID uint   `json:"book_id"`
	Status string `json:"status"`
}

// Execute 执行标记丢失
func (uc *MarkLostUseCase) Execute(ctx context.Context, loanID uint) (*MarkLostResponse, error) {
	var result *loan.Loan

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 锁定借阅行(与并发归还互斥)
		l, err := uc.loanRepo.LockByID(txCtx, loanID)
		if err != nil {
			return err
		}

		// active→lost;其他状态返回ErrInvalidStatusTransition
		if err := l.MarkLost(); err != nil {
			return err
		}

		if err := uc.loanRepo.Update(txCtx, l); err != nil {
			return err
		}

		// 图书状态同步置为lost,库存不动(副本已不在馆内)
		b, err := uc.bookRepo.LockByID(txCtx, l.BookID)
		if err != nil {
			return err
		}
		if err := b.SetStatus(book.StatusLost); err != nil {
			return err
		}
		if err := uc.bookRepo.UpdateStockStatus(txCtx, b.ID, b.Stock, b.Status); err != nil {
			return err
		}

		result = l
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 事务提交后发布事件
	publishEvent(uc.publisher, EventLoanLost, LoanEvent{
		LoanID:     result.ID,
		UserID:     result.UserID,
		BookID:     result.BookID,
		Action:     "lost",
		OccurredAt: result.UpdatedAt,
	})

	return &MarkLostResponse{
		LoanID: result.ID,
		BookID: result.BookID,
		Status: string(result.Status),
	}, nil
}
