package loan

import (
	"context"
	"time"

	"github.com/xiebiao/biblioteca/internal/domain/book"
	"github.com/xiebiao/biblioteca/internal/domain/loan"
	"github.com/xiebiao/biblioteca/pkg/metrics"
)

// ReturnLoanUseCase 归还图书用例
// 设计说明:
// 1. 归还与借阅创建对称:同一事务内更新借阅状态并恢复库存
// 2. 并发重复归还由借阅行锁+状态机拦截:后到的请求读到returned,
//    实体Return返回ErrAlreadyReturned,库存只恢复一次
// 3. 逾期归还照常处理,是否逾期由响应字段告知
type ReturnLoanUseCase struct {
	loanRepo  loan.Repository
	bookRepo  book.Repository
	txManager Transactor
	publisher EventPublisher
}

// NewReturnLoanUseCase 创建归还用例
func NewReturnLoanUseCase(
	loanRepo loan.Repository,
	bookRepo book.Repository,
	txManager Transactor,
	publisher EventPublisher,
) *ReturnLoanUseCase {
	return &ReturnLoanUseCase{
		loanRepo:  loanRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
		publisher: publisher,
	}
}

// ReturnLoanRequest 归还请求DTO
type ReturnLoanRequest struct {
	LoanID  uint // 借阅ID
	UserID  uint // 操作人用户ID(从JWT中提取)
	IsAdmin bool // 管理员可归还任何人的借阅
}

// ReturnLoanResponse 归还响应DTO
type ReturnLoanResponse struct {
	LoanID     uint   `json:"loan_id"`
	BookID     uint   `json:"book_id"`
	ReturnedAt string `json:"returned_at"`
	WasOverdue bool   `json:"was_overdue"` // 是否逾期归还
}

// Execute 执行归还用例
func (uc *ReturnLoanUseCase) Execute(ctx context.Context, req ReturnLoanRequest) (*ReturnLoanResponse, error) {
	now := time.Now()

	var result *loan.Loan
	var wasOverdue bool

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 锁定借阅行(并发重复归还在此排队)
		l, err := uc.loanRepo.LockByID(txCtx, req.LoanID)
		if err != nil {
			return err
		}

		// 2. 权限检查:读者只能归还自己的借阅
		if !req.IsAdmin && !l.IsOwnedBy(req.UserID) {
			return loan.ErrUnauthorized
		}

		// 3. 状态机转换(已归还→ErrAlreadyReturned,丢失→ErrInvalidStatusTransition)
		wasOverdue = l.IsOverdue(now)
		if err := l.Return(now); err != nil {
			return err
		}

		if err := uc.loanRepo.Update(txCtx, l); err != nil {
			return err
		}

		// 4. 恢复库存(锁定图书行,loaned且库存>0时自动恢复available)
		b, err := uc.bookRepo.LockByID(txCtx, l.BookID)
		if err != nil {
			return err
		}
		b.AdjustStock(1)
		if err := uc.bookRepo.UpdateStockStatus(txCtx, b.ID, b.Stock, b.Status); err != nil {
			return err
		}

		result = l
		return nil
	})

	if err != nil {
		return nil, err
	}

	metrics.IncCounter(metrics.LoansReturnedTotal)

	// 事务提交后发布事件
	publishEvent(uc.publisher, EventLoanReturned, LoanEvent{
		LoanID:     result.ID,
		UserID:     result.UserID,
		BookID:     result.BookID,
		Action:     "returned",
		OccurredAt: *result.ReturnedAt,
	})

	return &ReturnLoanResponse{
		LoanID:     result.ID,
		BookID:     result.BookID,
		ReturnedAt: result.ReturnedAt.Format("2006-01-02 15:04:05"),
		WasOverdue: wasOverdue,
	}, nil
}
