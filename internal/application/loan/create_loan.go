package loan

import (
	"context"
	"time"

	"github.com/xiebiao/biblioteca/internal/domain/book"
	"github.com/xiebiao/biblioteca/internal/domain/loan"
	"github.com/xiebiao/biblioteca/pkg/metrics"
	"github.com/xiebiao/biblioteca/pkg/tracing"
)

// DefaultLoanPeriod 默认借阅期限
const DefaultLoanPeriod = 14 * 24 * time.Hour

// CreateLoanUseCase 创建借阅用例
// 教学要点:这是整个项目最核心的用例
// 涉及:事务处理、并发控制、业务规则校验、事件发布
type CreateLoanUseCase struct {
	loanRepo  loan.Repository
	bookRepo  book.Repository
	txManager Transactor
	publisher EventPublisher
}

// NewCreateLoanUseCase 创建借阅用例
func NewCreateLoanUseCase(
	loanRepo loan.Repository,
	bookRepo book.Repository,
	txManager Transactor,
	publisher EventPublisher,
) *CreateLoanUseCase {
	return &CreateLoanUseCase{
		loanRepo:  loanRepo,
		bookRepo:  bookRepo,
		txManager: txManager,
		publisher: publisher,
	}
}

// CreateLoanRequest 借阅请求DTO
type CreateLoanRequest struct {
	UserID uint       // 借阅人用户ID(从JWT中提取)
	BookID uint       // 图书ID
	DueAt  *time.Time // 应还时间(不填默认14天)
	Notes  string     // 备注
}

// CreateLoanResponse 借阅响应DTO
type CreateLoanResponse struct {
	LoanID   uint   `json:"loan_id"`
	BookID   uint   `json:"book_id"`
	UserID   uint   `json:"user_id"`
	LoanedAt string `json:"loaned_at"`
	DueAt    string `json:"due_at"`
	Status   string `json:"status"`
}

// Execute 执行借阅用例
// 教学重点:防止超借的完整流程
//
// 核心问题:库存只剩1本,两个读者同时借
// 错误实现:
//  1. 查询库存 → 1本
//  2. 判断可借 → 可借
//  3. 扣减库存 → stock = stock - 1
//     结果:两个请求都通过了步骤2,借出2本(超借!)
//
// 正确实现:悲观锁
//  1. SELECT FOR UPDATE 锁定图书行
//  2. 判断是否可借(available且库存>0)
//  3. 扣减库存并推导状态(减到0转loaned)
//  4. 创建借阅记录
//  5. COMMIT释放锁
//
// 后获得锁的请求在步骤2读到库存0,返回"图书当前不可借"
func (uc *CreateLoanUseCase) Execute(ctx context.Context, req CreateLoanRequest) (*CreateLoanResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "application/loan", "CreateLoan")
	defer span.End()

	start := time.Now()

	// 1. 应还时间:默认14天,指定时必须晚于当前时间
	dueAt := time.Now().Add(DefaultLoanPeriod)
	if req.DueAt != nil {
		if !req.DueAt.After(time.Now()) {
			return nil, loan.ErrInvalidDueDate
		}
		dueAt = *req.DueAt
	}

	// 2. 事务内完成:锁行 → 可借校验 → 扣库存 → 建借阅
	var result *loan.Loan
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 锁定图书行(排他锁,并发请求在此排队)
		b, err := uc.bookRepo.LockByID(txCtx, req.BookID)
		if err != nil {
			return err
		}

		// 可借校验必须在锁内进行,锁外判断会产生超借
		if !b.IsAvailable() {
			return book.ErrNotAvailable
		}

		// 扣减库存并推导状态(减到0自动转loaned)
		b.AdjustStock(-1)
		if err := uc.bookRepo.UpdateStockStatus(txCtx, b.ID, b.Stock, b.Status); err != nil {
			return err
		}

		// 创建借阅记录(与库存扣减同一事务)
		newLoan := loan.NewLoan(req.UserID, req.BookID, dueAt, req.Notes)
		if err := uc.loanRepo.Create(txCtx, newLoan); err != nil {
			return err
		}

		result = newLoan
		return nil
	})

	metrics.ObserveHistogram(metrics.LoanCreationDuration, time.Since(start).Seconds())

	if err != nil {
		metrics.IncCounter(metrics.LoansFailedTotal)
		return nil, err
	}

	metrics.IncCounter(metrics.LoansCreatedTotal)

	// 3. 事务提交后发布事件(发布失败不回滚,数据库是事实源)
	publishEvent(uc.publisher, EventLoanCreated, LoanEvent{
		LoanID:     result.ID,
		UserID:     result.UserID,
		BookID:     result.BookID,
		Action:     "created",
		OccurredAt: result.LoanedAt,
	})

	return &CreateLoanResponse{
		LoanID:   result.ID,
		BookID:   result.BookID,
		UserID:   result.UserID,
		LoanedAt: result.LoanedAt.Format("2006-01-02 15:04:05"),
		DueAt:    result.DueAt.Format("2006-01-02 15:04:05"),
		Status:   string(result.Status),
	}, nil
}
