package loan

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/biblioteca/internal/domain/book"
	"github.com/xiebiao/biblioteca/internal/domain/loan"
	apperrors "github.com/xiebiao/biblioteca/pkg/errors"
)

// newActiveLoan 借阅中的记录
func newActiveLoan(id, userID, bookID uint, dueAt time.Time) *loan.Loan {
	return &loan.Loan{
		ID:       id,
		UserID:   userID,
		BookID:   bookID,
		LoanedAt: time.Now().Add(-48 * time.Hour),
		DueAt:    dueAt,
		Status:   loan.StatusActive,
	}
}

// Test归还_成功 正常归还:状态转returned,库存恢复
func Test归还_成功(t *testing.T) {
	bookRepo := newFakeBookRepo(newTestBook(1, 0))
	loanRepo := newFakeLoanRepo(newActiveLoan(1, 100, 1, time.Now().Add(24*time.Hour)))
	publisher := &recordingPublisher{}
	uc := NewReturnLoanUseCase(loanRepo, bookRepo, &fakeTxManager{}, publisher)

	resp, err := uc.Execute(context.Background(), ReturnLoanRequest{LoanID: 1, UserID: 100})
	require.NoError(t, err)

	assert.False(t, resp.WasOverdue)
	assert.NotEmpty(t, resp.ReturnedAt)

	// 借阅状态
	l, _ := loanRepo.FindByID(context.Background(), 1)
	assert.Equal(t, loan.StatusReturned, l.Status)
	assert.NotNil(t, l.ReturnedAt)

	// 库存恢复,状态从loaned回到available
	b, _ := bookRepo.FindByID(context.Background(), 1)
	assert.Equal(t, 1, b.Stock)
	assert.Equal(t, book.StatusAvailable, b.Status)

	assert.Equal(t, []string{EventLoanReturned}, publisher.events)
}

// Test归还_逾期归还 逾期的借阅照常归还,响应标记was_overdue
func Test归还_逾期归还(t *testing.T) {
	bookRepo := newFakeBookRepo(newTestBook(1, 0))
	loanRepo := newFakeLoanRepo(newActiveLoan(1, 100, 1, time.Now().Add(-24*time.Hour)))
	uc := NewReturnLoanUseCase(loanRepo, bookRepo, &fakeTxManager{}, nil)

	resp, err := uc.Execute(context.Background(), ReturnLoanRequest{LoanID: 1, UserID: 100})
	require.NoError(t, err)
	assert.True(t, resp.WasOverdue)

	l, _ := loanRepo.FindByID(context.Background(), 1)
	assert.Equal(t, loan.StatusReturned, l.Status)
}

// Test归还_重复归还 已归还的借阅再次归还报"该借阅已归还"
func Test归还_重复归还(t *testing.T) {
	bookRepo := newFakeBookRepo(newTestBook(1, 0))
	loanRepo := newFakeLoanRepo(newActiveLoan(1, 100, 1, time.Now().Add(24*time.Hour)))
	uc := NewReturnLoanUseCase(loanRepo, bookRepo, &fakeTxManager{}, nil)

	_, err := uc.Execute(context.Background(), ReturnLoanRequest{LoanID: 1, UserID: 100})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), ReturnLoanRequest{LoanID: 1, UserID: 100})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeAlreadyReturned, apperrors.GetAppError(err).Code)

	// 库存只恢复一次
	b, _ := bookRepo.FindByID(context.Background(), 1)
	assert.Equal(t, 1, b.Stock)
}

// Test归还_并发重复归还 两个请求同时归还同一借阅,库存只恢复一次
func Test归还_并发重复归还(t *testing.T) {
	bookRepo := newFakeBookRepo(newTestBook(1, 0))
	loanRepo := newFakeLoanRepo(newActiveLoan(1, 100, 1, time.Now().Add(24*time.Hour)))
	uc := NewReturnLoanUseCase(loanRepo, bookRepo, &fakeTxManager{}, nil)

	const concurrency = 5
	var wg sync.WaitGroup
	errs := make([]error, concurrency)
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), ReturnLoanRequest{LoanID: 1, UserID: 100})
			errs[idx] = err
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded, "只能归还成功一次")

	b, _ := bookRepo.FindByID(context.Background(), 1)
	assert.Equal(t, 1, b.Stock, "库存只恢复一次")
}

// Test归还_他人借阅 普通读者不能归还他人的借阅
func Test归还_他人借阅(t *testing.T) {
	bookRepo := newFakeBookRepo(newTestBook(1, 0))
	loanRepo := newFakeLoanRepo(newActiveLoan(1, 100, 1, time.Now().Add(24*time.Hour)))
	uc := NewReturnLoanUseCase(loanRepo, bookRepo, &fakeTxManager{}, nil)

	_, err := uc.Execute(context.Background(), ReturnLoanRequest{LoanID: 1, UserID: 200})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeForbidden, apperrors.GetAppError(err).Code)
}

// Test归还_管理员代还 管理员可以归还任何人的借阅
func Test归还_管理员代还(t *testing.T) {
	bookRepo := newFakeBookRepo(newTestBook(1, 0))
	loanRepo := newFakeLoanRepo(newActiveLoan(1, 100, 1, time.Now().Add(24*time.Hour)))
	uc := NewReturnLoanUseCase(loanRepo, bookRepo, &fakeTxManager{}, nil)

	_, err := uc.Execute(context.Background(), ReturnLoanRequest{LoanID: 1, UserID: 999, IsAdmin: true})
	assert.NoError(t, err)
}

// Test标记丢失_成功 active借阅可标记丢失,库存不恢复,图书状态同步置为lost
func Test标记丢失_成功(t *testing.T) {
	bookRepo := newFakeBookRepo(newTestBook(1, 0))
	loanRepo := newFakeLoanRepo(newActiveLoan(1, 100, 1, time.Now().Add(24*time.Hour)))
	publisher := &recordingPublisher{}
	uc := NewMarkLostUseCase(loanRepo, bookRepo, &fakeTxManager{}, publisher)

	resp, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "lost", resp.Status)

	l, _ := loanRepo.FindByID(context.Background(), 1)
	assert.Equal(t, loan.StatusLost, l.Status)

	b, _ := bookRepo.FindByID(context.Background(), 1)
	assert.Equal(t, book.StatusLost, b.Status)
	assert.Equal(t, 0, b.Stock, "库存不因丢失恢复")
	assert.Equal(t, []string{EventLoanLost}, publisher.events)
}

// Test标记丢失_已归还的借阅 已归还的借阅不能标记丢失
func Test标记丢失_已归还的借阅(t *testing.T) {
	l := newActiveLoan(1, 100, 1, time.Now().Add(24*time.Hour))
	now := time.Now()
	require.NoError(t, l.Return(now))
	loanRepo := newFakeLoanRepo(l)
	uc := NewMarkLostUseCase(loanRepo, newFakeBookRepo(newTestBook(1, 0)), &fakeTxManager{}, nil)

	_, err := uc.Execute(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidStatus, apperrors.GetAppError(err).Code)
}

// Test标记丢失_丢失后归还 丢失是终态,不能再归还
func Test标记丢失_丢失后归还(t *testing.T) {
	bookRepo := newFakeBookRepo(newTestBook(1, 0))
	loanRepo := newFakeLoanRepo(newActiveLoan(1, 100, 1, time.Now().Add(24*time.Hour)))

	markLost := NewMarkLostUseCase(loanRepo, bookRepo, &fakeTxManager{}, nil)
	_, err := markLost.Execute(context.Background(), 1)
	require.NoError(t, err)

	returnUC := NewReturnLoanUseCase(loanRepo, bookRepo, &fakeTxManager{}, nil)
	_, err = returnUC.Execute(context.Background(), ReturnLoanRequest{LoanID: 1, UserID: 100})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidStatus, apperrors.GetAppError(err).Code)
}
