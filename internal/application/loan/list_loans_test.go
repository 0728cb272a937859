package loan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/biblioteca/internal/domain/loan"
)

// Test借阅列表_逾期视图 status=overdue只返回逾期未还的借阅
func Test借阅列表_逾期视图(t *testing.T) {
	overdue := newActiveLoan(1, 100, 1, time.Now().Add(-48*time.Hour))
	onTime := newActiveLoan(2, 100, 2, time.Now().Add(48*time.Hour))
	returned := newActiveLoan(3, 100, 3, time.Now().Add(-48*time.Hour))
	require.NoError(t, returned.Return(time.Now()))

	uc := NewListLoansUseCase(newFakeLoanRepo(overdue, onTime, returned))

	resp, err := uc.Execute(context.Background(), ListLoansRequest{Status: "overdue"})
	require.NoError(t, err)

	// 只有1条:逾期且未归还(已归还的逾期记录不算)
	require.Len(t, resp.List, 1)
	assert.Equal(t, uint(1), resp.List[0].ID)
	assert.True(t, resp.List[0].IsOverdue)
}

// Test借阅列表_按状态过滤
func Test借阅列表_按状态过滤(t *testing.T) {
	active := newActiveLoan(1, 100, 1, time.Now().Add(48*time.Hour))
	returned := newActiveLoan(2, 100, 2, time.Now().Add(48*time.Hour))
	require.NoError(t, returned.Return(time.Now()))

	uc := NewListLoansUseCase(newFakeLoanRepo(active, returned))

	resp, err := uc.Execute(context.Background(), ListLoansRequest{Status: "returned"})
	require.NoError(t, err)
	require.Len(t, resp.List, 1)
	assert.Equal(t, string(loan.StatusReturned), resp.List[0].Status)
	assert.NotEmpty(t, resp.List[0].ReturnedAt)
}

// Test借阅列表_非法状态值
func Test借阅列表_非法状态值(t *testing.T) {
	uc := NewListLoansUseCase(newFakeLoanRepo())

	_, err := uc.Execute(context.Background(), ListLoansRequest{Status: "pending"})
	assert.ErrorIs(t, err, loan.ErrInvalidStatusFilter)
}

// Test借阅列表_按用户过滤 读者视角只看自己的借阅
func Test借阅列表_按用户过滤(t *testing.T) {
	mine := newActiveLoan(1, 100, 1, time.Now().Add(48*time.Hour))
	others := newActiveLoan(2, 200, 2, time.Now().Add(48*time.Hour))

	uc := NewListLoansUseCase(newFakeLoanRepo(mine, others))

	userID := uint(100)
	resp, err := uc.Execute(context.Background(), ListLoansRequest{UserID: &userID})
	require.NoError(t, err)
	require.Len(t, resp.List, 1)
	assert.Equal(t, uint(100), resp.List[0].UserID)
}
