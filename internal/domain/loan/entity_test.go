package loan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActiveLoan(due time.Time) *Loan {
	return NewLoan(1, 2, due, "")
}

// TestNewLoan 初始状态
func TestNewLoan(t *testing.T) {
	due := time.Now().Add(14 * 24 * time.Hour)
	l := NewLoan(1, 2, due, "测试借阅")

	assert.Equal(t, StatusActive, l.Status)
	assert.Nil(t, l.ReturnedAt)
	assert.Equal(t, due, l.DueAt)
	assert.False(t, l.LoanedAt.IsZero())
}

// TestReturn_正常归还
func TestReturn_正常归还(t *testing.T) {
	l := newActiveLoan(time.Now().Add(24 * time.Hour))
	now := time.Now()

	require.NoError(t, l.Return(now))
	assert.Equal(t, StatusReturned, l.Status)
	require.NotNil(t, l.ReturnedAt)
	assert.Equal(t, now, *l.ReturnedAt)
}

// TestReturn_重复归还 已归还的借阅不能再次归还
func TestReturn_重复归还(t *testing.T) {
	l := newActiveLoan(time.Now().Add(24 * time.Hour))
	require.NoError(t, l.Return(time.Now()))

	err := l.Return(time.Now())
	assert.ErrorIs(t, err, ErrAlreadyReturned)
	assert.Equal(t, StatusReturned, l.Status)
}

// TestMarkLost 借阅中可标记丢失,终态不可再变更
func TestMarkLost(t *testing.T) {
	l := newActiveLoan(time.Now().Add(24 * time.Hour))

	require.NoError(t, l.MarkLost())
	assert.Equal(t, StatusLost, l.Status)

	// 丢失为终态:不能归还也不能再标记
	assert.ErrorIs(t, l.MarkLost(), ErrInvalidStatusTransition)
	assert.ErrorIs(t, l.TransitionTo(StatusReturned), ErrInvalidStatusTransition)
}

// TestReturn_丢失后归还 终态校验走状态机
func TestReturn_丢失后归还(t *testing.T) {
	l := newActiveLoan(time.Now().Add(24 * time.Hour))
	require.NoError(t, l.MarkLost())

	err := l.Return(time.Now())
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

// TestCanTransitionTo 状态机转换表
func TestCanTransitionTo(t *testing.T) {
	l := newActiveLoan(time.Now().Add(24 * time.Hour))

	assert.True(t, l.CanTransitionTo(StatusReturned))
	assert.True(t, l.CanTransitionTo(StatusLost))
	assert.False(t, l.CanTransitionTo(StatusActive)) // 不能回到active
}

// TestIsOverdue 逾期实时推导
func TestIsOverdue(t *testing.T) {
	now := time.Now()

	t.Run("未到期", func(t *testing.T) {
		l := newActiveLoan(now.Add(24 * time.Hour))
		assert.False(t, l.IsOverdue(now))
	})

	t.Run("已过应还时间", func(t *testing.T) {
		l := newActiveLoan(now.Add(-24 * time.Hour))
		assert.True(t, l.IsOverdue(now))
	})

	t.Run("逾期后归还不再算逾期", func(t *testing.T) {
		l := newActiveLoan(now.Add(-24 * time.Hour))
		require.NoError(t, l.Return(now))
		assert.False(t, l.IsOverdue(now))
	})

	t.Run("丢失不算逾期", func(t *testing.T) {
		l := newActiveLoan(now.Add(-24 * time.Hour))
		require.NoError(t, l.MarkLost())
		assert.False(t, l.IsOverdue(now))
	})
}

// TestIsOwnedBy 归属校验
func TestIsOwnedBy(t *testing.T) {
	l := NewLoan(42, 2, time.Now().Add(24*time.Hour), "")
	assert.True(t, l.IsOwnedBy(42))
	assert.False(t, l.IsOwnedBy(1))
}
