package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAdjustStock_借出与归还 库存增减驱动状态流转
func TestAdjustStock_借出与归还(t *testing.T) {
	b := NewBook("9780000000002", "测试图书", "", 1, nil, "测试出版社", nil, 100, "zh", 2990, 4.0, 1, "", "")
	assert.Equal(t, StatusAvailable, b.Status)
	assert.True(t, b.IsAvailable())

	// 借出最后一本:库存归零,状态推导为loaned
	b.AdjustStock(-1)
	assert.Equal(t, 0, b.Stock)
	assert.Equal(t, StatusLoaned, b.Status)
	assert.False(t, b.IsAvailable())

	// 归还:库存恢复,状态回到available
	b.AdjustStock(1)
	assert.Equal(t, 1, b.Stock)
	assert.Equal(t, StatusAvailable, b.Status)
	assert.True(t, b.IsAvailable())
}

// TestAdjustStock_负数截断 超量扣减时库存归零而非负数
func TestAdjustStock_负数截断(t *testing.T) {
	b := NewBook("9780000000019", "测试图书", "", 1, nil, "", nil, 100, "zh", 1000, 0, 2, "", "")

	b.AdjustStock(-5)
	assert.Equal(t, 0, b.Stock)
	assert.Equal(t, StatusLoaned, b.Status)
}

// TestAdjustStock_维护状态不被覆盖 管理状态优先于库存推导
func TestAdjustStock_维护状态不被覆盖(t *testing.T) {
	b := NewBook("9780000000026", "测试图书", "", 1, nil, "", nil, 100, "zh", 1000, 0, 3, "", "")

	assert.NoError(t, b.SetStatus(StatusMaintenance))

	// 维护中的图书库存变化不改变状态
	b.AdjustStock(-3)
	assert.Equal(t, 0, b.Stock)
	assert.Equal(t, StatusMaintenance, b.Status)
	assert.False(t, b.IsAvailable())

	b.AdjustStock(2)
	assert.Equal(t, 2, b.Stock)
	assert.Equal(t, StatusMaintenance, b.Status)

	// 解除维护后按库存重新推导
	assert.NoError(t, b.SetStatus(StatusAvailable))
	assert.Equal(t, StatusAvailable, b.Status)
	assert.True(t, b.IsAvailable())
}

// TestSetStatus_库存为零时设回available 按库存推导回loaned
func TestSetStatus_库存为零时设回available(t *testing.T) {
	b := NewBook("9780000000033", "测试图书", "", 1, nil, "", nil, 100, "zh", 1000, 0, 0, "", "")
	assert.Equal(t, StatusLoaned, b.Status)

	assert.NoError(t, b.SetStatus(StatusLost))
	assert.Equal(t, StatusLost, b.Status)

	// 设回available但库存仍为0,推导回loaned
	assert.NoError(t, b.SetStatus(StatusAvailable))
	assert.Equal(t, StatusLoaned, b.Status)
}

// TestSetStatus_非法状态
func TestSetStatus_非法状态(t *testing.T) {
	b := NewBook("9780000000040", "测试图书", "", 1, nil, "", nil, 100, "zh", 1000, 0, 1, "", "")

	err := b.SetStatus(Status("broken"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, StatusAvailable, b.Status)
}

// TestUpdateRating_范围校验
func TestUpdateRating_范围校验(t *testing.T) {
	b := NewBook("9780000000057", "测试图书", "", 1, nil, "", nil, 100, "zh", 1000, 0, 1, "", "")

	assert.NoError(t, b.UpdateRating(4.5))
	assert.Equal(t, 4.5, b.Rating)

	assert.ErrorIs(t, b.UpdateRating(5.1), ErrInvalidRating)
	assert.ErrorIs(t, b.UpdateRating(-0.1), ErrInvalidRating)
}

// TestUpdatePrice_必须大于零
func TestUpdatePrice_必须大于零(t *testing.T) {
	b := NewBook("9780000000064", "测试图书", "", 1, nil, "", nil, 100, "zh", 1000, 0, 1, "", "")

	assert.NoError(t, b.UpdatePrice(1990))
	assert.Equal(t, int64(1990), b.Price)

	assert.ErrorIs(t, b.UpdatePrice(0), ErrInvalidPrice)
	assert.ErrorIs(t, b.UpdatePrice(-100), ErrInvalidPrice)
}
