package loan

import (
	"context"
)

// Repository 借阅仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 支持事务操作(通过context传递事务)
type Repository interface {
	// Create 创建借阅记录
	// 必须与库存扣减在同一事务中执行
	Create(ctx context.Context, loan *Loan) error

	// FindByID 根据ID查找借阅记录
	// 不存在时返回ErrLoanNotFound
	FindByID(ctx context.Context, id uint) (*Loan, error)

	// LockByID 悲观锁查询借阅记录(归还/标记丢失时锁定行)
	// 必须在事务内调用
	LockByID(ctx context.Context, id uint) (*Loan, error)

	// Update 更新借阅记录(主要用于状态更新)
	Update(ctx context.Context, loan *Loan) error

	// List 分页查询借阅列表(支持过滤)
	List(ctx context.Context, params ListParams) ([]*Loan, int64, error)

	// CountOpenByBook 统计图书的未归还借阅数量(删除保护用)
	CountOpenByBook(ctx context.Context, bookID uint) (int64, error)
}

// ListParams 借阅列表查询参数
type ListParams struct {
	Page        int     // 页码(从1开始)
	PageSize    int     // 每页数量
	UserID      *uint   // 按借阅人过滤
	BookID      *uint   // 按图书过滤
	Status      *Status // 按状态过滤
	OverdueOnly bool    // 只看逾期(active且due_at早于当前时间)
	SortBy      string  // 排序字段(loaned_at_desc, due_at_asc)
}
