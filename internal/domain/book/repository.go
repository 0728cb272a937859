package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
// 3. 事务通过context传递(TxManager注入)
type Repository interface {
	// Create 创建图书
	// ISBN重复时返回ErrISBNDuplicate
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	// 不存在时返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// Update 更新图书信息
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书(软删除)
	// 调用方需先确认没有未归还的借阅
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表(支持过滤与排序)
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// LockByID 悲观锁查询图书(借阅创建/库存调整时锁定行)
	// 使用SELECT FOR UPDATE锁定行,防止并发超借
	// 必须在事务内调用,否则锁随语句立即释放
	LockByID(ctx context.Context, id uint) (*Book, error)

	// UpdateStockStatus 同时落库库存与状态
	// 库存与状态的推导在实体AdjustStock中完成,两列必须在同一条UPDATE中写入
	UpdateStockStatus(ctx context.Context, id uint, stock int, status Status) error

	// CountByCategory 统计分类下图书数量
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page       int     // 页码(从1开始)
	PageSize   int     // 每页数量
	Keyword    string  // 搜索关键词(匹配标题、ISBN、描述)
	CategoryID *uint   // 按分类过滤
	AuthorID   *uint   // 按作者过滤
	Status     *Status // 按状态过滤
	Available  bool    // 只看可借(available且库存>0)
	ActiveOnly bool    // 只看上架图书(公开列表)
	SortBy     string  // 排序字段(title_asc, price_asc, price_desc, rating_desc, published_at_asc, published_at_desc, created_at_desc)
}
