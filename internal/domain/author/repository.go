package author

import (
	"context"
)

// Repository 作者仓储接口(依赖倒置原则)
type Repository interface {
	// Create 创建作者
	// 同名同姓时返回ErrAuthorDuplicate
	Create(ctx context.Context, author *Author) error

	// FindByID 根据ID查找作者
	// 不存在时返回ErrAuthorNotFound
	FindByID(ctx context.Context, id uint) (*Author, error)

	// FindByName 根据姓名精确查找作者
	FindByName(ctx context.Context, firstName, lastName string) (*Author, error)

	// Update 更新作者信息
	Update(ctx context.Context, author *Author) error

	// Delete 删除作者
	// 调用方需先确认作者名下无图书(CountBooks)
	Delete(ctx context.Context, id uint) error

	// List 分页查询作者列表(keyword匹配姓名/国别)
	List(ctx context.Context, page, pageSize int, keyword string) ([]*Author, int64, error)

	// CountBooks 统计作者名下图书数量(删除保护用)
	CountBooks(ctx context.Context, id uint) (int64, error)
}
