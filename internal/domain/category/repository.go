package category

import (
	"context"
)

// Repository 分类仓储接口(依赖倒置原则)
// 由domain层定义接口,infrastructure层实现
type Repository interface {
	// Create 创建分类
	// 名称重复时返回ErrCategoryDuplicate
	Create(ctx context.Context, category *Category) error

	// FindByID 根据ID查找分类
	// 不存在时返回ErrCategoryNotFound
	FindByID(ctx context.Context, id uint) (*Category, error)

	// FindByName 根据名称查找分类
	FindByName(ctx context.Context, name string) (*Category, error)

	// Update 更新分类信息
	Update(ctx context.Context, category *Category) error

	// Delete 删除分类
	// 其下图书的CategoryID由数据库外键置空(SET NULL)
	Delete(ctx context.Context, id uint) error

	// List 分页查询分类列表
	List(ctx context.Context, page, pageSize int, keyword string) ([]*Category, int64, error)
}
