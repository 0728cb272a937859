package category

import (
	"context"
)

// Service 分类领域服务
type Service interface {
	// CreateCategory 创建分类
	// 业务规则:名称长度1-100,名称全局唯一
	CreateCategory(ctx context.Context, name, description string) (*Category, error)

	// GetCategoryByID 根据ID获取分类
	GetCategoryByID(ctx context.Context, id uint) (*Category, error)

	// UpdateCategory 更新分类信息
	// active为nil表示不改变启用状态
	UpdateCategory(ctx context.Context, id uint, name, description string, active *bool) (*Category, error)

	// DeleteCategory 删除分类
	// 其下图书保留,仅解除分类关联
	DeleteCategory(ctx context.Context, id uint) error

	// ListCategories 分页查询分类列表
	ListCategories(ctx context.Context, page, pageSize int, keyword string) ([]*Category, int64, error)
}

type service struct {
	repo Repository
}

// NewService 创建分类领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateCategory 创建分类
func (s *service) CreateCategory(ctx context.Context, name, description string) (*Category, error) {
	// 1. 名称校验
	if !isValidName(name) {
		return nil, ErrInvalidCategoryName
	}

	// 2. 创建实体并持久化
	// 名称唯一性由数据库UNIQUE索引保证,Repository转换重复错误
	c := NewCategory(name, description)
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// GetCategoryByID 根据ID获取分类
func (s *service) GetCategoryByID(ctx context.Context, id uint) (*Category, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateCategory 更新分类信息
func (s *service) UpdateCategory(ctx context.Context, id uint, name, description string, active *bool) (*Category, error) {
	if name != "" && !isValidName(name) {
		return nil, ErrInvalidCategoryName
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.UpdateInfo(name, description, active)
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// DeleteCategory 删除分类
func (s *service) DeleteCategory(ctx context.Context, id uint) error {
	// 确认分类存在(不存在时返回ErrCategoryNotFound)
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ListCategories 分页查询分类列表
func (s *service) ListCategories(ctx context.Context, page, pageSize int, keyword string) ([]*Category, int64, error) {
	return s.repo.List(ctx, page, pageSize, keyword)
}

// isValidName 分类名称校验
func isValidName(name string) bool {
	length := len([]rune(name))
	return length >= 1 && length <= 100
}
