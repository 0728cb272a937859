package category

import (
	"context"

	"github.com/xiebiao/biblioteca/internal/domain/category"
)

// ManageCategoryUseCase 分类管理用例(管理端)
// 设计说明:
// 1. 分类CRUD都是对领域服务的薄编排,合并为一个用例结构
// 2. 删除分类不做删除保护:其下图书的分类外键由数据库置空,图书保留
type ManageCategoryUseCase struct {
	categoryService category.Service
}

// NewManageCategoryUseCase 创建分类管理用例
func NewManageCategoryUseCase(categoryService category.Service) *ManageCategoryUseCase {
	return &ManageCategoryUseCase{
		categoryService: categoryService,
	}
}

// CategoryRequest 分类创建/更新请求DTO
// Active仅更新时有意义,nil表示不改变
type CategoryRequest struct {
	Name        string
	Description string
	Active      *bool
}

// CategoryResponse 分类响应DTO
type CategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Create 创建分类
func (uc *ManageCategoryUseCase) Create(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	c, err := uc.categoryService.CreateCategory(ctx, req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// Update 更新分类
func (uc *ManageCategoryUseCase) Update(ctx context.Context, id uint, req CategoryRequest) (*CategoryResponse, error) {
	c, err := uc.categoryService.UpdateCategory(ctx, id, req.Name, req.Description, req.Active)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// Delete 删除分类
// 其下图书的category_id自动置空(SET NULL),图书本身保留
func (uc *ManageCategoryUseCase) Delete(ctx context.Context, id uint) error {
	return uc.categoryService.DeleteCategory(ctx, id)
}

// Get 获取分类详情
func (uc *ManageCategoryUseCase) Get(ctx context.Context, id uint) (*CategoryResponse, error) {
	c, err := uc.categoryService.GetCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// ListCategoriesResponse 分类列表响应DTO
type ListCategoriesResponse struct {
	List     []CategoryResponse `json:"list"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// List 分页查询分类列表
func (uc *ManageCategoryUseCase) List(ctx context.Context, page, pageSize int, keyword string) (*ListCategoriesResponse, error) {
	// 参数默认值与范围限制
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	categories, total, err := uc.categoryService.ListCategories(ctx, page, pageSize, keyword)
	if err != nil {
		return nil, err
	}

	list := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		list[i] = *toCategoryResponse(c)
	}

	return &ListCategoriesResponse{
		List:     list,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// toCategoryResponse 领域实体 → 应用层DTO
func toCategoryResponse(c *category.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:   c.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
