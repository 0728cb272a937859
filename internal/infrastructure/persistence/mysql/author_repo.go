package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/biblioteca/internal/domain/author"
	apperrors "github.com/xiebiao/biblioteca/pkg/errors"
)

// authorRepository 作者仓储实现(MySQL)
type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository 创建作者仓储
func NewAuthorRepository(db *gorm.DB) author.Repository {
	return &authorRepository{db: db}
}

// Create 创建作者
func (r *authorRepository) Create(ctx context.Context, a *author.Author) error {
	model := toAuthorModel(a)

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		// 同名同姓触发组合唯一索引
		if isDuplicateError(err) {
			return author.ErrAuthorDuplicate
		}
		return apperrors.Wrap(err, "创建作者失败")
	}

	a.ID = model.ID
	a.CreatedAt = model.CreatedAt
	a.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找作者
func (r *authorRepository) FindByID(ctx context.Context, id uint) (*author.Author, error) {
	var model AuthorModel
	err := r.getDB(ctx).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, author.ErrAuthorNotFound
		}
		return nil, apperrors.Wrap(err, "查询作者失败")
	}

	return toAuthorEntity(&model), nil
}

// FindByName 根据姓名精确查找作者
func (r *authorRepository) FindByName(ctx context.Context, firstName, lastName string) (*author.Author, error) {
	var model AuthorModel
	err := r.getDB(ctx).Where("first_name = ? AND last_name = ?", firstName, lastName).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, author.ErrAuthorNotFound
		}
		return nil, apperrors.Wrap(err, "查询作者失败")
	}

	return toAuthorEntity(&model), nil
}

// Update 更新作者信息
func (r *authorRepository) Update(ctx context.Context, a *author.Author) error {
	model := toAuthorModel(a)

	if err := r.getDB(ctx).Save(model).Error; err != nil {
		if isDuplicateError(err) {
			return author.ErrAuthorDuplicate
		}
		return apperrors.Wrap(err, "更新作者失败")
	}

	a.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除作者
// 删除保护(名下有图书时禁止删除)由Service层CountBooks检查
func (r *authorRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&AuthorModel{}, id)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除作者失败")
	}

	if result.RowsAffected == 0 {
		return author.ErrAuthorNotFound
	}

	return nil
}

// List 分页查询作者列表
func (r *authorRepository) List(ctx context.Context, page, pageSize int, keyword string) ([]*author.Author, int64, error) {
	var models []AuthorModel
	var total int64

	query := r.getDB(ctx).Model(&AuthorModel{})

	// 关键词匹配姓名或国别
	if keyword != "" {
		kw := "%" + keyword + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR country LIKE ?", kw, kw, kw)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询作者总数失败")
	}

	offset := (page - 1) * pageSize
	err := query.Order("last_name ASC, first_name ASC").Limit(pageSize).Offset(offset).Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询作者列表失败")
	}

	authors := make([]*author.Author, len(models))
	for i := range models {
		authors[i] = toAuthorEntity(&models[i])
	}

	return authors, total, nil
}

// CountBooks 统计作者名下图书数量(删除保护用)
func (r *authorRepository) CountBooks(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.getDB(ctx).Model(&BookModel{}).
		Where("author_id = ?", id).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计作者图书失败")
	}
	return count, nil
}

// toAuthorModel 领域实体 → GORM模型
func toAuthorModel(a *author.Author) *AuthorModel {
	return &AuthorModel{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Birthdate: a.Birthdate,
		Country:   a.Country,
		Biography: a.Biography,
		PhotoURL:  a.PhotoURL,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// toAuthorEntity GORM模型 → 领域实体
func toAuthorEntity(model *AuthorModel) *author.Author {
	return &author.Author{
		ID:        model.ID,
		FirstName: model.FirstName,
		LastName:  model.LastName,
		Birthdate: model.Birthdate,
		Country:   model.Country,
		Biography: model.Biography,
		PhotoURL:  model.PhotoURL,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *authorRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}
