package category

import (
	"time"
)

// Category 图书分类实体(聚合根)
// DDD设计说明:
// 1. 分类是独立聚合,Book只保存CategoryID(避免跨聚合引用)
// 2. 分类名称全局唯一(数据库层保证唯一性)
// 3. 分类被删除时,其下图书的CategoryID置空(SET NULL),图书本身保留
type Category struct {
	ID          uint
	Name        string // 分类名称(唯一)
	Description string // 分类描述
	Active      bool   // 是否启用(停用的分类不出现在公开列表)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCategory 创建新分类(工厂方法)
func NewCategory(name, description string) *Category {
	now := time.Now()
	return &Category{
		Name:        name,
		Description: description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// UpdateInfo 更新分类信息(领域行为)
// active为nil表示不改变启用状态
func (c *Category) UpdateInfo(name, description string, active *bool) {
	if name != "" {
		c.Name = name
	}
	c.Description = description
	if active != nil {
		c.Active = *active
	}
	c.UpdatedAt = time.Now()
}
