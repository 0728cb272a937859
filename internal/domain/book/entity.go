package book

import (
	"time"
)

// Status 图书状态
// 设计说明:
// 1. 使用string类型(与数据库存储和API表现一致,便于排查问题)
// 2. 定义为类型别名,便于添加方法
type Status string

const (
	StatusAvailable   Status = "available"   // 可借(有库存)
	StatusLoaned      Status = "loaned"      // 已全部借出(库存为0)
	StatusMaintenance Status = "maintenance" // 维护中(下架维修,不参与借阅)
	StatusLost        Status = "lost"        // 丢失
)

// IsValid 检查状态值是否合法
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusLoaned, StatusMaintenance, StatusLost:
		return true
	}
	return false
}

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是图书聚合的根实体,库存与状态的一致性规则全部封装在实体行为中
// 2. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 3. ISBN作为业务唯一标识(数据库层保证唯一性)
// 4. AuthorID/CategoryID只保存外键,不跨聚合引用对象
type Book struct {
	ID          uint
	ISBN        string     // ISBN-13(13位数字)
	Title       string     // 书名
	Subtitle    string     // 副标题
	AuthorID    uint       // 作者ID(必填)
	CategoryID  *uint      // 分类ID(可空,分类删除后置空)
	Publisher   string     // 出版社
	PublishedAt *time.Time // 出版日期
	PageCount   int        // 页数
	Language    string     // 语言(ISO代码,如es、en)
	Price       int64      // 价格(单位:分,1元=100分)
	Rating      float64    // 评分(0-5)
	Stock       int        // 库存数量
	Status      Status     // 图书状态
	CoverURL    string     // 封面图片URL
	Description string     // 图书描述
	Active      bool       // 是否上架(下架的图书不出现在公开列表)
	CreatedBy   *uint      // 登记人用户ID(可空)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBook 创建新图书(工厂方法)
// 初始状态由库存推导:有库存为available,无库存为loaned
// 参数需由Service层先完成校验
func NewBook(isbn, title, subtitle string, authorID uint, categoryID *uint, publisher string, publishedAt *time.Time, pageCount int, language string, price int64, rating float64, stock int, coverURL, description string) *Book {
	now := time.Now()
	b := &Book{
		ISBN:        isbn,
		Title:       title,
		Subtitle:    subtitle,
		AuthorID:    authorID,
		CategoryID:  categoryID,
		Publisher:   publisher,
		PublishedAt: publishedAt,
		PageCount:   pageCount,
		Language:    language,
		Price:       price,
		Rating:      rating,
		Stock:       stock,
		Status:      StatusAvailable,
		CoverURL:    coverURL,
		Description: description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if stock == 0 {
		b.Status = StatusLoaned
	}
	return b
}

// SetActive 上架/下架
// 下架只影响公开列表的可见性,不影响已借出副本的归还
func (b *Book) SetActive(active bool) {
	b.Active = active
	b.UpdatedAt = time.Now()
}

// IsAvailable 图书当前是否可借
// 业务规则:状态为available且库存>0
func (b *Book) IsAvailable() bool {
	return b.Status == StatusAvailable && b.Stock > 0
}

// AdjustStock 调整库存(领域核心行为)
// 业务规则:
// 1. 库存增量可正可负,结果为负时归零(不报错,幂等归还场景)
// 2. 库存为0时状态推导为loaned
// 3. 库存>0且当前为loaned时状态恢复为available
// 4. maintenance/lost为管理状态,库存变化不覆盖
func (b *Book) AdjustStock(delta int) {
	b.Stock += delta
	if b.Stock < 0 {
		b.Stock = 0
	}

	// 管理状态优先,不被库存推导覆盖
	if b.Status == StatusMaintenance || b.Status == StatusLost {
		b.UpdatedAt = time.Now()
		return
	}

	if b.Stock == 0 {
		b.Status = StatusLoaned
	} else if b.Status == StatusLoaned {
		b.Status = StatusAvailable
	}
	b.UpdatedAt = time.Now()
}

// SetStatus 管理员设置图书状态
// 业务规则:目标状态必须合法;设回available/loaned时按库存重新推导
func (b *Book) SetStatus(target Status) error {
	if !target.IsValid() {
		return ErrInvalidStatus
	}
	b.Status = target
	if target == StatusAvailable || target == StatusLoaned {
		// 按库存重新推导,避免出现"库存0却available"
		b.AdjustStock(0)
		return nil
	}
	b.UpdatedAt = time.Now()
	return nil
}

// UpdatePrice 更新价格(领域行为)
// 业务规则:价格必须>0
func (b *Book) UpdatePrice(newPrice int64) error {
	if newPrice <= 0 {
		return ErrInvalidPrice
	}
	b.Price = newPrice
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateRating 更新评分(领域行为)
// 业务规则:评分范围0-5
func (b *Book) UpdateRating(rating float64) error {
	if rating < 0 || rating > 5 {
		return ErrInvalidRating
	}
	b.Rating = rating
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新图书基本信息
func (b *Book) UpdateInfo(title, subtitle, publisher, language, description, coverURL string) {
	if title != "" {
		b.Title = title
	}
	if subtitle != "" {
		b.Subtitle = subtitle
	}
	if publisher != "" {
		b.Publisher = publisher
	}
	if language != "" {
		b.Language = language
	}
	if description != "" {
		b.Description = description
	}
	if coverURL != "" {
		b.CoverURL = coverURL
	}
	b.UpdatedAt = time.Now()
}
