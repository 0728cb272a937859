package book

import (
	"context"
	"regexp"
	"time"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装跨实体的业务逻辑和业务规则校验
// 2. 不依赖具体的Repository实现(依赖倒置)
// 3. 借阅相关的库存扣减在application层的事务中编排,不在此处
type Service interface {
	// RegisterBook 登记图书(入馆)
	// 业务规则:
	// - ISBN必须为13位数字(允许带分隔符输入,入库前归一化)
	// - 价格必须>0
	// - 评分范围0-5
	// - 页数非负(0表示未知)
	// - 初始库存必须>=0
	// - ISBN不能重复
	RegisterBook(ctx context.Context, params RegisterParams) (*Book, error)

	// GetBookByID 根据ID获取图书详情
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// GetBookByISBN 根据ISBN获取图书
	GetBookByISBN(ctx context.Context, isbn string) (*Book, error)

	// UpdateBookInfo 更新图书基本信息
	UpdateBookInfo(ctx context.Context, id uint, title, subtitle, publisher, language, description, coverURL string) (*Book, error)

	// UpdateBookPrice 更新图书价格
	UpdateBookPrice(ctx context.Context, id uint, newPrice int64) error

	// UpdateBookRating 更新图书评分
	UpdateBookRating(ctx context.Context, id uint, rating float64) error

	// SetBookActive 上架/下架图书
	SetBookActive(ctx context.Context, id uint, active bool) (*Book, error)

	// ListBooks 分页查询图书列表
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// RegisterParams 图书登记参数
type RegisterParams struct {
	ISBN        string
	Title       string
	Subtitle    string
	AuthorID    uint
	CategoryID  *uint
	Publisher   string
	PublishedAt *time.Time
	PageCount   int
	Language    string
	Price       int64
	Rating      float64
	Stock       int
	CoverURL    string
	Description string
	CreatedBy   *uint
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// RegisterBook 登记图书
func (s *service) RegisterBook(ctx context.Context, params RegisterParams) (*Book, error) {
	// 1. ISBN归一化与格式校验
	isbn, ok := NormalizeISBN(params.ISBN)
	if !ok {
		return nil, ErrInvalidISBN
	}

	// 2. 价格校验
	if params.Price <= 0 {
		return nil, ErrInvalidPrice
	}

	// 3. 评分校验
	if params.Rating < 0 || params.Rating > 5 {
		return nil, ErrInvalidRating
	}

	// 4. 页数校验(0表示未知,允许;负数拒绝)
	if params.PageCount < 0 {
		return nil, ErrInvalidPageCount
	}

	// 5. 库存校验
	if params.Stock < 0 {
		return nil, ErrInvalidStock
	}

	// 6. 检查ISBN是否已存在
	existing, err := s.repo.FindByISBN(ctx, isbn)
	if err == nil && existing != nil {
		return nil, ErrISBNDuplicate
	}
	if err != nil && err != ErrBookNotFound {
		return nil, err
	}

	// 7. 创建图书实体并持久化
	b := NewBook(isbn, params.Title, params.Subtitle, params.AuthorID, params.CategoryID,
		params.Publisher, params.PublishedAt, params.PageCount, params.Language,
		params.Price, params.Rating, params.Stock, params.CoverURL, params.Description)
	b.CreatedBy = params.CreatedBy
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// GetBookByID 根据ID获取图书
func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// SetBookActive 上架/下架图书
func (s *service) SetBookActive(ctx context.Context, id uint, active bool) (*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b.SetActive(active)
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// GetBookByISBN 根据ISBN获取图书
func (s *service) GetBookByISBN(ctx context.Context, isbn string) (*Book, error) {
	normalized, ok := NormalizeISBN(isbn)
	if !ok {
		return nil, ErrInvalidISBN
	}
	return s.repo.FindByISBN(ctx, normalized)
}

// UpdateBookInfo 更新图书基本信息
func (s *service) UpdateBookInfo(ctx context.Context, id uint, title, subtitle, publisher, language, description, coverURL string) (*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b.UpdateInfo(title, subtitle, publisher, language, description, coverURL)
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// UpdateBookPrice 更新图书价格
func (s *service) UpdateBookPrice(ctx context.Context, id uint, newPrice int64) error {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := b.UpdatePrice(newPrice); err != nil {
		return err
	}

	return s.repo.Update(ctx, b)
}

// UpdateBookRating 更新图书评分
func (s *service) UpdateBookRating(ctx context.Context, id uint, rating float64) error {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := b.UpdateRating(rating); err != nil {
		return err
	}

	return s.repo.Update(ctx, b)
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return s.repo.List(ctx, params)
}

// =========================================
// 辅助函数:业务规则校验
// =========================================

var (
	isbnSepRe = regexp.MustCompile(`[\s-]`)
	isbn13Re  = regexp.MustCompile(`^[0-9]{13}$`)
)

// NormalizeISBN 归一化并校验ISBN
// 规则:
// - 只去除空格和连字符(如978-7-115-42802-8 → 9787115428028)
// - 去除后必须为13位纯数字(ISBN-13),夹杂字母直接拒绝
// 返回归一化后的ISBN与是否合法
func NormalizeISBN(isbn string) (string, bool) {
	clean := isbnSepRe.ReplaceAllString(isbn, "")
	if !isbn13Re.MatchString(clean) {
		return "", false
	}
	return clean, true
}
