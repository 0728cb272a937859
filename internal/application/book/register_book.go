package book

import (
	"context"

	"github.com/xiebiao/biblioteca/internal/domain/author"
	"github.com/xiebiao/biblioteca/internal/domain/book"
	"github.com/xiebiao/biblioteca/internal/domain/category"
)

// RegisterBookUseCase 图书登记用例(管理端)
// 设计说明:
// 1. 应用层负责用例编排:先校验作者/分类存在,再调用领域服务登记
// 2. 输入输出使用DTO(Data Transfer Object),与HTTP层解耦
// 3. 业务规则校验(ISBN格式、价格范围等)由领域服务负责
type RegisterBookUseCase struct {
	bookService     book.Service
	authorService   author.Service
	categoryService category.Service
}

// NewRegisterBookUseCase 创建图书登记用例
func NewRegisterBookUseCase(
	bookService book.Service,
	authorService author.Service,
	categoryService category.Service,
) *RegisterBookUseCase {
	return &RegisterBookUseCase{
		bookService:     bookService,
		authorService:   authorService,
		categoryService: categoryService,
	}
}

// RegisterBookRequest 图书登记请求DTO
type RegisterBookRequest struct {
	ISBN        string // ISBN-13(允许带分隔符)
	Title       string // 书名
	Subtitle    string // 副标题
	AuthorID    uint   // 作者ID(必填)
	CategoryID  *uint  // 分类ID(可空)
	Publisher   string // 出版社
	PublishedAt string // 出版日期(2006-01-02)
	PageCount   int    // 页数
	Language    string // 语言
	Price       int64  // 价格(分)
	Rating      float64
	Stock       int    // 初始库存
	CoverURL    string // 封面图URL
	Description string // 图书描述
	CreatedBy   *uint  // 登记人用户ID(网关层注入)
}

// Execute 执行图书登记用例
func (uc *RegisterBookUseCase) Execute(ctx context.Context, req RegisterBookRequest) (*BookDetail, error) {
	// 1. 作者必须存在
	a, err := uc.authorService.GetAuthorByID(ctx, req.AuthorID)
	if err != nil {
		return nil, err
	}

	// 2. 分类可空,填了就必须存在
	if req.CategoryID != nil {
		if _, err := uc.categoryService.GetCategoryByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	// 3. 出版日期解析(可空)
	publishedAt, err := parseDate(req.PublishedAt)
	if err != nil {
		return nil, book.ErrInvalidPublishedAt
	}

	// 4. 调用领域服务登记图书
	// 领域服务会处理:ISBN归一化与格式校验、价格/评分/页数/库存校验、ISBN重复检查
	b, err := uc.bookService.RegisterBook(ctx, book.RegisterParams{
		ISBN:        req.ISBN,
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		AuthorID:    req.AuthorID,
		CategoryID:  req.CategoryID,
		Publisher:   req.Publisher,
		PublishedAt: publishedAt,
		PageCount:   req.PageCount,
		Language:    req.Language,
		Price:       req.Price,
		Rating:      req.Rating,
		Stock:       req.Stock,
		CoverURL:    req.CoverURL,
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		return nil, err
	}

	return toBookDetail(b, a.FullName()), nil
}
