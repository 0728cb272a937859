package book

import (
	"context"
	"strings"
	"time"

	"github.com/xiebiao/biblioteca/internal/domain/author"
	"github.com/xiebiao/biblioteca/internal/domain/book"
	"github.com/xiebiao/biblioteca/internal/infrastructure/googlebooks"
	"github.com/xiebiao/biblioteca/pkg/saga"
)

// MetadataClient 图书元数据客户端接口
// 由infrastructure/googlebooks实现;定义在应用层便于Mock测试
type MetadataClient interface {
	FetchByISBN(ctx context.Context, isbn string) (*googlebooks.BookMetadata, error)
}

// ImportBookUseCase 图书导入用例(管理端)
// 设计说明:
// 1. 管理员只提供ISBN+价格+库存,书目信息从Google Books拉取
// 2. 作者按姓名find-or-create:已有同名作者直接复用
// 3. 外部服务有熔断保护,熔断打开时返回ErrExternalService快速失败
type ImportBookUseCase struct {
	bookService    book.Service
	authorService  author.Service
	authorRepo     author.Repository
	metadataClient MetadataClient
}

// NewImportBookUseCase 创建图书导入用例
func NewImportBookUseCase(
	bookService book.Service,
	authorService author.Service,
	authorRepo author.Repository,
	metadataClient MetadataClient,
) *ImportBookUseCase {
	return &ImportBookUseCase{
		bookService:    bookService,
		authorService:  authorService,
		authorRepo:     authorRepo,
		metadataClient: metadataClient,
	}
}

// ImportBookRequest 导入请求DTO
type ImportBookRequest struct {
	ISBN       string // ISBN-13或ISBN-10
	CategoryID *uint  // 分类(可空)
	Price      int64  // 价格(分),外部服务不提供价格
	Stock      int    // 初始库存
	CreatedBy  *uint  // 登记人用户ID(网关层注入)
}

// Execute 执行图书导入
func (uc *ImportBookUseCase) Execute(ctx context.Context, req ImportBookRequest) (*BookDetail, error) {
	// 1. 查询外部元数据(只读操作,失败直接返回,无需补偿)
	meta, err := uc.metadataClient.FetchByISBN(ctx, req.ISBN)
	if err != nil {
		return nil, err
	}

	// 2. 作者创建+图书登记组成两步Saga
	// 图书登记失败时(如ISBN已存在)删除本次新建的作者,不留孤儿记录;
	// 复用的已有作者不在补偿范围内
	var (
		authorID      uint
		authorName    string
		createdAuthor bool
		detail        *BookDetail
	)

	s := saga.NewSaga(30 * time.Second)
	s.AddStep("解析作者",
		func(ctx context.Context) error {
			var err error
			authorID, authorName, createdAuthor, err = uc.resolveAuthor(ctx, meta.Authors)
			return err
		},
		func(ctx context.Context) error {
			if !createdAuthor {
				return nil
			}
			return uc.authorRepo.Delete(ctx, authorID)
		},
	)
	s.AddStep("登记图书",
		func(ctx context.Context) error {
			b, err := uc.bookService.RegisterBook(ctx, book.RegisterParams{
				ISBN:        meta.ISBN,
				Title:       meta.Title,
				Subtitle:    meta.Subtitle,
				AuthorID:    authorID,
				CategoryID:  req.CategoryID,
				Publisher:   meta.Publisher,
				PublishedAt: meta.PublishedAt,
				PageCount:   meta.PageCount,
				Language:    meta.Language,
				Price:       req.Price,
				Rating:      meta.Rating,
				Stock:       req.Stock,
				CoverURL:    meta.CoverURL,
				Description: meta.Description,
				CreatedBy:   req.CreatedBy,
			})
			if err != nil {
				return err
			}
			detail = toBookDetail(b, authorName)
			if meta.PublishedAt != nil {
				detail.PublishedAt = meta.PublishedAt.Format("2006-01-02")
			}
			return nil
		},
		nil, // 最后一步无需补偿
	)

	if err := s.Execute(ctx); err != nil {
		return nil, err
	}
	return detail, nil
}

// resolveAuthor 作者find-or-create
// 取第一作者,姓名按最后一个空格拆分(如"Gabriel García Márquez" → 名"Gabriel García" 姓"Márquez")
// 返回的created标记本次是否新建了作者,供失败补偿判断
func (uc *ImportBookUseCase) resolveAuthor(ctx context.Context, authors []string) (uint, string, bool, error) {
	name := "Desconocido"
	if len(authors) > 0 && strings.TrimSpace(authors[0]) != "" {
		name = strings.TrimSpace(authors[0])
	}

	firstName, lastName := splitAuthorName(name)

	// 已有同名作者直接复用
	if existing, err := uc.authorRepo.FindByName(ctx, firstName, lastName); err == nil {
		return existing.ID, existing.FullName(), false, nil
	} else if err != author.ErrAuthorNotFound {
		return 0, "", false, err
	}

	created, err := uc.authorService.CreateAuthor(ctx, firstName, lastName, nil, "", "", "")
	if err != nil {
		return 0, "", false, err
	}
	return created.ID, created.FullName(), true, nil
}

// splitAuthorName 姓名拆分:最后一个词作为姓
// 单名作者(如"Platón")姓与名同值,保证两个字段都通过非空校验
func splitAuthorName(name string) (firstName, lastName string) {
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return name, name
	}
	return name[:idx], name[idx+1:]
}
