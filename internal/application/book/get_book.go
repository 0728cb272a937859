package book

import (
	"context"

	"github.com/xiebiao/biblioteca/internal/domain/author"
	"github.com/xiebiao/biblioteca/internal/domain/book"
)

// GetBookUseCase 图书详情查询用例
type GetBookUseCase struct {
	bookService   book.Service
	authorService author.Service
}

// NewGetBookUseCase 创建详情查询用例
func NewGetBookUseCase(bookService book.Service, authorService author.Service) *GetBookUseCase {
	return &GetBookUseCase{
		bookService:   bookService,
		authorService: authorService,
	}
}

// Execute 执行详情查询
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookDetail, error) {
	b, err := uc.bookService.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 作者名用于展示,查不到不影响主流程
	authorName := ""
	if a, err := uc.authorService.GetAuthorByID(ctx, b.AuthorID); err == nil {
		authorName = a.FullName()
	}

	return toBookDetail(b, authorName), nil
}

// ExecuteByISBN 按ISBN查询详情(扫码查书场景)
func (uc *GetBookUseCase) ExecuteByISBN(ctx context.Context, isbn string) (*BookDetail, error) {
	b, err := uc.bookService.GetBookByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}

	authorName := ""
	if a, err := uc.authorService.GetAuthorByID(ctx, b.AuthorID); err == nil {
		authorName = a.FullName()
	}

	return toBookDetail(b, authorName), nil
}
