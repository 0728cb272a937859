package author

import (
	"context"
	"time"

	"github.com/xiebiao/biblioteca/internal/domain/author"
)

// ManageAuthorUseCase 作者管理用例(管理端)
// 设计说明:
// 1. 作者CRUD都是对领域服务的薄编排,合并为一个用例结构
// 2. 删除保护(名下有图书禁止删除)由领域服务的CountBooks检查实现
type ManageAuthorUseCase struct {
	authorService author.Service
}

// NewManageAuthorUseCase 创建作者管理用例
func NewManageAuthorUseCase(authorService author.Service) *ManageAuthorUseCase {
	return &ManageAuthorUseCase{
		authorService: authorService,
	}
}

// AuthorRequest 作者创建/更新请求DTO
type AuthorRequest struct {
	FirstName string
	LastName  string
	Birthdate *time.Time
	Country   string
	Biography string
	PhotoURL  string
}

// AuthorResponse 作者响应DTO
type AuthorResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Birthdate string `json:"birthdate,omitempty"`
	Country   string `json:"country"`
	Biography string `json:"biography"`
	PhotoURL  string `json:"photo_url,omitempty"`
	CreatedAt string `json:"created_at"`
}

// Create 创建作者
func (uc *ManageAuthorUseCase) Create(ctx context.Context, req AuthorRequest) (*AuthorResponse, error) {
	a, err := uc.authorService.CreateAuthor(ctx, req.FirstName, req.LastName, req.Birthdate, req.Country, req.Biography, req.PhotoURL)
	if err != nil {
		return nil, err
	}
	return toAuthorResponse(a), nil
}

// Update 更新作者信息
func (uc *ManageAuthorUseCase) Update(ctx context.Context, id uint, req AuthorRequest) (*AuthorResponse, error) {
	a, err := uc.authorService.UpdateAuthor(ctx, id, req.FirstName, req.LastName, req.Birthdate, req.Country, req.Biography, req.PhotoURL)
	if err != nil {
		return nil, err
	}
	return toAuthorResponse(a), nil
}

// Delete 删除作者
// 名下仍有图书时返回ErrAuthorInUse
func (uc *ManageAuthorUseCase) Delete(ctx context.Context, id uint) error {
	return uc.authorService.DeleteAuthor(ctx, id)
}

// Get 获取作者详情
func (uc *ManageAuthorUseCase) Get(ctx context.Context, id uint) (*AuthorResponse, error) {
	a, err := uc.authorService.GetAuthorByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAuthorResponse(a), nil
}

// ListAuthorsResponse 作者列表响应DTO
type ListAuthorsResponse struct {
	List     []AuthorResponse `json:"list"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// List 分页查询作者列表
func (uc *ManageAuthorUseCase) List(ctx context.Context, page, pageSize int, keyword string) (*ListAuthorsResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	authors, total, err := uc.authorService.ListAuthors(ctx, page, pageSize, keyword)
	if err != nil {
		return nil, err
	}

	list := make([]AuthorResponse, len(authors))
	for i, a := range authors {
		list[i] = *toAuthorResponse(a)
	}

	return &ListAuthorsResponse{
		List:     list,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// toAuthorResponse 领域实体 → 应用层DTO
func toAuthorResponse(a *author.Author) *AuthorResponse {
	resp := &AuthorResponse{
		ID:        a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		FullName:  a.FullName(),
		Country:   a.Country,
		Biography: a.Biography,
		PhotoURL:  a.PhotoURL,
		CreatedAt: a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if a.Birthdate != nil {
		resp.Birthdate = a.Birthdate.Format("2006-01-02")
	}
	return resp
}
