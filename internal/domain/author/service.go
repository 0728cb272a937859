package author

import (
	"context"
	"time"
)

// Service 作者领域服务
// 封装作者的业务规则校验:姓名长度、出生日期、删除保护
type Service interface {
	// CreateAuthor 创建作者
	// 业务规则:姓名各1-100字符,出生日期不能晚于今天,同名同姓唯一
	CreateAuthor(ctx context.Context, firstName, lastName string, birthdate *time.Time, country, biography, photoURL string) (*Author, error)

	// GetAuthorByID 根据ID获取作者
	GetAuthorByID(ctx context.Context, id uint) (*Author, error)

	// UpdateAuthor 更新作者信息
	UpdateAuthor(ctx context.Context, id uint, firstName, lastName string, birthdate *time.Time, country, biography, photoURL string) (*Author, error)

	// DeleteAuthor 删除作者
	// 业务规则:作者名下仍有图书时返回ErrAuthorInUse
	DeleteAuthor(ctx context.Context, id uint) error

	// ListAuthors 分页查询作者列表
	ListAuthors(ctx context.Context, page, pageSize int, keyword string) ([]*Author, int64, error)
}

type service struct {
	repo Repository
}

// NewService 创建作者领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateAuthor 创建作者
func (s *service) CreateAuthor(ctx context.Context, firstName, lastName string, birthdate *time.Time, country, biography, photoURL string) (*Author, error) {
	// 1. 姓名校验
	if !isValidName(firstName) {
		return nil, ErrInvalidFirstName
	}
	if !isValidName(lastName) {
		return nil, ErrInvalidLastName
	}

	// 2. 出生日期校验
	if birthdate != nil && birthdate.After(time.Now()) {
		return nil, ErrInvalidBirthdate
	}

	// 3. 创建实体并持久化
	// 同名唯一性由数据库组合索引保证,Repository转换重复错误
	a := NewAuthor(firstName, lastName, birthdate, country, biography, photoURL)
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

// GetAuthorByID 根据ID获取作者
func (s *service) GetAuthorByID(ctx context.Context, id uint) (*Author, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateAuthor 更新作者信息
func (s *service) UpdateAuthor(ctx context.Context, id uint, firstName, lastName string, birthdate *time.Time, country, biography, photoURL string) (*Author, error) {
	if firstName != "" && !isValidName(firstName) {
		return nil, ErrInvalidFirstName
	}
	if lastName != "" && !isValidName(lastName) {
		return nil, ErrInvalidLastName
	}
	if birthdate != nil && birthdate.After(time.Now()) {
		return nil, ErrInvalidBirthdate
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.UpdateInfo(firstName, lastName, birthdate, country, biography, photoURL)
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

// DeleteAuthor 删除作者
// 业务规则:名下有图书的作者不能删除(保护引用完整性)
func (s *service) DeleteAuthor(ctx context.Context, id uint) error {
	// 1. 确认作者存在
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	// 2. 删除保护:名下仍有图书则拒绝
	count, err := s.repo.CountBooks(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAuthorInUse
	}

	return s.repo.Delete(ctx, id)
}

// ListAuthors 分页查询作者列表
func (s *service) ListAuthors(ctx context.Context, page, pageSize int, keyword string) ([]*Author, int64, error) {
	return s.repo.List(ctx, page, pageSize, keyword)
}

// isValidName 姓名长度校验
func isValidName(name string) bool {
	length := len([]rune(name))
	return length >= 1 && length <= 100
}
