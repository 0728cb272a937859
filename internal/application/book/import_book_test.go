package book

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/biblioteca/internal/domain/author"
	"github.com/xiebiao/biblioteca/internal/domain/book"
	"github.com/xiebiao/biblioteca/internal/infrastructure/googlebooks"
	apperrors "github.com/xiebiao/biblioteca/pkg/errors"
)

// fakeAuthorRepo 内存作者仓储
type fakeAuthorRepo struct {
	mu      sync.Mutex
	authors map[uint]*author.Author
	nextID  uint
}

func newFakeAuthorRepo(authors ...*author.Author) *fakeAuthorRepo {
	m := make(map[uint]*author.Author)
	var maxID uint
	for _, a := range authors {
		m[a.ID] = a
		if a.ID > maxID {
			maxID = a.ID
		}
	}
	return &fakeAuthorRepo{authors: m, nextID: maxID + 1}
}

func (r *fakeAuthorRepo) Create(ctx context.Context, a *author.Author) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.nextID
	r.nextID++
	cp := *a
	r.authors[a.ID] = &cp
	return nil
}

func (r *fakeAuthorRepo) FindByID(ctx context.Context, id uint) (*author.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.authors[id]
	if !ok {
		return nil, author.ErrAuthorNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAuthorRepo) FindByName(ctx context.Context, firstName, lastName string) (*author.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.authors {
		if a.FirstName == firstName && a.LastName == lastName {
			cp := *a
			return &cp, nil
		}
	}
	return nil, author.ErrAuthorNotFound
}

func (r *fakeAuthorRepo) Update(ctx context.Context, a *author.Author) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.authors[a.ID] = &cp
	return nil
}

func (r *fakeAuthorRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.authors, id)
	return nil
}

func (r *fakeAuthorRepo) List(ctx context.Context, page, pageSize int, keyword string) ([]*author.Author, int64, error) {
	return nil, 0, nil
}

func (r *fakeAuthorRepo) CountBooks(ctx context.Context, id uint) (int64, error) {
	return 0, nil
}

// stubMetadataClient 固定返回的元数据客户端
type stubMetadataClient struct {
	meta *googlebooks.BookMetadata
	err  error
}

func (c *stubMetadataClient) FetchByISBN(ctx context.Context, isbn string) (*googlebooks.BookMetadata, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.meta, nil
}

func sampleMetadata() *googlebooks.BookMetadata {
	published := time.Date(1967, 5, 30, 0, 0, 0, 0, time.UTC)
	return &googlebooks.BookMetadata{
		ISBN:        "9788437604947",
		Title:       "Cien años de soledad",
		Authors:     []string{"Gabriel García Márquez"},
		Publisher:   "Sudamericana",
		PublishedAt: &published,
		PageCount:   417,
		Language:    "es",
		Description: "La saga de la familia Buendía en Macondo.",
		Rating:      4.5,
	}
}

func newImportUseCase(authorRepo *fakeAuthorRepo, client MetadataClient) *ImportBookUseCase {
	bookService := book.NewService(newFakeBookRepo())
	authorService := author.NewService(authorRepo)
	return NewImportBookUseCase(bookService, authorService, authorRepo, client)
}

// Test图书导入_成功 从外部元数据创建图书,作者自动创建
func Test图书导入_成功(t *testing.T) {
	authorRepo := newFakeAuthorRepo()
	uc := newImportUseCase(authorRepo, &stubMetadataClient{meta: sampleMetadata()})

	detail, err := uc.Execute(context.Background(), ImportBookRequest{
		ISBN:  "9788437604947",
		Price: 4500,
		Stock: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, "9788437604947", detail.ISBN)
	assert.Equal(t, "Cien años de soledad", detail.Title)
	assert.Equal(t, "Gabriel García Márquez", detail.Author)
	assert.Equal(t, int64(4500), detail.Price)
	assert.Equal(t, 3, detail.Stock)
	assert.Equal(t, "1967-05-30", detail.PublishedAt)

	// 作者按"最后一个词是姓"拆分创建
	created, err := authorRepo.FindByName(context.Background(), "Gabriel García", "Márquez")
	require.NoError(t, err)
	assert.Equal(t, "Gabriel García Márquez", created.FullName())
}

// Test图书导入_复用已有作者 同名作者不重复创建
func Test图书导入_复用已有作者(t *testing.T) {
	existing := &author.Author{ID: 7, FirstName: "Gabriel García", LastName: "Márquez"}
	authorRepo := newFakeAuthorRepo(existing)
	uc := newImportUseCase(authorRepo, &stubMetadataClient{meta: sampleMetadata()})

	detail, err := uc.Execute(context.Background(), ImportBookRequest{
		ISBN:  "9788437604947",
		Price: 4500,
		Stock: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), detail.AuthorID)
}

// Test图书导入_外部服务降级 熔断打开时返回外部服务错误
func Test图书导入_外部服务降级(t *testing.T) {
	uc := newImportUseCase(newFakeAuthorRepo(), &stubMetadataClient{err: apperrors.ErrExternalService})

	_, err := uc.Execute(context.Background(), ImportBookRequest{ISBN: "9788437604947", Price: 100, Stock: 1})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeExternalService, apperrors.GetAppError(err).Code)
}

// Test图书导入_ISBN未收录
func Test图书导入_ISBN未收录(t *testing.T) {
	uc := newImportUseCase(newFakeAuthorRepo(), &stubMetadataClient{err: googlebooks.ErrVolumeNotFound})

	_, err := uc.Execute(context.Background(), ImportBookRequest{ISBN: "9780000000000", Price: 100, Stock: 1})
	assert.ErrorIs(t, err, googlebooks.ErrVolumeNotFound)
}

// Test图书导入_价格必填 外部服务不提供价格,本地价格必须合法
func Test图书导入_价格必填(t *testing.T) {
	authorRepo := newFakeAuthorRepo()
	uc := newImportUseCase(authorRepo, &stubMetadataClient{meta: sampleMetadata()})

	_, err := uc.Execute(context.Background(), ImportBookRequest{ISBN: "9788437604947", Price: 0, Stock: 1})
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	assert.Equal(t, "price", appErr.Field)

	// 登记失败触发补偿,本次新建的作者被删除
	_, err = authorRepo.FindByName(context.Background(), "Gabriel García", "Márquez")
	assert.ErrorIs(t, err, author.ErrAuthorNotFound)
}

// Test图书导入_补偿不删除已有作者 复用的作者不在补偿范围内
func Test图书导入_补偿不删除已有作者(t *testing.T) {
	existing := &author.Author{ID: 7, FirstName: "Gabriel García", LastName: "Márquez"}
	authorRepo := newFakeAuthorRepo(existing)
	uc := newImportUseCase(authorRepo, &stubMetadataClient{meta: sampleMetadata()})

	_, err := uc.Execute(context.Background(), ImportBookRequest{ISBN: "9788437604947", Price: 0, Stock: 1})
	require.Error(t, err)

	// 复用的作者应完好无损
	kept, err := authorRepo.FindByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Gabriel García Márquez", kept.FullName())
}
