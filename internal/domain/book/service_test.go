package book

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/biblioteca/pkg/errors"
)

// fakeRepo 内存版Repository(仅实现Service用到的方法)
type fakeRepo struct {
	books  map[string]*Book // key: ISBN
	nextID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{books: make(map[string]*Book), nextID: 1}
}

func (r *fakeRepo) Create(ctx context.Context, b *Book) error {
	if _, ok := r.books[b.ISBN]; ok {
		return ErrISBNDuplicate
	}
	b.ID = r.nextID
	r.nextID++
	r.books[b.ISBN] = b
	return nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id uint) (*Book, error) {
	for _, b := range r.books {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, ErrBookNotFound
}

func (r *fakeRepo) FindByISBN(ctx context.Context, isbn string) (*Book, error) {
	if b, ok := r.books[isbn]; ok {
		return b, nil
	}
	return nil, ErrBookNotFound
}

func (r *fakeRepo) Update(ctx context.Context, b *Book) error { return nil }
func (r *fakeRepo) Delete(ctx context.Context, id uint) error { return nil }

func (r *fakeRepo) List(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return nil, 0, nil
}

func (r *fakeRepo) LockByID(ctx context.Context, id uint) (*Book, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeRepo) UpdateStockStatus(ctx context.Context, id uint, stock int, status Status) error {
	return nil
}

func (r *fakeRepo) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	return 0, nil
}

func validParams(isbn string) RegisterParams {
	return RegisterParams{
		ISBN:      isbn,
		Title:     "设计模式",
		AuthorID:  1,
		Publisher: "测试出版社",
		PageCount: 395,
		Language:  "zh",
		Price:     7900,
		Rating:    4.8,
		Stock:     3,
	}
}

// TestNormalizeISBN ISBN归一化与校验
func TestNormalizeISBN(t *testing.T) {
	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"9787115428028", "9787115428028", true},
		{"978-7-115-42802-8", "9787115428028", true}, // 分隔符自动去除
		{"978 7 115 42802 8", "9787115428028", true},
		{"123", "", false},             // 位数不足
		{"9787115428", "", false},      // ISBN-10不支持
		{"978711542802X", "", false},   // 含非数字字符
		{"9x78000000000z2", "", false}, // 夹杂字母凑出13位数字也不行
	}

	for _, c := range cases {
		got, ok := NormalizeISBN(c.input)
		assert.Equal(t, c.ok, ok, "input=%s", c.input)
		if c.ok {
			assert.Equal(t, c.want, got)
		}
	}
}

// TestRegisterBook_成功
func TestRegisterBook_成功(t *testing.T) {
	svc := NewService(newFakeRepo())

	b, err := svc.RegisterBook(context.Background(), validParams("978-7-115-42802-8"))
	require.NoError(t, err)
	assert.Equal(t, "9787115428028", b.ISBN) // 入库前归一化
	assert.Equal(t, StatusAvailable, b.Status)
	assert.True(t, b.Active) // 新书默认上架
	assert.NotZero(t, b.ID)
}

// TestRegisterBook_ISBN格式错误 校验错误需指明字段
func TestRegisterBook_ISBN格式错误(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.RegisterBook(context.Background(), validParams("123"))
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	assert.Equal(t, "isbn", appErr.Field)
}

// TestRegisterBook_参数校验
func TestRegisterBook_参数校验(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	p := validParams("9787115428028")
	p.Price = 0
	_, err := svc.RegisterBook(ctx, p)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	p = validParams("9787115428028")
	p.Rating = 5.5
	_, err = svc.RegisterBook(ctx, p)
	assert.ErrorIs(t, err, ErrInvalidRating)

	p = validParams("9787115428028")
	p.PageCount = -1
	_, err = svc.RegisterBook(ctx, p)
	assert.ErrorIs(t, err, ErrInvalidPageCount)

	p = validParams("9787115428028")
	p.Stock = -1
	_, err = svc.RegisterBook(ctx, p)
	assert.ErrorIs(t, err, ErrInvalidStock)
}

// TestRegisterBook_页数未知 页数可以缺省(外部元数据经常不带pageCount)
func TestRegisterBook_页数未知(t *testing.T) {
	svc := NewService(newFakeRepo())

	p := validParams("9787115428028")
	p.PageCount = 0
	b, err := svc.RegisterBook(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 0, b.PageCount)
}

// TestRegisterBook_ISBN重复
func TestRegisterBook_ISBN重复(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.RegisterBook(ctx, validParams("9787115428028"))
	require.NoError(t, err)

	// 相同ISBN(带分隔符)再次登记
	_, err = svc.RegisterBook(ctx, validParams("978-7-115-42802-8"))
	assert.ErrorIs(t, err, ErrISBNDuplicate)
}

// TestGetBookByISBN_无效格式
func TestGetBookByISBN_无效格式(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.GetBookByISBN(context.Background(), "not-an-isbn")
	assert.ErrorIs(t, err, ErrInvalidISBN)
}

// TestSetBookActive 上架/下架开关
func TestSetBookActive(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	b, err := svc.RegisterBook(ctx, validParams("9787115428028"))
	require.NoError(t, err)
	require.True(t, b.Active)

	// 下架
	b, err = svc.SetBookActive(ctx, b.ID, false)
	require.NoError(t, err)
	assert.False(t, b.Active)

	// 重新上架
	b, err = svc.SetBookActive(ctx, b.ID, true)
	require.NoError(t, err)
	assert.True(t, b.Active)

	// 图书不存在
	_, err = svc.SetBookActive(ctx, 999, false)
	assert.ErrorIs(t, err, ErrBookNotFound)
}
