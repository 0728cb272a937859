package book

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/biblioteca/internal/domain/book"
)

// fakeTxManager 用互斥锁模拟行锁的串行化效果
type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

// fakeBookRepo 内存图书仓储(只实现库存调整用到的方法)
type fakeBookRepo struct {
	mu    sync.Mutex
	books map[uint]*book.Book
}

func newFakeBookRepo(books ...*book.Book) *fakeBookRepo {
	m := make(map[uint]*book.Book)
	for _, b := range books {
		m[b.ID] = b
	}
	return &fakeBookRepo{books: m}
}

func (r *fakeBookRepo) Create(ctx context.Context, b *book.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.books[b.ID] = &cp
	return nil
}

func (r *fakeBookRepo) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookRepo) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	return nil, book.ErrBookNotFound
}

func (r *fakeBookRepo) Update(ctx context.Context, b *book.Book) error {
	return r.Create(ctx, b)
}

func (r *fakeBookRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.books, id)
	return nil
}

func (r *fakeBookRepo) List(ctx context.Context, params book.ListParams) ([]*book.Book, int64, error) {
	return nil, 0, nil
}

func (r *fakeBookRepo) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeBookRepo) UpdateStockStatus(ctx context.Context, id uint, stock int, status book.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[id]
	if !ok {
		return book.ErrBookNotFound
	}
	b.Stock = stock
	b.Status = status
	return nil
}

func (r *fakeBookRepo) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	return 0, nil
}

// Test库存调整_入库 采购入库:库存增加,loaned自动恢复available
func Test库存调整_入库(t *testing.T) {
	repo := newFakeBookRepo(&book.Book{ID: 1, Stock: 0, Status: book.StatusLoaned})
	uc := NewAdjustStockUseCase(repo, &fakeTxManager{})

	resp, err := uc.Execute(context.Background(), AdjustStockRequest{BookID: 1, Delta: 5})
	require.NoError(t, err)

	assert.Equal(t, 5, resp.Stock)
	assert.Equal(t, "available", resp.Status)
}

// Test库存调整_出库到零 库存减到0自动转loaned
func Test库存调整_出库到零(t *testing.T) {
	repo := newFakeBookRepo(&book.Book{ID: 1, Stock: 3, Status: book.StatusAvailable})
	uc := NewAdjustStockUseCase(repo, &fakeTxManager{})

	resp, err := uc.Execute(context.Background(), AdjustStockRequest{BookID: 1, Delta: -3})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Stock)
	assert.Equal(t, "loaned", resp.Status)
}

// Test库存调整_盘亏超过账面 出库超过库存时归零,不报错不出现负数
func Test库存调整_盘亏超过账面(t *testing.T) {
	repo := newFakeBookRepo(&book.Book{ID: 1, Stock: 2, Status: book.StatusAvailable})
	uc := NewAdjustStockUseCase(repo, &fakeTxManager{})

	resp, err := uc.Execute(context.Background(), AdjustStockRequest{BookID: 1, Delta: -10})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Stock)
	assert.Equal(t, "loaned", resp.Status)
}

// Test库存调整_维护状态不被覆盖 maintenance状态下补货,状态保持maintenance
func Test库存调整_维护状态不被覆盖(t *testing.T) {
	repo := newFakeBookRepo(&book.Book{ID: 1, Stock: 0, Status: book.StatusMaintenance})
	uc := NewAdjustStockUseCase(repo, &fakeTxManager{})

	resp, err := uc.Execute(context.Background(), AdjustStockRequest{BookID: 1, Delta: 3})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Stock)
	assert.Equal(t, "maintenance", resp.Status)
}

// Test库存调整_设置维护状态 调整时可同时下架维修
func Test库存调整_设置维护状态(t *testing.T) {
	repo := newFakeBookRepo(&book.Book{ID: 1, Stock: 3, Status: book.StatusAvailable})
	uc := NewAdjustStockUseCase(repo, &fakeTxManager{})

	status := "maintenance"
	resp, err := uc.Execute(context.Background(), AdjustStockRequest{BookID: 1, Delta: 0, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "maintenance", resp.Status)
}

// Test库存调整_恢复上架按库存推导 maintenance设回available时,库存0则推导为loaned
func Test库存调整_恢复上架按库存推导(t *testing.T) {
	repo := newFakeBookRepo(&book.Book{ID: 1, Stock: 0, Status: book.StatusMaintenance})
	uc := NewAdjustStockUseCase(repo, &fakeTxManager{})

	status := "available"
	resp, err := uc.Execute(context.Background(), AdjustStockRequest{BookID: 1, Delta: 0, Status: &status})
	require.NoError(t, err)

	// 库存为0,"available"被重新推导为loaned
	assert.Equal(t, "loaned", resp.Status)
}

// Test库存调整_非法状态值
func Test库存调整_非法状态值(t *testing.T) {
	repo := newFakeBookRepo(&book.Book{ID: 1, Stock: 3, Status: book.StatusAvailable})
	uc := NewAdjustStockUseCase(repo, &fakeTxManager{})

	status := "damaged"
	_, err := uc.Execute(context.Background(), AdjustStockRequest{BookID: 1, Delta: 0, Status: &status})
	assert.ErrorIs(t, err, book.ErrInvalidStatus)
}

// Test库存调整_图书不存在
func Test库存调整_图书不存在(t *testing.T) {
	uc := NewAdjustStockUseCase(newFakeBookRepo(), &fakeTxManager{})

	_, err := uc.Execute(context.Background(), AdjustStockRequest{BookID: 999, Delta: 1})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}
