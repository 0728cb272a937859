package book

import (
	"context"

	"github.com/xiebiao/biblioteca/internal/domain/book"
	"github.com/xiebiao/biblioteca/pkg/metrics"
)

// Transactor 事务执行器
// *mysql.TxManager实现此接口;定义在应用层便于测试注入
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// AdjustStockUseCase 库存调整用例(管理端:采购入库/盘亏出库/状态管理)
// 设计说明:
// 1. 库存调整与借阅创建共用同一把行锁(SELECT FOR UPDATE),
//    保证管理员调库存与读者借书不会交叉覆盖
// 2. 库存与状态的推导规则封装在实体AdjustStock中:
//    减到0自动转loaned,补货自动恢复available,maintenance/lost不被覆盖
// 3. 负库存归零,不报错(盘亏数量超过账面库存的场景)
type AdjustStockUseCase struct {
	bookRepo  book.Repository
	txManager Transactor
}

// NewAdjustStockUseCase 创建库存调整用例
func NewAdjustStockUseCase(bookRepo book.Repository, txManager Transactor) *AdjustStockUseCase {
	return &AdjustStockUseCase{
		bookRepo:  bookRepo,
		txManager: txManager,
	}
}

// AdjustStockRequest 库存调整请求DTO
type AdjustStockRequest struct {
	BookID uint
	Delta  int     // 库存增量(正数入库,负数出库)
	Status *string // 可选:同时设置图书状态(maintenance/lost/available)
}

// AdjustStockResponse 库存调整响应DTO
type AdjustStockResponse struct {
	BookID uint   `json:"book_id"`
	Stock  int    `json:"stock"`
	Status string `json:"status"`
}

// Execute 执行库存调整
func (uc *AdjustStockUseCase) Execute(ctx context.Context, req AdjustStockRequest) (*AdjustStockResponse, error) {
	var result *book.Book

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 锁定图书行(与借阅创建互斥)
		b, err := uc.bookRepo.LockByID(txCtx, req.BookID)
		if err != nil {
			return err
		}

		// 2. 实体内调整库存并推导状态
		b.AdjustStock(req.Delta)

		// 3. 可选的状态覆盖(如下架维修)
		if req.Status != nil {
			if err := b.SetStatus(book.Status(*req.Status)); err != nil {
				return err
			}
		}

		// 4. 库存与状态在一条UPDATE中落库
		if err := uc.bookRepo.UpdateStockStatus(txCtx, b.ID, b.Stock, b.Status); err != nil {
			return err
		}

		result = b
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 缺货图书数指标(库存减到0时+1,补货时-1,近似值够用)
	if result.Stock == 0 && req.Delta < 0 {
		metrics.IncGauge(metrics.BooksOutOfStock)
	} else if result.Stock > 0 && req.Delta > 0 && result.Stock <= req.Delta {
		metrics.DecGauge(metrics.BooksOutOfStock)
	}

	return &AdjustStockResponse{
		BookID: result.ID,
		Stock:  result.Stock,
		Status: string(result.Status),
	}, nil
}
