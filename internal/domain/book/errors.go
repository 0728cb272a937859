package book

import (
	apperrors "github.com/xiebiao/biblioteca/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeNotFound, "图书不存在")

	// ErrISBNDuplicate ISBN已存在
	ErrISBNDuplicate = apperrors.NewField(apperrors.ErrCodeDuplicateEntry, "isbn", "ISBN号已存在")

	// ErrInvalidISBN ISBN格式不正确
	ErrInvalidISBN = apperrors.NewField(apperrors.ErrCodeValidation, "isbn", "ISBN必须为13位数字")

	// ErrInvalidPrice 无效的价格
	ErrInvalidPrice = apperrors.NewField(apperrors.ErrCodeValidation, "price", "价格必须大于0")

	// ErrInvalidRating 无效的评分
	ErrInvalidRating = apperrors.NewField(apperrors.ErrCodeValidation, "rating", "评分范围应为0-5")

	// ErrInvalidPageCount 无效的页数
	ErrInvalidPageCount = apperrors.NewField(apperrors.ErrCodeValidation, "page_count", "页数不能为负数")

	// ErrInvalidStock 无效的库存
	ErrInvalidStock = apperrors.NewField(apperrors.ErrCodeValidation, "stock", "库存不能为负数")

	// ErrInvalidPublishedAt 出版日期格式不正确
	ErrInvalidPublishedAt = apperrors.NewField(apperrors.ErrCodeValidation, "published_at", "出版日期格式应为YYYY-MM-DD")

	// ErrInvalidStatus 无效的图书状态
	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeInvalidStatus, "图书状态不合法")

	// ErrNotAvailable 图书当前不可借
	ErrNotAvailable = apperrors.New(apperrors.ErrCodeNotAvailable, "图书当前不可借")

	// ErrBookOnLoan 图书仍有未归还的借阅,禁止删除
	ErrBookOnLoan = apperrors.New(apperrors.ErrCodeBookOnLoan, "图书仍有未归还的借阅,无法删除")
)
