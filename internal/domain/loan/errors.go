package loan

import (
	apperrors "github.com/xiebiao/biblioteca/pkg/errors"
)

// 借阅领域错误定义
var (
	// ErrLoanNotFound 借阅记录不存在
	ErrLoanNotFound = apperrors.New(apperrors.ErrCodeLoanNotFound, "借阅记录不存在")

	// ErrAlreadyReturned 借阅已归还,不能重复归还
	ErrAlreadyReturned = apperrors.New(apperrors.ErrCodeAlreadyReturned, "该借阅已归还")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidStatus, "借阅状态不允许此操作")

	// ErrInvalidStatusFilter 查询的状态值不合法
	ErrInvalidStatusFilter = apperrors.NewField(apperrors.ErrCodeValidation, "status", "状态应为active/returned/lost/overdue之一")

	// ErrInvalidDueDate 应还时间不合法
	ErrInvalidDueDate = apperrors.NewField(apperrors.ErrCodeValidation, "due_at", "应还时间必须晚于当前时间")

	// ErrUnauthorized 无权操作此借阅
	ErrUnauthorized = apperrors.New(apperrors.ErrCodeForbidden, "无权操作此借阅记录")
)
