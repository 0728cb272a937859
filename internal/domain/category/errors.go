package category

import (
	apperrors "github.com/xiebiao/biblioteca/pkg/errors"
)

// 分类领域错误定义
var (
	// ErrCategoryNotFound 分类不存在
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "分类不存在")

	// ErrCategoryDuplicate 分类名称已存在
	ErrCategoryDuplicate = apperrors.NewField(apperrors.ErrCodeDuplicateEntry, "name", "分类名称已存在")

	// ErrInvalidCategoryName 分类名称不合法
	ErrInvalidCategoryName = apperrors.NewField(apperrors.ErrCodeValidation, "name", "分类名称长度应为1-100个字符")
)
