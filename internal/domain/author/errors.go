package author

import (
	apperrors "github.com/xiebiao/biblioteca/pkg/errors"
)

// 作者领域错误定义
var (
	// ErrAuthorNotFound 作者不存在
	ErrAuthorNotFound = apperrors.New(apperrors.ErrCodeAuthorNotFound, "作者不存在")

	// ErrAuthorDuplicate 同名作者已存在
	ErrAuthorDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "同名作者已存在")

	// ErrAuthorInUse 作者名下仍有图书,禁止删除
	ErrAuthorInUse = apperrors.New(apperrors.ErrCodeAuthorInUse, "作者名下仍有图书,无法删除")

	// ErrInvalidFirstName 名不合法
	ErrInvalidFirstName = apperrors.NewField(apperrors.ErrCodeValidation, "first_name", "名长度应为1-100个字符")

	// ErrInvalidLastName 姓不合法
	ErrInvalidLastName = apperrors.NewField(apperrors.ErrCodeValidation, "last_name", "姓长度应为1-100个字符")

	// ErrInvalidBirthdate 出生日期不合法
	ErrInvalidBirthdate = apperrors.NewField(apperrors.ErrCodeValidation, "birthdate", "出生日期不能晚于今天")
)
