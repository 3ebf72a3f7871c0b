package domain

import "errors"

// 各层之间传递的错误类型，HTTP 层负责统一转换为状态码
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrConflict        = errors.New("conflict")
)
