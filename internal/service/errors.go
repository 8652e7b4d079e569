package service

import (
	"errors"
	"fmt"
	"strings"

	"nodepilot/internal/generator"
)

var (
	// ErrValidationFailed 工作区未通过校验，不能生成
	ErrValidationFailed = errors.New("workflow validation failed")
	// ErrNotFound 节点或连线不存在
	ErrNotFound = errors.New("not found")
	// ErrGeneratorFailed 生成服务调用失败
	ErrGeneratorFailed = generator.ErrFailed
)

// GeneratorError 生成服务返回的错误状态
type GeneratorError = generator.StatusError

// ValidationError 携带全部校验错误
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(e.Errors, "; "))
}

// Unwrap 使 errors.Is(err, ErrValidationFailed) 成立
func (e *ValidationError) Unwrap() error { return ErrValidationFailed }

// FieldError 样例记录中单个字段的问题
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RecordError 样例记录校验失败
type RecordError struct {
	Entity string
	Fields []FieldError
}

func (e *RecordError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("field '%s': %s", f.Field, f.Message)
	}
	return fmt.Sprintf("record for '%s' is invalid: %s", e.Entity, strings.Join(parts, "; "))
}

// Unwrap 使 errors.Is(err, ErrValidationFailed) 成立
func (e *RecordError) Unwrap() error { return ErrValidationFailed }
