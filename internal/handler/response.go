package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nodepilot/internal/graph"
	"nodepilot/internal/service"
)

// Response 统一响应格式
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Errors    []ErrorItem `json:"errors,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// ErrorItem 错误项
type ErrorItem struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:      http.StatusOK,
		Message:   "success",
		Data:      data,
		Timestamp: timestamp(),
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:      code,
		Message:   message,
		Timestamp: timestamp(),
	})
}

// ValidationError 验证错误响应
func ValidationError(c *gin.Context, errors []ErrorItem) {
	c.JSON(http.StatusBadRequest, Response{
		Code:      http.StatusBadRequest,
		Message:   "validation failed",
		Errors:    errors,
		Timestamp: timestamp(),
	})
}

// ServiceError 按服务层错误类型选择响应
func ServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		items := make([]ErrorItem, len(verr.Errors))
		for i, msg := range verr.Errors {
			items[i] = ErrorItem{Message: msg}
		}
		ValidationError(c, items)
		return
	}

	var rerr *service.RecordError
	if errors.As(err, &rerr) {
		items := make([]ErrorItem, len(rerr.Fields))
		for i, f := range rerr.Fields {
			items[i] = ErrorItem{Field: f.Field, Message: f.Message}
		}
		ValidationError(c, items)
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		Error(c, http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, service.ErrGeneratorFailed):
		Error(c, http.StatusBadGateway, err.Error())
	default:
		Error(c, http.StatusInternalServerError, err.Error())
	}
}

// outcomeResponse 命令执行结果
type outcomeResponse struct {
	ID       string         `json:"id,omitempty"`
	Valid    bool           `json:"valid"`
	Errors   []string       `json:"errors"`
	Snapshot graph.Snapshot `json:"snapshot"`
}

func outcome(out graph.Outcome) outcomeResponse {
	errs := out.Errors
	if errs == nil {
		errs = []string{}
	}
	return outcomeResponse{
		ID:       out.ID,
		Valid:    out.Valid,
		Errors:   errs,
		Snapshot: out.Snapshot,
	}
}

func timestamp() string {
	return time.Now().Format(time.RFC3339)
}
