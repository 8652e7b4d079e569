package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"

	"nodepilot/internal/schema"
	"nodepilot/internal/service"
)

// SchemaHandler 编译与生成处理器
type SchemaHandler struct {
	workflowService *service.WorkflowService
}

// NewSchemaHandler 创建 Schema 处理器
func NewSchemaHandler(workflowService *service.WorkflowService) *SchemaHandler {
	return &SchemaHandler{
		workflowService: workflowService,
	}
}

// PreviewSchema 编译预览，format=yaml 时返回 YAML 文本
func (h *SchemaHandler) PreviewSchema(c *gin.Context) {
	result := h.workflowService.Preview()

	if c.Query("format") == "yaml" {
		out, err := yaml.Marshal(result.Schema)
		if err != nil {
			Error(c, http.StatusInternalServerError, fmt.Sprintf("failed to encode schema: %v", err))
			return
		}
		c.Data(http.StatusOK, "application/yaml; charset=utf-8", out)
		return
	}

	Success(c, result)
}

// FieldTypes 属性编辑器可选的内置类型
func (h *SchemaHandler) FieldTypes(c *gin.Context) {
	Success(c, schema.FieldTypes())
}

// ListEndpoints 生成后端的路由规划
func (h *SchemaHandler) ListEndpoints(c *gin.Context) {
	Success(c, h.workflowService.Endpoints())
}

// Generate 提交生成并以附件形式返回压缩包
func (h *SchemaHandler) Generate(c *gin.Context) {
	archive, err := h.workflowService.Generate(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}
	defer archive.Body.Close()

	c.DataFromReader(http.StatusOK, archive.ContentLength, archive.ContentType, archive.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, archive.FileName),
	})
}

// ListGenerations 最近的生成记录
func (h *SchemaHandler) ListGenerations(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 0 {
		Error(c, http.StatusBadRequest, "invalid limit")
		return
	}

	list, err := h.workflowService.History(c.Request.Context(), limit)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{
		"items": list,
		"total": len(list),
	})
}
