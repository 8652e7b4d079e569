package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"nodepilot/internal/blueprint"
	"nodepilot/internal/service"
)

const maxBlueprintSize = 1 << 20

// WorkflowHandler 工作区处理器
type WorkflowHandler struct {
	workflowService *service.WorkflowService
}

// NewWorkflowHandler 创建工作区处理器
func NewWorkflowHandler(workflowService *service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{
		workflowService: workflowService,
	}
}

// GetWorkflow 获取当前工作区
func (h *WorkflowHandler) GetWorkflow(c *gin.Context) {
	Success(c, h.workflowService.Snapshot())
}

// ClearWorkflow 重置工作区
func (h *WorkflowHandler) ClearWorkflow(c *gin.Context) {
	out, err := h.workflowService.Clear()
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, outcome(out))
}

// ValidateWorkflow 全图校验
func (h *WorkflowHandler) ValidateWorkflow(c *gin.Context) {
	Success(c, outcome(h.workflowService.Validate()))
}

// UpdateSettings 更新项目设置
func (h *WorkflowHandler) UpdateSettings(c *gin.Context) {
	var settings service.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := h.workflowService.UpdateSettings(settings)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, outcome(out))
}

// ImportBlueprint 导入 YAML 蓝图，替换整个工作区
func (h *WorkflowHandler) ImportBlueprint(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBlueprintSize+1))
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(data) > maxBlueprintSize {
		Error(c, http.StatusRequestEntityTooLarge, "blueprint too large")
		return
	}

	bp, err := blueprint.Decode(data)
	if err != nil {
		ValidationError(c, []ErrorItem{{Message: err.Error()}})
		return
	}

	out, err := h.workflowService.Import(bp)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, outcome(out))
}

type selectionRequest struct {
	NodeID string `json:"nodeId"`
}

// SelectNode 设置选中节点，nodeId 为空表示取消选中
func (h *WorkflowHandler) SelectNode(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := h.workflowService.SelectNode(req.NodeID)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, outcome(out))
}
