package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nodepilot/internal/graph"
	"nodepilot/internal/service"
)

// NodeHandler 实体节点处理器
type NodeHandler struct {
	workflowService *service.WorkflowService
}

// NewNodeHandler 创建节点处理器
func NewNodeHandler(workflowService *service.WorkflowService) *NodeHandler {
	return &NodeHandler{
		workflowService: workflowService,
	}
}

// CreateNode 添加节点
func (h *NodeHandler) CreateNode(c *gin.Context) {
	var node graph.Node
	if err := c.ShouldBindJSON(&node); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	out, err := h.workflowService.AddNode(node)
	if err != nil {
		ServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{
		Code:      http.StatusCreated,
		Message:   "created",
		Data:      outcome(out),
		Timestamp: timestamp(),
	})
}

// UpdateNode 合并节点数据
func (h *NodeHandler) UpdateNode(c *gin.Context) {
	id := c.Param("id")

	var patch graph.NodePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	out, err := h.workflowService.UpdateNode(id, patch)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, outcome(out))
}

// DeleteNode 删除节点及其连线
func (h *NodeHandler) DeleteNode(c *gin.Context) {
	out, err := h.workflowService.RemoveNode(c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, outcome(out))
}

// CheckRecord 用节点属性校验样例记录
func (h *NodeHandler) CheckRecord(c *gin.Context) {
	var data map[string]interface{}
	if err := c.ShouldBindJSON(&data); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.workflowService.CheckRecord(c.Param("id"), data); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"valid": true})
}
