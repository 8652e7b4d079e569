package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"nodepilot/internal/graph"
	"nodepilot/internal/schema"
	"nodepilot/internal/service"
)

// EdgeHandler 关系连线处理器
type EdgeHandler struct {
	workflowService *service.WorkflowService
}

// NewEdgeHandler 创建连线处理器
func NewEdgeHandler(workflowService *service.WorkflowService) *EdgeHandler {
	return &EdgeHandler{
		workflowService: workflowService,
	}
}

// CreateEdge 添加连线
func (h *EdgeHandler) CreateEdge(c *gin.Context) {
	var edge graph.Edge
	if err := c.ShouldBindJSON(&edge); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if edge.Source == "" || edge.Target == "" {
		Error(c, http.StatusBadRequest, "source and target are required")
		return
	}
	if err := checkRelation(edge.Data.Relation); err != nil {
		Error(c, http.StatusBadRequest, err.Error())
		return
	}

	out, err := h.workflowService.AddEdge(edge)
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

// UpdateEdge 修改连线关系类型
func (h *EdgeHandler) UpdateEdge(c *gin.Context) {
	var patch graph.EdgePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if patch.Relation != nil {
		if err := checkRelation(*patch.Relation); err != nil {
			Error(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	out, err := h.workflowService.UpdateEdge(c.Param("id"), patch)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, outcome(out))
}

// DeleteEdge 删除连线
func (h *EdgeHandler) DeleteEdge(c *gin.Context) {
	out, err := h.workflowService.RemoveEdge(c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, outcome(out))
}

// checkRelation 未设置的关系类型允许保存，由校验报告
func checkRelation(kind schema.RelationKind) error {
	if _, err := schema.ParseRelationKind(string(kind)); err != nil {
		return fmt.Errorf("invalid relation: %w", err)
	}
	return nil
}
