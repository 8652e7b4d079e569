package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nodepilot/internal/service"
)

// Handlers 全部 API 处理器
type Handlers struct {
	Workflow *WorkflowHandler
	Node     *NodeHandler
	Edge     *EdgeHandler
	Schema   *SchemaHandler
	Events   *EventsHandler
}

// NewHandlers 创建全部处理器
func NewHandlers(workflowService *service.WorkflowService, hub *EventHub) *Handlers {
	return &Handlers{
		Workflow: NewWorkflowHandler(workflowService),
		Node:     NewNodeHandler(workflowService),
		Edge:     NewEdgeHandler(workflowService),
		Schema:   NewSchemaHandler(workflowService),
		Events:   NewEventsHandler(hub, workflowService),
	}
}

// Register 注册路由
func (h *Handlers) Register(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		// 工作区 API
		workflowAPI := api.Group("/workflow")
		{
			workflowAPI.GET("", h.Workflow.GetWorkflow)
			workflowAPI.DELETE("", h.Workflow.ClearWorkflow)
			workflowAPI.POST("/validate", h.Workflow.ValidateWorkflow)
			workflowAPI.PUT("/settings", h.Workflow.UpdateSettings)
			workflowAPI.POST("/import", h.Workflow.ImportBlueprint)
			workflowAPI.PUT("/selection", h.Workflow.SelectNode)

			// 节点 API
			workflowAPI.POST("/nodes", h.Node.CreateNode)
			workflowAPI.PATCH("/nodes/:id", h.Node.UpdateNode)
			workflowAPI.DELETE("/nodes/:id", h.Node.DeleteNode)
			workflowAPI.POST("/nodes/:id/check", h.Node.CheckRecord)

			// 连线 API
			workflowAPI.POST("/edges", h.Edge.CreateEdge)
			workflowAPI.PATCH("/edges/:id", h.Edge.UpdateEdge)
			workflowAPI.DELETE("/edges/:id", h.Edge.DeleteEdge)

			// 编译与生成 API
			workflowAPI.GET("/schema", h.Schema.PreviewSchema)
			workflowAPI.GET("/endpoints", h.Schema.ListEndpoints)
			workflowAPI.POST("/generate", h.Schema.Generate)

			workflowAPI.GET("/events", h.Events.Stream)
		}

		api.GET("/generations", h.Schema.ListGenerations)
		api.GET("/meta/field-types", h.Schema.FieldTypes)
	}

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
