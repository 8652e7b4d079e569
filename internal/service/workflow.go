package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"nodepilot/internal/blueprint"
	"nodepilot/internal/compiler"
	"nodepilot/internal/generator"
	"nodepilot/internal/graph"
	"nodepilot/internal/schema"
	"nodepilot/internal/storage"
)

// 事件类型
const (
	EventNodeAdded     = "node.added"
	EventNodeUpdated   = "node.updated"
	EventNodeRemoved   = "node.removed"
	EventEdgeAdded     = "edge.added"
	EventEdgeUpdated   = "edge.updated"
	EventEdgeRemoved   = "edge.removed"
	EventSelection     = "selection.changed"
	EventSettings      = "settings.updated"
	EventCleared       = "workflow.cleared"
	EventImported      = "workflow.imported"
	EventValidated     = "workflow.validated"
	EventGenerated     = "workflow.generated"
	EventGenerateError = "workflow.generate_failed"
)

// Event 推送给画布的状态变化
type Event struct {
	Type     string         `json:"type"`
	ID       string         `json:"id,omitempty"`
	Valid    bool           `json:"valid"`
	Errors   []string       `json:"errors"`
	Snapshot graph.Snapshot `json:"snapshot"`
}

// SnapshotStore 工作区持久化
type SnapshotStore interface {
	Save(p graph.Persisted) error
	Load() (graph.Persisted, bool, error)
}

// HistoryStore 生成记录
type HistoryStore interface {
	Start(ctx context.Context, g storage.Generation) (*storage.Generation, error)
	Finish(ctx context.Context, id, status, message string) error
	List(ctx context.Context, limit int) ([]storage.Generation, error)
}

// Generator 代码生成服务
type Generator interface {
	Generate(ctx context.Context, ps schema.ProjectSchema) (*generator.Archive, error)
}

// Publisher 事件推送
type Publisher interface {
	Publish(e Event)
}

// Settings 项目设置的部分更新，nil 字段表示不修改
type Settings struct {
	ProjectName *string                 `json:"projectName,omitempty"`
	Cors        *schema.CorsOptions     `json:"corsSettings,omitempty"`
	Features    *schema.ProjectFeatures `json:"projectFeatures,omitempty"`
}

// WorkflowService 工作区服务
type WorkflowService struct {
	store     *graph.Store
	snapshots SnapshotStore
	history   HistoryStore
	generator Generator
	publisher Publisher
	records   *RecordValidator
	logger    zerolog.Logger
	// mu 保证命令、持久化与推送的顺序一致
	mu sync.Mutex
}

// NewWorkflowService 创建工作区服务，snapshots、history、publisher 可为 nil
func NewWorkflowService(store *graph.Store, snapshots SnapshotStore, history HistoryStore, gen Generator, publisher Publisher, logger zerolog.Logger) *WorkflowService {
	return &WorkflowService{
		store:     store,
		snapshots: snapshots,
		history:   history,
		generator: gen,
		publisher: publisher,
		records:   NewRecordValidator(),
		logger:    logger.With().Str("component", "workflow").Logger(),
	}
}

// Restore 从快照恢复工作区
func (s *WorkflowService) Restore() error {
	if s.snapshots == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok, err := s.snapshots.Load()
	if err != nil {
		return fmt.Errorf("failed to restore workflow: %w", err)
	}
	if !ok {
		s.logger.Info().Msg("no saved workflow, starting empty")
		return nil
	}

	s.store.Restore(p)
	valid, errs := s.store.Validate()
	s.logger.Info().
		Str("project", p.ProjectName).
		Int("nodes", len(p.Nodes)).
		Int("edges", len(p.Edges)).
		Bool("valid", valid).
		Int("errors", len(errs)).
		Msg("workflow restored")
	return nil
}

// Snapshot 当前工作区
func (s *WorkflowService) Snapshot() graph.Snapshot {
	return s.store.Snapshot()
}

// AddNode 添加节点
func (s *WorkflowService) AddNode(n graph.Node) (graph.Outcome, error) {
	return s.apply(EventNodeAdded, true, graph.AddNode{Node: n})
}

// UpdateNode 合并节点数据
func (s *WorkflowService) UpdateNode(id string, patch graph.NodePatch) (graph.Outcome, error) {
	out, err := s.apply(EventNodeUpdated, true, graph.UpdateNode{ID: id, Patch: patch})
	if err == nil && out.ID == "" {
		return out, fmt.Errorf("%w: node '%s'", ErrNotFound, id)
	}
	return out, err
}

// RemoveNode 删除节点及其连线
func (s *WorkflowService) RemoveNode(id string) (graph.Outcome, error) {
	out, err := s.apply(EventNodeRemoved, true, graph.RemoveNode{ID: id})
	if err == nil && out.ID == "" {
		return out, fmt.Errorf("%w: node '%s'", ErrNotFound, id)
	}
	return out, err
}

// AddEdge 添加连线，端点不存在时仍然保存，生成时跳过
func (s *WorkflowService) AddEdge(e graph.Edge) (graph.Outcome, error) {
	return s.apply(EventEdgeAdded, true, graph.AddEdge{Edge: e})
}

// UpdateEdge 修改连线关系
func (s *WorkflowService) UpdateEdge(id string, patch graph.EdgePatch) (graph.Outcome, error) {
	out, err := s.apply(EventEdgeUpdated, true, graph.UpdateEdge{ID: id, Patch: patch})
	if err == nil && out.ID == "" {
		return out, fmt.Errorf("%w: edge '%s'", ErrNotFound, id)
	}
	return out, err
}

// RemoveEdge 删除连线
func (s *WorkflowService) RemoveEdge(id string) (graph.Outcome, error) {
	out, err := s.apply(EventEdgeRemoved, true, graph.RemoveEdge{ID: id})
	if err == nil && out.ID == "" {
		return out, fmt.Errorf("%w: edge '%s'", ErrNotFound, id)
	}
	return out, err
}

// SelectNode 设置选中节点，选中状态不持久化
func (s *WorkflowService) SelectNode(id string) (graph.Outcome, error) {
	return s.apply(EventSelection, false, graph.SelectNode{ID: id})
}

// UpdateSettings 更新项目名、跨域策略与功能开关
func (s *WorkflowService) UpdateSettings(settings Settings) (graph.Outcome, error) {
	var cmds []graph.Command
	if settings.ProjectName != nil {
		cmds = append(cmds, graph.SetProjectName{Name: *settings.ProjectName})
	}
	if settings.Cors != nil {
		cmds = append(cmds, graph.SetCors{Cors: *settings.Cors})
	}
	if settings.Features != nil {
		cmds = append(cmds, graph.SetFeatures{Features: *settings.Features})
	}
	return s.apply(EventSettings, true, cmds...)
}

// Clear 重置为新会话
func (s *WorkflowService) Clear() (graph.Outcome, error) {
	return s.apply(EventCleared, true, graph.Clear{})
}

// Import 用蓝图替换整个工作区
func (s *WorkflowService) Import(bp *blueprint.Blueprint) (graph.Outcome, error) {
	out, err := s.apply(EventImported, true, bp.Commands()...)
	if err == nil {
		s.logger.Info().
			Str("project", out.Snapshot.ProjectName).
			Int("entities", len(out.Snapshot.Nodes)).
			Int("relations", len(out.Snapshot.Edges)).
			Msg("blueprint imported")
	}
	return out, err
}

// Validate 全图校验
func (s *WorkflowService) Validate() graph.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	valid, errs := s.store.Validate()
	out := graph.Outcome{Snapshot: s.store.Snapshot(), Valid: valid, Errors: errs}
	s.publish(EventValidated, out)
	return out
}

// Preview 编译当前工作区但不提交生成
func (s *WorkflowService) Preview() compiler.Result {
	return compiler.Compile(uuid.New().String(), s.store.Snapshot())
}

// Endpoints 生成后端将暴露的路由
func (s *WorkflowService) Endpoints() []compiler.EntityEndpoints {
	return compiler.Plan(s.Preview().Schema)
}

// CheckRecord 用节点的属性定义校验样例记录
func (s *WorkflowService) CheckRecord(nodeID string, data map[string]any) error {
	n, ok := s.store.Snapshot().Node(nodeID)
	if !ok {
		return fmt.Errorf("%w: node '%s'", ErrNotFound, nodeID)
	}
	return s.records.Validate(n.Data.Name, n.Data.Props, data)
}

// Generate 校验、编译并提交生成，返回压缩包
func (s *WorkflowService) Generate(ctx context.Context) (*generator.Archive, error) {
	out := s.Validate()
	if !out.Valid {
		s.logger.Warn().Strs("errors", out.Errors).Msg("generate rejected")
		return nil, &ValidationError{Errors: out.Errors}
	}

	res := compiler.Compile(uuid.New().String(), out.Snapshot)
	warnings := make([]string, len(res.Warnings))
	for i, w := range res.Warnings {
		warnings[i] = w.Message
		s.logger.Warn().Str("edge", w.EdgeID).Str("source", w.Source).Str("target", w.Target).Msg(w.Message)
	}

	var record *storage.Generation
	if s.history != nil {
		var err error
		record, err = s.history.Start(ctx, storage.Generation{
			SchemaID:      res.Schema.ID,
			ProjectName:   res.Schema.Name,
			EntityCount:   len(res.Schema.Workflows),
			RelationCount: len(out.Snapshot.Edges) - len(res.Warnings),
			Warnings:      warnings,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record generation: %w", err)
		}
	}

	archive, genErr := s.generator.Generate(ctx, res.Schema)

	if record != nil {
		status, message := storage.StatusSucceeded, ""
		if genErr != nil {
			status, message = storage.StatusFailed, genErr.Error()
		}
		// 请求可能已被取消，记录仍需落库
		if err := s.history.Finish(context.WithoutCancel(ctx), record.ID, status, message); err != nil {
			s.logger.Error().Err(err).Str("generation", record.ID).Msg("failed to finish generation record")
		}
	}

	if genErr != nil {
		s.logger.Error().Err(genErr).Str("project", res.Schema.Name).Msg("generation failed")
		s.publish(EventGenerateError, out)
		if errors.Is(genErr, ErrGeneratorFailed) {
			return nil, genErr
		}
		return nil, fmt.Errorf("%w: %w", ErrGeneratorFailed, genErr)
	}

	s.logger.Info().
		Str("project", res.Schema.Name).
		Str("schema", res.Schema.ID).
		Int("entities", len(res.Schema.Workflows)).
		Int("warnings", len(res.Warnings)).
		Msg("generation succeeded")
	s.publish(EventGenerated, out)
	return archive, nil
}

// History 最近的生成记录
func (s *WorkflowService) History(ctx context.Context, limit int) ([]storage.Generation, error) {
	if s.history == nil {
		return []storage.Generation{}, nil
	}
	return s.history.List(ctx, limit)
}

// apply 依次执行命令，保存并推送最后的结果；保存失败时回滚
func (s *WorkflowService) apply(event string, persist bool, cmds ...graph.Command) (graph.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out graph.Outcome
	if len(cmds) == 0 {
		valid := len(s.store.Errors()) == 0
		return graph.Outcome{Snapshot: s.store.Snapshot(), Valid: valid, Errors: s.store.Errors()}, nil
	}
	persist = persist && s.snapshots != nil
	var prev graph.Snapshot
	if persist {
		prev = s.store.Snapshot()
	}
	for _, cmd := range cmds {
		out = s.store.Apply(cmd)
	}

	if persist {
		if err := s.snapshots.Save(out.Snapshot.Persisted()); err != nil {
			// 未落盘的修改不保留
			s.store.Reset(prev)
			s.logger.Error().Err(err).Str("event", event).Msg("failed to save workflow, change rolled back")
			return graph.Outcome{}, fmt.Errorf("failed to save workflow: %w", err)
		}
	}

	s.logger.Debug().Str("event", event).Str("id", out.ID).Bool("valid", out.Valid).Msg("workflow changed")
	s.publish(event, out)
	return out, nil
}

func (s *WorkflowService) publish(event string, out graph.Outcome) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(Event{
		Type:     event,
		ID:       out.ID,
		Valid:    out.Valid,
		Errors:   out.Errors,
		Snapshot: out.Snapshot,
	})
}
