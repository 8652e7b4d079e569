package graph

import (
	"sync"

	"github.com/google/uuid"

	"nodepilot/internal/schema"
)

// DefaultProjectName 新会话的默认项目名
const DefaultProjectName = "Untitled Project"

// state 工作区状态，只能由 Store 修改
type state struct {
	projectName    string
	cors           schema.CorsOptions
	features       schema.ProjectFeatures
	nodes          []Node
	edges          []Edge
	selectedNodeID string
	errors         []string
}

func defaultState() state {
	return state{
		projectName: DefaultProjectName,
		cors:        schema.CorsOptions{},
		features:    schema.DefaultFeatures(),
		nodes:       []Node{},
		edges:       []Edge{},
		errors:      []string{},
	}
}

func (st *state) nodeIndex(id string) int {
	for i := range st.nodes {
		if st.nodes[i].ID == id {
			return i
		}
	}
	return -1
}

func (st *state) edgeIndex(id string) int {
	for i := range st.edges {
		if st.edges[i].ID == id {
			return i
		}
	}
	return -1
}

// Snapshot 工作区某一时刻的只读副本
type Snapshot struct {
	ProjectName      string                 `json:"projectName"`
	Cors             schema.CorsOptions     `json:"corsSettings"`
	Features         schema.ProjectFeatures `json:"projectFeatures"`
	Nodes            []Node                 `json:"nodes"`
	Edges            []Edge                 `json:"edges"`
	SelectedNodeID   string                 `json:"selectedNodeId,omitempty"`
	ValidationErrors []string               `json:"validationErrors"`
}

// Node 按 ID 查找节点
func (s Snapshot) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Persisted 需要跨会话保存的部分
func (s Snapshot) Persisted() Persisted {
	return Persisted{
		ProjectName: s.ProjectName,
		Cors:        s.Cors,
		Features:    s.Features,
		Nodes:       s.Nodes,
		Edges:       s.Edges,
	}
}

// Persisted 持久化格式：项目设置与图
type Persisted struct {
	ProjectName string                 `json:"projectName"`
	Cors        schema.CorsOptions     `json:"corsSettings"`
	Features    schema.ProjectFeatures `json:"projectFeatures"`
	Nodes       []Node                 `json:"nodes"`
	Edges       []Edge                 `json:"edges"`
}

// Outcome 命令执行后的结果
type Outcome struct {
	// ID 命令创建或操作的对象 ID
	ID       string
	Snapshot Snapshot
	Valid    bool
	Errors   []string
}

// Option Store 配置项
type Option func(*Store)

// WithIDGenerator 替换 ID 生成器，prefix 为 "node" 或 "edge"
func WithIDGenerator(gen func(prefix string) string) Option {
	return func(s *Store) {
		s.newID = gen
	}
}

// Store 工作区图存储，所有修改都经过命令
type Store struct {
	mu    sync.RWMutex
	st    state
	newID func(prefix string) string
}

// New 创建空工作区
func New(opts ...Option) *Store {
	s := &Store{
		st:    defaultState(),
		newID: func(prefix string) string { return prefix + "_" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply 执行命令；图发生变化时重新校验
func (s *Store) Apply(cmd Command) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	eff := cmd.apply(&s.st, s.newID)
	if eff.revalidate {
		s.st.errors = validate(s.st.projectName, s.st.nodes, s.st.edges)
	}

	return Outcome{
		ID:       eff.id,
		Snapshot: s.snapshotLocked(),
		Valid:    len(s.st.errors) == 0,
		Errors:   append([]string{}, s.st.errors...),
	}
}

// AddNode 添加节点并返回其 ID
func (s *Store) AddNode(n Node) string {
	return s.Apply(AddNode{Node: n}).ID
}

// UpdateNode 合并节点数据
func (s *Store) UpdateNode(id string, patch NodePatch) {
	s.Apply(UpdateNode{ID: id, Patch: patch})
}

// RemoveNode 删除节点
func (s *Store) RemoveNode(id string) {
	s.Apply(RemoveNode{ID: id})
}

// AddEdge 添加连线并返回其 ID
func (s *Store) AddEdge(e Edge) string {
	return s.Apply(AddEdge{Edge: e}).ID
}

// UpdateEdge 合并连线数据
func (s *Store) UpdateEdge(id string, patch EdgePatch) {
	s.Apply(UpdateEdge{ID: id, Patch: patch})
}

// RemoveEdge 删除连线
func (s *Store) RemoveEdge(id string) {
	s.Apply(RemoveEdge{ID: id})
}

// SelectNode 设置选中节点
func (s *Store) SelectNode(id string) {
	s.Apply(SelectNode{ID: id})
}

// SetProjectName 设置项目名
func (s *Store) SetProjectName(name string) {
	s.Apply(SetProjectName{Name: name})
}

// SetCors 设置跨域策略
func (s *Store) SetCors(cors schema.CorsOptions) {
	s.Apply(SetCors{Cors: cors})
}

// SetFeatures 设置项目功能
func (s *Store) SetFeatures(features schema.ProjectFeatures) {
	s.Apply(SetFeatures{Features: features})
}

// Clear 重置工作区
func (s *Store) Clear() {
	s.Apply(Clear{})
}

// Validate 全图校验，结果同时保存在工作区状态中
func (s *Store) Validate() (bool, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st.errors = validate(s.st.projectName, s.st.nodes, s.st.edges)
	return len(s.st.errors) == 0, append([]string{}, s.st.errors...)
}

// Errors 最近一次校验的错误
func (s *Store) Errors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.st.errors...)
}

// Snapshot 当前状态的副本
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Restore 从持久化数据恢复，选中状态与校验错误被清空
func (s *Store) Restore(p Persisted) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := defaultState()
	st.projectName = p.ProjectName
	st.cors = p.Cors.Clone()
	st.features = p.Features.Clone()
	st.nodes = cloneNodes(p.Nodes)
	st.edges = cloneEdges(p.Edges)
	s.st = st
}

// Reset 整体回到某个快照，包括选中状态与校验错误
func (s *Store) Reset(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st = state{
		projectName:    snap.ProjectName,
		cors:           snap.Cors.Clone(),
		features:       snap.Features.Clone(),
		nodes:          cloneNodes(snap.Nodes),
		edges:          cloneEdges(snap.Edges),
		selectedNodeID: snap.SelectedNodeID,
		errors:         append([]string{}, snap.ValidationErrors...),
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		ProjectName:      s.st.projectName,
		Cors:             s.st.cors.Clone(),
		Features:         s.st.features.Clone(),
		Nodes:            cloneNodes(s.st.nodes),
		Edges:            cloneEdges(s.st.edges),
		SelectedNodeID:   s.st.selectedNodeID,
		ValidationErrors: append([]string{}, s.st.errors...),
	}
}
