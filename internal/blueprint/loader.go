package blueprint

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"nodepilot/internal/graph"
	"nodepilot/internal/schema"
)

// Loader 蓝图加载器
type Loader struct {
	parser    *Parser
	blueprint *Blueprint
	mu        sync.RWMutex
}

// NewLoader 创建新的加载器
func NewLoader(filePath string) *Loader {
	return &Loader{
		parser: NewParser(filePath),
	}
}

// Load 加载并验证蓝图
func (l *Loader) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	bp, err := l.parser.Parse()
	if err != nil {
		return fmt.Errorf("failed to parse blueprint: %w", err)
	}

	if err := NewValidator(bp).Validate(); err != nil {
		return fmt.Errorf("blueprint validation failed: %w", err)
	}

	l.blueprint = bp
	return nil
}

// Blueprint 获取当前蓝图
func (l *Loader) Blueprint() *Blueprint {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.blueprint
}

// Decode 解析并验证 YAML 内容
func Decode(data []byte) (*Blueprint, error) {
	bp, err := ParseBytes(data)
	if err != nil {
		return nil, err
	}
	if err := NewValidator(bp).Validate(); err != nil {
		return nil, fmt.Errorf("blueprint validation failed: %w", err)
	}
	return bp, nil
}

// Commands 将蓝图转换为重建工作区的命令序列
func (bp *Blueprint) Commands() []graph.Command {
	ids := make(map[string]string, len(bp.Entities))
	nodes := make([]graph.Node, 0, len(bp.Entities))
	for _, e := range bp.Entities {
		id := e.ID
		if id == "" {
			id = "node_" + uuid.NewString()
		}
		name := strings.TrimSpace(e.Name)
		ids[name] = id

		routes := e.Routes
		if routes == nil {
			routes = []schema.RouteMethod{}
		}
		n := graph.Node{
			ID: id,
			Data: graph.NodeData{
				Name:      name,
				Routes:    append([]schema.RouteMethod{}, routes...),
				Props:     schema.CloneProperties(e.Properties),
				Relations: []schema.RelationRecord{},
			},
		}
		if e.Position != nil {
			n.Position = *e.Position
		}
		nodes = append(nodes, n)
	}

	edges := make([]graph.Edge, 0, len(bp.Relations))
	for _, r := range bp.Relations {
		edges = append(edges, graph.Edge{
			ID:     "edge_" + uuid.NewString(),
			Source: ids[strings.TrimSpace(r.Source)],
			Target: ids[strings.TrimSpace(r.Target)],
			Data:   graph.EdgeData{Relation: r.Kind},
		})
	}

	return []graph.Command{
		graph.Clear{},
		graph.SetProjectName{Name: strings.TrimSpace(bp.Project.Name)},
		graph.SetCors{Cors: bp.Project.Cors},
		graph.SetFeatures{Features: bp.Project.Features},
		graph.SetNodes{Nodes: nodes},
		graph.SetEdges{Edges: edges},
	}
}
