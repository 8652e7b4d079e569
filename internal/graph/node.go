package graph

import "nodepilot/internal/schema"

// DefaultEntityName 新节点的默认名称
const DefaultEntityName = "Untitled Entity"

// NodeData 节点承载的实体数据
type NodeData struct {
	Name      string                  `json:"name"`
	Routes    []schema.RouteMethod    `json:"routes"`
	Props     []schema.Property       `json:"props"`
	Relations []schema.RelationRecord `json:"relations"`
}

// Node 画布上的实体节点
type Node struct {
	ID       string             `json:"id"`
	Type     string             `json:"type,omitempty"`
	Position schema.Position    `json:"position"`
	Measured *schema.Dimensions `json:"measured,omitempty"`
	Data     NodeData           `json:"data"`
}

// EdgeData 连线承载的关系数据
type EdgeData struct {
	Relation schema.RelationKind `json:"relation"`
}

// Edge 两个实体之间的有向连线
type Edge struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   string   `json:"type,omitempty"`
	Data   EdgeData `json:"data"`
}

// NodePatch 节点数据的部分更新，nil 字段表示不修改
type NodePatch struct {
	Name      *string                 `json:"name,omitempty"`
	Routes    []schema.RouteMethod    `json:"routes,omitempty"`
	Props     []schema.Property       `json:"props,omitempty"`
	Relations []schema.RelationRecord `json:"relations,omitempty"`
	Position  *schema.Position        `json:"position,omitempty"`
	Measured  *schema.Dimensions      `json:"measured,omitempty"`
}

// EdgePatch 连线数据的部分更新
type EdgePatch struct {
	Relation *schema.RelationKind `json:"relation,omitempty"`
}

func (p NodePatch) applyTo(n *Node) {
	if p.Name != nil {
		n.Data.Name = *p.Name
	}
	if p.Routes != nil {
		n.Data.Routes = append([]schema.RouteMethod{}, p.Routes...)
	}
	if p.Props != nil {
		n.Data.Props = schema.CloneProperties(p.Props)
	}
	if p.Relations != nil {
		n.Data.Relations = append([]schema.RelationRecord{}, p.Relations...)
	}
	if p.Position != nil {
		n.Position = *p.Position
	}
	if p.Measured != nil {
		m := *p.Measured
		n.Measured = &m
	}
}

func (p EdgePatch) applyTo(e *Edge) {
	if p.Relation != nil {
		e.Data.Relation = *p.Relation
	}
}

// withDefaults 补齐新节点的空值
func (n Node) withDefaults() Node {
	n = n.clone()
	if n.Data.Name == "" {
		n.Data.Name = DefaultEntityName
	}
	return n
}

func (n Node) clone() Node {
	out := n
	out.Data.Routes = append([]schema.RouteMethod{}, n.Data.Routes...)
	out.Data.Props = schema.CloneProperties(n.Data.Props)
	out.Data.Relations = append([]schema.RelationRecord{}, n.Data.Relations...)
	if n.Measured != nil {
		m := *n.Measured
		out.Measured = &m
	}
	return out
}

func cloneNodes(nodes []Node) []Node {
	result := make([]Node, len(nodes))
	for i, n := range nodes {
		result[i] = n.clone()
	}
	return result
}

func cloneEdges(edges []Edge) []Edge {
	result := make([]Edge, len(edges))
	copy(result, edges)
	return result
}
