package graph

import "nodepilot/internal/schema"

// Command 作用于工作区状态的命令
type Command interface {
	apply(st *state, newID func(prefix string) string) effect
}

// effect 命令执行结果
type effect struct {
	// id 命令创建或操作的节点/连线 ID
	id string
	// revalidate 图或项目名发生变化，需要重新校验
	revalidate bool
}

// AddNode 添加节点，未提供 ID 时自动分配，新节点成为选中节点
type AddNode struct{ Node Node }

// UpdateNode 合并节点数据，ID 不存在时静默忽略
type UpdateNode struct {
	ID    string
	Patch NodePatch
}

// RemoveNode 删除节点及其全部连线
type RemoveNode struct{ ID string }

// AddEdge 添加连线
type AddEdge struct{ Edge Edge }

// UpdateEdge 合并连线数据
type UpdateEdge struct {
	ID    string
	Patch EdgePatch
}

// RemoveEdge 删除连线
type RemoveEdge struct{ ID string }

// SetNodes 整体替换节点列表
type SetNodes struct{ Nodes []Node }

// SetEdges 整体替换连线列表
type SetEdges struct{ Edges []Edge }

// SelectNode 设置选中节点，空字符串表示取消选中
type SelectNode struct{ ID string }

// SetProjectName 设置项目名
type SetProjectName struct{ Name string }

// SetCors 设置跨域策略
type SetCors struct{ Cors schema.CorsOptions }

// SetFeatures 设置项目功能
type SetFeatures struct{ Features schema.ProjectFeatures }

// Clear 重置为新会话
type Clear struct{}

func (c AddNode) apply(st *state, newID func(string) string) effect {
	n := c.Node.withDefaults()
	if n.ID == "" || st.nodeIndex(n.ID) >= 0 {
		n.ID = newID("node")
	}
	st.nodes = append(st.nodes, n)
	st.selectedNodeID = n.ID
	return effect{id: n.ID, revalidate: true}
}

func (c UpdateNode) apply(st *state, _ func(string) string) effect {
	i := st.nodeIndex(c.ID)
	if i < 0 {
		return effect{}
	}
	c.Patch.applyTo(&st.nodes[i])
	return effect{id: c.ID, revalidate: true}
}

func (c RemoveNode) apply(st *state, _ func(string) string) effect {
	i := st.nodeIndex(c.ID)
	if i < 0 {
		return effect{}
	}
	st.nodes = append(st.nodes[:i], st.nodes[i+1:]...)

	// 级联删除相关连线
	kept := st.edges[:0]
	for _, e := range st.edges {
		if e.Source != c.ID && e.Target != c.ID {
			kept = append(kept, e)
		}
	}
	st.edges = kept

	if st.selectedNodeID == c.ID {
		st.selectedNodeID = ""
	}
	return effect{id: c.ID, revalidate: true}
}

func (c AddEdge) apply(st *state, newID func(string) string) effect {
	e := c.Edge
	if e.ID == "" || st.edgeIndex(e.ID) >= 0 {
		e.ID = newID("edge")
	}
	st.edges = append(st.edges, e)
	return effect{id: e.ID, revalidate: true}
}

func (c UpdateEdge) apply(st *state, _ func(string) string) effect {
	i := st.edgeIndex(c.ID)
	if i < 0 {
		return effect{}
	}
	c.Patch.applyTo(&st.edges[i])
	return effect{id: c.ID, revalidate: true}
}

func (c RemoveEdge) apply(st *state, _ func(string) string) effect {
	i := st.edgeIndex(c.ID)
	if i < 0 {
		return effect{}
	}
	st.edges = append(st.edges[:i], st.edges[i+1:]...)
	return effect{id: c.ID, revalidate: true}
}

func (c SetNodes) apply(st *state, _ func(string) string) effect {
	st.nodes = cloneNodes(c.Nodes)
	if st.selectedNodeID != "" && st.nodeIndex(st.selectedNodeID) < 0 {
		st.selectedNodeID = ""
	}
	return effect{revalidate: true}
}

func (c SetEdges) apply(st *state, _ func(string) string) effect {
	st.edges = cloneEdges(c.Edges)
	return effect{revalidate: true}
}

func (c SelectNode) apply(st *state, _ func(string) string) effect {
	st.selectedNodeID = c.ID
	return effect{id: c.ID}
}

func (c SetProjectName) apply(st *state, _ func(string) string) effect {
	st.projectName = c.Name
	return effect{revalidate: true}
}

func (c SetCors) apply(st *state, _ func(string) string) effect {
	st.cors = c.Cors.Clone()
	return effect{}
}

func (c SetFeatures) apply(st *state, _ func(string) string) effect {
	st.features = c.Features.Clone()
	return effect{}
}

func (Clear) apply(st *state, _ func(string) string) effect {
	*st = defaultState()
	return effect{}
}
