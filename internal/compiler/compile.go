package compiler

import (
	"fmt"

	"nodepilot/internal/graph"
	"nodepilot/internal/schema"
)

// Warning 编译时被跳过的连线
type Warning struct {
	EdgeID  string `json:"edgeId"`
	Source  string `json:"source"`
	Target  string `json:"target"`
	Message string `json:"message"`
}

// Result 编译结果
type Result struct {
	Schema   schema.ProjectSchema `json:"schema"`
	Warnings []Warning            `json:"warnings"`
}

// Compile 将快照编译为项目 Schema。关系只由连线推导：目标实体得到父端记录，源实体得到子端记录。
// 不做 I/O，同一输入总是得到相同输出。
func Compile(id string, snap graph.Snapshot) Result {
	entities := make([]schema.Entity, 0, len(snap.Nodes))
	index := make(map[string]int, len(snap.Nodes))

	for _, node := range snap.Nodes {
		if _, exists := index[node.ID]; !exists {
			index[node.ID] = len(entities)
		}
		entities = append(entities, entityFromNode(node))
	}

	warnings := make([]Warning, 0)
	for _, edge := range snap.Edges {
		sourceIndex, okSource := index[edge.Source]
		targetIndex, okTarget := index[edge.Target]
		if !okSource || !okTarget {
			warnings = append(warnings, Warning{
				EdgeID:  edge.ID,
				Source:  edge.Source,
				Target:  edge.Target,
				Message: fmt.Sprintf("invalid edge connection %s: %s -> %s", edge.ID, edge.Source, edge.Target),
			})
			continue
		}

		source := &entities[sourceIndex]
		target := &entities[targetIndex]
		relation := edge.Data.Relation

		// target 为父端，source 为子端
		target.Relations = append(target.Relations, schema.RelationRecord{
			Controller: source.Name,
			Relation:   relation,
			IsParent:   true,
		})
		source.Relations = append(source.Relations, schema.RelationRecord{
			Controller: target.Name,
			Relation:   relation,
			IsParent:   false,
		})
	}

	return Result{
		Schema: schema.ProjectSchema{
			ID:        id,
			Name:      snap.ProjectName,
			Cors:      snap.Cors.Clone(),
			Features:  snap.Features.Clone(),
			Workflows: entities,
		},
		Warnings: warnings,
	}
}

// entityFromNode 节点自带的 relations 一律丢弃，由连线重新推导
func entityFromNode(node graph.Node) schema.Entity {
	e := schema.Entity{
		CardID:    node.ID,
		Name:      node.Data.Name,
		Routes:    append([]schema.RouteMethod{}, node.Data.Routes...),
		Props:     schema.CloneProperties(node.Data.Props),
		Relations: []schema.RelationRecord{},
		Position:  node.Position,
	}
	if node.Measured != nil {
		d := *node.Measured
		e.Dimensions = &d
	}
	return e
}
