package graph

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// validate 全图语义校验，只读取节点与连线
func validate(projectName string, nodes []Node, edges []Edge) []string {
	errs := make([]string, 0)
	fold := cases.Fold()

	// 项目名
	if strings.TrimSpace(projectName) == "" {
		errs = append(errs, "Project name is required")
	}

	if len(nodes) == 0 {
		errs = append(errs, "At least one entity is required")
	}

	entityNames := make(map[string]bool)
	for _, node := range nodes {
		name := fold.String(strings.TrimSpace(node.Data.Name))
		if name == "" {
			errs = append(errs, fmt.Sprintf("Entity with ID %s has no name", node.ID))
			continue
		}

		if entityNames[name] {
			errs = append(errs, fmt.Sprintf("Duplicate entity name: %s", node.Data.Name))
		} else {
			entityNames[name] = true
		}

		// 属性名只在所属实体内判重
		propertyNames := make(map[string]bool)
		for _, prop := range node.Data.Props {
			propName := fold.String(strings.TrimSpace(prop.Name))
			if propName == "" {
				errs = append(errs, fmt.Sprintf("Entity \"%s\" has a property with no name", node.Data.Name))
				continue
			}
			if propertyNames[propName] {
				errs = append(errs, fmt.Sprintf("Entity \"%s\" has duplicate property: %s", node.Data.Name, prop.Name))
			} else {
				propertyNames[propName] = true
			}
		}
	}

	byID := make(map[string]*Node, len(nodes))
	for i := range nodes {
		if _, exists := byID[nodes[i].ID]; !exists {
			byID[nodes[i].ID] = &nodes[i]
		}
	}

	for _, edge := range edges {
		source, okSource := byID[edge.Source]
		target, okTarget := byID[edge.Target]
		if !okSource || !okTarget {
			errs = append(errs, "Invalid relationship: connected entities not found")
			continue
		}

		if !edge.Data.Relation.IsSet() {
			errs = append(errs, fmt.Sprintf("Relationship between %s and %s has no type defined",
				source.Data.Name, target.Data.Name))
		}
	}

	return errs
}
