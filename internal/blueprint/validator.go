package blueprint

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"nodepilot/internal/schema"
)

// Validator 蓝图验证器
type Validator struct {
	bp *Blueprint
}

// NewValidator 创建新的验证器
func NewValidator(bp *Blueprint) *Validator {
	return &Validator{
		bp: bp,
	}
}

// Validate 验证蓝图
func (v *Validator) Validate() error {
	if err := v.validateSyntax(); err != nil {
		return err
	}

	if err := v.validateRelations(); err != nil {
		return err
	}

	return v.validateConstraints()
}

// validateSyntax 语法验证
func (v *Validator) validateSyntax() error {
	if v.bp.Version == "" {
		return fmt.Errorf("version is required")
	}
	if strings.TrimSpace(v.bp.Project.Name) == "" {
		return fmt.Errorf("project.name is required")
	}
	if len(v.bp.Entities) == 0 {
		return fmt.Errorf("at least one entity is required")
	}

	fold := cases.Fold()
	entityNames := make(map[string]bool)
	entityIDs := make(map[string]bool)
	for i, e := range v.bp.Entities {
		name := fold.String(strings.TrimSpace(e.Name))
		if name == "" {
			return fmt.Errorf("entities[%d]: name is required", i)
		}
		if entityNames[name] {
			return fmt.Errorf("duplicate entity name: %s", e.Name)
		}
		entityNames[name] = true

		if e.ID != "" {
			if entityIDs[e.ID] {
				return fmt.Errorf("duplicate entity id: %s", e.ID)
			}
			entityIDs[e.ID] = true
		}

		for _, r := range e.Routes {
			if !r.Valid() {
				return fmt.Errorf("entities[%s]: invalid route '%s'", e.Name, r)
			}
		}

		propertyNames := make(map[string]bool)
		for j, prop := range e.Properties {
			propName := fold.String(strings.TrimSpace(prop.Name))
			if propName == "" {
				return fmt.Errorf("entities[%s].properties[%d]: name is required", e.Name, j)
			}
			if propertyNames[propName] {
				return fmt.Errorf("duplicate property name '%s' in entity '%s'", prop.Name, e.Name)
			}
			propertyNames[propName] = true

			if prop.Type == "" {
				return fmt.Errorf("entities[%s].properties[%s]: type is required", e.Name, prop.Name)
			}
		}
	}

	return nil
}

// validateRelations 关系两端必须引用已定义的实体
func (v *Validator) validateRelations() error {
	names := make(map[string]bool, len(v.bp.Entities))
	for _, e := range v.bp.Entities {
		names[strings.TrimSpace(e.Name)] = true
	}

	for i, r := range v.bp.Relations {
		if !names[strings.TrimSpace(r.Source)] {
			return fmt.Errorf("relations[%d]: source '%s' does not exist", i, r.Source)
		}
		if !names[strings.TrimSpace(r.Target)] {
			return fmt.Errorf("relations[%d]: target '%s' does not exist", i, r.Target)
		}
		kind, err := schema.ParseRelationKind(string(r.Kind))
		if err != nil || !kind.IsSet() {
			return fmt.Errorf("relations[%d]: invalid kind '%s'", i, r.Kind)
		}
	}

	return nil
}

// validateConstraints 校验规则自洽
func (v *Validator) validateConstraints() error {
	for _, e := range v.bp.Entities {
		for _, prop := range e.Properties {
			if err := prop.Validation.Check(); err != nil {
				return fmt.Errorf("entity '%s'.property '%s': %w", e.Name, prop.Name, err)
			}
		}
	}
	return nil
}
