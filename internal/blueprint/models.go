package blueprint

import "nodepilot/internal/schema"

// Blueprint 用 YAML 描述的初始工作区
type Blueprint struct {
	Version   string        `yaml:"version"`
	Project   ProjectDef    `yaml:"project"`
	Entities  []EntityDef   `yaml:"entities"`
	Relations []RelationDef `yaml:"relations,omitempty"`
}

// ProjectDef 项目设置
type ProjectDef struct {
	Name     string                 `yaml:"name"`
	Cors     schema.CorsOptions     `yaml:"cors,omitempty"`
	Features schema.ProjectFeatures `yaml:"features,omitempty"`
}

// EntityDef 实体定义
type EntityDef struct {
	ID         string               `yaml:"id,omitempty"`
	Name       string               `yaml:"name"`
	Routes     []schema.RouteMethod `yaml:"routes,omitempty"`
	Properties []schema.Property    `yaml:"properties"`
	Position   *schema.Position     `yaml:"position,omitempty"`
}

// RelationDef 关系定义，两端按实体名引用
type RelationDef struct {
	Source string              `yaml:"source"`
	Target string              `yaml:"target"`
	Kind   schema.RelationKind `yaml:"kind"`
}
