package schema

import "fmt"

// FieldType 属性语义类型，允许自定义类型字符串
type FieldType string

// 内置字段类型
const (
	TypeString    FieldType = "string"
	TypeNumber    FieldType = "number"
	TypeBoolean   FieldType = "boolean"
	TypeBigInt    FieldType = "bigint"
	TypeSymbol    FieldType = "symbol"
	TypeUndefined FieldType = "undefined"
	TypeNull      FieldType = "null"
	TypeObject    FieldType = "object"
	TypeArray     FieldType = "array"
	TypeFunction  FieldType = "function"
	TypeDate      FieldType = "date"
	TypeAny       FieldType = "any"
	TypeUnknown   FieldType = "unknown"
	TypeVoid      FieldType = "void"
	TypeNever     FieldType = "never"
	TypeJSON      FieldType = "json"
)

var builtinFieldTypes = []FieldType{
	TypeString, TypeNumber, TypeBoolean, TypeBigInt, TypeSymbol, TypeUndefined,
	TypeNull, TypeObject, TypeArray, TypeFunction, TypeDate, TypeAny,
	TypeUnknown, TypeVoid, TypeNever, TypeJSON,
}

// FieldTypes 返回内置字段类型列表
func FieldTypes() []FieldType {
	result := make([]FieldType, len(builtinFieldTypes))
	copy(result, builtinFieldTypes)
	return result
}

// IsBuiltin 是否为内置类型
func (t FieldType) IsBuiltin() bool {
	for _, ft := range builtinFieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// RouteMethod 实体生成的路由方法
type RouteMethod string

// 路由方法
const (
	RouteGet    RouteMethod = "GET"
	RoutePost   RouteMethod = "POST"
	RoutePut    RouteMethod = "PUT"
	RouteDelete RouteMethod = "DELETE"
	RouteGetID  RouteMethod = "GET_ID"
)

// RouteMethods 返回全部路由方法
func RouteMethods() []RouteMethod {
	return []RouteMethod{RouteGet, RoutePost, RoutePut, RouteDelete, RouteGetID}
}

// Valid 是否为已知路由方法
func (m RouteMethod) Valid() bool {
	switch m {
	case RouteGet, RoutePost, RoutePut, RouteDelete, RouteGetID:
		return true
	}
	return false
}

// RelationKind 关系基数
type RelationKind string

// 关系基数，空字符串表示尚未选择
const (
	RelationUnset      RelationKind = ""
	RelationOneToOne   RelationKind = "one-to-one"
	RelationOneToMany  RelationKind = "one-to-many"
	RelationManyToMany RelationKind = "many-to-many"
)

// IsSet 是否已选择关系类型
func (k RelationKind) IsSet() bool { return k != RelationUnset }

// ParseRelationKind 解析关系基数，空字符串合法（未设置）
func ParseRelationKind(s string) (RelationKind, error) {
	switch k := RelationKind(s); k {
	case RelationUnset, RelationOneToOne, RelationOneToMany, RelationManyToMany:
		return k, nil
	}
	return RelationUnset, fmt.Errorf("invalid relation kind '%s'", s)
}

// Property 实体属性
type Property struct {
	Name       string    `json:"name" yaml:"name"`
	Type       FieldType `json:"type" yaml:"type"`
	Nullable   bool      `json:"nullable" yaml:"nullable"`
	Validation Rules     `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// RelationRecord 编译后挂在实体上的关系记录
type RelationRecord struct {
	Relation   RelationKind `json:"relation" yaml:"relation"`
	IsParent   bool         `json:"isParent" yaml:"isParent"`
	Controller string       `json:"controller" yaml:"controller"`
}

// Position 画布坐标
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Dimensions 节点测量尺寸
type Dimensions struct {
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`
}

// Entity 编译输出中的实体
type Entity struct {
	CardID     string           `json:"cardId" yaml:"cardId"`
	Name       string           `json:"name" yaml:"name"`
	Routes     []RouteMethod    `json:"routes" yaml:"routes"`
	Props      []Property       `json:"props" yaml:"props"`
	Relations  []RelationRecord `json:"relations" yaml:"relations"`
	Dimensions *Dimensions      `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	Position   Position         `json:"position" yaml:"position"`
}

// ProjectSchema 交给生成器的项目 Schema
type ProjectSchema struct {
	ID        string          `json:"id" yaml:"id"`
	Name      string          `json:"name" yaml:"name"`
	Cors      CorsOptions     `json:"cors" yaml:"cors"`
	Features  ProjectFeatures `json:"features" yaml:"features"`
	Workflows []Entity        `json:"workflows" yaml:"workflows"`
}

// Entity 按 cardId 查找实体
func (p *ProjectSchema) Entity(cardID string) (*Entity, bool) {
	for i := range p.Workflows {
		if p.Workflows[i].CardID == cardID {
			return &p.Workflows[i], true
		}
	}
	return nil, false
}

// CloneProperties 深拷贝属性列表
func CloneProperties(props []Property) []Property {
	if props == nil {
		return []Property{}
	}
	result := make([]Property, len(props))
	for i, p := range props {
		result[i] = p
		result[i].Validation = p.Validation.Clone()
	}
	return result
}
