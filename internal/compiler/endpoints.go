package compiler

import (
	"strings"

	"github.com/go-openapi/inflect"

	"nodepilot/internal/schema"
)

// Endpoint 实体路由对应的 REST 接口
type Endpoint struct {
	Route  schema.RouteMethod `json:"route"`
	Method string             `json:"method"`
	Path   string             `json:"path"`
}

// EntityEndpoints 单个实体的接口预览
type EntityEndpoints struct {
	CardID    string     `json:"cardId"`
	Name      string     `json:"name"`
	Endpoints []Endpoint `json:"endpoints"`
}

// CollectionName 实体的集合名，如 UserProfile -> user_profiles
func CollectionName(entityName string) string {
	name := strings.Join(strings.Fields(entityName), "")
	if name == "" {
		return ""
	}
	return inflect.Underscore(inflect.Pluralize(name))
}

// Endpoints 根据实体的路由生成接口列表，顺序与路由一致
func Endpoints(e schema.Entity) []Endpoint {
	collection := "/" + CollectionName(e.Name)
	item := collection + "/:id"

	result := make([]Endpoint, 0, len(e.Routes))
	for _, route := range e.Routes {
		switch route {
		case schema.RouteGet:
			result = append(result, Endpoint{Route: route, Method: "GET", Path: collection})
		case schema.RoutePost:
			result = append(result, Endpoint{Route: route, Method: "POST", Path: collection})
		case schema.RoutePut:
			result = append(result, Endpoint{Route: route, Method: "PUT", Path: item})
		case schema.RouteDelete:
			result = append(result, Endpoint{Route: route, Method: "DELETE", Path: item})
		case schema.RouteGetID:
			result = append(result, Endpoint{Route: route, Method: "GET", Path: item})
		}
	}
	return result
}

// Plan 项目内所有实体的接口预览
func Plan(ps schema.ProjectSchema) []EntityEndpoints {
	result := make([]EntityEndpoints, 0, len(ps.Workflows))
	for _, e := range ps.Workflows {
		result = append(result, EntityEndpoints{
			CardID:    e.CardID,
			Name:      e.Name,
			Endpoints: Endpoints(e),
		})
	}
	return result
}
