package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nodepilot/internal/schema"
)

func TestCollectionName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"User", "users"},
		{"Category", "categories"},
		{"UserProfile", "user_profiles"},
		{" Blog Post ", "blog_posts"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CollectionName(tt.in), tt.in)
	}
}

func TestEndpoints(t *testing.T) {
	e := schema.Entity{
		Name:   "User",
		Routes: []schema.RouteMethod{schema.RouteGetID, schema.RouteGet, schema.RoutePost, schema.RoutePut, schema.RouteDelete},
	}

	assert.Equal(t, []Endpoint{
		{Route: schema.RouteGetID, Method: "GET", Path: "/users/:id"},
		{Route: schema.RouteGet, Method: "GET", Path: "/users"},
		{Route: schema.RoutePost, Method: "POST", Path: "/users"},
		{Route: schema.RoutePut, Method: "PUT", Path: "/users/:id"},
		{Route: schema.RouteDelete, Method: "DELETE", Path: "/users/:id"},
	}, Endpoints(e))

	assert.Empty(t, Endpoints(schema.Entity{Name: "Tag"}))
}

func TestPlan(t *testing.T) {
	res := Compile("p", userPostSnapshot(schema.RelationOneToMany))

	plan := Plan(res.Schema)

	assert.Len(t, plan, 2)
	assert.Equal(t, "User", plan[0].Name)
	assert.Len(t, plan[0].Endpoints, 2)
	assert.Empty(t, plan[1].Endpoints)
}
