package compiler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodepilot/internal/graph"
	"nodepilot/internal/schema"
)

func userPostSnapshot(kind schema.RelationKind) graph.Snapshot {
	s := graph.New()
	s.SetProjectName("Blog")
	s.AddNode(graph.Node{ID: "n1", Data: graph.NodeData{
		Name:   "User",
		Routes: []schema.RouteMethod{schema.RouteGet, schema.RoutePost},
		Props: []schema.Property{
			{Name: "email", Type: schema.TypeString, Validation: schema.Rules{schema.Email()}},
		},
	}})
	s.AddNode(graph.Node{ID: "n2", Data: graph.NodeData{Name: "Post"}})
	s.AddEdge(graph.Edge{ID: "e1", Source: "n1", Target: "n2", Data: graph.EdgeData{Relation: kind}})
	return s.Snapshot()
}

func TestCompileUserPost(t *testing.T) {
	res := Compile("p1", userPostSnapshot(schema.RelationOneToMany))

	require.Empty(t, res.Warnings)
	require.Len(t, res.Schema.Workflows, 2)

	user, ok := res.Schema.Entity("n1")
	require.True(t, ok)
	assert.Equal(t, []schema.RelationRecord{
		{Controller: "Post", Relation: schema.RelationOneToMany, IsParent: false},
	}, user.Relations)

	post, ok := res.Schema.Entity("n2")
	require.True(t, ok)
	assert.Equal(t, []schema.RelationRecord{
		{Controller: "User", Relation: schema.RelationOneToMany, IsParent: true},
	}, post.Relations)

	assert.Equal(t, "p1", res.Schema.ID)
	assert.Equal(t, "Blog", res.Schema.Name)
	assert.Equal(t, schema.DefaultFeatures(), res.Schema.Features)
}

func TestCompileEveryEdgeYieldsPair(t *testing.T) {
	s := graph.New()
	for _, n := range []graph.Node{
		{ID: "a", Data: graph.NodeData{Name: "A"}},
		{ID: "b", Data: graph.NodeData{Name: "B"}},
		{ID: "c", Data: graph.NodeData{Name: "C"}},
	} {
		s.AddNode(n)
	}
	edges := []graph.Edge{
		{ID: "e1", Source: "a", Target: "b", Data: graph.EdgeData{Relation: schema.RelationOneToOne}},
		{ID: "e2", Source: "b", Target: "c", Data: graph.EdgeData{Relation: schema.RelationManyToMany}},
		{ID: "e3", Source: "c", Target: "a", Data: graph.EdgeData{Relation: schema.RelationOneToMany}},
		{ID: "e4", Source: "a", Target: "a", Data: graph.EdgeData{Relation: schema.RelationOneToOne}},
	}
	for _, e := range edges {
		s.AddEdge(e)
	}
	snap := s.Snapshot()

	res := Compile("p", snap)

	total := 0
	for _, e := range res.Schema.Workflows {
		total += len(e.Relations)
	}
	assert.Equal(t, 2*len(edges), total)

	names := map[string]string{"a": "A", "b": "B", "c": "C"}
	for _, edge := range edges {
		source, _ := res.Schema.Entity(edge.Source)
		target, _ := res.Schema.Entity(edge.Target)
		assert.Contains(t, target.Relations, schema.RelationRecord{
			Controller: names[edge.Source], Relation: edge.Data.Relation, IsParent: true,
		})
		assert.Contains(t, source.Relations, schema.RelationRecord{
			Controller: names[edge.Target], Relation: edge.Data.Relation, IsParent: false,
		})
	}
}

func TestCompileDiscardsEmbeddedRelations(t *testing.T) {
	s := graph.New()
	s.AddNode(graph.Node{ID: "n1", Data: graph.NodeData{
		Name:      "User",
		Relations: []schema.RelationRecord{{Controller: "Stale", Relation: schema.RelationOneToOne}},
	}})

	res := Compile("p", s.Snapshot())

	require.Len(t, res.Schema.Workflows, 1)
	assert.Empty(t, res.Schema.Workflows[0].Relations)
	assert.NotNil(t, res.Schema.Workflows[0].Relations)
}

func TestCompileSkipsDanglingEdges(t *testing.T) {
	snap := userPostSnapshot(schema.RelationOneToMany)
	snap.Edges = append(snap.Edges,
		graph.Edge{ID: "e2", Source: "deleted", Target: "n2", Data: graph.EdgeData{Relation: schema.RelationOneToOne}},
		graph.Edge{ID: "e3", Source: "n1", Target: "deleted"},
	)

	var res Result
	require.NotPanics(t, func() { res = Compile("p", snap) })

	require.Len(t, res.Warnings, 2)
	assert.Equal(t, "e2", res.Warnings[0].EdgeID)
	assert.Equal(t, "deleted", res.Warnings[0].Source)
	assert.Equal(t, "e3", res.Warnings[1].EdgeID)

	user, _ := res.Schema.Entity("n1")
	post, _ := res.Schema.Entity("n2")
	assert.Len(t, user.Relations, 1)
	assert.Len(t, post.Relations, 1)
}

func TestCompileIsIdempotent(t *testing.T) {
	snap := userPostSnapshot(schema.RelationManyToMany)

	first := Compile("same", snap)
	second := Compile("same", snap)

	assert.Equal(t, first, second)

	a, err := json.Marshal(first.Schema)
	require.NoError(t, err)
	b, err := json.Marshal(second.Schema)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestCompileDoesNotAliasSnapshot(t *testing.T) {
	snap := userPostSnapshot(schema.RelationOneToMany)

	res := Compile("p", snap)
	res.Schema.Workflows[0].Props[0].Name = "changed"
	res.Schema.Workflows[0].Routes[0] = schema.RouteDelete

	assert.Equal(t, "email", snap.Nodes[0].Data.Props[0].Name)
	assert.Equal(t, schema.RouteGet, snap.Nodes[0].Data.Routes[0])
}

func TestCompileWireShape(t *testing.T) {
	snap := userPostSnapshot(schema.RelationOneToMany)
	snap.Nodes[0].Position = schema.Position{X: 12, Y: 34}
	snap.Nodes[0].Measured = &schema.Dimensions{Width: 200, Height: 120}
	snap.Cors = schema.CorsOptions{Origin: schema.Origin{"*"}}

	data, err := json.Marshal(Compile("p1", snap).Schema)
	require.NoError(t, err)

	var wire struct {
		ID        string         `json:"id"`
		Name      string         `json:"name"`
		Cors      map[string]any `json:"cors"`
		Workflows []struct {
			CardID     string             `json:"cardId"`
			Routes     []string           `json:"routes"`
			Props      []map[string]any   `json:"props"`
			Relations  []map[string]any   `json:"relations"`
			Dimensions map[string]any     `json:"dimensions"`
			Position   map[string]float64 `json:"position"`
		} `json:"workflows"`
	}
	require.NoError(t, json.Unmarshal(data, &wire))

	assert.Equal(t, "p1", wire.ID)
	assert.Equal(t, "*", wire.Cors["origin"])
	require.Len(t, wire.Workflows, 2)
	assert.Equal(t, "n1", wire.Workflows[0].CardID)
	assert.Equal(t, []string{"GET", "POST"}, wire.Workflows[0].Routes)
	assert.Equal(t, map[string]float64{"x": 12, "y": 34}, wire.Workflows[0].Position)
	assert.Equal(t, float64(200), wire.Workflows[0].Dimensions["width"])
	assert.Equal(t, []any{map[string]any{"type": "email"}}, wire.Workflows[0].Props[0]["validation"])
	assert.Equal(t, map[string]any{"relation": "one-to-many", "isParent": false, "controller": "Post"},
		wire.Workflows[0].Relations[0])
	assert.Nil(t, wire.Workflows[1].Dimensions)
	assert.Equal(t, []string{}, wire.Workflows[1].Routes)
}
