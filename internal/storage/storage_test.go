package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodepilot/internal/graph"
	"nodepilot/internal/schema"
)

func TestPathManager(t *testing.T) {
	pm := NewPathManager("/data", "My.Team:Blog")

	assert.Equal(t, "my_team_blog", pm.Namespace())
	assert.Equal(t, filepath.Join("/data", "my_team_blog", "workspace.json"), pm.GetSnapshotPath("json"))
	assert.Equal(t, filepath.Join("/data", "my_team_blog", "history.db"), pm.GetHistoryDBPath())
	assert.Equal(t, "default", NewPathManager("/data", "").Namespace())
}

func TestNewCodec(t *testing.T) {
	c, err := NewCodec("msgpack")
	require.NoError(t, err)
	assert.Equal(t, "msgpack", c.Ext())

	c, err = NewCodec("")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Ext())

	_, err = NewCodec("gob")
	assert.Error(t, err)
}

func samplePersisted() graph.Persisted {
	s := graph.New()
	s.SetProjectName("Blog")
	s.SetCors(schema.CorsOptions{Origin: schema.Origin{"http://localhost:5173"}, Credentials: true, MaxAge: 600})
	features := schema.DefaultFeatures()
	features.OAuthProviders.Providers = []string{"github"}
	features.OAuthProviders.CallbackURLs = map[string]string{"github": "/auth/github/callback"}
	s.SetFeatures(features)
	user := s.AddNode(graph.Node{
		Position: schema.Position{X: 10, Y: 20.5},
		Measured: &schema.Dimensions{Width: 240, Height: 160},
		Data: graph.NodeData{
			Name:   "User",
			Routes: []schema.RouteMethod{schema.RouteGet, schema.RouteGetID},
			Props: []schema.Property{
				{Name: "email", Type: schema.TypeString, Validation: schema.Rules{schema.Email(), schema.MaxLength(120)}},
				{Name: "age", Type: schema.TypeNumber, Nullable: true, Validation: schema.Rules{schema.Min(0), schema.Max(150.5)}},
				{Name: "role", Type: "Role", Validation: schema.Rules{schema.Enum("admin", "author")}},
			},
		},
	})
	post := s.AddNode(graph.Node{Data: graph.NodeData{
		Name:  "Post",
		Props: []schema.Property{{Name: "title", Type: schema.TypeString, Validation: schema.Rules{schema.MinLength(1)}}},
	}})
	s.AddEdge(graph.Edge{Source: user, Target: post, Data: graph.EdgeData{Relation: schema.RelationOneToMany}})
	return s.Snapshot().Persisted()
}

func TestSnapshotStorageRoundTrip(t *testing.T) {
	for _, name := range []string{"json", "msgpack"} {
		t.Run(name, func(t *testing.T) {
			codec, err := NewCodec(name)
			require.NoError(t, err)
			st := NewSnapshotStorage(NewPathManager(t.TempDir(), "test"), codec)

			_, ok, err := st.Load()
			require.NoError(t, err)
			assert.False(t, ok)

			want := samplePersisted()
			require.NoError(t, st.Save(want))

			got, ok, err := st.Load()
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, want, got)

			// 再次保存覆盖旧文件，不留下临时文件
			want.ProjectName = "Renamed"
			require.NoError(t, st.Save(want))
			got, _, err = st.Load()
			require.NoError(t, err)
			assert.Equal(t, "Renamed", got.ProjectName)

			entries, err := os.ReadDir(filepath.Dir(st.Path()))
			require.NoError(t, err)
			assert.Len(t, entries, 1)
		})
	}
}

func TestSnapshotStorageRestoresStore(t *testing.T) {
	st := NewSnapshotStorage(NewPathManager(t.TempDir(), ""), JSONCodec{})
	require.NoError(t, st.Save(samplePersisted()))

	p, ok, err := st.Load()
	require.NoError(t, err)
	require.True(t, ok)

	s := graph.New()
	s.Restore(p)
	valid, errs := s.Validate()
	assert.True(t, valid, errs)
	assert.Equal(t, "Blog", s.Snapshot().ProjectName)
	assert.Len(t, s.Snapshot().Nodes, 2)
}

func TestSnapshotStorageCorruptFile(t *testing.T) {
	st := NewSnapshotStorage(NewPathManager(t.TempDir(), "bad"), JSONCodec{})
	require.NoError(t, os.MkdirAll(filepath.Dir(st.Path()), 0755))
	require.NoError(t, os.WriteFile(st.Path(), []byte("{not json"), 0644))

	_, ok, err := st.Load()
	assert.False(t, ok)
	assert.ErrorContains(t, err, "failed to decode snapshot workspace.json")
}

func TestHistoryStore(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "ns", "history.db")

	h, err := OpenHistory(dbPath)
	require.NoError(t, err)

	first, err := h.Start(ctx, Generation{
		SchemaID: "s1", ProjectName: "Blog", EntityCount: 2, RelationCount: 1,
		Warnings: []string{"edge e2 skipped", "edge e3 skipped"},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, first.Status)
	assert.Equal(t, []string{"edge e2 skipped", "edge e3 skipped"}, first.Warnings)
	assert.NotEmpty(t, first.CreatedAt)
	assert.Empty(t, first.FinishedAt)

	second, err := h.Start(ctx, Generation{SchemaID: "s2", ProjectName: "Shop"})
	require.NoError(t, err)
	assert.Empty(t, second.Warnings)

	require.NoError(t, h.Finish(ctx, first.ID, StatusSucceeded, ""))
	require.NoError(t, h.Finish(ctx, second.ID, StatusFailed, "generator returned 500"))
	assert.ErrorIs(t, h.Finish(ctx, "missing", StatusFailed, ""), ErrGenerationNotFound)

	_, err = h.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrGenerationNotFound)

	require.NoError(t, h.Close())

	// 重新打开后记录仍在
	h, err = OpenHistory(dbPath)
	require.NoError(t, err)
	defer h.Close()

	list, err := h.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, StatusFailed, list[0].Status)
	assert.Equal(t, "generator returned 500", list[0].Error)
	assert.NotEmpty(t, list[0].FinishedAt)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, StatusSucceeded, list[1].Status)
	assert.Len(t, list[1].Warnings, 2)

	limited, err := h.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
