package generator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodepilot/internal/schema"
)

func TestGenerate(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/workflows/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write([]byte("PK\x03\x04archive"))
	}))
	defer srv.Close()

	ps := schema.ProjectSchema{
		ID:        "p1",
		Name:      "Blog",
		Features:  schema.DefaultFeatures(),
		Workflows: []schema.Entity{{CardID: "n1", Name: "User", Routes: []schema.RouteMethod{}, Props: []schema.Property{}, Relations: []schema.RelationRecord{}}},
	}

	archive, err := New(srv.URL+"/api/", time.Second).Generate(context.Background(), ps)
	require.NoError(t, err)
	defer archive.Body.Close()

	data, err := io.ReadAll(archive.Body)
	require.NoError(t, err)
	assert.Equal(t, "PK\x03\x04archive", string(data))
	assert.Equal(t, "Blog.zip", archive.FileName)
	assert.Equal(t, "application/zip", archive.ContentType)

	assert.Equal(t, "p1", received["id"])
	workflows := received["workflows"].([]any)
	assert.Equal(t, "n1", workflows[0].(map[string]any)["cardId"])
}

func TestGenerateStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "schema rejected", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second).Generate(context.Background(), schema.ProjectSchema{Name: "Blog"})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.Status)
	assert.Equal(t, "schema rejected", statusErr.Body)
	assert.ErrorIs(t, err, ErrFailed)
}

func TestGenerateTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := New(url, time.Second).Generate(context.Background(), schema.ProjectSchema{})
	assert.ErrorIs(t, err, ErrFailed)
}

func TestGenerateHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(srv.URL, 0).Generate(ctx, schema.ProjectSchema{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestArchiveName(t *testing.T) {
	assert.Equal(t, "Blog.zip", ArchiveName(" Blog "))
	assert.Equal(t, "a_b.zip", ArchiveName("a/b"))
	assert.Equal(t, "project.zip", ArchiveName(""))
}
