package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGraphDedupesEdges(t *testing.T) {
	users := []*UserView{
		{ID: "b", Username: "B", Friends: []string{"a", "c"}},
		{ID: "a", Username: "A", Friends: []string{"b"}},
		{ID: "c", Username: "C", Friends: []string{"b"}},
	}

	g := BuildGraph(users)
	require.Len(t, g.Nodes, 3)
	require.Len(t, g.Edges, 2)
	assert.Equal(t, GraphEdge{ID: "a-b", Source: "a", Target: "b"}, g.Edges[0])
	assert.Equal(t, GraphEdge{ID: "b-c", Source: "b", Target: "c"}, g.Edges[1])
}

func TestBuildGraphEmpty(t *testing.T) {
	g := BuildGraph(nil)
	assert.NotNil(t, g.Nodes)
	assert.NotNil(t, g.Edges)
	assert.Empty(t, g.Edges)
}

func TestGraphSingleFriendshipOneEdge(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a := mustCreate(t, svc, "A", 20, "chess")
	b := mustCreate(t, svc, "B", 30, "chess", "golf")
	require.NoError(t, svc.CreateFriendship(ctx, a.ID, b.ID))

	g, err := svc.Graph(ctx)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)

	scores := map[string]float64{}
	for _, n := range g.Nodes {
		scores[n.ID] = n.PopularityScore
	}
	assert.Equal(t, 1.5, scores[a.ID])
	assert.Equal(t, 1.5, scores[b.ID])

	edge := g.Edges[0]
	assert.ElementsMatch(t, []string{a.ID, b.ID}, []string{edge.Source, edge.Target})
	assert.Less(t, edge.Source, edge.Target)
}
