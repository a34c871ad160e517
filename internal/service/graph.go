package service

import (
	"context"

	"github.com/d60-Lab/friend-graph/internal/model"
)

type GraphNode struct {
	ID              string   `json:"id"`
	Username        string   `json:"username"`
	Age             int      `json:"age"`
	Hobbies         []string `json:"hobbies"`
	PopularityScore float64  `json:"popularityScore"`
}

type GraphEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// GraphData 前端可视化所需的节点与边
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// BuildGraph projects users into nodes and their friend lists into edges,
// keeping one edge per unordered pair keyed by the canonical pair.
func BuildGraph(users []*UserView) *GraphData {
	g := &GraphData{
		Nodes: make([]GraphNode, 0, len(users)),
		Edges: []GraphEdge{},
	}
	seen := make(map[string]struct{})
	for _, u := range users {
		g.Nodes = append(g.Nodes, GraphNode{
			ID:              u.ID,
			Username:        u.Username,
			Age:             u.Age,
			Hobbies:         u.Hobbies,
			PopularityScore: u.PopularityScore,
		})
		for _, friendID := range u.Friends {
			f := model.NewFriendship(u.ID, friendID)
			key := f.PairKey()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			g.Edges = append(g.Edges, GraphEdge{ID: key, Source: f.User1ID, Target: f.User2ID})
		}
	}
	return g
}

func (s *userService) Graph(ctx context.Context) (*GraphData, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return BuildGraph(users), nil
}
