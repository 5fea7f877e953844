package sitetree

import "strings"

// GraphNode is one distinct path prefix. ID is the full prefix path, which
// makes node identity and edge deduplication structural.
type GraphNode struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Depth    int    `json:"depth"`
	IsFolder bool   `json:"is_folder"`
}

// GraphEdge is a directed parent -> child relationship.
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the node/edge topology handed to visualization layers.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// BuildGraph flattens the tree into nodes and edges, rooted at a synthetic
// home node. Nodes deeper than maxDepth are omitted.
func BuildGraph(root *Node, maxDepth int) Graph {
	g := Graph{
		Nodes: []GraphNode{{ID: "/", Name: "Homepage", Depth: -1, IsFolder: !root.IsLeaf()}},
		Edges: []GraphEdge{},
	}
	addGraphNodes(root, "/", 0, maxDepth, &g)
	return g
}

func addGraphNodes(n *Node, parentID string, depth, maxDepth int, g *Graph) {
	if depth > maxDepth {
		return
	}
	for _, child := range n.Children {
		id := parentID
		if !strings.HasSuffix(id, "/") {
			id += "/"
		}
		id += child.Name

		g.Nodes = append(g.Nodes, GraphNode{
			ID:       id,
			Name:     child.Name,
			Depth:    depth,
			IsFolder: !child.IsLeaf(),
		})
		g.Edges = append(g.Edges, GraphEdge{From: parentID, To: id})

		addGraphNodes(child, id, depth+1, maxDepth, g)
	}
}
