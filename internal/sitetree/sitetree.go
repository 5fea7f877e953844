// Package sitetree folds sitemap URLs into a path hierarchy and renders it as
// indented text or a node/edge graph.
package sitetree

import (
	"net/url"
	"strings"

	"github.com/mkalinic/sitegen/internal/sitemap"
)

// Node is one path segment in the site hierarchy. Children keep first-seen
// order; an empty child list marks a leaf.
type Node struct {
	Name     string
	Children []*Node
}

func (n *Node) child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Build folds URL records into a shared tree. Only the path component is
// used; scheme and host are discarded and empty segments dropped, so URLs
// with a common prefix merge.
func Build(urls []sitemap.URL) *Node {
	root := &Node{Name: "/"}
	for _, rec := range urls {
		cur := root
		for _, seg := range pathSegments(rec.Loc) {
			next := cur.child(seg)
			if next == nil {
				next = &Node{Name: seg}
				cur.Children = append(cur.Children, next)
			}
			cur = next
		}
	}
	return root
}

func pathSegments(loc string) []string {
	loc = strings.TrimSpace(loc)
	path := loc
	if u, err := url.Parse(loc); err == nil {
		path = u.Path
	} else if i := strings.Index(loc, "://"); i >= 0 {
		rest := loc[i+3:]
		if j := strings.Index(rest, "/"); j >= 0 {
			path = rest[j:]
		} else {
			path = ""
		}
	}

	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}
