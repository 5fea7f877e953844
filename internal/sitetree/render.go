package sitetree

import "strings"

// RenderText prints the tree depth-first with box-drawing connectors, a 📁/📄
// marker per node, and a fixed root line. Nodes deeper than maxDepth are
// silently omitted.
func RenderText(root *Node, maxDepth int) string {
	var lines []string
	lines = append(lines, "📁 /")
	renderChildren(root, "", 0, maxDepth, &lines)
	return strings.Join(lines, "\n")
}

func renderChildren(n *Node, prefix string, depth, maxDepth int, lines *[]string) {
	if depth > maxDepth {
		return
	}
	for i, child := range n.Children {
		last := i == len(n.Children)-1
		connector := "├── "
		extension := "│   "
		if last {
			connector = "└── "
			extension = "    "
		}
		icon := "📄"
		if !child.IsLeaf() {
			icon = "📁"
		}
		*lines = append(*lines, prefix+connector+icon+" "+child.Name)
		if !child.IsLeaf() {
			renderChildren(child, prefix+extension, depth+1, maxDepth, lines)
		}
	}
}
