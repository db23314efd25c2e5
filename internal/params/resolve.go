package params

import "strings"

// Resolve maps a selected group path to the parameters of that group.
//
// The path has the form /marker/seg1/seg2; the first segment is the root
// marker and is skipped. Any lookup miss, or a walk that ends on a group
// rather than a parameter list, yields an empty slice. Resolve never panics
// and never mutates the hierarchy.
func Resolve(root *Node, selectedPath string) []string {
	segments := strings.Split(strings.TrimPrefix(selectedPath, "/"), "/")
	node := root
	for _, segment := range segments[1:] {
		child, ok := node.Child(segment)
		if !ok {
			return []string{}
		}
		node = child
	}
	if !node.IsLeaf() {
		return []string{}
	}
	return node.Params()
}

// Lookup returns the node a selected path points at, group or leaf.
func Lookup(root *Node, selectedPath string) (*Node, bool) {
	if root == nil {
		return nil, false
	}
	segments := strings.Split(strings.TrimPrefix(selectedPath, "/"), "/")
	node := root
	for _, segment := range segments[1:] {
		child, ok := node.Child(segment)
		if !ok {
			return nil, false
		}
		node = child
	}
	return node, true
}
