// Package params models a country's parameter hierarchy and resolves menu
// selections to the parameters shown in the control pane.
//
// A hierarchy is an ordered tree. Groups map segment names to child nodes in
// the order they were declared; leaves hold the ordered identifiers of the
// parameters in that group. Trees are built once per country load and are
// read-only afterwards, so every accessor hands out copies.
package params

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultRootMarker is the first segment of a selected path when the country
// file does not declare its own.
const DefaultRootMarker = "policy"

// Node is either a group (ordered named children) or a leaf (ordered
// parameter identifiers).
type Node struct {
	leaf     bool
	params   []string
	names    []string
	children map[string]*Node
}

// NewGroup returns an empty group node.
func NewGroup() *Node {
	return &Node{children: make(map[string]*Node)}
}

// NewLeaf returns a leaf holding the given parameter identifiers.
func NewLeaf(ids ...string) *Node {
	return &Node{leaf: true, params: append([]string{}, ids...)}
}

// Add appends a named child to a group. Sibling names must be unique.
func (n *Node) Add(name string, child *Node) error {
	if n.leaf {
		return fmt.Errorf("cannot add %q to a parameter list", name)
	}
	if child == nil {
		return fmt.Errorf("nil child for %q", name)
	}
	if _, exists := n.children[name]; exists {
		return fmt.Errorf("duplicate group %q", name)
	}
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	n.names = append(n.names, name)
	n.children[name] = child
	return nil
}

// MustAdd is Add for literal trees in tests and fixtures.
func (n *Node) MustAdd(name string, child *Node) *Node {
	if err := n.Add(name, child); err != nil {
		panic(err)
	}
	return n
}

// IsLeaf reports whether the node holds parameters rather than groups.
func (n *Node) IsLeaf() bool {
	return n != nil && n.leaf
}

// Child looks up a direct child by segment name.
func (n *Node) Child(name string) (*Node, bool) {
	if n == nil || n.leaf {
		return nil, false
	}
	child, ok := n.children[name]
	return child, ok
}

// Names returns the child segment names in declaration order.
func (n *Node) Names() []string {
	if n == nil {
		return nil
	}
	return append([]string{}, n.names...)
}

// Params returns a copy of the leaf's parameter identifiers.
func (n *Node) Params() []string {
	if n == nil || !n.leaf {
		return nil
	}
	return append([]string{}, n.params...)
}

// UnmarshalYAML decodes a hierarchy while keeping sibling order.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseHierarchy(value)
	if err != nil {
		return err
	}
	*n = *parsed
	return nil
}

// ParseHierarchy builds a tree from a YAML node. Mappings become groups and
// sequences of scalars become leaves.
func ParseHierarchy(value *yaml.Node) (*Node, error) {
	if value == nil {
		return NewGroup(), nil
	}
	switch value.Kind {
	case yaml.DocumentNode:
		if len(value.Content) == 0 {
			return NewGroup(), nil
		}
		return ParseHierarchy(value.Content[0])
	case yaml.MappingNode:
		group := NewGroup()
		for i := 0; i+1 < len(value.Content); i += 2 {
			key, val := value.Content[i], value.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: group name must be a string", key.Line)
			}
			child, err := ParseHierarchy(val)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key.Value, err)
			}
			if err := group.Add(key.Value, child); err != nil {
				return nil, fmt.Errorf("line %d: %w", key.Line, err)
			}
		}
		return group, nil
	case yaml.SequenceNode:
		ids := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: parameter identifier must be a string", item.Line)
			}
			ids = append(ids, item.Value)
		}
		return NewLeaf(ids...), nil
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			return NewGroup(), nil
		}
		return nil, fmt.Errorf("line %d: expected a group or a parameter list, got %q", value.Line, value.Value)
	case yaml.AliasNode:
		return ParseHierarchy(value.Alias)
	default:
		return nil, fmt.Errorf("line %d: unsupported hierarchy node", value.Line)
	}
}

// Group is one navigable entry of the menu.
type Group struct {
	Path  string
	Name  string
	Depth int
	// Count is the number of parameters for leaves, children for groups.
	Count int
	Leaf  bool
}

// Groups lists every node below root depth-first, with paths that resolve
// back to it under the given root marker.
func Groups(root *Node, marker string) []Group {
	if marker == "" {
		marker = DefaultRootMarker
	}
	var out []Group
	var walk func(n *Node, prefix string, depth int)
	walk = func(n *Node, prefix string, depth int) {
		for _, name := range n.names {
			child := n.children[name]
			path := prefix + "/" + name
			g := Group{Path: path, Name: name, Depth: depth, Leaf: child.leaf}
			if child.leaf {
				g.Count = len(child.params)
			} else {
				g.Count = len(child.names)
			}
			out = append(out, g)
			if !child.leaf {
				walk(child, path, depth+1)
			}
		}
	}
	if root != nil && !root.leaf {
		walk(root, "/"+marker, 0)
	}
	return out
}

// Parameters returns every identifier in the tree, in tree order.
func Parameters(root *Node) []string {
	var out []string
	var walk func(n *Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.leaf {
			out = append(out, n.params...)
			return
		}
		for _, name := range n.names {
			walk(n.children[name])
		}
	}
	walk(root)
	return out
}
