package tree

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// Node is one entry of a keyed tree. A node is either a branch holding ordered
// children or a leaf holding a scalar (or array) value.
type Node struct {
	// Key is the name of the node inside its parent. The root has an empty key.
	Key string
	// Value holds the decoded leaf value. It is nil for branches.
	Value any
	// Children holds the ordered child nodes of a branch.
	Children []*Node

	branch bool
}

// NewBranch creates a branch node with the given children.
func NewBranch(key string, children ...*Node) *Node {
	return &Node{Key: key, Children: children, branch: true}
}

// NewLeaf creates a leaf node.
func NewLeaf(key string, value any) *Node {
	return &Node{Key: key, Value: value}
}

// IsBranch reports whether the node was an object in the source document.
func (n *Node) IsBranch() bool {
	return n.branch
}

// String returns the leaf value as a string, or "" when it is not a string.
func (n *Node) String() string {
	s, _ := n.Value.(string)
	return s
}

// Child returns the direct child with the given key.
func (n *Node) Child(key string) (*Node, bool) {
	for _, c := range n.Children {
		if c.Key == key {
			return c, true
		}
	}
	return nil, false
}

// Action tells Walk how to continue after visiting a node.
type Action int

const (
	// Continue descends into the node's children.
	Continue Action = iota
	// Skip does not descend into the node's children.
	Skip
	// Stop aborts the walk.
	Stop
)

// Visitor is called for every node below the root. path holds the keys of the
// node's ancestors, root excluded.
type Visitor func(path []string, n *Node) Action

// Walk visits the tree depth-first in document order.
func Walk(root *Node, visit Visitor) {
	if root == nil {
		return
	}
	walk(root, nil, visit)
}

func walk(n *Node, path []string, visit Visitor) bool {
	for _, c := range n.Children {
		switch visit(path, c) {
		case Stop:
			return false
		case Skip:
			continue
		}
		if c.branch {
			childPath := append(path[:len(path):len(path)], c.Key)
			if !walk(c, childPath, visit) {
				return false
			}
		}
	}
	return true
}

// Parse decodes a JSON document into a tree, keeping object key order.
// The top-level value must be an object.
func Parse(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read tree root: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("tree root must be an object, got %v", tok)
	}

	root := NewBranch("")
	if err := parseObject(dec, root); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after tree root")
	}
	return root, nil
}

func parseObject(dec *json.Decoder, parent *Node) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}

		child, err := parseValue(dec, key)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		parent.Children = append(parent.Children, child)
	}
	// closing '}'
	_, err := dec.Token()
	return err
}

func parseValue(dec *json.Decoder, key string) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			n := NewBranch(key)
			if err := parseObject(dec, n); err != nil {
				return nil, err
			}
			return n, nil
		case '[':
			var items []any
			for dec.More() {
				var item any
				if err := dec.Decode(&item); err != nil {
					return nil, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return NewLeaf(key, items), nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", v)
		}
	default:
		return NewLeaf(key, v), nil
	}
}
