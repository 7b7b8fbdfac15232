package inmemory

import (
	"strings"

	"github.com/dvloznov/points-sync/internal/webagent"
)

// Node is one element of an in-memory page. Tests build trees of Nodes to
// stand in for the history table and the ledger entry form.
type Node struct {
	Tag     string
	ID      string
	Name    string
	Classes []string
	XPath   string // absolute path an XPath selector must equal to match
	Attrs   map[string]string

	// TextValue is the node's own text. Text() of a node with children joins
	// the non-empty texts of its children with newlines.
	TextValue string

	// Value is the current value of inputs and selects.
	Value string

	Children []*Node

	// OnClick runs after a click is recorded; it lets a test simulate the page
	// reacting, e.g. a submit button storing the filled form.
	OnClick func() error

	// Fail, when set, is returned by every action on this node.
	Fail error

	Clicks int
}

// El builds a node with the given tag and children.
func El(tag string, children ...*Node) *Node {
	return &Node{Tag: tag, Children: children}
}

// Text builds a leaf node carrying text.
func Text(tag, text string) *Node {
	return &Node{Tag: tag, TextValue: text}
}

// WithID sets the id and returns the node for chaining.
func (n *Node) WithID(id string) *Node {
	n.ID = id
	return n
}

// WithName sets the name attribute.
func (n *Node) WithName(name string) *Node {
	n.Name = name
	return n
}

// WithClass appends class names.
func (n *Node) WithClass(classes ...string) *Node {
	n.Classes = append(n.Classes, classes...)
	return n
}

// WithXPath sets the absolute XPath the node answers to.
func (n *Node) WithXPath(xpath string) *Node {
	n.XPath = xpath
	return n
}

// WithAttr sets an arbitrary attribute.
func (n *Node) WithAttr(name, value string) *Node {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[name] = value
	return n
}

// Text returns the visible text of the node.
func (n *Node) Text() string {
	if len(n.Children) == 0 {
		return n.TextValue
	}
	parts := make([]string, 0, len(n.Children)+1)
	if n.TextValue != "" {
		parts = append(parts, n.TextValue)
	}
	for _, c := range n.Children {
		if t := c.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// Attribute returns an attribute value, deriving id, name and class from the
// dedicated fields.
func (n *Node) Attribute(name string) string {
	switch name {
	case "id":
		return n.ID
	case "name":
		return n.Name
	case "class":
		return strings.Join(n.Classes, " ")
	case "value":
		if v, ok := n.Attrs["value"]; ok {
			return v
		}
		return n.Value
	}
	return n.Attrs[name]
}

func (n *Node) hasClass(class string) bool {
	for _, c := range n.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// matches reports whether n satisfies sel. CSS selectors are matched only in
// their simplest forms: a tag, "#id", ".class" or "tag.class".
func (n *Node) matches(sel webagent.Selector) bool {
	switch sel.By {
	case webagent.ByIDStrategy:
		return n.ID == sel.Value
	case webagent.ByNameStrategy:
		return n.Name == sel.Value
	case webagent.ByClassStrategy:
		return n.hasClass(sel.Value)
	case webagent.ByTagStrategy:
		return n.Tag == sel.Value
	case webagent.ByXPathStrategy:
		return n.XPath != "" && n.XPath == sel.Value
	case webagent.ByCSSStrategy:
		v := sel.Value
		switch {
		case strings.HasPrefix(v, "#"):
			return n.ID == v[1:]
		case strings.HasPrefix(v, "."):
			return n.hasClass(v[1:])
		case strings.Contains(v, "."):
			tag, class, _ := strings.Cut(v, ".")
			return n.Tag == tag && n.hasClass(class)
		default:
			return n.Tag == v
		}
	}
	return false
}

// descendants returns every node below n in document order.
func (n *Node) descendants() []*Node {
	var out []*Node
	for _, c := range n.Children {
		out = append(out, c)
		out = append(out, c.descendants()...)
	}
	return out
}
