package depot

type Operation int

const (
	OpAnd Operation = iota
	OpOr
	OpNot
)

type compositeNode struct {
	op         Operation
	children   []QueryNode
	archetype  Archetype
	components []Component
}

type leafNode struct {
	archetype Archetype
}

type query struct {
	root QueryNode
}

func newQuery() Query {
	return &query{}
}

func newCompositeNode(op Operation, components []Component) *compositeNode {
	return &compositeNode{
		op:         op,
		children:   make([]QueryNode, 0),
		archetype:  archetypeOf(components...),
		components: components,
	}
}

func (n *compositeNode) Evaluate(archetype Archetype) bool {
	switch n.op {
	case OpAnd:
		if !n.archetype.IsSubsetOf(archetype) {
			return false
		}
		for _, child := range n.children {
			if !child.Evaluate(archetype) {
				return false
			}
		}
		return true

	case OpOr:
		if archetype.ContainsAny(n.archetype) {
			return true
		}
		for _, child := range n.children {
			if child.Evaluate(archetype) {
				return true
			}
		}
		return false

	case OpNot:
		for _, child := range n.children {
			if child.Evaluate(archetype) {
				return false
			}
		}
		return !archetype.ContainsAny(n.archetype)
	}
	return false
}

func (n *leafNode) Evaluate(archetype Archetype) bool {
	return n.archetype.IsSubsetOf(archetype)
}

func (q *query) And(items ...any) QueryNode {
	components, children := q.processItems(items...)
	node := newCompositeNode(OpAnd, components)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Or(items ...any) QueryNode {
	components, children := q.processItems(items...)
	node := newCompositeNode(OpOr, components)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Not(items ...any) QueryNode {
	components, children := q.processItems(items...)
	node := newCompositeNode(OpNot, components)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

// processItems splits query arguments into components and child nodes. An
// Archetype becomes a child that requires all of its members.
func (q *query) processItems(items ...any) ([]Component, []QueryNode) {
	components := make([]Component, 0)
	children := make([]QueryNode, 0)

	for _, item := range items {
		switch v := item.(type) {
		case Component:
			components = append(components, v)
		case []Component:
			components = append(components, v...)
		case Archetype:
			children = append(children, &leafNode{archetype: v})
		case QueryNode:
			children = append(children, v)
		}
	}

	return components, children
}

// Evaluate reports whether the first node built on q matches archetype. A
// query with no nodes matches nothing.
func (q *query) Evaluate(archetype Archetype) bool {
	if q.root == nil {
		return false
	}
	return q.root.Evaluate(archetype)
}
