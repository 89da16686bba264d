package tree

type NodeFilter func(n *Node) bool
type NodeExtractor func(n *Node) []*Node

// Selector is a chain of node extractors applied to the result of previous one.
type Selector struct {
	extractors []NodeExtractor
}

func NewSelector() *Selector {
	return &Selector{}
}

// Apply runs selector chain on input nodes and returns distinct resulting nodes in order of appearance.
func (s *Selector) Apply(input ...*Node) []*Node {
	res := make([]*Node, 0)
	index := make(map[*Node]bool)

	for _, n := range input {
		if n == nil {
			continue
		}

		ns := []*Node{n}
		for _, e := range s.extractors {
			next := make([]*Node, 0)
			for _, nn := range ns {
				next = append(next, e(nn)...)
			}
			ns = next
		}

		for _, nn := range ns {
			if !index[nn] {
				index[nn] = true
				res = append(res, nn)
			}
		}
	}

	return res
}

func (s *Selector) Use(ne NodeExtractor) *Selector {
	if ne != nil {
		s.extractors = append(s.extractors, ne)
	}
	return s
}

// Filter keeps nodes satisfying nf.
func (s *Selector) Filter(nf NodeFilter) *Selector {
	return s.Use(func(n *Node) []*Node {
		if nf(n) {
			return []*Node{n}
		}
		return nil
	})
}

// Branches replaces each node with its branches.
func (s *Selector) Branches() *Selector {
	return s.Use(func(n *Node) []*Node {
		return n.Branches()
	})
}

// Search replaces each node with its descendants (the node itself included) satisfying nf.
// Found nodes are not searched deeper unless deepSearch is set.
func (s *Selector) Search(nf NodeFilter, deepSearch bool) *Selector {
	return s.Use(func(n *Node) []*Node {
		res := make([]*Node, 0)
		Walk(n, WalkLtr, func(stat WalkStat) WalkerFlags {
			if nf(stat.Node) {
				res = append(res, stat.Node)
				if !deepSearch {
					return SkipChildren
				}
			}
			return 0
		})
		return res
	})
}

func IsNot(f NodeFilter) NodeFilter {
	return func(n *Node) bool {
		return !f(n)
	}
}

func IsAny(fs ...NodeFilter) NodeFilter {
	return func(n *Node) bool {
		for _, f := range fs {
			if f(n) {
				return true
			}
		}
		return false
	}
}

func IsAll(fs ...NodeFilter) NodeFilter {
	return func(n *Node) bool {
		for _, f := range fs {
			if !f(n) {
				return false
			}
		}
		return true
	}
}

// IsA matches nodes with any of names.
func IsA(names ...string) NodeFilter {
	return func(n *Node) bool {
		for _, name := range names {
			if n.name == name {
				return true
			}
		}
		return false
	}
}

// HasTag matches nodes having any of tags.
func HasTag(tags ...string) NodeFilter {
	return func(n *Node) bool {
		for _, tag := range tags {
			if n.HasTag(tag) {
				return true
			}
		}
		return false
	}
}

// IsAToken matches leaf nodes with any of token texts.
func IsAToken(texts ...string) NodeFilter {
	return func(n *Node) bool {
		if len(n.branches) != 0 {
			return false
		}

		t := n.attributes[TokenAttribute]
		for _, text := range texts {
			if text == t {
				return true
			}
		}
		return false
	}
}
