// Package tree defines syntax tree produced by parser.
//
// Each node exclusively owns its branches: a node must not be added to more than one parent,
// and there are no parent pointers. Use Clone to put a copy of a subtree elsewhere.
package tree

import (
	"sort"
	"strconv"
	"strings"
)

// TokenAttribute is the name of the attribute containing matched text of a leaf node.
const TokenAttribute = "token"

// Node is a syntax tree node with name, ordered branches, string attributes, and tags.
type Node struct {
	name       string
	branches   []*Node
	attributes map[string]string
	tags       []string
}

// New creates an empty node.
func New(name string) *Node {
	return &Node{name: name}
}

// NewLeaf creates a node with token attribute set to text and with given tags.
func NewLeaf(name, text string, tags ...string) *Node {
	n := &Node{name: name, attributes: map[string]string{TokenAttribute: text}}
	if len(tags) > 0 {
		n.tags = append(make([]string, 0, len(tags)), tags...)
	}
	return n
}

func (n *Node) Name() string {
	return n.name
}

func (n *Node) SetName(name string) {
	n.name = name
}

// AddBranch appends b to the list of branches.
// nil and n itself are ignored.
func (n *Node) AddBranch(b *Node) {
	if b == nil || b == n {
		return
	}

	n.branches = append(n.branches, b)
}

// InsertBranch puts b before i-th branch, i equal to Len or out of range appends b.
// Negative i counts from the end. nil and n itself are ignored.
func (n *Node) InsertBranch(i int, b *Node) {
	if b == nil || b == n {
		return
	}

	if i < 0 {
		i += len(n.branches)
	}
	if i < 0 || i >= len(n.branches) {
		n.branches = append(n.branches, b)
		return
	}

	n.branches = append(n.branches, nil)
	copy(n.branches[i+1:], n.branches[i:])
	n.branches[i] = b
}

// IndexOf returns the index of b in the list of branches or -1.
func (n *Node) IndexOf(b *Node) int {
	return n.branchIndex(b)
}

// RemoveBranch removes b from the list of branches. Returns false if b is not a branch of n.
func (n *Node) RemoveBranch(b *Node) bool {
	i := n.branchIndex(b)
	if i < 0 {
		return false
	}

	copy(n.branches[i:], n.branches[i+1:])
	n.branches[len(n.branches)-1] = nil
	n.branches = n.branches[:len(n.branches)-1]
	return true
}

// ReplaceBranch puts b in place of old. Returns false if old is not a branch of n.
// nil b removes old.
func (n *Node) ReplaceBranch(old, b *Node) bool {
	if b == nil {
		return n.RemoveBranch(old)
	}

	i := n.branchIndex(old)
	if i < 0 || b == n {
		return false
	}

	n.branches[i] = b
	return true
}

func (n *Node) branchIndex(b *Node) int {
	if b == nil {
		return -1
	}

	for i, nb := range n.branches {
		if nb == b {
			return i
		}
	}
	return -1
}

// Len returns the number of branches.
func (n *Node) Len() int {
	return len(n.branches)
}

// Branch returns i-th branch, negative i counts from the end.
// Returns nil if index is out of range.
func (n *Node) Branch(i int) *Node {
	if i < 0 {
		i += len(n.branches)
	}
	if i < 0 || i >= len(n.branches) {
		return nil
	}

	return n.branches[i]
}

// Branches returns a copy of the list of branches.
func (n *Node) Branches() []*Node {
	return append([]*Node(nil), n.branches...)
}

// Truncate drops all branches starting with i-th one.
func (n *Node) Truncate(i int) {
	if i < 0 || i >= len(n.branches) {
		return
	}

	for j := i; j < len(n.branches); j++ {
		n.branches[j] = nil
	}
	n.branches = n.branches[:i]
}

// Attribute sets string attribute.
func (n *Node) Attribute(name, value string) {
	if n.attributes == nil {
		n.attributes = make(map[string]string)
	}
	n.attributes[name] = value
}

// AttributeInt sets integer attribute in decimal form.
func (n *Node) AttributeInt(name string, value int) {
	n.Attribute(name, strconv.Itoa(value))
}

// AttributeFloat sets floating point attribute in the shortest exact form.
func (n *Node) AttributeFloat(name string, value float64) {
	n.Attribute(name, strconv.FormatFloat(value, 'g', -1, 64))
}

// Get returns attribute value or empty string.
func (n *Node) Get(name string) string {
	return n.attributes[name]
}

// Has reports whether attribute is set.
func (n *Node) Has(name string) bool {
	_, has := n.attributes[name]
	return has
}

func (n *Node) RemoveAttribute(name string) {
	delete(n.attributes, name)
}

// AttributeNames returns sorted attribute names.
func (n *Node) AttributeNames() []string {
	res := make([]string, 0, len(n.attributes))
	for k := range n.attributes {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// Tag appends tag. Duplicates are allowed.
func (n *Node) Tag(tag string) {
	n.tags = append(n.tags, tag)
}

// UnTag removes all occurrences of tag.
func (n *Node) UnTag(tag string) {
	j := 0
	for _, t := range n.tags {
		if t != tag {
			n.tags[j] = t
			j++
		}
	}
	n.tags = n.tags[:j]
}

func (n *Node) HasTag(tag string) bool {
	for _, t := range n.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// CountTags returns the number of tags including duplicates.
func (n *Node) CountTags() int {
	return len(n.tags)
}

// Tags returns a copy of tag list in insertion order.
func (n *Node) Tags() []string {
	return append([]string(nil), n.tags...)
}

// Find returns the first node named name in depth-first pre-order, n itself included.
func (n *Node) Find(name string) *Node {
	if n.name == name {
		return n
	}

	for _, b := range n.branches {
		if res := b.Find(name); res != nil {
			return res
		}
	}
	return nil
}

// Enumerate returns all nodes of the subtree in pre-order, n itself first.
func (n *Node) Enumerate() []*Node {
	res := make([]*Node, 0, n.Count())
	return n.enumerate(res)
}

func (n *Node) enumerate(res []*Node) []*Node {
	res = append(res, n)
	for _, b := range n.branches {
		res = b.enumerate(res)
	}
	return res
}

// Count returns the number of nodes in the subtree including n itself.
func (n *Node) Count() int {
	res := 1
	for _, b := range n.branches {
		res += b.Count()
	}
	return res
}

// IsLeaf reports whether node has no branches.
func (n *Node) IsLeaf() bool {
	return len(n.branches) == 0
}

// Text returns concatenated token attributes of all leaf nodes in order.
func (n *Node) Text() string {
	b := &strings.Builder{}
	n.writeText(b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	if len(n.branches) == 0 {
		b.WriteString(n.attributes[TokenAttribute])
		return
	}

	for _, nb := range n.branches {
		nb.writeText(b)
	}
}

// Clone returns a deep copy of the subtree.
func (n *Node) Clone() *Node {
	res := &Node{name: n.name}
	if len(n.attributes) > 0 {
		res.attributes = make(map[string]string, len(n.attributes))
		for k, v := range n.attributes {
			res.attributes[k] = v
		}
	}
	if len(n.tags) > 0 {
		res.tags = append(make([]string, 0, len(n.tags)), n.tags...)
	}
	if len(n.branches) > 0 {
		res.branches = make([]*Node, len(n.branches))
		for i, b := range n.branches {
			res.branches[i] = b.Clone()
		}
	}
	return res
}
