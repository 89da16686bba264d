package tree

// WalkStat describes visited node.
type WalkStat struct {
	Node   *Node
	Parent *Node
	Level  int // 0 for the root of walk
	Index  int // branch index in parent, 0 for the root of walk
}

// WalkerFlags control walking, zero value visits everything.
type WalkerFlags int

const (
	// SkipChildren prevents visiting branches of current node.
	SkipChildren WalkerFlags = 1 << iota
	// SkipSiblings prevents visiting remaining siblings of current node.
	SkipSiblings
	// Stop stops walking.
	Stop
)

// NodeVisitor is called for every visited node.
type NodeVisitor func(stat WalkStat) WalkerFlags

type WalkMode int

const (
	WalkLtr WalkMode = 0 // visit branches first to last
	WalkRtl WalkMode = 1 // visit branches last to first
)

// Walk visits n and its descendants in pre-order.
func Walk(n *Node, mode WalkMode, visitor NodeVisitor) {
	if n != nil {
		visitNode(WalkStat{Node: n}, visitor, mode&WalkRtl != 0)
	}
}

func visitNode(stat WalkStat, v NodeVisitor, rtl bool) WalkerFlags {
	flags := v(stat)
	if flags&(SkipChildren|Stop) != 0 {
		return flags
	}

	n := stat.Node
	l := len(n.branches)
	for i := 0; i < l; i++ {
		index := i
		if rtl {
			index = l - 1 - i
		}

		f := visitNode(WalkStat{n.branches[index], n, stat.Level + 1, index}, v, rtl)
		if f&Stop != 0 {
			return Stop
		}
		if f&SkipSiblings != 0 {
			break
		}
	}

	return flags &^ SkipChildren
}
