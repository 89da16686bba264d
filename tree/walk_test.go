package tree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func walkNames(n *Node, mode WalkMode, visitor func(WalkStat) WalkerFlags) string {
	res := make([]string, 0)
	Walk(n, mode, func(stat WalkStat) WalkerFlags {
		res = append(res, strings.Repeat("-", stat.Level)+stat.Node.Name())
		if visitor != nil {
			return visitor(stat)
		}
		return 0
	})
	return strings.Join(res, " ")
}

func TestWalk(t *testing.T) {
	n := sample()
	assert.Equal(t, "root -a --'x' --'y' -b --c ---<alpha>", walkNames(n, WalkLtr, nil))
	assert.Equal(t, "root -b --c ---<alpha> -a --'y' --'x'", walkNames(n, WalkRtl, nil))
	assert.Equal(t, "", walkNames(nil, WalkLtr, nil))
}

func TestWalkFlags(t *testing.T) {
	n := sample()

	skipA := func(stat WalkStat) WalkerFlags {
		if stat.Node.Name() == "a" {
			return SkipChildren
		}
		return 0
	}
	assert.Equal(t, "root -a -b --c ---<alpha>", walkNames(n, WalkLtr, skipA))

	skipSiblings := func(stat WalkStat) WalkerFlags {
		if stat.Node.Name() == "'x'" {
			return SkipSiblings
		}
		return 0
	}
	assert.Equal(t, "root -a --'x' -b --c ---<alpha>", walkNames(n, WalkLtr, skipSiblings))

	stop := func(stat WalkStat) WalkerFlags {
		if stat.Node.Name() == "'y'" {
			return Stop
		}
		return 0
	}
	assert.Equal(t, "root -a --'x' --'y'", walkNames(n, WalkLtr, stop))
}

func TestWalkStat(t *testing.T) {
	n := sample()
	Walk(n, WalkLtr, func(stat WalkStat) WalkerFlags {
		if stat.Node.Name() == "'y'" {
			assert.Equal(t, 1, stat.Index)
			assert.Equal(t, 2, stat.Level)
			assert.Equal(t, "a", stat.Parent.Name())
		}
		if stat.Level == 0 {
			assert.Nil(t, stat.Parent)
		}
		return 0
	})
}

func TestSelector(t *testing.T) {
	n := sample()

	res := NewSelector().Search(HasTag("literal"), false).Apply(n)
	assert.Equal(t, []string{"'x'", "'y'"}, names(res))

	res = NewSelector().Search(IsA("a", "b"), false).Branches().Apply(n)
	assert.Equal(t, []string{"'x'", "'y'", "c"}, names(res))

	res = NewSelector().Search(IsAll(IsNot(IsA("root")), IsAny(IsA("b"), IsA("c"))), true).Apply(n)
	assert.Equal(t, []string{"b", "c"}, names(res))

	res = NewSelector().Search(IsA("b", "c"), false).Apply(n)
	assert.Equal(t, []string{"b"}, names(res))

	res = NewSelector().Search(IsAToken("z", "y"), false).Apply(n, n, nil)
	assert.Equal(t, []string{"'y'", "<alpha>"}, names(res))

	res = NewSelector().Filter(IsA("none")).Apply(n)
	assert.Empty(t, res)

	res = NewSelector().Apply(n)
	assert.Equal(t, []string{"root"}, names(res))
}
