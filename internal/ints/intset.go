// Package ints defines a set of small non-negative integers (rule indexes).
package ints

import (
	"math/bits"
)

const chunkBits = bits.UintSize

// Set is a bit set. Zero value is an empty set. Negative items are ignored.
type Set struct {
	chunks []uint
}

func NewSet(items ...int) *Set {
	return (&Set{}).Add(items...)
}

func (s *Set) Add(items ...int) *Set {
	for _, item := range items {
		if item < 0 {
			continue
		}

		i := item / chunkBits
		if i >= len(s.chunks) {
			s.chunks = append(s.chunks, make([]uint, i+1-len(s.chunks))...)
		}
		s.chunks[i] |= 1 << uint(item%chunkBits)
	}
	return s
}

func (s *Set) Remove(items ...int) *Set {
	for _, item := range items {
		if s.Contains(item) {
			s.chunks[item/chunkBits] &^= 1 << uint(item%chunkBits)
		}
	}
	return s
}

func (s *Set) Contains(item int) bool {
	if item < 0 || item/chunkBits >= len(s.chunks) {
		return false
	}
	return s.chunks[item/chunkBits]&(1<<uint(item%chunkBits)) != 0
}

func (s *Set) Len() int {
	res := 0
	for _, c := range s.chunks {
		res += bits.OnesCount(c)
	}
	return res
}

func (s *Set) IsEmpty() bool {
	for _, c := range s.chunks {
		if c != 0 {
			return false
		}
	}
	return true
}

// ToSlice returns items in ascending order.
func (s *Set) ToSlice() []int {
	res := make([]int, 0, s.Len())
	for i, c := range s.chunks {
		for c != 0 {
			b := bits.TrailingZeros(c)
			res = append(res, i*chunkBits+b)
			c &= c - 1
		}
	}
	return res
}

func (s *Set) Copy() *Set {
	return &Set{chunks: append([]uint(nil), s.chunks...)}
}

// Union adds all items of other sets.
func (s *Set) Union(others ...*Set) *Set {
	for _, o := range others {
		if len(o.chunks) > len(s.chunks) {
			s.chunks = append(s.chunks, make([]uint, len(o.chunks)-len(s.chunks))...)
		}
		for i, c := range o.chunks {
			s.chunks[i] |= c
		}
	}
	return s
}
