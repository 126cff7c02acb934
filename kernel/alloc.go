package kernel

import "microbian/hal"

// descriptorWords is the notional size (in arena words) charged against
// the high end of the arena for each process descriptor, standing in for
// sizeof(struct proc) in the original. The Descriptor itself lives on the
// Go heap; charging the arena preserves the spec's exhaustion semantics
// and the "opposite ends" invariant even though Go's bounds-checked
// slices already make stack overrun unable to touch neighbouring memory
// (a strictly stronger guarantee than the original's placement trick, not
// a weaker one).
const descriptorWords = 16

// Arena is the bump allocator described in spec §4.A: break_lo advances
// up from the low end handing out stack regions, break_hi retreats down
// from the high end handing out descriptor budget. A request that would
// make the two cross panics; there is no deallocation.
type Arena struct {
	words []uint32
	lo    int // next free word index from the low end
	hi    int // one past the last free word index from the high end
}

// NewArena creates an allocator over the memory region's full word arena.
func NewArena(region hal.MemoryRegion) *Arena {
	w := region.Words()
	return &Arena{words: w, lo: 0, hi: len(w)}
}

// roundupWords rounds a byte size up to a whole, 8-byte-aligned word count.
func roundupWords(sizeBytes int) int {
	n := (sizeBytes + 3) / 4
	if n%2 != 0 {
		n++
	}
	return n
}

// AllocStack hands out a stksize-byte stack region (rounded up to 8
// bytes), painted with BLANK so unused depth can later be measured, and
// advances break_lo.
func (a *Arena) AllocStack(stksize int) []uint32 {
	n := roundupWords(stksize)
	if a.lo+n > a.hi {
		panic("microbian: out of memory for stack")
	}
	s := a.words[a.lo : a.lo+n]
	for i := range s {
		s[i] = BLANK
	}
	a.lo += n
	return s
}

// AllocDescriptor retreats break_hi by one descriptor's worth of budget
// and returns a freshly zeroed descriptor.
func (a *Arena) AllocDescriptor() *Descriptor {
	if a.hi-descriptorWords < a.lo {
		panic("microbian: no space for process")
	}
	a.hi -= descriptorWords
	return &Descriptor{}
}
