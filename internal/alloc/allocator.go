package alloc

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// MaxOffset is the largest offset a Calvin header can record.
const MaxOffset = math.MaxUint32

// ErrTooLarge is returned by Validate when the layout exceeds MaxOffset.
var ErrTooLarge = errors.New("file layout exceeds 32-bit offsets")

// Class distinguishes header blocks from reserved row data.
type Class uint8

const (
	Header Class = iota
	Data
)

func (c Class) String() string {
	if c == Data {
		return "data"
	}
	return "header"
}

// Allocator hands out append-only file offsets.
type Allocator struct {
	eofAddr  uint64
	baseAddr uint64

	allocations []Allocation
	stats       Stats
}

// Allocation represents a single allocation made.
type Allocation struct {
	Addr  uint64
	Size  uint64
	Class Class
	Tag   string
}

// End returns the offset just past the allocation.
func (a Allocation) End() uint64 { return a.Addr + a.Size }

// Stats contains allocation statistics.
type Stats struct {
	TotalAllocations uint64
	HeaderBytes      uint64
	DataBytes        uint64
	LargestAlloc     uint64
}

// New creates an Allocator whose first allocation is placed at baseAddr.
func New(baseAddr uint64) *Allocator {
	return &Allocator{
		eofAddr:  baseAddr,
		baseAddr: baseAddr,
	}
}

// Alloc reserves size bytes at the end of the file and returns the offset.
// A zero-size allocation is recorded but does not advance the end.
func (a *Allocator) Alloc(size uint64, class Class, tag string) uint64 {
	addr := a.eofAddr
	a.eofAddr += size

	a.allocations = append(a.allocations, Allocation{
		Addr:  addr,
		Size:  size,
		Class: class,
		Tag:   tag,
	})

	a.stats.TotalAllocations++
	if class == Data {
		a.stats.DataBytes += size
	} else {
		a.stats.HeaderBytes += size
	}
	if size > a.stats.LargestAlloc {
		a.stats.LargestAlloc = size
	}
	return addr
}

// EOFAddr returns the current end-of-file address.
func (a *Allocator) EOFAddr() uint64 {
	return a.eofAddr
}

// BaseAddr returns the base address (start of allocatable space).
func (a *Allocator) BaseAddr() uint64 {
	return a.baseAddr
}

// Stats returns a copy of the allocation statistics.
func (a *Allocator) Stats() Stats {
	return a.stats
}

// Allocations returns a copy of all allocations in allocation order.
func (a *Allocator) Allocations() []Allocation {
	result := make([]Allocation, len(a.allocations))
	copy(result, a.allocations)
	return result
}

// Find returns the first allocation with the given class and tag.
func (a *Allocator) Find(class Class, tag string) (Allocation, bool) {
	for _, al := range a.allocations {
		if al.Class == class && al.Tag == tag {
			return al, true
		}
	}
	return Allocation{}, false
}

// Validate checks that allocations are within bounds, do not overlap and
// fit in 32-bit offsets.
func (a *Allocator) Validate() error {
	if a.eofAddr > MaxOffset {
		return fmt.Errorf("%w: end at %d", ErrTooLarge, a.eofAddr)
	}

	sorted := a.Allocations()
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Addr < sorted[j].Addr })

	for i, al := range sorted {
		if al.Addr < a.baseAddr {
			return fmt.Errorf("allocation %q at 0x%x is before base address 0x%x", al.Tag, al.Addr, a.baseAddr)
		}
		if al.End() > a.eofAddr {
			return fmt.Errorf("allocation %q at 0x%x size %d extends past EOF 0x%x", al.Tag, al.Addr, al.Size, a.eofAddr)
		}
		if i > 0 {
			prev := sorted[i-1]
			if prev.Size > 0 && al.Size > 0 && al.Addr < prev.End() {
				return fmt.Errorf("overlapping allocations: %q [0x%x, size %d] and %q [0x%x, size %d]",
					prev.Tag, prev.Addr, prev.Size, al.Tag, al.Addr, al.Size)
			}
		}
	}
	return nil
}

// Reset resets the allocator to its initial state.
func (a *Allocator) Reset() {
	a.eofAddr = a.baseAddr
	a.allocations = nil
	a.stats = Stats{}
}
