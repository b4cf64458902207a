// Package scratch holds the thread-local mutable buffers the analysis
// pipeline reuses across calls. The façade reuses a Pad's normalized jamo
// buffer and position map; the Cells and BackPointer slots are sized for
// the per-node cell vectors and the back-pointer walk, but internal/path
// and internal/assemble allocate their own per-call slices and do not
// read them. A Pad is
// never freed between calls — only its length is reset — to avoid
// allocator pressure on the hot path, and is recycled via sync.Pool
// rather than a thread_local-style static, so the core stays testable
// without a pool.
package scratch

import (
	"sync"

	"github.com/kiwi-go/kiwi/internal/lattice"
	"github.com/kiwi-go/kiwi/internal/path"
)

// Pad is one worker's reusable scratch space.
type Pad struct {
	// Jamo and PosMap back the normalizer's output for the call currently
	// in flight.
	Jamo   []uint16
	PosMap []int

	// Cells is laid out in parallel with a Graph's Nodes slice (one slot
	// per node, see EnsureNodeCapacity); nothing in the pipeline fills it.
	Cells [][]*path.Cell

	// BackPointer is a parent-chain walk buffer; the result assembler
	// allocates its own walk slice and does not use it.
	BackPointer []*path.Cell
}

// Reset clears a Pad's length-dependent fields to zero length without
// releasing their backing arrays, so the next call reuses the same
// storage.
func (p *Pad) Reset() {
	p.Jamo = p.Jamo[:0]
	p.PosMap = p.PosMap[:0]
	for i := range p.Cells {
		p.Cells[i] = nil
	}
	p.Cells = p.Cells[:0]
	p.BackPointer = p.BackPointer[:0]
}

// EnsureNodeCapacity grows Cells to hold one slot per node in g (plus the
// End sentinel), reusing the existing backing array when it is already
// large enough.
func (p *Pad) EnsureNodeCapacity(g *lattice.Graph) {
	n := len(g.Nodes) + 1
	if cap(p.Cells) >= n {
		p.Cells = p.Cells[:n]
		return
	}
	p.Cells = make([][]*path.Cell, n)
}

// Pool hands out Pads for the duration of one analysis call.
var Pool = sync.Pool{
	New: func() any { return &Pad{} },
}

// Acquire pulls a Pad from Pool, resetting it for reuse.
func Acquire() *Pad {
	p := Pool.Get().(*Pad)
	p.Reset()
	return p
}

// Release returns p to Pool. Callers must not use p after calling Release.
func Release(p *Pad) {
	Pool.Put(p)
}
