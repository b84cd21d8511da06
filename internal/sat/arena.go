package sat

// ClauseRef is a stable, 32-bit handle to a clause stored in the Arena. It
// packs a small buffer index into the high bits and an offset within that
// buffer into the low bits, following cryptominisat's ClauseAllocator /
// ClauseOffset split so handles survive cross-buffer growth (§4.1).
type ClauseRef uint32

const (
	arenaBufBits    = 8
	arenaOffsetBits = 32 - arenaBufBits
	arenaOffsetMask = 1<<arenaOffsetBits - 1
)

// RefUndef is a sentinel denoting "no clause".
const RefUndef ClauseRef = 1<<32 - 1

func mkClauseRef(buf, offset int) ClauseRef {
	return ClauseRef(uint32(buf)<<arenaOffsetBits | uint32(offset)&arenaOffsetMask)
}

func (r ClauseRef) bufIndex() int { return int(uint32(r) >> arenaOffsetBits) }
func (r ClauseRef) offset() int   { return int(uint32(r) & arenaOffsetMask) }

// initialBufCap is the size of the first buffer; later buffers double,
// mirroring the size-bucketed sync.Pool growth in the teacher's
// internal/sat/clauses_alloc.go (merged here into the arena itself, see
// DESIGN.md).
const initialBufCap = 1024

// Arena is a stack-like bump allocator over one or more buffers of clause
// records, addressed by ClauseRef (§4.1). It is the sole owner of every
// long clause; watchlists and the constraints/learnts lists hold
// non-owning ClauseRefs that must be rewritten by Compact.
type Arena struct {
	buffers [][]Clause
	live    int // number of non-freed clauses, used to decide when to compact
	freed   int
}

// NewArena returns an empty Arena with one pre-sized buffer.
func NewArena() *Arena {
	return &Arena{buffers: [][]Clause{make([]Clause, 0, initialBufCap)}}
}

// Alloc stores a new clause with the given literals and metadata, returning
// its handle. The literal slice is copied; the caller's slice may be reused.
func (a *Arena) Alloc(lits []Lit, redundant bool) ClauseRef {
	buf := len(a.buffers) - 1
	if len(a.buffers[buf]) == cap(a.buffers[buf]) {
		newCap := cap(a.buffers[buf]) * 2
		if newCap == 0 {
			newCap = initialBufCap
		}
		a.buffers = append(a.buffers, make([]Clause, 0, newCap))
		buf = len(a.buffers) - 1
	}

	c := Clause{
		lits:      append([]Lit(nil), lits...),
		redundant: redundant,
		prevScan:  2,
	}
	c.recomputeAbstraction()

	a.buffers[buf] = append(a.buffers[buf], c)
	a.live++
	return mkClauseRef(buf, len(a.buffers[buf])-1)
}

// Get returns a pointer to the clause identified by r. The pointer is only
// valid until the next call to Alloc or Compact.
func (a *Arena) Get(r ClauseRef) *Clause {
	return &a.buffers[r.bufIndex()][r.offset()]
}

// Free marks the clause as a tombstone; its space is only reclaimed by the
// next Compact.
func (a *Arena) Free(r ClauseRef) {
	c := a.Get(r)
	if c.freed {
		return
	}
	c.freed = true
	c.lits = nil
	a.live--
	a.freed++
}

// ShouldCompact reports whether enough tombstones have accumulated to make
// a compaction pass worthwhile.
func (a *Arena) ShouldCompact() bool {
	return a.freed > 0 && a.freed*2 > a.live
}

// Compact moves every live clause into a fresh, densely packed set of
// buffers and returns a map from every live ref before compaction to its
// new ref. Callers must rewrite every ClauseRef they hold (watchlists,
// constraints, learnts, reasons) using the returned map (§4.1, invariant 6 of §8).
func (a *Arena) Compact() map[ClauseRef]ClauseRef {
	remap := make(map[ClauseRef]ClauseRef, a.live)
	newBuffers := [][]Clause{make([]Clause, 0, initialBufCap)}

	for bi := range a.buffers {
		for oi := range a.buffers[bi] {
			c := &a.buffers[bi][oi]
			if c.freed {
				continue
			}
			old := mkClauseRef(bi, oi)

			nb := len(newBuffers) - 1
			if len(newBuffers[nb]) == cap(newBuffers[nb]) {
				newBuffers = append(newBuffers, make([]Clause, 0, cap(newBuffers[nb])*2))
				nb++
			}
			newBuffers[nb] = append(newBuffers[nb], *c)
			remap[old] = mkClauseRef(nb, len(newBuffers[nb])-1)
		}
	}

	a.buffers = newBuffers
	a.freed = 0
	return remap
}
