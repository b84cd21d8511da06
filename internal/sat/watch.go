package sat

// watchKind tags the shape of a WatchEntry (§3 "Watch entry").
type watchKind uint8

const (
	watchBin watchKind = iota
	watchTri
	watchLong
)

// WatchEntry is one entry of watches(l): a clause (implicit or arena-backed)
// that must be inspected when l becomes true.
type WatchEntry struct {
	kind watchKind

	// Bin: the clause's other literal.
	// Tri: the clause's two other literals (other2 holds the second).
	other  Lit
	other2 Lit

	redundant bool // Bin/Tri: whether this implicit clause is a learnt binary/ternary

	ref     ClauseRef // Long: arena handle
	blocker Lit       // Long: a literal known from the clause, skip without dereferencing if true
}

func binWatch(other Lit, redundant bool) WatchEntry {
	return WatchEntry{kind: watchBin, other: other, redundant: redundant}
}

func triWatch(o1, o2 Lit, redundant bool) WatchEntry {
	return WatchEntry{kind: watchTri, other: o1, other2: o2, redundant: redundant}
}

func longWatch(ref ClauseRef, blocker Lit) WatchEntry {
	return WatchEntry{kind: watchLong, ref: ref, blocker: blocker}
}

// watch registers entry e on the watchlist of l.
func (s *Solver) watch(l Lit, e WatchEntry) {
	s.watches[l] = append(s.watches[l], e)
}

// unwatchLong removes the Long watch entry pointing at ref from l's
// watchlist. Detach is O(len(watchlist)); amortized by propagation
// throughput, per §4.2.
func (s *Solver) unwatchLong(l Lit, ref ClauseRef) {
	ws := s.watches[l]
	for i, w := range ws {
		if w.kind == watchLong && w.ref == ref {
			ws[i] = ws[len(ws)-1]
			s.watches[l] = ws[:len(ws)-1]
			return
		}
	}
}

// unwatchBin removes one Bin watch entry for `other` from l's watchlist.
func (s *Solver) unwatchBin(l, other Lit) {
	ws := s.watches[l]
	for i, w := range ws {
		if w.kind == watchBin && w.other == other {
			ws[i] = ws[len(ws)-1]
			s.watches[l] = ws[:len(ws)-1]
			return
		}
	}
}

// unwatchTri removes one Tri watch entry for {other, other2} from l's
// watchlist (order-insensitive).
func (s *Solver) unwatchTri(l, o1, o2 Lit) {
	ws := s.watches[l]
	for i, w := range ws {
		if w.kind == watchTri && ((w.other == o1 && w.other2 == o2) || (w.other == o2 && w.other2 == o1)) {
			ws[i] = ws[len(ws)-1]
			s.watches[l] = ws[:len(ws)-1]
			return
		}
	}
}

// sortWatchlists reorders every watchlist Bin < Tri < Long, biasing
// propagation toward short clauses after a major simplification pass (§4.2).
func (s *Solver) sortWatchlists() {
	for l := range s.watches {
		ws := s.watches[l]
		// Stable 3-way partition (insertion-sort sized lists in practice).
		out := make([]WatchEntry, 0, len(ws))
		for k := watchBin; k <= watchLong; k++ {
			for _, w := range ws {
				if w.kind == k {
					out = append(out, w)
				}
			}
		}
		s.watches[l] = out
	}
}
