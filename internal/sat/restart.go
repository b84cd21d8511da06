package sat

// RestartPolicy selects how the Search Driver decides to restart (§4.5, §6).
type RestartPolicy uint8

const (
	RestartGeometric RestartPolicy = iota
	RestartGlue
	RestartAgility
)

// restartState bundles the bookkeeping needed by every restart policy plus
// the agility tracker, which is maintained regardless of the active policy.
type restartState struct {
	policy RestartPolicy

	// geometric
	first int64
	inc   float64
	next  int64

	// glue-based (Glucose-style)
	glueShort *BoundedQueue
	glueLong  *BoundedQueue

	// agility-gated
	agility     float64
	agilityDecay float64
	agilityLimit float64

	conflictsThisEpisode int64
}

func newRestartState(cfg Config) *restartState {
	rs := &restartState{
		policy:       cfg.RestartPolicy,
		first:        cfg.RestartFirst,
		inc:          cfg.RestartInc,
		next:         cfg.RestartFirst,
		glueShort:    NewBoundedQueue(cfg.GlueHistoryShort),
		glueLong:     NewBoundedQueue(cfg.GlueHistoryLong),
		agilityDecay: 0.9999,
		agilityLimit: 0.35,
	}
	return rs
}

// onConflict records a conflict for the restart policies that count
// conflicts directly.
func (rs *restartState) onConflict() {
	rs.conflictsThisEpisode++
}

// onLearn records the glue of a freshly learnt clause, feeding the
// glue-based policy's short/long windows.
func (rs *restartState) onLearn(glue uint32) {
	rs.glueShort.Push(float64(glue))
	rs.glueLong.Push(float64(glue))
}

// onEnqueue updates the agility EMA: agility = g*agility + (1-g)*flipped,
// per §4.5.
func (rs *restartState) onEnqueue(flippedFromSavedPolarity bool) {
	x := 0.0
	if flippedFromSavedPolarity {
		x = 1.0
	}
	rs.agility = rs.agilityDecay*rs.agility + (1-rs.agilityDecay)*x
}

// shouldRestart reports whether the current policy says to restart now.
func (rs *restartState) shouldRestart() bool {
	switch rs.policy {
	case RestartGlue:
		if !rs.glueShort.Full() {
			return false
		}
		return rs.glueShort.Avg() > 0.95*rs.glueLong.Avg()
	case RestartAgility:
		return rs.agility < rs.agilityLimit
	default: // RestartGeometric
		return rs.conflictsThisEpisode >= rs.next
	}
}

// onRestart resets the per-episode conflict counter and grows the
// geometric bound; glue windows are intentionally NOT cleared (§4.5
// "restart to level 0 ... without clearing learnts" extends to not
// discarding the glue history, which stays meaningful across restarts).
func (rs *restartState) onRestart() {
	rs.conflictsThisEpisode = 0
	if rs.policy == RestartGeometric {
		rs.next = int64(float64(rs.next) * rs.inc)
		if rs.next < rs.first {
			rs.next = rs.first
		}
	}
}
