package sat

// EMA is an exponential moving average. Kept from the teacher's sat/avg.go;
// the agility tracker of §4.5 (restart.go) keeps its own inline average and
// does not use this type.
type EMA struct {
	decay float64
	value float64
	init  bool
}

func NewEMA(decay float64) EMA {
	return EMA{decay: decay}
}

func (ema *EMA) Add(x float64) {
	if !ema.init {
		ema.init = true
		ema.value = x
	} else {
		ema.value = ema.decay*ema.value + x*(1-ema.decay)
	}
}

func (ema *EMA) Val() float64 {
	return ema.value
}

// BoundedQueue is a fixed-capacity ring buffer that tracks the running sum
// of its contents, giving an O(1) windowed average. Used for the glue-based
// restart policy's short/long glue windows (§4.5), grounded on cmsat's
// BoundedQueue.h.
type BoundedQueue struct {
	elems         []float64
	first, last   int
	size          int
	sum           float64
	totalSum      float64
	totalElems    uint64
}

// NewBoundedQueue returns a queue holding at most capacity elements.
func NewBoundedQueue(capacity int) *BoundedQueue {
	return &BoundedQueue{elems: make([]float64, capacity)}
}

func (q *BoundedQueue) Push(x float64) {
	if len(q.elems) == 0 {
		return
	}
	if q.size == len(q.elems) {
		q.sum -= q.elems[q.last]
		q.last = (q.last + 1) % len(q.elems)
	} else {
		q.size++
	}
	q.elems[q.first] = x
	q.first = (q.first + 1) % len(q.elems)
	q.sum += x
	q.totalSum += x
	q.totalElems++
}

// Full reports whether the window has accumulated `capacity` samples.
func (q *BoundedQueue) Full() bool {
	return q.size == len(q.elems)
}

// Avg returns the average over the current window, or 0 if empty.
func (q *BoundedQueue) Avg() float64 {
	if q.size == 0 {
		return 0
	}
	return q.sum / float64(q.size)
}

// Clear discards the current window's contents without losing the
// all-time totals, mirroring bqueue::fastclear which is called on restart.
func (q *BoundedQueue) Clear() {
	q.first, q.last, q.size, q.sum = 0, 0, 0, 0
}
