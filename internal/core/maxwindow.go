package core

// Point is a single (key, value) sample in a MaxWindow. For resource metrics
// the key is a monotonic timestamp in seconds and the value a percentage.
type Point struct {
	Key   float64
	Value float64
}

// MaxWindow is a fixed-capacity rolling window of points with an O(1) maximum
// query. It keeps a second, monotonically decreasing deque of values whose
// front is always the maximum of the data deque.
//
// MaxWindow is not synchronized; callers that share one across goroutines must
// hold their own lock (the app state does).
type MaxWindow struct {
	data []Point
	maxq []float64
	cap  int
}

// DefaultWindowCapacity is one sample per second for one minute.
const DefaultWindowCapacity = 60

// NewMaxWindow creates a window holding at most capacity points.
// Non-positive capacities fall back to DefaultWindowCapacity.
func NewMaxWindow(capacity int) *MaxWindow {
	if capacity <= 0 {
		capacity = DefaultWindowCapacity
	}
	return &MaxWindow{cap: capacity}
}

// Add appends a point to the tail, evicting the oldest point once the
// capacity is exceeded.
func (w *MaxWindow) Add(key, value float64) {
	w.data = append(w.data, Point{Key: key, Value: value})

	// Values strictly smaller than the new one can never be a maximum again.
	// Equal values stay so that duplicates survive the eviction of the
	// oldest copy.
	for len(w.maxq) > 0 && w.maxq[len(w.maxq)-1] < value {
		w.maxq = w.maxq[:len(w.maxq)-1]
	}
	w.maxq = append(w.maxq, value)

	for len(w.data) > w.cap {
		w.remove()
	}
}

// remove evicts the oldest point. If it carries the current maximum, the
// front of the max deque goes with it.
func (w *MaxWindow) remove() {
	if len(w.data) == 0 {
		return
	}
	oldest := w.data[0]
	w.data = w.data[1:]
	if len(w.maxq) > 0 && w.maxq[0] == oldest.Value {
		w.maxq = w.maxq[1:]
	}
}

// Max returns the maximum value over the stored points.
// The second result is false when the window is empty.
func (w *MaxWindow) Max() (float64, bool) {
	if len(w.maxq) == 0 {
		return 0, false
	}
	return w.maxq[0], true
}

// Last returns the most recently added point, if any.
func (w *MaxWindow) Last() (Point, bool) {
	if len(w.data) == 0 {
		return Point{}, false
	}
	return w.data[len(w.data)-1], true
}

// Len returns the number of stored points.
func (w *MaxWindow) Len() int { return len(w.data) }

// Capacity returns the maximum number of points the window can hold.
func (w *MaxWindow) Capacity() int { return w.cap }

// Points returns a copy of the stored points in insertion order.
func (w *MaxWindow) Points() []Point {
	if len(w.data) == 0 {
		return nil
	}
	out := make([]Point, len(w.data))
	copy(out, w.data)
	return out
}

// Clear empties the window.
func (w *MaxWindow) Clear() {
	w.data = nil
	w.maxq = nil
}
