package store

// Window is a fixed-capacity FIFO ring.
//
// Pushing onto a full Window evicts the oldest value first. Window is not
// safe for concurrent use; [MetricsStore] guards its windows with a mutex.
type Window[T any] struct {
	buf   []T
	start int
	size  int
}

// NewWindow returns an empty Window holding at most capacity values.
// A capacity below 1 is treated as 1.
func NewWindow[T any](capacity int) *Window[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Window[T]{buf: make([]T, capacity)}
}

// Push appends v, evicting the oldest value if the window is full.
func (w *Window[T]) Push(v T) {
	if w.size < len(w.buf) {
		w.buf[(w.start+w.size)%len(w.buf)] = v
		w.size++
		return
	}
	w.buf[w.start] = v
	w.start = (w.start + 1) % len(w.buf)
}

// Len returns the number of values currently held.
func (w *Window[T]) Len() int {
	return w.size
}

// Cap returns the maximum number of values the window holds.
func (w *Window[T]) Cap() int {
	return len(w.buf)
}

// Values returns a copy of the held values, oldest first.
func (w *Window[T]) Values() []T {
	out := make([]T, w.size)
	for i := 0; i < w.size; i++ {
		out[i] = w.buf[(w.start+i)%len(w.buf)]
	}
	return out
}
