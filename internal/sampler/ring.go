package sampler

import "github.com/ashish-frozo/tradingbot/internal/model"

// Ring is a fixed-capacity buffer of market samples. Appending past capacity
// evicts the oldest entry in O(1). Samples stay in insertion order; no
// monotonicity check is applied to timestamps.
type Ring struct {
	buf  []model.MarketSample
	head int
	size int
}

// New creates a Ring holding at most capacity samples.
func New(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{buf: make([]model.MarketSample, capacity)}
}

// Append pushes a sample, evicting the oldest once the buffer is full.
func (r *Ring) Append(s model.MarketSample) {
	tail := (r.head + r.size) % len(r.buf)
	r.buf[tail] = s
	if r.size < len(r.buf) {
		r.size++
	} else {
		r.head = (r.head + 1) % len(r.buf)
	}
}

// Samples returns the buffered samples oldest-first. The returned slice is a
// copy; reading never disturbs the buffer.
func (r *Ring) Samples() []model.MarketSample {
	out := make([]model.MarketSample, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}

// Len returns the number of buffered samples.
func (r *Ring) Len() int {
	return r.size
}

// Cap returns the fixed capacity.
func (r *Ring) Cap() int {
	return len(r.buf)
}

// Reset drops all samples, keeping capacity. Called at session open so no
// state crosses trading days.
func (r *Ring) Reset() {
	r.head, r.size = 0, 0
}
