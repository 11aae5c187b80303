package sim

import "fmt"

// SlidingBuffer holds the most recent samples known to the edge device.
// It is a fixed-size ring: head points at the oldest element and every Push
// overwrites it, so the observable order is always oldest-first.
//
// Thread-safety: NOT thread-safe. A buffer belongs to exactly one run.
type SlidingBuffer struct {
	data []float64
	head int
}

// NewSlidingBuffer creates a buffer seeded with a copy of initial, oldest-first.
func NewSlidingBuffer(initial []float64) (*SlidingBuffer, error) {
	if len(initial) == 0 {
		return nil, fmt.Errorf("%w: sliding buffer needs at least one sample", ErrPrecondition)
	}
	data := make([]float64, len(initial))
	copy(data, initial)
	return &SlidingBuffer{data: data}, nil
}

// Len returns the fixed buffer length.
func (b *SlidingBuffer) Len() int {
	return len(b.data)
}

// At returns the i-th element counting from the oldest (i=0) to the newest (i=Len()-1).
func (b *SlidingBuffer) At(i int) float64 {
	return b.data[(b.head+i)%len(b.data)]
}

// Oldest returns the first element in time order.
func (b *SlidingBuffer) Oldest() float64 {
	return b.data[b.head]
}

// Newest returns the most recently pushed element.
func (b *SlidingBuffer) Newest() float64 {
	return b.data[b.newestIndex()]
}

// Push rolls the buffer by one: the oldest element is dropped and v becomes the newest.
func (b *SlidingBuffer) Push(v float64) {
	b.data[b.head] = v
	b.head = (b.head + 1) % len(b.data)
}

// SetNewest overwrites the newest element in place without rolling.
func (b *SlidingBuffer) SetNewest(v float64) {
	b.data[b.newestIndex()] = v
}

// Interpolate rewrites every slot on the straight line between the current
// oldest and newest values. Both endpoints keep their values and the interior
// becomes equally spaced. Requires Len() >= 2.
func (b *SlidingBuffer) Interpolate() error {
	n := len(b.data)
	if n < 2 {
		return fmt.Errorf("%w: interpolation over a window of size %d has no slope", ErrPrecondition, n)
	}
	p1, p2 := b.Oldest(), b.Newest()
	omega := (p2 - p1) / float64(n-1)
	// Re-base to head 0 so slot i is the i-th oldest.
	b.head = 0
	for i := 0; i < n; i++ {
		b.data[i] = p1 + float64(i)*omega
	}
	b.data[n-1] = p2
	return nil
}

// Snapshot copies the buffer oldest-first into dst, growing it if needed, and returns it.
// Predictors receive snapshots so they can never alias the ring storage.
func (b *SlidingBuffer) Snapshot(dst []float64) []float64 {
	n := len(b.data)
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	k := copy(dst, b.data[b.head:])
	copy(dst[k:], b.data[:b.head])
	return dst
}

func (b *SlidingBuffer) newestIndex() int {
	return (b.head + len(b.data) - 1) % len(b.data)
}
