package cover

import (
	"sync"
	"sync/atomic"

	"github.com/bits-and-blooms/bitset"
)

// incumbent is the best cover found by one Solve call. The size is read
// lock-free on every bound check; the cover itself is only touched under mu.
type incumbent struct {
	size atomic.Int64

	mu           sync.Mutex
	cover        *bitset.BitSet
	improvements int
	onImprove    func(size int)
}

func newIncumbent(cover *bitset.BitSet, onImprove func(int)) *incumbent {
	in := &incumbent{cover: cover.Clone(), onImprove: onImprove}
	in.size.Store(int64(cover.Count()))
	return in
}

func (in *incumbent) best() int { return int(in.size.Load()) }

// offer replaces the incumbent when size improves on it. onImprove runs under
// the lock, so improvements are reported in strictly decreasing order.
func (in *incumbent) offer(cover *bitset.BitSet, size int) bool {
	if size >= in.best() {
		return false
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if size >= in.best() {
		return false
	}
	in.cover = cover.Clone()
	in.size.Store(int64(size))
	in.improvements++
	if in.onImprove != nil {
		in.onImprove(size)
	}
	return true
}

func (in *incumbent) snapshot() ([]int, int) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return bitsToIDs(in.cover), in.improvements
}
