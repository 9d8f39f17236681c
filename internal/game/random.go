package game

import (
	"errors"
	"math/rand"
)

// ErrEmptyPool is returned when a sampler is asked to draw from nothing.
// Callers surface it as "no valid cards available" rather than failing.
var ErrEmptyPool = errors.New("empty pool")

// pickRandom returns a uniformly random element of seq.
func pickRandom[T any](rng *rand.Rand, seq []T) (T, error) {
	var zero T
	if len(seq) == 0 {
		return zero, ErrEmptyPool
	}
	return seq[rng.Intn(len(seq))], nil
}

// shuffled returns a new Fisher-Yates shuffled copy of seq. The input is
// not mutated.
func shuffled[T any](rng *rand.Rand, seq []T) []T {
	out := make([]T, len(seq))
	copy(out, seq)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Bag is a shuffle-without-replacement sampler. It deals from a shuffled
// working copy, reshuffles from the full source on exhaustion, and applies
// a two-step best-effort heuristic to avoid dispensing the same item twice
// in a row across a refill boundary. The avoidance is not a guarantee.
type Bag[T any] struct {
	rng  *rand.Rand
	src  []T
	work []T
	key  func(T) string
	last string
	used bool // whether last is meaningful
}

// NewBag creates a bag over items. key derives the comparable identity of
// an item (sub-event name, instruction, or the string itself).
func NewBag[T any](rng *rand.Rand, items []T, key func(T) string) *Bag[T] {
	return &Bag[T]{rng: rng, src: items, key: key}
}

// Next dispenses the next item, refilling and reshuffling when the working
// copy is exhausted.
func (b *Bag[T]) Next() (T, error) {
	var zero T
	if len(b.src) == 0 {
		return zero, ErrEmptyPool
	}

	if len(b.work) == 0 {
		b.work = shuffled(b.rng, b.src)
		// First refill check: if the next draw would repeat the last
		// dispensed item, swap it with another slot.
		if b.used && len(b.work) > 1 && b.key(b.work[0]) == b.last {
			j := 1 + b.rng.Intn(len(b.work)-1)
			b.work[0], b.work[j] = b.work[j], b.work[0]
		}
	}

	item := b.work[0]
	b.work = b.work[1:]

	// Second check: on a collision, requeue and pop again once.
	if b.used && b.key(item) == b.last && len(b.work) > 0 {
		next := b.work[0]
		b.work[0] = item
		item = next
	}

	b.last = b.key(item)
	b.used = true
	return item, nil
}

// Reset reshuffles the bag and clears the repeat-avoidance memory.
func (b *Bag[T]) Reset() {
	b.work = shuffled(b.rng, b.src)
	b.last = ""
	b.used = false
}

// Remaining reports how many items are left before the next refill.
func (b *Bag[T]) Remaining() int {
	return len(b.work)
}
