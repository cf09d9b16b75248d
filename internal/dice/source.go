// Package dice owns the game's single random source and the combat dice.
//
// # Determinism
//
// Every random decision of a game (shuffles, base placement, production
// order, dice) draws from one Source. Two games built from NewSeeded with
// the same seed and fed the same commands produce the same state.
package dice

import "math/rand"

// Source yields uniform integers in [0, n).
type Source interface {
	Intn(n int) int
}

// Seeded is a Source backed by math/rand with an explicit seed.
type Seeded struct {
	rng *rand.Rand
}

// NewSeeded returns a deterministic source for seed.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewSource(seed))}
}

func (s *Seeded) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.Intn(n)
}

// Scripted replays queued values, reducing each one modulo n. Once the queue
// is empty it delegates to Fallback, or returns 0 when there is none.
type Scripted struct {
	values   []int
	Fallback Source
}

// NewScripted prepares a source that replays values in order.
func NewScripted(values ...int) *Scripted {
	return &Scripted{values: values}
}

// Push appends more values to the queue.
func (s *Scripted) Push(values ...int) {
	s.values = append(s.values, values...)
}

// Remaining reports how many queued values have not been consumed.
func (s *Scripted) Remaining() int {
	return len(s.values)
}

func (s *Scripted) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	if len(s.values) == 0 {
		if s.Fallback != nil {
			return s.Fallback.Intn(n)
		}
		return 0
	}
	v := s.values[0]
	s.values = s.values[1:]
	if v < 0 {
		v = -v
	}
	return v % n
}

// Shuffle permutes items in place with a Fisher-Yates walk from the end.
func Shuffle[T any](src Source, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}

// Pick returns a uniformly chosen element; ok is false for an empty slice.
func Pick[T any](src Source, items []T) (item T, ok bool) {
	if len(items) == 0 {
		return item, false
	}
	return items[src.Intn(len(items))], true
}
