package render

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lukaszgryglicki/mdimension/internal/mdimension"
)

// Tally counts march outcomes and steps. Workers keep a private rowTally
// and merge it once per row.
type Tally struct {
	mu     sync.Mutex
	counts map[mdimension.Outcome]int
	steps  int
	rays   int
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[mdimension.Outcome]int)}
}

type rowTally struct {
	counts [4]int
	steps  int
	rays   int
}

func (r *rowTally) add(h mdimension.HitResult) {
	if int(h.Outcome) < len(r.counts) {
		r.counts[h.Outcome]++
	}
	r.steps += h.Steps
	r.rays++
}

func (t *Tally) merge(r *rowTally) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for o, c := range r.counts {
		if c > 0 {
			t.counts[mdimension.Outcome(o)] += c
		}
	}
	t.steps += r.steps
	t.rays += r.rays
}

// Count returns how many rays ended with o.
func (t *Tally) Count(o mdimension.Outcome) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[o]
}

// Rays returns the number of rays recorded.
func (t *Tally) Rays() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rays
}

// MeanSteps returns the average number of field evaluations per ray.
func (t *Tally) MeanSteps() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rays == 0 {
		return 0
	}
	return float64(t.steps) / float64(t.rays)
}

// String lists outcome counts in a stable order.
func (t *Tally) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	keys := make([]mdimension.Outcome, 0, len(t.counts))
	for k := range t.counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%v=%d", k, t.counts[k]))
	}
	return strings.Join(parts, " ")
}
