// Package schedule decides whether a run publishes immediately or schedules
// the post into the next configured publish window.
package schedule

import (
	"math/rand"
	"sort"
	"time"
)

// Planner computes publish timing from a list of local window hours. The
// clock and random source are injectable for deterministic tests.
type Planner struct {
	hours []int
	now   func() time.Time
	rng   *rand.Rand
}

// NewPlanner builds a planner; nil now/rng fall back to real time and a
// time-seeded source.
func NewPlanner(hours []int, now func() time.Time, rng *rand.Rand) *Planner {
	sorted := append([]int(nil), hours...)
	sort.Ints(sorted)

	if now == nil {
		now = time.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Planner{hours: sorted, now: now, rng: rng}
}

// ShouldSchedule reports whether the current time is outside every publish
// window. A window spans from one hour before to one hour after its hour.
func (p *Planner) ShouldSchedule() bool {
	if len(p.hours) == 0 {
		return false
	}

	hour := p.now().Hour()
	for _, h := range p.hours {
		if hour >= h-1 && hour < h+1 {
			return false
		}
	}
	return true
}

// NextPublishTime picks the next window start with a randomized minute so
// posts do not all land on the exact hour.
func (p *Planner) NextPublishTime() time.Time {
	now := p.now()
	minute := p.rng.Intn(60)

	for _, h := range p.hours {
		candidate := time.Date(now.Year(), now.Month(), now.Day(), h, minute, 0, 0, now.Location())
		if candidate.After(now) {
			return candidate
		}
	}

	first := 10
	if len(p.hours) > 0 {
		first = p.hours[0]
	}
	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), first, minute, 0, 0, now.Location())
}
