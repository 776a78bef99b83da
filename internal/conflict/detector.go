// Package conflict finds time overlaps between course sections.
package conflict

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/noah-isme/course-planner-api/internal/models"
)

// Observer receives pairwise cache lookups.
type Observer interface {
	ObserveConflictCache(hit bool)
}

// Detector compares every meeting period of every pair of sections. Pairwise results are cached
// by CRN pair and are never invalidated implicitly: callers must ClearCache after the catalog
// they were computed from is replaced. An entry only serves the exact section objects it was
// computed from, so a lookup that raced a reload cannot leak old sections into a new catalog.
type Detector struct {
	mu       sync.RWMutex
	cache    map[string]cachedPair
	observer Observer
}

type cachedPair struct {
	a, b      *models.Section
	conflicts []models.Conflict
}

// NewDetector constructs a detector. observer may be nil.
func NewDetector(observer Observer) *Detector {
	return &Detector{cache: make(map[string]cachedPair), observer: observer}
}

// DetectConflicts returns one conflict per overlapping period pair across all section pairs.
func (d *Detector) DetectConflicts(sections []*models.Section) []models.Conflict {
	conflicts := make([]models.Conflict, 0)
	for i := 0; i < len(sections); i++ {
		for j := i + 1; j < len(sections); j++ {
			conflicts = append(conflicts, d.pair(sections[i], sections[j])...)
		}
	}
	return conflicts
}

// IsValidSchedule reports whether the sections are free of conflicts.
func (d *Detector) IsValidSchedule(sections []*models.Section) bool {
	for i := 0; i < len(sections); i++ {
		for j := i + 1; j < len(sections); j++ {
			if len(d.pair(sections[i], sections[j])) > 0 {
				return false
			}
		}
	}
	return true
}

// SectionConflictsWith reports whether section overlaps any of others.
func (d *Detector) SectionConflictsWith(section *models.Section, others []*models.Section) bool {
	for _, other := range others {
		if len(d.pair(section, other)) > 0 {
			return true
		}
	}
	return false
}

// PeriodConflictsWith reports whether a single period overlaps any period of others. It does not
// touch the cache.
func (d *Detector) PeriodConflictsWith(period *models.Period, others []*models.Section) bool {
	if period == nil {
		return false
	}
	for _, other := range others {
		if other == nil {
			continue
		}
		for _, candidate := range other.Periods {
			if _, ok := Overlap(period, candidate); ok {
				return true
			}
		}
	}
	return false
}

// ClearCache drops every cached pair.
func (d *Detector) ClearCache() {
	d.mu.Lock()
	d.cache = make(map[string]cachedPair)
	d.mu.Unlock()
}

// CacheSize returns the number of cached pairs.
func (d *Detector) CacheSize() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.cache)
}

func (d *Detector) pair(a, b *models.Section) []models.Conflict {
	if a == nil || b == nil || a == b || len(a.Periods) == 0 || len(b.Periods) == 0 {
		return nil
	}
	keyA, keyB := strconv.Itoa(a.CRN), strconv.Itoa(b.CRN)
	if keyA == keyB {
		return compare(a, b)
	}
	if keyB < keyA {
		a, b = b, a
		keyA, keyB = keyB, keyA
	}
	key := keyA + "-" + keyB

	d.mu.RLock()
	cached, ok := d.cache[key]
	d.mu.RUnlock()
	hit := ok && cached.a == a && cached.b == b
	if d.observer != nil {
		d.observer.ObserveConflictCache(hit)
	}
	if hit {
		return cached.conflicts
	}

	result := compare(a, b)
	d.mu.Lock()
	d.cache[key] = cachedPair{a: a, b: b, conflicts: result}
	d.mu.Unlock()
	return result
}

func compare(a, b *models.Section) []models.Conflict {
	var conflicts []models.Conflict
	for _, p1 := range a.Periods {
		for _, p2 := range b.Periods {
			shared, ok := Overlap(p1, p2)
			if !ok {
				continue
			}
			conflicts = append(conflicts, models.Conflict{
				Section1:     a,
				Section2:     b,
				ConflictType: models.ConflictTimeOverlap,
				Description: fmt.Sprintf("Time overlap on %s: %s-%s conflicts with %s-%s",
					shared.String(),
					p1.StartTime.Label(), p1.EndTime.Label(),
					p2.StartTime.Label(), p2.EndTime.Label()),
			})
		}
	}
	return conflicts
}

// PeriodsOverlap reports whether two periods meet at the same time on a shared day.
func PeriodsOverlap(p1, p2 *models.Period) bool {
	_, ok := Overlap(p1, p2)
	return ok
}

// Overlap returns the shared days of two periods and whether their half-open time ranges
// intersect on at least one of them. Touching boundaries do not overlap.
func Overlap(p1, p2 *models.Period) (models.DaySet, bool) {
	if p1 == nil || p2 == nil {
		return 0, false
	}
	shared := p1.Days.Intersect(p2.Days)
	if shared.IsEmpty() {
		return 0, false
	}
	start1, end1 := p1.StartTime.MinuteOfDay(), p1.EndTime.MinuteOfDay()
	start2, end2 := p2.StartTime.MinuteOfDay(), p2.EndTime.MinuteOfDay()
	if start1 < end2 && start2 < end1 {
		return shared, true
	}
	return 0, false
}
