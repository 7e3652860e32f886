package factors

import (
	"fmt"
	"sort"
	"strings"
)

// Store is a read-only, in-memory emission factor table.
type Store struct {
	factors []EmissionFactor
	byID    map[string]int
}

// NewStore validates factors and builds a Store. Input order is kept as the
// tie-breaker for equally specific lookup results.
func NewStore(factors ...EmissionFactor) (*Store, error) {
	s := &Store{
		factors: make([]EmissionFactor, 0, len(factors)),
		byID:    make(map[string]int, len(factors)),
	}
	for _, f := range factors {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.byID[f.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFactor, f.ID)
		}
		s.byID[f.ID] = len(s.factors)
		s.factors = append(s.factors, f.Clone())
	}
	return s, nil
}

// Len returns the number of factors in the store.
func (s *Store) Len() int {
	return len(s.factors)
}

// All returns a copy of every factor in load order.
func (s *Store) All() []EmissionFactor {
	out := make([]EmissionFactor, len(s.factors))
	for i, f := range s.factors {
		out[i] = f.Clone()
	}
	return out
}

// Get returns the factor with the given ID.
func (s *Store) Get(id string) (EmissionFactor, error) {
	i, ok := s.byID[id]
	if !ok {
		return EmissionFactor{}, fmt.Errorf("%w: id %q", ErrFactorNotFound, id)
	}
	return s.factors[i].Clone(), nil
}

// Years returns the distinct years available for a standard, ascending.
func (s *Store) Years(standard Standard) []int {
	seen := map[int]bool{}
	var years []int
	for _, f := range s.factors {
		if f.Standard == standard && !seen[f.Year] {
			seen[f.Year] = true
			years = append(years, f.Year)
		}
	}
	sort.Ints(years)
	return years
}

// Lookup returns every factor of standard matching year, category and unit,
// most specific first.
//
// A zero year matches every year. An empty category or unit is not filtered.
// Category matches case-insensitively, either exactly or as a substring of
// one of the factor's categories (or the reverse); an exact match ranks above
// a substring match. Unit must match exactly. The result is empty, never
// nil-with-error; callers decide whether an empty result is fatal.
func (s *Store) Lookup(standard Standard, year int, category, unit string) []EmissionFactor {
	type scored struct {
		f     EmissionFactor
		score int
		pos   int
	}

	category = strings.ToLower(strings.TrimSpace(category))
	unit = strings.TrimSpace(unit)

	var hits []scored
	for pos, f := range s.factors {
		if f.Standard != standard {
			continue
		}
		score := 0
		if year != 0 {
			if f.Year != year {
				continue
			}
			score++
		}
		if category != "" {
			c := categoryScore(f, category)
			if c == 0 {
				continue
			}
			score += c
		}
		if unit != "" {
			if f.Unit != unit {
				continue
			}
			score++
		}
		hits = append(hits, scored{f: f, score: score, pos: pos})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].pos < hits[j].pos
	})

	out := make([]EmissionFactor, len(hits))
	for i, h := range hits {
		out[i] = h.f.Clone()
	}
	return out
}

// categoryScore is 2 for an exact category or ID match, 1 for a substring
// match against a category or the factor name, 0 otherwise.
func categoryScore(f EmissionFactor, query string) int {
	best := 0
	for _, c := range f.Categories {
		c = strings.ToLower(strings.TrimSpace(c))
		switch {
		case c == "":
			continue
		case c == query:
			return 2
		case strings.Contains(c, query) || strings.Contains(query, c):
			best = 1
		}
	}
	if best == 0 && strings.Contains(strings.ToLower(f.Name), query) {
		best = 1
	}
	return best
}

// FindByName returns the factor among candidates whose Name equals name
// exactly (after trimming surrounding space).
func FindByName(candidates []EmissionFactor, name string) (EmissionFactor, bool) {
	name = strings.TrimSpace(name)
	for _, f := range candidates {
		if f.Name == name {
			return f, true
		}
	}
	return EmissionFactor{}, false
}

// FindByID returns the factor among candidates with the given ID.
func FindByID(candidates []EmissionFactor, id string) (EmissionFactor, bool) {
	id = strings.TrimSpace(id)
	for _, f := range candidates {
		if f.ID == id {
			return f, true
		}
	}
	return EmissionFactor{}, false
}
