package calendar

import (
	"sort"
	"time"
)

// DateSet is a set of ISO calendar dates.
type DateSet map[string]struct{}

func NewDateSet(dates ...string) DateSet {
	s := make(DateSet, len(dates))
	for _, d := range dates {
		s[d] = struct{}{}
	}
	return s
}

// ParseDateSet keeps only well-formed ISO dates and returns the rejected ones.
func ParseDateSet(dates []string) (DateSet, []string) {
	s := make(DateSet, len(dates))
	var invalid []string
	for _, d := range dates {
		if _, err := time.Parse(DateLayout, d); err != nil {
			invalid = append(invalid, d)
			continue
		}
		s[d] = struct{}{}
	}
	return s, invalid
}

func (s DateSet) Has(date string) bool {
	_, ok := s[date]
	return ok
}

func (s DateSet) Len() int {
	return len(s)
}

func (s DateSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func (s DateSet) Clone() DateSet {
	out := make(DateSet, len(s))
	for d := range s {
		out[d] = struct{}{}
	}
	return out
}
