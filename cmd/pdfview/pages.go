package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// pageRange is an inclusive range of 1-based page numbers. last == 0
// means through the end of the document.
type pageRange struct {
	first, last int
}

// pageSet is a -pages selection. A nil set selects every page.
type pageSet []pageRange

// parsePages parses a list such as "1-3,7,10-".
func parsePages(s string) (pageSet, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var set pageSet
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")
		first, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil || first < 1 {
			return nil, fmt.Errorf("invalid page %q", part)
		}
		r := pageRange{first: first, last: first}
		if isRange {
			hi = strings.TrimSpace(hi)
			if hi == "" {
				r.last = 0
			} else if r.last, err = strconv.Atoi(hi); err != nil || r.last < first {
				return nil, fmt.Errorf("invalid page range %q", part)
			}
		}
		set = append(set, r)
	}
	return set, nil
}

// resolve returns the selected zero-based page indices for a document of
// n pages, in ascending order without duplicates. Pages past the end are
// skipped.
func (ps pageSet) resolve(n int) []int {
	if ps == nil {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	var out []int
	for _, r := range ps {
		last := r.last
		if last == 0 || last > n {
			last = n
		}
		for p := r.first; p <= last; p++ {
			out = append(out, p-1)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
