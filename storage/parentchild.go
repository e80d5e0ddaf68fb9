package storage

import "sort"

// ParentChild computes, for each parent span, the indices of child spans
// contained in it, bounds inclusive (spec.md section 4.7). parents and children
// must each individually satisfy ValidateMonotone; this function does not
// mutate its inputs.
//
// Algorithm: co-sort by start offset (both inputs are already sorted by
// construction), two-pointer sweep. A child with no containing parent is
// reported in orphans.
func ParentChild(parents, children []Span) (childrenOf map[int][]int, orphans []int) {
	childrenOf = make(map[int][]int)

	type indexed struct {
		span Span
		idx  int
	}

	sortedParents := make([]indexed, len(parents))
	for i, s := range parents {
		sortedParents[i] = indexed{s, i}
	}

	sort.SliceStable(sortedParents, func(i, j int) bool {
		return sortedParents[i].span.Compare(sortedParents[j].span) < 0
	})

	sortedChildren := make([]indexed, len(children))
	for i, s := range children {
		sortedChildren[i] = indexed{s, i}
	}

	sort.SliceStable(sortedChildren, func(i, j int) bool {
		return sortedChildren[i].span.Compare(sortedChildren[j].span) < 0
	})

	pi := 0

	for _, c := range sortedChildren {
		// Advance past parents that end before this child starts.
		for pi < len(sortedParents) && sortedParents[pi].span.End <= c.span.Start {
			pi++
		}

		found := false

		// Scan forward from pi for a parent containing c; parents can
		// overlap in principle, so we check a short run rather than
		// assume pi alone is the answer.
		for k := pi; k < len(sortedParents) && sortedParents[k].span.Start <= c.span.Start; k++ {
			p := sortedParents[k]
			if p.span.Start <= c.span.Start && c.span.End <= p.span.End {
				childrenOf[p.idx] = append(childrenOf[p.idx], c.idx)
				found = true

				break
			}
		}

		if !found {
			orphans = append(orphans, c.idx)
		}
	}

	for _, v := range childrenOf {
		sort.Ints(v)
	}

	sort.Ints(orphans)

	return childrenOf, orphans
}
