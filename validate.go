package bipbuffer

import "fmt"

// Validate checks the region layout and returns an *InvariantError for the
// first inconsistency found, or nil.
func (b *Buffer[T]) Validate() error {
	n := len(b.data)

	regions := []struct {
		name string
		r    Region
		live bool
	}{
		{"a", b.a, true},
		{"b", b.b, true},
		{"reservation", b.res, b.reserved},
	}
	for _, x := range regions {
		if !x.live {
			continue
		}
		if x.r.Start < 0 || x.r.Len < 0 || x.r.End() > n {
			return &InvariantError{
				Invariant: "bounds",
				Detail:    fmt.Sprintf("%s %+v outside storage of %d", x.name, x.r, n),
			}
		}
	}

	if b.a.Len == 0 && b.b.Len > 0 {
		return &InvariantError{Invariant: "b-trails-a", Detail: fmt.Sprintf("b %+v with empty a", b.b)}
	}
	if b.b.Len > 0 && b.b.Start != 0 {
		return &InvariantError{Invariant: "b-at-head", Detail: fmt.Sprintf("b %+v", b.b)}
	}

	for i := 0; i < len(regions); i++ {
		for j := i + 1; j < len(regions); j++ {
			if !regions[i].live || !regions[j].live {
				continue
			}
			if regions[i].r.overlaps(regions[j].r) {
				return &InvariantError{
					Invariant: "no-overlap",
					Detail: fmt.Sprintf("%s %+v overlaps %s %+v",
						regions[i].name, regions[i].r, regions[j].name, regions[j].r),
				}
			}
		}
	}

	// a commit appends to a or to b, so the reservation has to sit right after one of them
	if b.reserved && b.a.Len > 0 && b.res.Start != b.a.End() && b.res.Start != b.b.End() {
		return &InvariantError{
			Invariant: "growth-point",
			Detail:    fmt.Sprintf("reservation %+v not after a %+v or b %+v", b.res, b.a, b.b),
		}
	}

	if used := b.a.Len + b.b.Len + b.res.Len; used > n {
		return &InvariantError{
			Invariant: "capacity",
			Detail:    fmt.Sprintf("%d elements in use with capacity %d", used, n),
		}
	}
	return nil
}
