package container

import (
	"math"
	"sort"
)

// ── Ordering policy ───────────────────────────────────────────────────────────

// Tier is an extension's ordering-contract level, computed once at discovery
// time via capability introspection rather than re-tested on every compare.
type Tier int

const (
	// TierPriority covers extensions implementing Prioritized.
	TierPriority Tier = iota
	// TierOrdered covers extensions implementing Ordered but not Prioritized.
	TierOrdered
	// TierUnordered covers extensions declaring no ordering contract.
	TierUnordered
)

// Comparator ranks two extension instances; a negative result sorts a before
// b. Containers may supply their own via ComparatorSource, which replaces
// DefaultComparator outright.
type Comparator func(a, b any) int

// TierOf returns the ordering tier of an extension instance.
func TierOf(v any) Tier {
	switch v.(type) {
	case Prioritized:
		return TierPriority
	case Ordered:
		return TierOrdered
	default:
		return TierUnordered
	}
}

// OrderOf returns the declared numeric order of v. Instances without an
// ordering contract sort last within their tier.
func OrderOf(v any) int {
	if o, ok := v.(Ordered); ok {
		return o.Order()
	}
	return math.MaxInt
}

// DefaultComparator ranks by tier, then by ascending declared order.
//
//	// Spring: OrderComparator.INSTANCE
func DefaultComparator(a, b any) int {
	if ta, tb := TierOf(a), TierOf(b); ta != tb {
		return int(ta) - int(tb)
	}
	oa, ob := OrderOf(a), OrderOf(b)
	switch {
	case oa < ob:
		return -1
	case oa > ob:
		return 1
	default:
		return 0
	}
}

// SortExtensions orders exts in place under cmp (DefaultComparator when nil).
// The sort is stable: equal-order extensions keep their discovery order, and
// unordered extensions are never reordered relative to each other. Lists of
// size <= 1 are returned untouched.
func SortExtensions[T any](exts []T, cmp Comparator) {
	if len(exts) <= 1 {
		return
	}
	if cmp == nil {
		cmp = DefaultComparator
	}
	sort.SliceStable(exts, func(i, j int) bool {
		return cmp(exts[i], exts[j]) < 0
	})
}

// comparatorFor picks the factory-supplied comparator when one exists.
func comparatorFor(f ExtensionFactory) Comparator {
	if src, ok := f.(ComparatorSource); ok {
		if cmp := src.OrderingComparator(); cmp != nil {
			return cmp
		}
	}
	return DefaultComparator
}
