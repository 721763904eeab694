package domain

import (
	"fmt"
	"math"
)

// band is one bucket of an ordered threshold table. A value v falls in the
// bucket when min <= v < max.
type band[T any] struct {
	min, max float64
	value    T
}

// bandTable classifies a continuous value into a label. Buckets are ordered,
// non-empty and contiguous; values outside every bucket (including NaN)
// resolve to unknown.
type bandTable[T any] struct {
	name    string
	bands   []band[T]
	unknown T
}

// newBandTable validates the buckets and panics on a malformed table. Tables
// are package-level vars, so a bad table fails at process start.
func newBandTable[T any](name string, unknown T, bands ...band[T]) bandTable[T] {
	if len(bands) == 0 {
		panic(fmt.Sprintf("band table %s: no buckets", name))
	}
	for i, b := range bands {
		if !(b.min < b.max) {
			panic(fmt.Sprintf("band table %s: bucket %d has min %v >= max %v", name, i, b.min, b.max))
		}
		if i > 0 && bands[i-1].max != b.min {
			panic(fmt.Sprintf("band table %s: gap between bucket %d and %d", name, i-1, i))
		}
	}
	return bandTable[T]{name: name, bands: bands, unknown: unknown}
}

func (t bandTable[T]) classify(v float64) T {
	for _, b := range t.bands {
		if v >= b.min && v < b.max {
			return b.value
		}
	}
	return t.unknown
}

var inf = math.Inf(1)
