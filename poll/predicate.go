package poll

// AllBits holds when every bit of mask is set: (v & mask) == mask.
func AllBits(mask int) Predicate[int] {
	return func(v int) bool {
		return v&mask == mask
	}
}

// AnyBit holds when at least one bit of mask is set.
func AnyBit(mask int) Predicate[int] {
	return func(v int) bool {
		return v&mask != 0
	}
}

// NoBit holds when none of the bits of mask are set.
func NoBit(mask int) Predicate[int] {
	return func(v int) bool {
		return v&mask == 0
	}
}
