package util

// CloneSlice clones slice with cloneSize.
// This function will use src length as the clone size if cloneSize is 0.
// When cloneSize exceeds len(src) the tail is zero-filled; when it is smaller, src is truncated.
func CloneSlice[T any](src []T, cloneSize int) []T {
	if cloneSize == 0 {
		cloneSize = len(src)
	}
	clone := make([]T, cloneSize)
	copy(clone, src)

	return clone
}

// ClampLen limits n to [0, limit] and reports whether it had to be reduced.
func ClampLen(n, limit int) (int, bool) {
	switch {
	case n < 0:
		return 0, false
	case n > limit:
		return limit, true
	default:
		return n, false
	}
}
