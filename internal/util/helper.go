package util

// CloneSlice clones slice with cloneSize.
// This function will use src length as the clone size if cloneSize is 0.
// When cloneSize is smaller than len(src), only the first cloneSize
// elements are copied.
func CloneSlice[T any](src []T, cloneSize int) []T {
	if cloneSize == 0 {
		cloneSize = len(src)
	}
	clone := make([]T, cloneSize)
	copy(clone, src)

	return clone
}
