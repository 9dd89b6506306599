package variant

// CartesianProduct returns every combination that picks one element from
// each list. The first list varies slowest. With no lists the result is a
// single empty combination.
func CartesianProduct[T any](lists [][]T) [][]T {
	result := [][]T{{}}
	for _, list := range lists {
		next := make([][]T, 0, len(result)*len(list))
		for _, prefix := range result {
			for _, item := range list {
				combo := make([]T, len(prefix), len(prefix)+1)
				copy(combo, prefix)
				next = append(next, append(combo, item))
			}
		}
		result = next
	}
	return result
}
